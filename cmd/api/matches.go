package main

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"BowlingLeagueApi/internal/bowling"
	"BowlingLeagueApi/internal/data"
	"BowlingLeagueApi/internal/stats"
	"BowlingLeagueApi/internal/validator"
)

// loadMatch reads the {id} parameter and fetches the match with its frames.
// It answers the request itself when it returns false.
func (app *application) loadMatch(w http.ResponseWriter, r *http.Request) (*bowling.Match, bool) {
	id, err := app.readIDParam(r, "id")
	if err != nil {
		app.notFoundResponse(w, r)
		return nil, false
	}

	match, err := app.models.Matches.Get(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return nil, false
	}

	return match, true
}

func (app *application) writeScoreboard(w http.ResponseWriter, r *http.Request, status int,
	match *bowling.Match, extra envelope) {
	players, err := app.models.Players.Directory(r.Context(), match.Players())
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	env := envelope{"match": match, "scoreboard": bowling.NewScoreboard(match, players)}
	for k, v := range extra {
		env[k] = v
	}

	err = app.writeJSON(w, status, env, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) createMatchHandler(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Date     time.Time `json:"date"`
		LeagueID *int64    `json:"league_id"`
		TeamAID  *int64    `json:"team_a_id"`
		TeamBID  *int64    `json:"team_b_id"`
		Notes    string    `json:"notes"`
	}

	err := app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	match := bowling.NewMatch(input.Date, input.LeagueID, app.contextGetUser(r).ID)
	match.TeamAID = input.TeamAID
	match.TeamBID = input.TeamBID
	match.Notes = input.Notes

	v := validator.New()
	if data.ValidateMatch(v, match); !v.Valid() {
		app.failedValidationResponse(w, r, v.Errors)
		return
	}

	err = app.models.Matches.Insert(r.Context(), match)
	if err != nil {
		app.scoringErrorResponse(w, r, err)
		return
	}

	headers := make(http.Header)
	headers.Set("Location", fmt.Sprintf("/v1/matches/%d", match.ID))
	err = app.writeJSON(w, http.StatusCreated, envelope{"match": match}, headers)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) showMatchHandler(w http.ResponseWriter, r *http.Request) {
	match, ok := app.loadMatch(w, r)
	if !ok {
		return
	}

	app.writeScoreboard(w, r, http.StatusOK, match, nil)
}

func (app *application) showMatchStructureHandler(w http.ResponseWriter, r *http.Request) {
	match, ok := app.loadMatch(w, r)
	if !ok {
		return
	}

	err := app.writeJSON(w, http.StatusOK, envelope{"structure": bowling.DescribeStructure(match)}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) showMatchStatsHandler(w http.ResponseWriter, r *http.Request) {
	match, ok := app.loadMatch(w, r)
	if !ok {
		return
	}

	err := app.writeJSON(w, http.StatusOK, envelope{"stats": stats.MatchStatlines(match)}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) listMatchesHandler(w http.ResponseWriter, r *http.Request) {
	var filter data.MatchFilter

	v := validator.New()
	qs := r.URL.Query()

	filter.LeagueID = app.readOptionalID(qs, "league_id", v)
	filter.TeamID = app.readOptionalID(qs, "team_id", v)
	filter.PlayerID = app.readOptionalID(qs, "player_id", v)
	filter.Status = app.readString(qs, "status", "")
	filter.Dates = data.DateRange{
		AfterDate:  app.readDate(qs, "after_date", v),
		BeforeDate: app.readDate(qs, "before_date", v),
	}
	filter.Filters = data.Filters{
		Page:         app.readInt(qs, "page", 1, v),
		PageSize:     app.readInt(qs, "page_size", 20, v),
		Sort:         app.readString(qs, "sort", "-date"),
		SortSafeList: []string{"id", "date", "status", "-id", "-date", "-status"},
	}

	if data.ValidateMatchFilter(v, filter); !v.Valid() {
		app.failedValidationResponse(w, r, v.Errors)
		return
	}

	matches, metadata, err := app.models.Matches.GetAll(r.Context(), filter)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"metadata": metadata, "matches": matches}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) updateMatchHandler(w http.ResponseWriter, r *http.Request) {
	match, ok := app.loadMatch(w, r)
	if !ok {
		return
	}

	if r.Header.Get("X-Expected-Version") != "" {
		if strconv.Itoa(match.Version) != r.Header.Get("X-Expected-Version") {
			app.editConflictResponse(w, r)
			return
		}
	}

	var input struct {
		Date  *time.Time `json:"date"`
		Notes *string    `json:"notes"`
	}

	err := app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if input.Notes != nil {
		match.Notes = *input.Notes
	}

	v := validator.New()
	if input.Date != nil {
		v.Check(!input.Date.IsZero(), "date", "must be provided")
	}
	if data.ValidateMatch(v, match); !v.Valid() {
		app.failedValidationResponse(w, r, v.Errors)
		return
	}

	actor := app.contextGetUser(r).ID
	if input.Date != nil && !input.Date.Equal(match.Date) {
		err = app.matches.Reschedule(r.Context(), match, *input.Date, actor)
	} else {
		match.UpdatedBy = actor
		err = app.models.Matches.Update(r.Context(), match)
	}
	if err != nil {
		app.scoringErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"match": match}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) deleteMatchHandler(w http.ResponseWriter, r *http.Request) {
	match, ok := app.loadMatch(w, r)
	if !ok {
		return
	}

	if match.Status != bowling.StatusDraft && match.Status != bowling.StatusCancelled {
		app.scoringErrorResponse(w, r, &bowling.DomainError{
			Op:     "delete match",
			Reason: fmt.Sprintf("a %s match cannot be deleted", match.Status),
		})
		return
	}

	err := app.models.Matches.Delete(r.Context(), match.ID)
	if err != nil {
		app.scoringErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"message": "match successfully deleted"}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) generateFramesHandler(w http.ResponseWriter, r *http.Request) {
	match, ok := app.loadMatch(w, r)
	if !ok {
		return
	}

	var input bowling.GenerateRequest
	err := app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	err = app.matches.Generate(r.Context(), match, input, app.contextGetUser(r).ID)
	if err != nil {
		app.scoringErrorResponse(w, r, err)
		return
	}

	app.writeScoreboard(w, r, http.StatusCreated, match, nil)
}

func (app *application) clearFramesHandler(w http.ResponseWriter, r *http.Request) {
	match, ok := app.loadMatch(w, r)
	if !ok {
		return
	}

	err := app.matches.ClearFrames(r.Context(), match, app.contextGetUser(r).ID)
	if err != nil {
		app.scoringErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"match": match}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) openMatchHandler(w http.ResponseWriter, r *http.Request) {
	match, ok := app.loadMatch(w, r)
	if !ok {
		return
	}

	err := app.matches.OpenScoring(r.Context(), match, app.contextGetUser(r).ID)
	if err != nil {
		app.scoringErrorResponse(w, r, err)
		return
	}

	app.writeScoreboard(w, r, http.StatusOK, match, nil)
}

func (app *application) finishMatchHandler(w http.ResponseWriter, r *http.Request) {
	match, ok := app.loadMatch(w, r)
	if !ok {
		return
	}

	err := app.matches.Finish(r.Context(), match, app.contextGetUser(r).ID)
	if err != nil {
		app.scoringErrorResponse(w, r, err)
		return
	}

	app.writeScoreboard(w, r, http.StatusOK, match, nil)
}

func (app *application) cancelMatchHandler(w http.ResponseWriter, r *http.Request) {
	match, ok := app.loadMatch(w, r)
	if !ok {
		return
	}

	err := app.matches.Cancel(r.Context(), match, app.contextGetUser(r).ID)
	if err != nil {
		app.scoringErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"match": match}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
