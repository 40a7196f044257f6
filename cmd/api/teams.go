package main

import (
	"errors"
	"fmt"
	"net/http"

	"BowlingLeagueApi/internal/data"
	"BowlingLeagueApi/internal/validator"
)

func (app *application) teamStoreErrorResponse(w http.ResponseWriter, r *http.Request, err error,
	v *validator.Validator) {
	switch {
	case errors.Is(err, data.ErrDuplicateTeamName):
		v.AddError("name", "must be unique")
		app.failedValidationResponse(w, r, v.Errors)
	case errors.Is(err, data.ErrDuplicatePlayer):
		v.AddError("player_ids", "one or more players are already assigned to the team")
		app.failedValidationResponse(w, r, v.Errors)
	case errors.Is(err, data.ErrPlayerNotFound):
		v.AddError("player_ids", "one or more players could not be found on the team or at all")
		app.failedValidationResponse(w, r, v.Errors)
	case errors.Is(err, data.ErrTeamNotFound):
		app.notFoundResponse(w, r)
	case errors.Is(err, data.ErrEditConflict):
		app.editConflictResponse(w, r)
	default:
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) createTeamHandler(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Name      string  `json:"name"`
		LeagueID  *int64  `json:"league_id"`
		PlayerIDs []int64 `json:"player_ids"`
	}

	err := app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	team := &data.Team{
		Name:      input.Name,
		LeagueID:  input.LeagueID,
		PlayerIDs: input.PlayerIDs,
		UserID:    app.contextGetUser(r).ID,
	}

	v := validator.New()
	if data.ValidateTeam(v, team); !v.Valid() {
		app.failedValidationResponse(w, r, v.Errors)
		return
	}

	err = app.models.Teams.Insert(r.Context(), team)
	if err != nil {
		app.teamStoreErrorResponse(w, r, err, v)
		return
	}

	headers := make(http.Header)
	headers.Set("Location", fmt.Sprintf("/v1/teams/%d", team.ID))
	err = app.writeJSON(w, http.StatusCreated, envelope{"team": team}, headers)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) showTeamHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r, "id")
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	team, err := app.models.Teams.Get(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"team": team}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) listTeamsHandler(w http.ResponseWriter, r *http.Request) {
	v := validator.New()
	qs := r.URL.Query()

	leagueID := app.readOptionalID(qs, "league_id", v)

	filters := data.Filters{
		Page:         app.readInt(qs, "page", 1, v),
		PageSize:     app.readInt(qs, "page_size", 20, v),
		Sort:         app.readString(qs, "sort", "name"),
		SortSafeList: []string{"id", "name", "size", "-id", "-name", "-size"},
	}

	if data.ValidateFilters(v, filters); !v.Valid() {
		app.failedValidationResponse(w, r, v.Errors)
		return
	}

	teams, metadata, err := app.models.Teams.GetAll(r.Context(), leagueID, filters)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"metadata": metadata, "teams": teams}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) updateTeamHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r, "id")
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	team, err := app.models.Teams.Get(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	var input struct {
		Name      *string `json:"name"`
		LeagueID  *int64  `json:"league_id"`
		IsActive  *bool   `json:"is_active"`
		PlayerIDs []int64 `json:"player_ids"`
	}

	err = app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	v := validator.New()

	if input.Name != nil {
		team.Name = *input.Name
	}
	if input.LeagueID != nil {
		team.LeagueID = input.LeagueID
	}
	if input.IsActive != nil {
		team.IsActive = *input.IsActive
	}
	team.PlayerIDs = input.PlayerIDs

	if data.ValidateTeam(v, team); !v.Valid() {
		app.failedValidationResponse(w, r, v.Errors)
		return
	}

	err = app.models.Teams.Update(r.Context(), team)
	if err != nil {
		app.teamStoreErrorResponse(w, r, err, v)
		return
	}

	team, err = app.models.Teams.Get(r.Context(), id)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"team": team}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) deleteTeamHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r, "id")
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	err = app.models.Teams.Delete(r.Context(), id, app.contextGetUser(r).ID)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"message": "team successfully deleted"}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
