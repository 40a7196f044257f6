package main

import (
	"errors"
	"fmt"
	"net/http"
	"slices"

	"BowlingLeagueApi/internal/bowling"
	"BowlingLeagueApi/internal/stats"
	"BowlingLeagueApi/internal/validator"
)

// finishedMatches loads finished matches, narrowed to ?league_id when given.
func (app *application) finishedMatches(w http.ResponseWriter, r *http.Request) ([]*bowling.Match, bool) {
	v := validator.New()
	leagueID := app.readOptionalID(r.URL.Query(), "league_id", v)
	if !v.Valid() {
		app.failedValidationResponse(w, r, v.Errors)
		return nil, false
	}

	matches, err := app.models.Matches.GetFinished(r.Context(), leagueID)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return nil, false
	}
	return matches, true
}

func (app *application) playerDirectory(r *http.Request, matches []*bowling.Match) (map[int64]bowling.Player, error) {
	var ids []int64
	for _, m := range matches {
		for _, id := range m.Players() {
			if !slices.Contains(ids, id) {
				ids = append(ids, id)
			}
		}
	}
	return app.models.Players.Directory(r.Context(), ids)
}

func (app *application) playerRankingHandler(w http.ResponseWriter, r *http.Request) {
	matches, ok := app.finishedMatches(w, r)
	if !ok {
		return
	}

	players, err := app.playerDirectory(r, matches)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"ranking": stats.IndividualRanking(matches, players)}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) teamRankingHandler(w http.ResponseWriter, r *http.Request) {
	matches, ok := app.finishedMatches(w, r)
	if !ok {
		return
	}

	var ids []int64
	for _, m := range matches {
		if !m.IsTeamMatch() {
			continue
		}
		for _, id := range []int64{*m.TeamAID, *m.TeamBID} {
			if !slices.Contains(ids, id) {
				ids = append(ids, id)
			}
		}
	}

	names, err := app.models.Teams.GetNames(r.Context(), ids)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"ranking": stats.TeamRanking(matches, names)}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) playerStatsHandler(w http.ResponseWriter, r *http.Request) {
	matches, ok := app.finishedMatches(w, r)
	if !ok {
		return
	}

	players, err := app.playerDirectory(r, matches)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"players": stats.PlayerStatistics(matches, players)}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) playerHistoryChartHandler(w http.ResponseWriter, r *http.Request) {
	playerID, err := app.readIDParam(r, "id")
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	matches, ok := app.finishedMatches(w, r)
	if !ok {
		return
	}

	players, err := app.models.Players.Directory(r.Context(), []int64{playerID})
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
	player, ok := players[playerID]
	if !ok {
		app.notFoundResponse(w, r)
		return
	}

	png, err := stats.ScoreHistoryChart(stats.ScoreHistory(matches, playerID),
		fmt.Sprintf("%s score history", player.FullName()))
	if err != nil {
		switch {
		case errors.Is(err, stats.ErrNotEnoughHistory):
			app.errorResponse(w, r, http.StatusUnprocessableEntity, err.Error())
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}
