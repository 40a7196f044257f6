package main

import (
	"errors"
	"fmt"
	"net/http"

	"BowlingLeagueApi/internal/data"
	"BowlingLeagueApi/internal/validator"
)

func (app *application) createLeagueHandler(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Name      string  `json:"name"`
		PlayerIDs []int64 `json:"player_ids"`
	}

	err := app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	league := &data.League{
		Name:      input.Name,
		PlayerIDs: input.PlayerIDs,
		UserID:    app.contextGetUser(r).ID,
	}

	v := validator.New()
	if data.ValidateLeague(v, league); !v.Valid() {
		app.failedValidationResponse(w, r, v.Errors)
		return
	}

	err = app.models.Leagues.Insert(r.Context(), league)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrDuplicateLeagueName):
			v.AddError("name", "must be unique")
			app.failedValidationResponse(w, r, v.Errors)
		case errors.Is(err, data.ErrPlayerNotFound):
			v.AddError("player_ids", "one or more players could not be found")
			app.failedValidationResponse(w, r, v.Errors)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	headers := make(http.Header)
	headers.Set("Location", fmt.Sprintf("/v1/leagues/%d", league.ID))
	err = app.writeJSON(w, http.StatusCreated, envelope{"league": league}, headers)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) showLeagueHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r, "id")
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	league, err := app.models.Leagues.Get(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"league": league}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) listLeaguesHandler(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Name string
		data.Filters
	}

	v := validator.New()
	qs := r.URL.Query()

	input.Name = app.readString(qs, "name", "")
	input.Filters.Page = app.readInt(qs, "page", 1, v)
	input.Filters.PageSize = app.readInt(qs, "page_size", 20, v)
	input.Filters.Sort = app.readString(qs, "sort", "name")
	input.Filters.SortSafeList = []string{"id", "name", "-id", "-name"}

	if data.ValidateFilters(v, input.Filters); !v.Valid() {
		app.failedValidationResponse(w, r, v.Errors)
		return
	}

	leagues, metadata, err := app.models.Leagues.GetAll(r.Context(), app.contextGetUser(r).ID,
		input.Name, input.Filters)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"metadata": metadata, "leagues": leagues}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) updateLeagueHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r, "id")
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	league, err := app.models.Leagues.Get(r.Context(), id)
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
		IsActive  *bool   `json:"is_active"`
		PlayerIDs []int64 `json:"player_ids"`
	}

	err = app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if input.Name != nil {
		league.Name = *input.Name
	}
	if input.IsActive != nil {
		league.IsActive = *input.IsActive
	}
	league.PlayerIDs = input.PlayerIDs

	v := validator.New()
	if data.ValidateLeague(v, league); !v.Valid() {
		app.failedValidationResponse(w, r, v.Errors)
		return
	}

	err = app.models.Leagues.Update(r.Context(), league)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrDuplicateLeagueName):
			v.AddError("name", "must be unique")
			app.failedValidationResponse(w, r, v.Errors)
		case errors.Is(err, data.ErrPlayerNotFound):
			v.AddError("player_ids", "one or more players could not be found")
			app.failedValidationResponse(w, r, v.Errors)
		case errors.Is(err, data.ErrEditConflict):
			app.editConflictResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	league, err = app.models.Leagues.Get(r.Context(), id)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"league": league}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) deleteLeagueHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r, "id")
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	err = app.models.Leagues.Delete(r.Context(), id, app.contextGetUser(r).ID)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"message": "league successfully deleted"}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
