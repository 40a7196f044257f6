package main

import (
	"errors"
	"log/slog"
	"net/http"

	"BowlingLeagueApi/internal/data"
	"BowlingLeagueApi/internal/gamehub"
	"BowlingLeagueApi/internal/pins"

	"github.com/go-chi/chi/v5"
)

func (app *application) watchMatchHandler(w http.ResponseWriter, r *http.Request) {
	pin := chi.URLParam(r, "pin")
	if !pins.Valid(pin) {
		app.notFoundResponse(w, r)
		return
	}

	match, err := app.models.Matches.GetByPin(r.Context(), pin)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.live.Watch(w, r, match)
	switch {
	case errors.Is(err, gamehub.ErrSnapshot):
		app.serverErrorResponse(w, r, err)
	case err != nil:
		app.logger.Warn("live watch not started", slog.String("pin", pin), slog.String("error", err.Error()))
	}
}
