package main

import (
	"expvar"
	"net/http"

	"BowlingLeagueApi/internal/data"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (app *application) routes() http.Handler {
	router := chi.NewRouter()

	router.NotFound(app.notFoundResponse)
	router.MethodNotAllowed(app.methodNotAllowedResponse)

	router.Use(app.requestID)
	router.Use(app.metrics)
	router.Use(app.recoverPanic)
	router.Use(app.enableCORS)
	router.Use(app.rateLimit)
	router.Use(app.authenticate)

	router.Get("/v1/healthcheck", app.healthcheckHandler)
	router.Method(http.MethodGet, "/debug/vars", expvar.Handler())
	router.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(app.registry, promhttp.HandlerOpts{}))

	router.Post("/v1/users", app.registerUserHandler)
	router.Put("/v1/users/activated", app.activateUserHandler)
	router.Post("/v1/tokens/authentication", app.createAuthenticationTokenHandler)

	// Spectators follow a match by its public pin.
	router.Get("/v1/live/{pin}", app.watchMatchHandler)

	router.Route("/v1/leagues", func(router chi.Router) {
		router.With(app.permitted(data.PermissionMatchesRead)).Get("/", app.listLeaguesHandler)
		router.With(app.permitted(data.PermissionMatchesRead)).Get("/{id}", app.showLeagueHandler)

		router.Group(func(router chi.Router) {
			router.Use(app.permitted(data.PermissionLeaguesWrite))
			router.Post("/", app.createLeagueHandler)
			router.Patch("/{id}", app.updateLeagueHandler)
			router.Delete("/{id}", app.deleteLeagueHandler)
		})
	})

	router.Route("/v1/teams", func(router chi.Router) {
		router.With(app.permitted(data.PermissionMatchesRead)).Get("/", app.listTeamsHandler)
		router.With(app.permitted(data.PermissionMatchesRead)).Get("/{id}", app.showTeamHandler)

		router.Group(func(router chi.Router) {
			router.Use(app.permitted(data.PermissionLeaguesWrite))
			router.Post("/", app.createTeamHandler)
			router.Patch("/{id}", app.updateTeamHandler)
			router.Delete("/{id}", app.deleteTeamHandler)
		})
	})

	router.Route("/v1/matches", func(router chi.Router) {
		router.Group(func(router chi.Router) {
			router.Use(app.permitted(data.PermissionMatchesRead))
			router.Get("/", app.listMatchesHandler)
			router.Get("/{id}", app.showMatchHandler)
			router.Get("/{id}/structure", app.showMatchStructureHandler)
			router.Get("/{id}/stats", app.showMatchStatsHandler)
		})

		router.Group(func(router chi.Router) {
			router.Use(app.permitted(data.PermissionMatchesWrite))
			router.Post("/", app.createMatchHandler)
			router.Patch("/{id}", app.updateMatchHandler)
			router.Delete("/{id}", app.deleteMatchHandler)
			router.Post("/{id}/frames", app.generateFramesHandler)
			router.Delete("/{id}/frames", app.clearFramesHandler)
			router.Post("/{id}/cancel", app.cancelMatchHandler)
		})

		router.Group(func(router chi.Router) {
			router.Use(app.permitted(data.PermissionScoresWrite))
			router.Post("/{id}/open", app.openMatchHandler)
			router.Post("/{id}/finish", app.finishMatchHandler)
			router.Post("/{id}/scores", app.recordScoresHandler)
			router.Post("/{id}/scoresheet", app.uploadScoresheetHandler)
			router.Post("/{id}/rolls", app.addRollHandler)
			router.Post("/{id}/rolls/copy", app.copyRollsHandler)
			router.Patch("/{id}/rolls/{rollID}", app.updateRollHandler)
			router.Delete("/{id}/rolls/{rollID}", app.deleteRollHandler)
		})
	})

	router.Group(func(router chi.Router) {
		router.Use(app.permitted(data.PermissionMatchesRead))
		router.Get("/v1/rankings/players", app.playerRankingHandler)
		router.Get("/v1/rankings/teams", app.teamRankingHandler)
		router.Get("/v1/stats/players", app.playerStatsHandler)
		router.Get("/v1/stats/players/{id}/history.png", app.playerHistoryChartHandler)
	})

	return router
}
