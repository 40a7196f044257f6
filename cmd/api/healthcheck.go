package main

import (
	"net/http"
	"strings"
)

func (app *application) healthcheckHandler(w http.ResponseWriter, r *http.Request) {
	err := app.writeJSON(w, http.StatusOK, envelope{
		"status": "available",
		"system_info": map[string]string{
			"environment": app.config.Env,
			"version":     version,
		},
		"cors_info": map[string]string{
			"trusted_origins": strings.Join(app.config.CORS.TrustedOrigins, " | "),
		},
		"live_matches": app.live.Active(),
	}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
