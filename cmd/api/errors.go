package main

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"BowlingLeagueApi/internal/bowling"
	"BowlingLeagueApi/internal/data"
)

func (app *application) logError(r *http.Request, err error) {
	app.logger.Error(err.Error(),
		slog.String("request_method", r.Method),
		slog.String("request_url", r.URL.String()),
		slog.String("request_id", contextGetRequestID(r)))
}

func (app *application) errorResponse(w http.ResponseWriter, r *http.Request, status int,
	message any) {
	response := envelope{"error": message}

	err := app.writeJSON(w, status, response, nil)
	if err != nil {
		app.logError(r, err)
		w.WriteHeader(http.StatusInternalServerError)
	}
}

func (app *application) serverErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.logError(r, err)

	message := "the server encountered a problem and could not process your request"
	app.errorResponse(w, r, http.StatusInternalServerError, message)
}

func (app *application) notFoundResponse(w http.ResponseWriter, r *http.Request) {
	message := "the requested resource could not be found"
	app.errorResponse(w, r, http.StatusNotFound, message)
}

func (app *application) methodNotAllowedResponse(w http.ResponseWriter, r *http.Request) {
	message := fmt.Sprintf("the %s method is not supported for this resource", r.Method)
	app.errorResponse(w, r, http.StatusMethodNotAllowed, message)
}

func (app *application) badRequestResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.errorResponse(w, r, http.StatusBadRequest, err.Error())
}

func (app *application) failedValidationResponse(w http.ResponseWriter, r *http.Request,
	errors map[string]string) {
	app.errorResponse(w, r, http.StatusUnprocessableEntity, errors)
}

func (app *application) editConflictResponse(w http.ResponseWriter, r *http.Request) {
	message := "unable to update the record due to an edit conflict, please try again"
	app.errorResponse(w, r, http.StatusConflict, message)
}

func (app *application) rateLimitExceededResponse(w http.ResponseWriter, r *http.Request) {
	message := "rate limit exceeded"
	app.errorResponse(w, r, http.StatusTooManyRequests, message)
}

func (app *application) invalidCredentialsResponse(w http.ResponseWriter, r *http.Request) {
	message := "invalid authentication credentials"
	app.errorResponse(w, r, http.StatusUnauthorized, message)
}

func (app *application) invalidAuthenticationTokenResponse(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("WWW-Authenticate", "Bearer")

	message := "invalid or missing authentication token"
	app.errorResponse(w, r, http.StatusUnauthorized, message)
}

func (app *application) authenticationRequiredResponse(w http.ResponseWriter, r *http.Request) {
	message := "you must be authenticated to access this resource"
	app.errorResponse(w, r, http.StatusUnauthorized, message)
}

func (app *application) inactiveAccountResponse(w http.ResponseWriter, r *http.Request) {
	message := "your user account must be activated to access this resource"
	app.errorResponse(w, r, http.StatusForbidden, message)
}

func (app *application) notPermittedResponse(w http.ResponseWriter, r *http.Request) {
	message := "your user account doesn't have the necessary permissions to access this resource"
	app.errorResponse(w, r, http.StatusForbidden, message)
}

// scoringErrorResponse answers with the status matching an engine or store
// error: rejected rolls and bad setups are 422, state conflicts 409, missing
// references 404.
func (app *application) scoringErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	var (
		validationErr      *bowling.ValidationError
		domainErr          *bowling.DomainError
		notFoundErr        *bowling.NotFoundError
		modelValidationErr data.ModelValidationErr
	)

	switch {
	case errors.As(err, &validationErr):
		app.errorResponse(w, r, http.StatusUnprocessableEntity, envelope{
			"rule":    validationErr.Rule,
			"message": validationErr.Error(),
		})
	case errors.As(err, &domainErr) && len(domainErr.Problems) > 0:
		app.errorResponse(w, r, http.StatusUnprocessableEntity, envelope{
			"message":  domainErr.Reason,
			"problems": domainErr.Problems,
		})
	case errors.As(err, &domainErr):
		app.errorResponse(w, r, http.StatusConflict, domainErr.Error())
	case errors.As(err, &notFoundErr):
		app.errorResponse(w, r, http.StatusNotFound, notFoundErr.Error())
	case errors.As(err, &modelValidationErr):
		app.failedValidationResponse(w, r, modelValidationErr.Errors)
	case errors.Is(err, data.ErrRecordNotFound):
		app.notFoundResponse(w, r)
	case errors.Is(err, data.ErrEditConflict):
		app.editConflictResponse(w, r)
	case errors.Is(err, data.ErrDuplicateRoll):
		app.errorResponse(w, r, http.StatusConflict, string(bowling.RuleDuplicateRoll))
	default:
		app.serverErrorResponse(w, r, err)
	}
}
