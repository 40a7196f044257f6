package main

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"BowlingLeagueApi/internal/assert"
	"BowlingLeagueApi/internal/bowling"
	"BowlingLeagueApi/internal/data"
)

func TestScoringErrorResponse(t *testing.T) {
	app := newTestApplication(t)

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantBody   string
	}{
		{
			name:       "Rejected Roll",
			err:        &bowling.ValidationError{PlayerID: 3, RollNumber: 2, Rule: bowling.RuleFrameOverflow},
			wantStatus: http.StatusUnprocessableEntity,
			wantBody:   string(bowling.RuleFrameOverflow),
		},
		{
			name: "Bad Setup",
			err: &bowling.DomainError{Op: "generate frames", Reason: "invalid game data",
				Problems: []string{"start lane must be 1 or greater"}},
			wantStatus: http.StatusUnprocessableEntity,
			wantBody:   "start lane must be 1 or greater",
		},
		{
			name:       "State Conflict",
			err:        fmt.Errorf("cancel: %w", &bowling.DomainError{Op: "cancel", Reason: "match is already finished"}),
			wantStatus: http.StatusConflict,
			wantBody:   "match is already finished",
		},
		{
			name:       "Missing Frame",
			err:        &bowling.NotFoundError{Kind: "frame", ID: 12},
			wantStatus: http.StatusNotFound,
			wantBody:   "frame 12 not found",
		},
		{
			name:       "Unknown Team",
			err:        data.ModelValidationErr{Errors: map[string]string{"team_a_id": "team not found"}},
			wantStatus: http.StatusUnprocessableEntity,
			wantBody:   "team not found",
		},
		{
			name:       "Record Not Found",
			err:        data.ErrRecordNotFound,
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "Edit Conflict",
			err:        fmt.Errorf("store: %w", data.ErrEditConflict),
			wantStatus: http.StatusConflict,
			wantBody:   "edit conflict",
		},
		{
			name:       "Concurrent Duplicate Roll",
			err:        fmt.Errorf("insert roll: %w", data.ErrDuplicateRoll),
			wantStatus: http.StatusConflict,
			wantBody:   string(bowling.RuleDuplicateRoll),
		},
		{
			name:       "Store Down",
			err:        errors.New("connection refused"),
			wantStatus: http.StatusInternalServerError,
			wantBody:   "the server encountered a problem",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			r := httptest.NewRequest(http.MethodPost, "/v1/matches/1/scores", nil)

			app.scoringErrorResponse(rr, r, tt.err)

			assert.Equal(t, rr.Code, tt.wantStatus)
			assert.StringContains(t, rr.Body.String(), tt.wantBody)
		})
	}
}
