package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"BowlingLeagueApi/internal/assert"
	"BowlingLeagueApi/internal/validator"

	"github.com/go-chi/chi/v5"
)

func TestReadJSON(t *testing.T) {
	app := newTestApplication(t)

	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{name: "Valid", body: `{"name": "Tuesday Night"}`},
		{name: "Empty", body: ``, wantErr: "body must not be empty"},
		{name: "Badly Formed", body: `{"name": "Tuesday`, wantErr: "badly-formed JSON"},
		{name: "Syntax Error", body: `{"name": 'x'}`, wantErr: "badly-formed JSON (at character"},
		{name: "Wrong Type", body: `{"name": 5}`, wantErr: `incorrect JSON type for field "name"`},
		{name: "Unknown Key", body: `{"title": "x"}`, wantErr: `unknown key "title"`},
		{name: "Two Values", body: `{"name": "a"}{"name": "b"}`, wantErr: "single JSON value"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var dest struct {
				Name string `json:"name"`
			}
			r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			err := app.readJSON(httptest.NewRecorder(), r, &dest)

			if tt.wantErr == "" {
				assert.NilError(t, err)
				assert.Equal(t, dest.Name, "Tuesday Night")
				return
			}
			if err == nil {
				t.Fatalf("expected error containing %q", tt.wantErr)
			}
			assert.StringContains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestReadIDParam(t *testing.T) {
	app := newTestApplication(t)

	tests := []struct {
		name    string
		param   string
		want    int64
		wantErr bool
	}{
		{name: "Valid", param: "42", want: 42},
		{name: "Zero", param: "0", wantErr: true},
		{name: "Negative", param: "-3", wantErr: true},
		{name: "Not A Number", param: "abc", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("id", tt.param)
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r = r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))

			id, err := app.readIDParam(r, "id")
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected an error")
				}
				return
			}
			assert.NilError(t, err)
			assert.Equal(t, id, tt.want)
		})
	}
}

func TestReadQueryValues(t *testing.T) {
	app := newTestApplication(t)
	qs := url.Values{
		"page":       {"3"},
		"page_size":  {"ten"},
		"league_id":  {"7"},
		"team_id":    {"-1"},
		"after_date": {"2025-04-02"},
		"before":     {"02/04/2025"},
		"ids":        {"1,2,3"},
	}
	v := validator.New()

	assert.Equal(t, app.readInt(qs, "page", 1, v), 3)
	assert.Equal(t, app.readInt(qs, "page_size", 20, v), 20)
	assert.Equal(t, app.readString(qs, "sort", "-date"), "-date")
	assert.SliceEqual(t, app.readCSV(qs, "ids", nil), []string{"1", "2", "3"})

	leagueID := app.readOptionalID(qs, "league_id", v)
	if leagueID == nil || *leagueID != 7 {
		t.Fatalf("got league id %v; want 7", leagueID)
	}
	if app.readOptionalID(qs, "player_id", v) != nil {
		t.Error("absent id should be nil")
	}
	if app.readOptionalID(qs, "team_id", v) != nil {
		t.Error("negative id should be nil")
	}

	after := app.readDate(qs, "after_date", v)
	if after == nil || after.Day() != 2 {
		t.Fatalf("got after_date %v", after)
	}
	if app.readDate(qs, "before", v) != nil {
		t.Error("malformed date should be nil")
	}

	assert.Equal(t, len(v.Errors), 3)
	assert.Equal(t, v.Errors["page_size"], "must be an integer value")
	assert.Equal(t, v.Errors["team_id"], "must be a positive integer")
	assert.StringContains(t, v.Errors["before"], "YYYY-MM-DD")
}

func TestWriteJSON(t *testing.T) {
	app := newTestApplication(t)
	rr := httptest.NewRecorder()

	headers := make(http.Header)
	headers.Set("Location", "/v1/matches/4")
	err := app.writeJSON(rr, http.StatusCreated, envelope{"match": map[string]int{"id": 4}}, headers)
	assert.NilError(t, err)

	assert.Equal(t, rr.Code, http.StatusCreated)
	assert.Equal(t, rr.Header().Get("Content-Type"), "application/json")
	assert.Equal(t, rr.Header().Get("Location"), "/v1/matches/4")
	assert.StringContains(t, rr.Body.String(), `"id": 4`)
}
