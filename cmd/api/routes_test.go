package main

import (
	"encoding/json"
	"net/http"
	"testing"

	"BowlingLeagueApi/internal/assert"
)

func TestHealthcheck(t *testing.T) {
	app := newTestApplication(t)
	ts := newTestServer(t, app.routes())

	code, headers, body := ts.do(t, http.MethodGet, "/v1/healthcheck", "", nil)
	assert.Equal(t, code, http.StatusOK)
	assert.Equal(t, headers.Get("Content-Type"), "application/json")

	var got struct {
		Status      string            `json:"status"`
		SystemInfo  map[string]string `json:"system_info"`
		LiveMatches int               `json:"live_matches"`
	}
	err := json.Unmarshal([]byte(body), &got)
	assert.NilError(t, err)
	assert.Equal(t, got.Status, "available")
	assert.Equal(t, got.SystemInfo["environment"], "development")
	assert.Equal(t, got.SystemInfo["version"], version)
	assert.Equal(t, got.LiveMatches, 0)
}

func TestRoutes(t *testing.T) {
	app := newTestApplication(t)
	ts := newTestServer(t, app.routes())

	tests := []struct {
		name       string
		method     string
		urlPath    string
		body       string
		wantStatus int
		wantBody   string
	}{
		{name: "Unknown Path", method: http.MethodGet, urlPath: "/v1/bowling-alleys",
			wantStatus: http.StatusNotFound, wantBody: "could not be found"},
		{name: "Wrong Method", method: http.MethodPut, urlPath: "/v1/healthcheck",
			wantStatus: http.StatusMethodNotAllowed, wantBody: "PUT method is not supported"},
		{name: "Matches Need Authentication", method: http.MethodGet, urlPath: "/v1/matches",
			wantStatus: http.StatusUnauthorized},
		{name: "Scores Need Authentication", method: http.MethodPost, urlPath: "/v1/matches/1/scores",
			body: `{"scores": []}`, wantStatus: http.StatusUnauthorized},
		{name: "Roll Edit Needs Authentication", method: http.MethodPatch, urlPath: "/v1/matches/1/rolls/4",
			body: `{"pins": 7}`, wantStatus: http.StatusUnauthorized},
		{name: "Rankings Need Authentication", method: http.MethodGet, urlPath: "/v1/rankings/players",
			wantStatus: http.StatusUnauthorized},
		{name: "Malformed Live Pin", method: http.MethodGet, urlPath: "/v1/live/ABC",
			wantStatus: http.StatusNotFound},
		{name: "Register Empty Body", method: http.MethodPost, urlPath: "/v1/users",
			wantStatus: http.StatusBadRequest, wantBody: "body must not be empty"},
		{name: "Register Invalid User", method: http.MethodPost, urlPath: "/v1/users",
			body:       `{"first_name": "", "last_name": "Dude", "email": "lebowski", "password": "abide"}`,
			wantStatus: http.StatusUnprocessableEntity, wantBody: "must be a valid email address"},
		{name: "Activate Short Token", method: http.MethodPut, urlPath: "/v1/users/activated",
			body: `{"token": "short"}`, wantStatus: http.StatusUnprocessableEntity, wantBody: "26 bytes"},
		{name: "Expvar", method: http.MethodGet, urlPath: "/debug/vars",
			wantStatus: http.StatusOK, wantBody: "total_requests_received"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, body := ts.do(t, tt.method, tt.urlPath, tt.body, nil)

			assert.Equal(t, code, tt.wantStatus)
			assert.StringContains(t, body, tt.wantBody)
		})
	}
}

func TestPrometheusEndpoint(t *testing.T) {
	app := newTestApplication(t)
	ts := newTestServer(t, app.routes())

	ts.do(t, http.MethodGet, "/v1/healthcheck", "", nil)
	code, _, body := ts.do(t, http.MethodGet, "/metrics", "", nil)

	assert.Equal(t, code, http.StatusOK)
	assert.StringContains(t, body, `bowling_http_requests_total{method="GET",route="/v1/healthcheck",status="200"} 1`)
}
