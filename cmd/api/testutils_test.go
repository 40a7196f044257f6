package main

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"BowlingLeagueApi/internal/config"
	"BowlingLeagueApi/internal/data"

	"github.com/prometheus/client_golang/prometheus"
)

func newTestApplication(t *testing.T) *application {
	t.Helper()

	cfg := config.Default()
	cfg.CORS.TrustedOrigins = []string{"https://scores.example.com"}

	app := newApplication(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)), data.Models{},
		prometheus.NewRegistry())
	t.Cleanup(app.live.Close)
	return app
}

type testServer struct {
	*httptest.Server
}

func newTestServer(t *testing.T, h http.Handler) *testServer {
	t.Helper()

	ts := httptest.NewServer(h)
	t.Cleanup(ts.Close)
	return &testServer{ts}
}

func (ts *testServer) do(t *testing.T, method, urlPath string, body string,
	headers map[string]string) (int, http.Header, string) {
	t.Helper()

	req, err := http.NewRequest(method, ts.URL+urlPath, bytes.NewBufferString(body))
	if err != nil {
		t.Fatal(err)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	rs, err := ts.Client().Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer rs.Body.Close()

	b, err := io.ReadAll(rs.Body)
	if err != nil {
		t.Fatal(err)
	}

	return rs.StatusCode, rs.Header, string(bytes.TrimSpace(b))
}
