package api_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/serroba/editops/internal/api"
	"github.com/serroba/editops/internal/collab"
	"github.com/serroba/editops/internal/fragment"
	"github.com/serroba/editops/internal/ws"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	handler http.Handler
	service *collab.Service
	hub     *ws.Hub
	logs    *bytes.Buffer
}

func newTestEnv(t *testing.T) testEnv {
	t.Helper()

	return newTestEnvWithLimit(t, 0)
}

func newTestEnvWithLimit(t *testing.T, maxTextLength int) testEnv {
	t.Helper()

	logs := &bytes.Buffer{}
	logger := slog.New(slog.NewTextHandler(logs, nil))
	hub := ws.NewHub()
	service := collab.NewService(collab.Config{
		Store:         fragment.NewMemoryStore(),
		Hub:           hub,
		Logger:        logger,
		MaxTextLength: maxTextLength,
	})

	server := api.NewServer(api.ServerConfig{
		Service: service,
		Hub:     hub,
		Logger:  logger,
	})

	return testEnv{handler: server.Handler(), service: service, hub: hub, logs: logs}
}

func (e testEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader

	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)

		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()

	e.handler.ServeHTTP(rec, req)

	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v))

	return v
}

func TestNewServer(t *testing.T) {
	t.Parallel()

	server := api.NewServer(api.ServerConfig{
		Service: collab.NewService(collab.Config{Store: fragment.NewMemoryStore()}),
		Hub:     ws.NewHub(),
	})

	if server == nil {
		t.Fatal("NewServer returned nil")
	}

	if server.Handler() == nil {
		t.Error("Handler returned nil")
	}
}

func TestServerHandler_Methods(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)

	tests := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/operations/parse"},
		{http.MethodGet, "/operations/execute"},
		{http.MethodGet, "/diff"},
		{http.MethodGet, "/fragments"},
		{http.MethodPut, "/fragments/test"},
		{http.MethodPost, "/ws"},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			t.Parallel()

			rec := env.do(t, tt.method, tt.path, nil)

			if rec.Code != http.StatusMethodNotAllowed {
				t.Errorf("expected 405, got %d", rec.Code)
			}
		})
	}
}

func TestServerHandler_InvalidJSON(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)

	for _, path := range []string{"/operations/parse", "/operations/execute", "/diff", "/fragments"} {
		rec := env.do(t, http.MethodPost, path, "invalid json")

		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", path, rec.Code)
		}
	}
}

func TestRequestIDMiddleware(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)

	t.Run("generates an id when none is sent", func(t *testing.T) {
		t.Parallel()

		rec := env.do(t, http.MethodGet, "/fragments/missing", nil)

		if rec.Header().Get("X-Request-Id") == "" {
			t.Error("expected a generated X-Request-Id")
		}
	})

	t.Run("echoes the id the client sent", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodGet, "/fragments/missing", nil)
		req.Header.Set("X-Request-Id", "req-42")

		rec := httptest.NewRecorder()
		env.handler.ServeHTTP(rec, req)

		if got := rec.Header().Get("X-Request-Id"); got != "req-42" {
			t.Errorf("expected req-42, got %q", got)
		}
	})
}

func TestLoggingMiddleware(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/fragments/missing", nil)
	req.Header.Set("X-Request-Id", "req-log")

	env.handler.ServeHTTP(httptest.NewRecorder(), req)

	logs := env.logs.String()
	require.Contains(t, logs, "path=/fragments/missing")
	require.Contains(t, logs, "status=404")
	require.Contains(t, logs, "request_id=req-log")
}
