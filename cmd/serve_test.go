package cmd

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNewHTTPServer(t *testing.T) {
	srv := newHTTPServer(discardLogger())

	assert.Equal(t, defaultServerAddr, srv.Addr)
	assert.Equal(t, defaultReadHeaderTimeout, srv.ReadHeaderTimeout)

	ts := httptest.NewServer(srv.Handler)
	t.Cleanup(ts.Close)

	resp, err := http.Post(ts.URL+"/fragments", "application/json", strings.NewReader(`{"id":"doc","text":"hello"}`))
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, err = http.Get(ts.URL + "/fragments/doc")
	require.NoError(t, err)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"id":"doc","text":"hello","applied":0}`, string(body))
}

func TestServe_StopsWhenContextIsDone(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	srv := &http.Server{
		Addr:              "127.0.0.1:0",
		Handler:           http.NotFoundHandler(),
		ReadHeaderTimeout: time.Second,
	}

	require.NoError(t, serve(ctx, srv, discardLogger()))
}

func TestServe_ListenError(t *testing.T) {
	srv := &http.Server{
		Addr:              "not-an-address",
		Handler:           http.NotFoundHandler(),
		ReadHeaderTimeout: time.Second,
	}

	require.Error(t, serve(context.Background(), srv, discardLogger()))
}
