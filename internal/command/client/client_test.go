package client

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"

	"github.com/lwmacct/251207-go-pkg-jsongen/internal/command"
	"github.com/lwmacct/251207-go-pkg-jsongen/internal/command/server"
	"github.com/lwmacct/251207-go-pkg-jsongen/internal/config"
)

func fastRetry(t *testing.T) {
	t.Helper()
	prev := retryDelay
	retryDelay = time.Millisecond
	t.Cleanup(func() { retryDelay = prev })
}

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	cfg := config.DefaultConfig()
	srv := httptest.NewServer(server.NewHandler(&cfg))
	t.Cleanup(srv.Close)

	return srv
}

func TestClient_Expand(t *testing.T) {
	srv := newServer(t)
	c := New(config.ClientConfig{URL: srv.URL + "/", Timeout: time.Second})

	data, err := c.Expand(context.Background(), `[$n([1,2,3])]`)
	require.NoError(t, err)
	assert.JSONEq(t, `[[1],[2],[3]]`, string(data))
}

func TestClient_TemplateErrorNotRetried(t *testing.T) {
	fastRetry(t)

	var calls atomic.Int32
	cfg := config.DefaultConfig()
	handler := server.NewHandler(&cfg)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		handler.ServeHTTP(w, r)
	}))
	t.Cleanup(srv.Close)

	c := New(config.ClientConfig{URL: srv.URL, Timeout: time.Second, Retries: 3})
	_, err := c.Expand(context.Background(), `{"a": $a}`)

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusUnprocessableEntity, statusErr.Status)
	assert.Contains(t, err.Error(), "UndeclaredVariable")
	assert.Equal(t, int32(1), calls.Load())
}

func TestClient_RetriesServerErrors(t *testing.T) {
	fastRetry(t)

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) < 3 {
			http.Error(w, "busy", http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}))
	t.Cleanup(srv.Close)

	data, err := New(config.ClientConfig{URL: srv.URL, Timeout: time.Second, Retries: 2}).Health(context.Background())
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"ok"}`, string(data))
	assert.Equal(t, int32(3), calls.Load())

	calls.Store(0)
	_, err = New(config.ClientConfig{URL: srv.URL, Timeout: time.Second, Retries: 1}).Health(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed after 2 attempt(s)")
	assert.Contains(t, err.Error(), "busy")
}

func TestCommand_Expand(t *testing.T) {
	srv := newServer(t)

	var out bytes.Buffer
	root := &cli.Command{
		Name:     "jsongen",
		Reader:   strings.NewReader(`{"f": $f(<1-2>)}`),
		Writer:   &out,
		Flags:    command.GlobalFlags(),
		Commands: []*cli.Command{newCommand()},
	}

	err := root.Run(context.Background(), []string{
		"jsongen", "-c", filepath.Join(t.TempDir(), "none.yaml"),
		"client", "--client-url", srv.URL, "expand",
	})
	require.NoError(t, err)
	assert.Equal(t, "[\n  {\n    \"f\": 1\n  },\n  {\n    \"f\": 2\n  }\n]\n", out.String())
}
