package app

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"gotest.tools/v3/assert"

	"github.com/MASHINC1/LinkMan/internal/config"
	"github.com/MASHINC1/LinkMan/internal/session"
	"github.com/MASHINC1/LinkMan/internal/sse"
	"github.com/MASHINC1/LinkMan/internal/storage"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.App.HTTP.Port = 0
	cfg.Storage.Path = filepath.Join(t.TempDir(), "linkman.json")
	return cfg
}

func testHandler(t *testing.T, cfg *config.Config) (*session.Session, http.Handler) {
	t.Helper()
	st, err := storage.Open(cfg.Storage)
	assert.NilError(t, err)

	broker := sse.NewBroker(time.Hour)
	t.Cleanup(broker.Close)

	sess, err := session.Open(session.Params{Storage: st, OnChange: broker.PublishSnapshot})
	assert.NilError(t, err)
	return sess, newHandler(cfg, sess, broker, discardLogger())
}

func TestHealthEndpoints(t *testing.T) {
	cfg := testConfig(t)
	cfg.Auth.Token = "secret"
	_, h := testHandler(t, cfg)

	for _, path := range []string{"/health/live", "/health/ready"} {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, w.Code, http.StatusOK, path)
		assert.Equal(t, w.Body.String(), `{"status":"ok"}`)
	}
}

func TestAPIMountedWithAuth(t *testing.T) {
	cfg := testConfig(t)
	cfg.Auth.Token = "secret"
	sess, h := testHandler(t, cfg)

	body := `{"url":"example.com","category":"Work"}`

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/links", strings.NewReader(body)))
	assert.Equal(t, w.Code, http.StatusUnauthorized)

	req := httptest.NewRequest(http.MethodPost, "/api/links", strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer secret")
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, w.Code, http.StatusCreated, w.Body.String())
	assert.Equal(t, len(sess.Snapshot().Links), 1)
}

func TestRunRequiresConfig(t *testing.T) {
	err := Run(context.Background(), WithLogger(discardLogger()))
	assert.ErrorContains(t, err, "config is required")
}

func TestRunStopsOnCancel(t *testing.T) {
	cfg := testConfig(t)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		done <- Run(ctx, WithConfig(cfg), WithLogger(discardLogger()))
	}()

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NilError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestRunFailsOnUnknownBackend(t *testing.T) {
	cfg := testConfig(t)
	cfg.Storage.Backend = "postgres"
	err := Run(context.Background(), WithConfig(cfg), WithLogger(discardLogger()))
	assert.ErrorContains(t, err, "unknown storage backend")
}
