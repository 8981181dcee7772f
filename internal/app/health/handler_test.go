package health

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

type stubPinger struct{ err error }

func (s stubPinger) Ping(context.Context) error { return s.err }

func TestHandler_NoDependencies(t *testing.T) {
	h := NewHandler(NewHandlerParams{})

	w := httptest.NewRecorder()
	h.Handle(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"ok":true}`, w.Body.String())
}

func TestHandler_RedisChecks(t *testing.T) {
	h := &Handler{redis: stubPinger{}}
	w := httptest.NewRecorder()
	h.Handle(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"ok":true,"checks":{"redis":"ok"}}`, w.Body.String())

	h = &Handler{redis: stubPinger{err: errors.New("connection refused")}}
	w = httptest.NewRecorder()
	h.Handle(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusServiceUnavailable, w.Code)
	require.JSONEq(t, `{"ok":false,"checks":{"redis":"unhealthy: connection refused"}}`, w.Body.String())
}
