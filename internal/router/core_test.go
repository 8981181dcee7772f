package router

import (
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"
)

type pingHandler struct{ path string }

func (h *pingHandler) RegisterRoute(r *chi.Mux) { r.Get(h.path, h.Handle) }

func (h *pingHandler) Handle(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

type handlersIn struct {
	fx.In

	Handlers []Handler `group:"handlers"`
}

func TestRoutes_CollectsHandlersGroup(t *testing.T) {
	var got []Handler

	app := fxtest.New(t,
		Routes(
			func() *pingHandler { return &pingHandler{path: "/a"} },
		),
		fx.Provide(AsRoute(func() *pingHandler { return &pingHandler{path: "/b"} })),
		fx.Invoke(func(in handlersIn) { got = in.Handlers }),
	)
	app.RequireStart()
	app.RequireStop()

	require.Len(t, got, 2)
}
