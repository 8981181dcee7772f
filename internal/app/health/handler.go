package health

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/fx"

	"peasydeal-link-converter/cache"
	"peasydeal-link-converter/internal/pkg/render"
	"peasydeal-link-converter/internal/router"
)

type pinger interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	redis pinger
}

type NewHandlerParams struct {
	fx.In

	ShortLinks *cache.ShortLinks `optional:"true"`
}

func NewHandler(p NewHandlerParams) *Handler {
	h := &Handler{}
	if p.ShortLinks != nil {
		h.redis = p.ShortLinks
	}
	return h
}

func (h *Handler) RegisterRoute(r *chi.Mux) {
	r.Get("/health", h.Handle)
}

type healthResponse struct {
	OK     bool              `json:"ok"`
	Checks map[string]string `json:"checks,omitempty"`
}

func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	if h.redis == nil {
		render.ChiJSON(w, r, http.StatusOK, healthResponse{OK: true})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.redis.Ping(ctx); err != nil {
		render.ChiJSON(w, r, http.StatusServiceUnavailable, healthResponse{
			OK:     false,
			Checks: map[string]string{"redis": "unhealthy: " + err.Error()},
		})
		return
	}
	render.ChiJSON(w, r, http.StatusOK, healthResponse{
		OK:     true,
		Checks: map[string]string{"redis": "ok"},
	})
}

var _ router.Handler = (*Handler)(nil)
