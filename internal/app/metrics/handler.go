package metrics

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"peasydeal-link-converter/internal/router"
)

// NewRegistry returns a registry preloaded with Go runtime and process collectors.
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

type Handler struct {
	h http.Handler
}

func NewHandler(g prometheus.Gatherer) *Handler {
	return &Handler{h: promhttp.HandlerFor(g, promhttp.HandlerOpts{})}
}

func (h *Handler) RegisterRoute(r *chi.Mux) {
	r.Get("/metrics", h.Handle)
}

func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	h.h.ServeHTTP(w, r)
}

var _ router.Handler = (*Handler)(nil)
