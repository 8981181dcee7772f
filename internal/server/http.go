package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"peasydeal-link-converter/config"
)

// WriteTimeout covers one resolve plus one sign call with headroom.
func NewHTTPServer(cfg *config.Config, mux *chi.Mux) *http.Server {
	writeTimeout := cfg.Resolver.Timeout + cfg.Affiliate.Timeout + 10*time.Second
	if writeTimeout < 30*time.Second {
		writeTimeout = 30 * time.Second
	}

	return &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.AppPort),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       60 * time.Second,
	}
}
