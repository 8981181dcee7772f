// Package resolver follows marketplace short links to their final URL.
package resolver

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"

	"peasydeal-link-converter/config"
	"peasydeal-link-converter/internal/metrics"
	"peasydeal-link-converter/internal/source"
)

const (
	DefaultMaxRedirects = 5
	DefaultTimeout      = 10 * time.Second
)

var ErrTooManyRedirects = errors.New("too many redirects")

type Options struct {
	MaxRedirects int
	Timeout      time.Duration
	UserAgent    string
}

func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		MaxRedirects: cfg.Resolver.MaxRedirects,
		Timeout:      cfg.Resolver.Timeout,
		UserAgent:    cfg.Resolver.UserAgent,
	}
}

type Resolver struct {
	client    *http.Client
	timeout   time.Duration
	userAgent string
	rec       metrics.Recorder
	logger    *zap.SugaredLogger
}

func New(opts Options, rec metrics.Recorder, logger *zap.SugaredLogger) *Resolver {
	if opts.MaxRedirects < 0 {
		opts.MaxRedirects = DefaultMaxRedirects
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.UserAgent == "" {
		opts.UserAgent = config.DefaultUserAgent
	}
	if rec == nil {
		rec = metrics.Noop{}
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	return &Resolver{
		client:    newHTTPClient(opts.MaxRedirects),
		timeout:   opts.Timeout,
		userAgent: opts.UserAgent,
		rec:       rec,
		logger:    logger,
	}
}

func newHTTPClient(maxRedirects int) *http.Client {
	return &http.Client{
		Transport: &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			DialContext: (&net.Dialer{
				Timeout:   5 * time.Second,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			TLSHandshakeTimeout:   5 * time.Second,
			ResponseHeaderTimeout: 8 * time.Second,
			MaxIdleConns:          100,
			MaxIdleConnsPerHost:   10,
			IdleConnTimeout:       90 * time.Second,
		},
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) > maxRedirects {
				return ErrTooManyRedirects
			}
			return nil
		},
	}
}

// Resolve returns the URL raw finally lands on. The returned string is always
// usable: on any failure it is raw itself, alongside the error.
func (r *Resolver) Resolve(ctx context.Context, raw string) (string, error) {
	if !source.HasMarker(raw) {
		r.rec.ResolveOutcome(metrics.ResolveSkipped)
		return raw, nil
	}

	final, err := r.follow(ctx, raw)
	if err != nil {
		r.rec.ResolveOutcome(metrics.ResolveFailed)
		r.logger.Warnw("resolve_failed", "url", raw, "err", err)
		return raw, err
	}

	r.rec.ResolveOutcome(metrics.ResolveResolved)
	return final, nil
}

func (r *Resolver) follow(ctx context.Context, raw string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, raw, nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", r.userAgent)

	resp, err := r.client.Do(req)
	if err != nil {
		if errors.Is(err, ErrTooManyRedirects) {
			return "", ErrTooManyRedirects
		}
		return "", fmt.Errorf("get %s: %w", raw, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 400 {
		return "", fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return resp.Request.URL.String(), nil
}
