// Package affiliate exchanges canonical marketplace URLs for affiliate short
// links through the Shopee open API.
package affiliate

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"peasydeal-link-converter/config"
	"peasydeal-link-converter/internal/metrics"
)

const (
	DefaultEndpoint = "https://open-api.affiliate.shopee.vn/graphql"
	DefaultTimeout  = 10 * time.Second

	maxResponseBytes = 1 << 20
)

var (
	ErrDisabled       = errors.New("affiliate signing disabled")
	ErrAPI            = errors.New("affiliate api error")
	ErrEmptyShortLink = errors.New("affiliate api returned empty short link")
)

// ShortLinkCache remembers short links per canonical URL across requests.
type ShortLinkCache interface {
	Get(ctx context.Context, canonical string) (string, bool, error)
	Set(ctx context.Context, canonical, shortLink string) error
}

type Config struct {
	AppID    string
	Secret   string
	SubID    string
	Endpoint string
	Timeout  time.Duration
}

func ConfigFromApp(cfg *config.Config) Config {
	return Config{
		AppID:    cfg.Affiliate.AppID,
		Secret:   cfg.Affiliate.Secret,
		SubID:    cfg.Affiliate.SubID,
		Endpoint: cfg.Affiliate.Endpoint,
		Timeout:  cfg.Affiliate.Timeout,
	}
}

// Enabled is false when either credential is missing or still a placeholder.
func (c Config) Enabled() bool {
	return !config.IsPlaceholder(c.AppID) && !config.IsPlaceholder(c.Secret)
}

type Option func(*Signer)

func WithHTTPClient(c *http.Client) Option {
	return func(s *Signer) { s.client = c }
}

func WithClock(now func() time.Time) Option {
	return func(s *Signer) { s.now = now }
}

func WithCache(c ShortLinkCache) Option {
	return func(s *Signer) { s.cache = c }
}

func WithRecorder(r metrics.Recorder) Option {
	return func(s *Signer) { s.rec = r }
}

type Signer struct {
	cfg    Config
	client *http.Client
	now    func() time.Time
	cache  ShortLinkCache
	rec    metrics.Recorder
	logger *zap.SugaredLogger
}

func NewSigner(cfg Config, logger *zap.SugaredLogger, opts ...Option) *Signer {
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEndpoint
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	s := &Signer{
		cfg:    cfg,
		client: newHTTPClient(cfg.Timeout),
		now:    time.Now,
		rec:    metrics.Noop{},
		logger: logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func newHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			DialContext: (&net.Dialer{
				Timeout:   5 * time.Second,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			TLSHandshakeTimeout: 5 * time.Second,
			MaxIdleConns:        20,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
		},
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

func (s *Signer) Enabled() bool {
	return s.cfg.Enabled()
}

type graphqlError struct {
	Message string `json:"message"`
}

type shortLinkResponse struct {
	Data struct {
		GenerateShortLink struct {
			ShortLink string `json:"shortLink"`
		} `json:"generateShortLink"`
	} `json:"data"`
	Errors []graphqlError `json:"errors"`
}

// Sign returns an affiliate short link for canonical. Any error means the
// caller should fall back to the canonical URL.
func (s *Signer) Sign(ctx context.Context, canonical string) (string, error) {
	if !s.Enabled() {
		s.rec.SignOutcome(metrics.SignDisabled)
		return "", ErrDisabled
	}

	if s.cache != nil {
		link, ok, err := s.cache.Get(ctx, canonical)
		if err != nil {
			s.logger.Warnw("shortlink_cache_get_failed", "url", canonical, "err", err)
		} else if ok {
			s.rec.SignOutcome(metrics.SignCached)
			return link, nil
		}
	}

	link, err := s.generate(ctx, canonical)
	if err != nil {
		s.rec.SignOutcome(metrics.SignFailed)
		s.logger.Warnw("affiliate_sign_failed", "url", canonical, "err", err)
		return "", err
	}
	s.rec.SignOutcome(metrics.SignOK)

	if s.cache != nil {
		if err := s.cache.Set(ctx, canonical, link); err != nil {
			s.logger.Warnw("shortlink_cache_set_failed", "url", canonical, "err", err)
		}
	}
	return link, nil
}

func (s *Signer) generate(ctx context.Context, canonical string) (string, error) {
	signed, err := BuildRequest(s.cfg.AppID, s.cfg.Secret, s.cfg.SubID, canonical, s.now().Unix())
	if err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.Endpoint, bytes.NewReader(signed.Payload))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", signed.AuthorizationHeader())

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("post %s: %w", s.cfg.Endpoint, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("%w: status %d", ErrAPI, resp.StatusCode)
	}

	var out shortLinkResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if len(out.Errors) > 0 {
		msgs := make([]string, 0, len(out.Errors))
		for _, e := range out.Errors {
			msgs = append(msgs, e.Message)
		}
		return "", fmt.Errorf("%w: %s", ErrAPI, strings.Join(msgs, "; "))
	}

	link := strings.TrimSpace(out.Data.GenerateShortLink.ShortLink)
	if link == "" {
		return "", ErrEmptyShortLink
	}
	return link, nil
}
