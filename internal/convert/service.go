// Package convert rewrites every marketplace URL inside a text blob into its
// canonical or affiliate form.
package convert

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"peasydeal-link-converter/config"
	"peasydeal-link-converter/internal/metrics"
	"peasydeal-link-converter/internal/normalize"
	"peasydeal-link-converter/internal/source"
)

const DefaultMaxConcurrency = 16

type Resolver interface {
	Resolve(ctx context.Context, raw string) (string, error)
}

type Signer interface {
	Sign(ctx context.Context, canonical string) (string, error)
}

type Conversion struct {
	Original  string              `json:"original"`
	Resolved  string              `json:"resolved"`
	Clean     string              `json:"clean"`
	Class     normalize.PathClass `json:"class"`
	Affiliate string              `json:"affiliate,omitempty"`
}

// Replacement is the text that takes Original's place.
func (c Conversion) Replacement() string {
	if c.Affiliate != "" {
		return c.Affiliate
	}
	return c.Clean
}

type Result struct {
	Text        string       `json:"resultText"`
	Conversions []Conversion `json:"conversions"`
}

type Options struct {
	MaxConcurrency int
}

func OptionsFromConfig(cfg *config.Config) Options {
	return Options{MaxConcurrency: cfg.Convert.MaxConcurrency}
}

type Service struct {
	resolver Resolver
	signer   Signer
	opts     Options
	rec      metrics.Recorder
	logger   *zap.SugaredLogger
}

// NewService builds a converter. A nil signer disables affiliate links.
func NewService(resolver Resolver, signer Signer, opts Options, rec metrics.Recorder, logger *zap.SugaredLogger) *Service {
	if opts.MaxConcurrency <= 0 {
		opts.MaxConcurrency = DefaultMaxConcurrency
	}
	if rec == nil {
		rec = metrics.Noop{}
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Service{
		resolver: resolver,
		signer:   signer,
		opts:     opts,
		rec:      rec,
		logger:   logger,
	}
}

func (s *Service) Process(ctx context.Context, text string) (string, error) {
	res, err := s.ProcessDetailed(ctx, text)
	if err != nil {
		return "", err
	}
	return res.Text, nil
}

// ProcessDetailed converts text and reports what happened to each unique URL.
// Per-URL failures degrade to a fallback and are never returned.
func (s *Service) ProcessDetailed(ctx context.Context, text string) (Result, error) {
	urls := Dedupe(ExtractURLs(text))
	if len(urls) == 0 {
		return Result{Text: text, Conversions: []Conversion{}}, nil
	}

	start := time.Now()
	defer func() { s.rec.BatchDuration(time.Since(start)) }()

	conversions := make([]Conversion, len(urls))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.MaxConcurrency)

	for i, raw := range urls {
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("convert %q: panic: %v", raw, r)
				}
			}()
			conversions[i] = s.convertOne(gCtx, raw)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		s.logger.Errorw("convert_batch_failed", "url_count", len(urls), "err", err)
		return Result{}, err
	}

	s.logger.Debugw("convert_batch_done", "url_count", len(urls), "elapsed", time.Since(start))
	return Result{
		Text:        Substitute(text, conversions),
		Conversions: conversions,
	}, nil
}

func (s *Service) convertOne(ctx context.Context, raw string) Conversion {
	c := Conversion{Original: raw, Resolved: raw, Clean: raw, Class: normalize.Unclassified}

	// Links without a marketplace marker and links that failed to resolve
	// are left exactly as written.
	resolved, err := s.resolver.Resolve(ctx, raw)
	if err != nil || !source.HasMarker(raw) {
		s.rec.URLClassified(string(c.Class))
		return c
	}
	c.Resolved = resolved
	c.Clean, c.Class = normalize.Classify(resolved)
	s.rec.URLClassified(string(c.Class))

	if s.signer == nil {
		return c
	}
	if !source.IsMarketplace(c.Clean) {
		s.rec.SignOutcome(metrics.SignSkipped)
		return c
	}
	if link, err := s.signer.Sign(ctx, c.Clean); err == nil {
		c.Affiliate = link
	}
	return c
}
