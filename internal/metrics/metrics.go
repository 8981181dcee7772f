// Package metrics records conversion counters and batch timings.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Resolve outcomes.
const (
	ResolveSkipped  = "skipped"
	ResolveResolved = "resolved"
	ResolveFailed   = "failed"
)

// Affiliate signing outcomes.
const (
	SignOK       = "ok"
	SignCached   = "cached"
	SignDisabled = "disabled"
	SignSkipped  = "skipped"
	SignFailed   = "failed"
)

type Recorder interface {
	URLClassified(class string)
	ResolveOutcome(outcome string)
	SignOutcome(outcome string)
	BatchDuration(d time.Duration)
}

// Noop discards everything. Used by the CLI and tests.
type Noop struct{}

func (Noop) URLClassified(string)        {}
func (Noop) ResolveOutcome(string)       {}
func (Noop) SignOutcome(string)          {}
func (Noop) BatchDuration(time.Duration) {}

type Prometheus struct {
	urls     *prometheus.CounterVec
	resolves *prometheus.CounterVec
	signs    *prometheus.CounterVec
	batch    prometheus.Histogram
}

// NewPrometheus registers the linkconv series on reg.
func NewPrometheus(reg prometheus.Registerer) (*Prometheus, error) {
	p := &Prometheus{
		urls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "linkconv_urls_total",
				Help: "URLs converted, labeled by path class.",
			},
			[]string{"class"},
		),
		resolves: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "linkconv_resolve_total",
				Help: "Redirect resolution attempts, labeled by outcome.",
			},
			[]string{"outcome"},
		),
		signs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "linkconv_affiliate_sign_total",
				Help: "Affiliate short link requests, labeled by outcome.",
			},
			[]string{"outcome"},
		),
		batch: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "linkconv_batch_duration_seconds",
				Help:    "Time spent converting one text blob.",
				Buckets: prometheus.DefBuckets,
			},
		),
	}

	for _, c := range []prometheus.Collector{p.urls, p.resolves, p.signs, p.batch} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return p, nil
}

func (p *Prometheus) URLClassified(class string) {
	p.urls.WithLabelValues(class).Inc()
}

func (p *Prometheus) ResolveOutcome(outcome string) {
	p.resolves.WithLabelValues(outcome).Inc()
}

func (p *Prometheus) SignOutcome(outcome string) {
	p.signs.WithLabelValues(outcome).Inc()
}

func (p *Prometheus) BatchDuration(d time.Duration) {
	p.batch.Observe(d.Seconds())
}
