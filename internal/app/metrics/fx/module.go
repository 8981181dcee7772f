package fx

import (
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"

	appmetrics "peasydeal-link-converter/internal/app/metrics"
	"peasydeal-link-converter/internal/metrics"
	"peasydeal-link-converter/internal/router"
)

var Module = fx.Options(
	fx.Provide(
		fx.Annotate(
			appmetrics.NewRegistry,
			fx.As(new(prometheus.Registerer)),
			fx.As(new(prometheus.Gatherer)),
		),
		fx.Annotate(
			metrics.NewPrometheus,
			fx.As(new(metrics.Recorder)),
		),
	),
	router.Routes(appmetrics.NewHandler),
)
