package main

import (
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	cachefx "peasydeal-link-converter/cache/fx"
	conversionsfx "peasydeal-link-converter/internal/app/amqp/conversions/fx"
	convertfx "peasydeal-link-converter/internal/app/convert/fx"
	appfx "peasydeal-link-converter/internal/app/fx"
	healthfx "peasydeal-link-converter/internal/app/health/fx"
	metricsfx "peasydeal-link-converter/internal/app/metrics/fx"
	routerfx "peasydeal-link-converter/internal/router/fx"
	serverfx "peasydeal-link-converter/internal/server/fx"
)

var appOptions = fx.Options(
	appfx.CoreAppOptions,
	cachefx.Module,
	conversionsfx.Module,
	metricsfx.Module,
	routerfx.CoreRouterOptions,
	serverfx.Module,
	healthfx.Module,
	convertfx.Module,
)

func main() {
	app := fx.New(
		fx.WithLogger(func(logger *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: logger}
		}),
		appOptions,
	)

	app.Run()
}
