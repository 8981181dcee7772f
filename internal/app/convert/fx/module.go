package fx

import (
	"go.uber.org/fx"
	"go.uber.org/zap"

	"peasydeal-link-converter/cache"
	"peasydeal-link-converter/config"
	"peasydeal-link-converter/internal/affiliate"
	appconvert "peasydeal-link-converter/internal/app/convert"
	"peasydeal-link-converter/internal/convert"
	"peasydeal-link-converter/internal/metrics"
	"peasydeal-link-converter/internal/resolver"
	"peasydeal-link-converter/internal/router"
)

var Module = fx.Options(
	fx.Provide(
		NewResolver,
		NewSigner,
		NewService,
	),
	router.Routes(appconvert.NewHandler),
)

func NewResolver(cfg *config.Config, rec metrics.Recorder, logger *zap.SugaredLogger) *resolver.Resolver {
	return resolver.New(resolver.OptionsFromConfig(cfg), rec, logger)
}

type SignerParams struct {
	fx.In

	Cfg        *config.Config
	Recorder   metrics.Recorder
	Logger     *zap.SugaredLogger
	ShortLinks *cache.ShortLinks `optional:"true"`
}

func NewSigner(p SignerParams) *affiliate.Signer {
	opts := []affiliate.Option{affiliate.WithRecorder(p.Recorder)}
	if p.ShortLinks != nil {
		opts = append(opts, affiliate.WithCache(p.ShortLinks))
	}

	s := affiliate.NewSigner(affiliate.ConfigFromApp(p.Cfg), p.Logger, opts...)
	if !s.Enabled() {
		p.Logger.Infow("affiliate_disabled", "reason", "missing or placeholder SHOPEE_AFFILIATE_APP_ID/SHOPEE_AFFILIATE_SECRET")
	}
	return s
}

func NewService(
	cfg *config.Config,
	r *resolver.Resolver,
	s *affiliate.Signer,
	rec metrics.Recorder,
	logger *zap.SugaredLogger,
) *convert.Service {
	return convert.NewService(r, s, convert.OptionsFromConfig(cfg), rec, logger)
}
