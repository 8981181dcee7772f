package fx

import (
	"peasydeal-link-converter/cache"

	"go.uber.org/fx"
)

var Module = fx.Module(
	"redis",
	fx.Provide(
		cache.NewRedis,
		cache.NewShortLinksFromConfig,
	),
)
