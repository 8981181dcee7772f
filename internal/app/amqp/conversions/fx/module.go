package fx

import (
	"peasydeal-link-converter/internal/app/amqp/conversions"
	"peasydeal-link-converter/internal/pkg/amqpclient"

	"go.uber.org/fx"
)

var Module = fx.Options(
	fx.Provide(
		amqpclient.NewAMQP,
		conversions.NewPublisher,
	),
)
