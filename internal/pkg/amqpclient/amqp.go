package amqpclient

import (
	"context"
	"fmt"
	"strings"

	"peasydeal-link-converter/config"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type NewAMQPParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Config    *config.Config
	Logger    *zap.SugaredLogger
}

type AMQPOut struct {
	fx.Out

	Conn    *amqp.Connection
	Channel *amqp.Channel
}

// NewAMQP dials RabbitMQ when RABBITMQ_URL is set. Both outputs are nil
// otherwise.
func NewAMQP(p NewAMQPParams) (AMQPOut, error) {
	url := strings.TrimSpace(p.Config.RabbitMQ.URL)
	if url == "" {
		p.Logger.Infow("rabbitmq_disabled", "reason", "missing RABBITMQ_URL")
		return AMQPOut{}, nil
	}

	conn, err := amqp.Dial(url)
	if err != nil {
		return AMQPOut{}, fmt.Errorf("rabbitmq dial: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return AMQPOut{}, fmt.Errorf("rabbitmq channel: %w", err)
	}

	if p.Config.RabbitMQ.DeclareTopology {
		if err := ch.ExchangeDeclare(p.Config.RabbitMQ.Exchange, "topic", true, false, false, false, nil); err != nil {
			_ = ch.Close()
			_ = conn.Close()
			return AMQPOut{}, fmt.Errorf("rabbitmq exchange declare %q: %w", p.Config.RabbitMQ.Exchange, err)
		}
	}

	p.Lifecycle.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			_ = ch.Close()
			_ = conn.Close()
			return nil
		},
	})

	p.Logger.Infow(
		"rabbitmq_enabled",
		"exchange", p.Config.RabbitMQ.Exchange,
		"routing_key", p.Config.RabbitMQ.RoutingKey,
		"declare_topology", p.Config.RabbitMQ.DeclareTopology,
	)

	return AMQPOut{Conn: conn, Channel: ch}, nil
}
