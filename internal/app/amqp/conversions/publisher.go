// Package conversions announces finished text conversions on RabbitMQ.
package conversions

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"peasydeal-link-converter/config"
	"peasydeal-link-converter/internal/convert"
)

type publishFunc func(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error

type Publisher struct {
	exchange   string
	routingKey string
	logger     *zap.SugaredLogger
	now        func() time.Time

	publish publishFunc
}

type NewPublisherParams struct {
	fx.In

	Cfg     *config.Config
	Channel *amqp.Channel `optional:"true"`
	Logger  *zap.SugaredLogger
}

func NewPublisher(p NewPublisherParams) *Publisher {
	var publishFn publishFunc
	if p.Channel != nil {
		publishFn = p.Channel.PublishWithContext
	}

	ex := p.Cfg.RabbitMQ.Exchange
	if ex == "" {
		ex = "events"
	}
	routingKey := p.Cfg.RabbitMQ.RoutingKey
	if routingKey == "" {
		routingKey = "linkconv.text.converted.v1"
	}

	return &Publisher{
		exchange:   ex,
		routingKey: routingKey,
		logger:     p.Logger,
		now:        time.Now,
		publish:    publishFn,
	}
}

func (p *Publisher) Enabled() bool {
	return p != nil && p.publish != nil
}

// Publish sends one text.converted event. Failures are logged and dropped.
func (p *Publisher) Publish(ctx context.Context, res convert.Result) {
	if !p.Enabled() || len(res.Conversions) == 0 {
		return
	}

	now := p.now().UTC()
	eventID := uuid.NewString()

	env := TextConvertedEnvelope{
		EventName: EventName,
		EventID:   eventID,
		TS:        now,
		Data: TextConvertedEventData{
			URLCount:    len(res.Conversions),
			Conversions: make([]ConvertedURL, 0, len(res.Conversions)),
		},
	}
	for _, c := range res.Conversions {
		env.Data.Conversions = append(env.Data.Conversions, ConvertedURL{
			Original:  c.Original,
			Clean:     c.Clean,
			Class:     string(c.Class),
			Affiliate: c.Affiliate,
		})
	}

	body, err := json.Marshal(env)
	if err != nil {
		p.logger.Errorw("conversion_event_marshal_failed", "event_id", eventID, "err", err)
		return
	}

	if err := p.publish(ctx, p.exchange, p.routingKey, false, false, amqp.Publishing{
		DeliveryMode: amqp.Persistent,
		ContentType:  "application/json",
		Timestamp:    now,
		MessageId:    eventID,
		Body:         body,
	}); err != nil {
		p.logger.Errorw(
			"conversion_event_publish_failed",
			"exchange", p.exchange,
			"routing_key", p.routingKey,
			"event_id", eventID,
			"err", err,
		)
		return
	}

	p.logger.Infow("conversion_event_published", "exchange", p.exchange, "routing_key", p.routingKey, "event_id", eventID, "url_count", len(res.Conversions))
}
