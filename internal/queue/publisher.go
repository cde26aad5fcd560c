package queue

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/counterpos/api/internal/metrics"
)

const publishTimeout = 5 * time.Second

// JSONPublisher is satisfied by *Client.
type JSONPublisher interface {
	PublishJSON(ctx context.Context, exchange, routingKey string, payload any) error
}

// Envelope is the message body published for every event.
type Envelope struct {
	Type       string    `json:"type"`
	Payload    any       `json:"payload"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Publisher forwards notifier events to an exchange, using the event type as
// the routing key. Failures are logged and never reach the caller.
type Publisher struct {
	client   JSONPublisher
	exchange string
	logger   *zap.Logger
	metrics  *metrics.Metrics
	now      func() time.Time
}

func NewPublisher(client JSONPublisher, exchange string, logger *zap.Logger, m *metrics.Metrics) *Publisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Publisher{
		client:   client,
		exchange: exchange,
		logger:   logger,
		metrics:  m,
		now:      time.Now,
	}
}

// Notify implements notify.Notifier.
func (p *Publisher) Notify(ctx context.Context, eventType string, payload any) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	msg := Envelope{Type: eventType, Payload: payload, OccurredAt: p.now().UTC()}
	if err := p.client.PublishJSON(ctx, p.exchange, eventType, msg); err != nil {
		p.logger.Warn("publish event failed",
			zap.String("exchange", p.exchange),
			zap.String("type", eventType),
			zap.Error(err),
		)
		return
	}
	p.metrics.EventPublished(eventType)
}
