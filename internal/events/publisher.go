package events

import (
	"context"
	"encoding/json"
	"time"

	"pizza-store/internal/common/logger"
	"pizza-store/internal/connections/rabbitmq"
	"pizza-store/internal/domain"
)

// Publisher pushes order lifecycle events to the broker. A nil Publisher
// is valid and drops everything, so the application runs unchanged when
// no broker is configured. Publish failures are logged, never surfaced:
// the order is already committed by the time an event goes out.
type Publisher struct {
	mq        *rabbitmq.Client
	lg        *logger.Logger
	sessionID string
}

func NewPublisher(mq *rabbitmq.Client, lg *logger.Logger) *Publisher {
	if mq == nil {
		return nil
	}
	return &Publisher{mq: mq, lg: lg, sessionID: lg.SessionID()}
}

func (p *Publisher) OrderCreated(ctx context.Context, o domain.Order) {
	if p == nil {
		return
	}
	p.publish(ctx, domain.OrderEvent{
		Type:       domain.EventOrderCreated,
		SessionID:  p.sessionID,
		OrderID:    o.ID,
		Login:      o.Login,
		StoreID:    o.StoreID,
		Total:      o.Total.StringFixed(2),
		Status:     string(o.Status),
		OccurredAt: time.Now().UTC(),
	})
}

func (p *Publisher) StatusChanged(ctx context.Context, orderID int, login string, status domain.OrderStatus) {
	if p == nil {
		return
	}
	p.publish(ctx, domain.OrderEvent{
		Type:       domain.EventOrderStatusChanged,
		SessionID:  p.sessionID,
		OrderID:    orderID,
		Login:      login,
		Status:     string(status),
		OccurredAt: time.Now().UTC(),
	})
}

func (p *Publisher) publish(ctx context.Context, ev domain.OrderEvent) {
	body, err := json.Marshal(ev)
	if err != nil {
		p.lg.Error("event_marshal_failed", err, map[string]any{"type": ev.Type})
		return
	}
	pctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := p.mq.Publish(pctx, ev.Type, body); err != nil {
		p.lg.Error("event_publish_failed", err, map[string]any{"type": ev.Type, "order_id": ev.OrderID})
		return
	}
	p.lg.Debug("event_published", map[string]any{"type": ev.Type, "order_id": ev.OrderID})
}
