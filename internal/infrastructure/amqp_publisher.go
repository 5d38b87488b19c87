package infrastructure

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"intern_assistant/internal/entities"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
)

const DefaultEventExchange = "intern-assistant.events"

// EventMeta is the envelope header shared by every published event.
type EventMeta struct {
	ID            string    `json:"id"`
	Type          string    `json:"type"`
	CorrelationID string    `json:"correlation_id"`
	OccurredAt    time.Time `json:"occurred_at"`
}

type ResolutionEvent struct {
	Meta         EventMeta `json:"meta"`
	Phone        string    `json:"phone"`
	Status       string    `json:"status"`
	ResponseType string    `json:"response_type,omitempty"`
	FAQID        string    `json:"faq_id,omitempty"`
	Delivered    bool      `json:"delivered"`
	DurationMS   int64     `json:"duration_ms"`
}

// EventPublisher publishes one message per resolution to a topic exchange,
// routed by "resolution.<status>".
type EventPublisher struct {
	conn     *amqp.Connection
	exchange string
	logger   zerolog.Logger
}

func NewEventPublisher(url, exchange string, logger zerolog.Logger) (*EventPublisher, error) {
	if exchange == "" {
		exchange = DefaultEventExchange
	}
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial amqp: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}
	defer ch.Close()

	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		conn.Close()
		return nil, fmt.Errorf("declare exchange %s: %w", exchange, err)
	}

	return &EventPublisher{
		conn:     conn,
		exchange: exchange,
		logger:   logger.With().Str("component", "events").Logger(),
	}, nil
}

func NewResolutionEvent(msg entities.InboundMessage, res entities.Resolution) ResolutionEvent {
	cid := res.CorrelationID
	if cid == "" {
		cid = uuid.NewString()
	}
	return ResolutionEvent{
		Meta: EventMeta{
			ID:            uuid.NewString(),
			Type:          "resolution." + string(res.Status()),
			CorrelationID: cid,
			OccurredAt:    time.Now().UTC(),
		},
		Phone:        entities.NormalizePhone(msg.SenderPhone),
		Status:       string(res.Status()),
		ResponseType: string(res.ResponseType()),
		FAQID:        res.MatchedFAQID(),
		Delivered:    res.Delivered(),
		DurationMS:   res.Duration.Milliseconds(),
	}
}

func (p *EventPublisher) Publish(ctx context.Context, evt ResolutionEvent) error {
	ch, err := p.conn.Channel()
	if err != nil {
		return err
	}
	defer ch.Close()

	body, err := json.Marshal(evt)
	if err != nil {
		return err
	}

	return ch.PublishWithContext(ctx, p.exchange, evt.Meta.Type, false, false, amqp.Publishing{
		ContentType:   "application/json",
		DeliveryMode:  amqp.Persistent,
		MessageId:     evt.Meta.ID,
		CorrelationId: evt.Meta.CorrelationID,
		Timestamp:     evt.Meta.OccurredAt,
		Body:          body,
	})
}

// Observe implements interfaces.ResolutionObserver. Publish failures are
// logged and dropped.
func (p *EventPublisher) Observe(ctx context.Context, msg entities.InboundMessage, res entities.Resolution) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	evt := NewResolutionEvent(msg, res)
	if err := p.Publish(ctx, evt); err != nil {
		p.logger.Error().Err(err).Str("correlation_id", evt.Meta.CorrelationID).Msg("failed to publish resolution event")
		return
	}
	p.logger.Debug().Str("key", evt.Meta.Type).Msg("published")
}

func (p *EventPublisher) Close() error {
	return p.conn.Close()
}
