package publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/fjod/go_storefront/internal/domain"
	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

const EventTypeCheckoutCompleted = "checkout.completed"

// CheckoutCompletedEvent is the message value written for every receipt.
type CheckoutCompletedEvent struct {
	EventID     string                `json:"event_id"`
	EventType   string                `json:"event_type"`
	CartID      string                `json:"cart_id"`
	ReceiptID   string                `json:"receipt_id"`
	Items       []domain.CartItemView `json:"items"`
	Total       float64               `json:"total"`
	Status      string                `json:"status"`
	CompletedAt time.Time             `json:"completed_at"`
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type KafkaPublisher struct {
	writer messageWriter
}

func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
	}
	return &KafkaPublisher{writer: w}
}

func (p *KafkaPublisher) PublishCheckoutCompleted(ctx context.Context, cartID string, receipt *domain.Receipt) error {
	event := CheckoutCompletedEvent{
		EventID:     uuid.NewString(),
		EventType:   EventTypeCheckoutCompleted,
		CartID:      cartID,
		ReceiptID:   receipt.ID,
		Items:       receipt.Items,
		Total:       receipt.Total,
		Status:      receipt.Status.String(),
		CompletedAt: receipt.Timestamp,
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal checkout event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(cartID), // keeps a cart's events ordered
		Value: payload,
		Time:  time.Now().UTC(),
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(EventTypeCheckoutCompleted)},
			{Key: "event_id", Value: []byte(event.EventID)},
		},
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to write checkout event: %w", err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
