package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"
	"github.com/google/uuid"

	"github.com/RaoufAlaadin/MedicaRental/internal/core/domain"
	"github.com/RaoufAlaadin/MedicaRental/internal/core/port"
	"github.com/RaoufAlaadin/MedicaRental/internal/infra/config"
)

const schemaVersion = "1.0"

// EventPublisher implements port.EventPublisher using Kafka.
type EventPublisher struct {
	producer *Producer
	appCfg   config.AppSettings
}

// NewEventPublisher constructs a Kafka-backed event publisher.
func NewEventPublisher(producer *Producer, appCfg config.AppSettings) *EventPublisher {
	return &EventPublisher{producer: producer, appCfg: appCfg}
}

type eventEnvelope struct {
	EventID   string            `json:"event_id"`
	EventType string            `json:"event_type"`
	UserID    string            `json:"user_id,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
	Version   string            `json:"version"`
	Payload   any               `json:"payload"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

func (p *EventPublisher) publish(ctx context.Context, eventID, eventType, userID string, ts time.Time, payload any) error {
	if ts.IsZero() {
		ts = time.Now().UTC()
	}

	id := eventID
	if id == "" {
		id = uuid.NewString()
	}

	envelope := eventEnvelope{
		EventID:   id,
		EventType: eventType,
		UserID:    userID,
		Timestamp: ts.UTC(),
		Version:   schemaVersion,
		Payload:   payload,
		Metadata: map[string]string{
			"service":     p.appCfg.Name,
			"environment": p.appCfg.Env,
		},
	}

	bytes, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("marshal event envelope: %w", err)
	}

	message := &sarama.ProducerMessage{
		Topic: p.producer.TopicName(eventType),
		Value: sarama.ByteEncoder(bytes),
	}

	select {
	case p.producer.Producer().Input() <- message:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// PublishUserRegistered publishes rental.user.registered events.
func (p *EventPublisher) PublishUserRegistered(ctx context.Context, event domain.UserRegisteredEvent) error {
	payload := struct {
		UserID       string    `json:"user_id"`
		Email        string    `json:"email"`
		Role         string    `json:"role"`
		RegisteredAt time.Time `json:"registered_at"`
	}{
		UserID:       event.UserID,
		Email:        event.Email,
		Role:         event.Role,
		RegisteredAt: event.RegisteredAt.UTC(),
	}

	return p.publish(ctx, event.EventID, "user.registered", event.UserID, event.RegisteredAt, payload)
}

// PublishUserBlocked publishes rental.user.blocked events.
func (p *EventPublisher) PublishUserBlocked(ctx context.Context, event domain.UserBlockedEvent) error {
	payload := struct {
		UserID     string    `json:"user_id"`
		Email      string    `json:"email"`
		LockoutEnd time.Time `json:"lockout_end"`
		BlockedAt  time.Time `json:"blocked_at"`
	}{
		UserID:     event.UserID,
		Email:      event.Email,
		LockoutEnd: event.LockoutEnd.UTC(),
		BlockedAt:  event.BlockedAt.UTC(),
	}

	return p.publish(ctx, event.EventID, "user.blocked", event.UserID, event.BlockedAt, payload)
}

// PublishUserUnblocked publishes rental.user.unblocked events.
func (p *EventPublisher) PublishUserUnblocked(ctx context.Context, event domain.UserUnblockedEvent) error {
	payload := struct {
		UserID      string    `json:"user_id"`
		Email       string    `json:"email"`
		UnblockedAt time.Time `json:"unblocked_at"`
	}{
		UserID:      event.UserID,
		Email:       event.Email,
		UnblockedAt: event.UnblockedAt.UTC(),
	}

	return p.publish(ctx, event.EventID, "user.unblocked", event.UserID, event.UnblockedAt, payload)
}

// PublishMessageDeleted publishes rental.chat.message.deleted events.
func (p *EventPublisher) PublishMessageDeleted(ctx context.Context, event domain.MessageDeletedEvent) error {
	payload := struct {
		MessageID   string    `json:"message_id"`
		RequestedBy string    `json:"requested_by"`
		DeletedAt   time.Time `json:"deleted_at"`
	}{
		MessageID:   event.MessageID,
		RequestedBy: event.RequestedBy,
		DeletedAt:   event.DeletedAt.UTC(),
	}

	return p.publish(ctx, event.EventID, "chat.message.deleted", event.RequestedBy, event.DeletedAt, payload)
}

var _ port.EventPublisher = (*EventPublisher)(nil)
