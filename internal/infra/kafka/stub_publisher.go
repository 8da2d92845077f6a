package kafka

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/RaoufAlaadin/MedicaRental/internal/core/domain"
	"github.com/RaoufAlaadin/MedicaRental/internal/core/port"
)

// StubPublisher logs events instead of sending them to Kafka. Useful when no
// brokers are configured.
type StubPublisher struct {
	logger *zap.Logger
}

// NewStubPublisher constructs a development-friendly event publisher.
func NewStubPublisher(logger *zap.Logger) *StubPublisher {
	return &StubPublisher{logger: logger}
}

func (p *StubPublisher) logEvent(eventType, userID string, at time.Time, payload any) {
	if at.IsZero() {
		at = time.Now().UTC()
	}

	p.logger.Info("stub event published",
		zap.String("event_type", eventType),
		zap.String("user_id", userID),
		zap.Time("timestamp", at.UTC()),
		zap.Any("payload", payload),
	)
}

// PublishUserRegistered logs user.registered events.
func (p *StubPublisher) PublishUserRegistered(_ context.Context, event domain.UserRegisteredEvent) error {
	p.logEvent("user.registered", event.UserID, event.RegisteredAt, map[string]any{
		"email": event.Email,
		"role":  event.Role,
	})
	return nil
}

// PublishUserBlocked logs user.blocked events.
func (p *StubPublisher) PublishUserBlocked(_ context.Context, event domain.UserBlockedEvent) error {
	p.logEvent("user.blocked", event.UserID, event.BlockedAt, map[string]any{
		"email":       event.Email,
		"lockout_end": event.LockoutEnd,
	})
	return nil
}

// PublishUserUnblocked logs user.unblocked events.
func (p *StubPublisher) PublishUserUnblocked(_ context.Context, event domain.UserUnblockedEvent) error {
	p.logEvent("user.unblocked", event.UserID, event.UnblockedAt, map[string]any{
		"email": event.Email,
	})
	return nil
}

// PublishMessageDeleted logs chat.message.deleted events.
func (p *StubPublisher) PublishMessageDeleted(_ context.Context, event domain.MessageDeletedEvent) error {
	p.logEvent("chat.message.deleted", event.RequestedBy, event.DeletedAt, map[string]any{
		"message_id": event.MessageID,
	})
	return nil
}

var _ port.EventPublisher = (*StubPublisher)(nil)
