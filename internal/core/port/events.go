package port

import (
	"context"

	"github.com/RaoufAlaadin/MedicaRental/internal/core/domain"
)

// EventPublisher publishes domain events to the message bus.
type EventPublisher interface {
	PublishUserRegistered(ctx context.Context, event domain.UserRegisteredEvent) error
	PublishUserBlocked(ctx context.Context, event domain.UserBlockedEvent) error
	PublishUserUnblocked(ctx context.Context, event domain.UserUnblockedEvent) error
	PublishMessageDeleted(ctx context.Context, event domain.MessageDeletedEvent) error
}
