package port

import (
	"context"

	"github.com/RaoufAlaadin/MedicaRental/internal/core/domain"
)

// MessageRepository provides access to chat messages.
type MessageRepository interface {
	Create(ctx context.Context, message domain.Message) error
	// GetConversation returns the full two-way history between two users
	// ordered by timestamp ascending.
	GetConversation(ctx context.Context, firstUserID, secondUserID string) ([]domain.Message, error)
	// ListByParticipant returns every message involving the user ordered by
	// timestamp descending.
	ListByParticipant(ctx context.Context, userID string) ([]domain.Message, error)
	// MarkSeen transitions every message from sender to receiver to Seen in
	// one statement. Succeeds even when zero rows match.
	MarkSeen(ctx context.Context, receiverID, senderID string) error
	// DeleteByID removes a message, returning repository.ErrNotFound when the
	// id does not exist.
	DeleteByID(ctx context.Context, id string) error
}
