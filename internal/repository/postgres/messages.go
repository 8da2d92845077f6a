package postgres

import (
	"context"
	"fmt"

	squirrel "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/RaoufAlaadin/MedicaRental/internal/core/domain"
	"github.com/RaoufAlaadin/MedicaRental/internal/core/port"
	"github.com/RaoufAlaadin/MedicaRental/internal/repository"
)

var messageColumns = []string{
	"id",
	"content",
	"sender_id",
	"receiver_id",
	"sent_at",
	"status",
}

// MessageRepository implements port.MessageRepository using PostgreSQL.
type MessageRepository struct {
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewMessageRepository wires a PostgreSQL-backed message repository.
func NewMessageRepository(exec pgExecutor) *MessageRepository {
	return &MessageRepository{
		exec:    exec,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create persists a new chat message.
func (r *MessageRepository) Create(ctx context.Context, message domain.Message) error {
	stmt, args, err := r.builder.Insert("rental.messages").
		Columns(messageColumns...).
		Values(
			message.ID,
			message.Content,
			message.SenderID,
			message.ReceiverID,
			message.Timestamp,
			int(message.Status),
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert message sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		return fmt.Errorf("insert message: %w", err)
	}

	return nil
}

// GetConversation returns the two-way history between the users, oldest first.
func (r *MessageRepository) GetConversation(ctx context.Context, firstUserID, secondUserID string) ([]domain.Message, error) {
	stmt, args, err := r.builder.
		Select(messageColumns...).
		From("rental.messages").
		Where(squirrel.Or{
			squirrel.Eq{"sender_id": firstUserID, "receiver_id": secondUserID},
			squirrel.Eq{"sender_id": secondUserID, "receiver_id": firstUserID},
		}).
		OrderBy("sent_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select conversation sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("select conversation: %w", err)
	}
	defer rows.Close()

	return collectMessages(rows)
}

// ListByParticipant returns every message the user sent or received, newest
// first. Chat grouping happens above the repository.
func (r *MessageRepository) ListByParticipant(ctx context.Context, userID string) ([]domain.Message, error) {
	stmt, args, err := r.builder.
		Select(messageColumns...).
		From("rental.messages").
		Where(squirrel.Or{
			squirrel.Eq{"sender_id": userID},
			squirrel.Eq{"receiver_id": userID},
		}).
		OrderBy("sent_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select messages sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("select messages: %w", err)
	}
	defer rows.Close()

	return collectMessages(rows)
}

// MarkSeen advances every message from sender to receiver to the seen state
// in a single statement. Matching zero rows is not an error.
func (r *MessageRepository) MarkSeen(ctx context.Context, receiverID, senderID string) error {
	stmt, args, err := r.builder.Update("rental.messages").
		Set("status", int(domain.MessageStatusSeen)).
		Where(squirrel.Eq{"receiver_id": receiverID, "sender_id": senderID}).
		Where(squirrel.NotEq{"status": int(domain.MessageStatusSeen)}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build mark seen sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		return fmt.Errorf("mark messages seen: %w", err)
	}

	return nil
}

// DeleteByID removes a message by identifier.
func (r *MessageRepository) DeleteByID(ctx context.Context, id string) error {
	stmt, args, err := r.builder.Delete("rental.messages").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete message sql: %w", err)
	}

	ct, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("delete message: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

func collectMessages(rows pgx.Rows) ([]domain.Message, error) {
	var messages []domain.Message
	for rows.Next() {
		var (
			m      domain.Message
			status int
		)
		if err := rows.Scan(
			&m.ID,
			&m.Content,
			&m.SenderID,
			&m.ReceiverID,
			&m.Timestamp,
			&status,
		); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		m.Status = domain.MessageStatus(status)
		messages = append(messages, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate messages: %w", err)
	}

	return messages, nil
}

var _ port.MessageRepository = (*MessageRepository)(nil)
