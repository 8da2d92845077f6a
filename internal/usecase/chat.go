package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	uuid "github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/RaoufAlaadin/MedicaRental/internal/core/domain"
	"github.com/RaoufAlaadin/MedicaRental/internal/core/port"
	"github.com/RaoufAlaadin/MedicaRental/internal/repository"
)

var (
	// ErrMessageNotFound indicates the referenced message does not exist.
	ErrMessageNotFound = errors.New("message not found")
	// ErrEmptyMessage indicates a send attempt with no content.
	ErrEmptyMessage = errors.New("message content is empty")
)

// ChatService coordinates conversations, seen-state transitions, and the
// per-counterpart chat overview.
type ChatService struct {
	messages port.MessageRepository
	users    port.UserRepository
	events   port.EventPublisher
	logger   *zap.Logger
	now      func() time.Time
}

// NewChatService constructs a ChatService instance.
func NewChatService(
	messages port.MessageRepository,
	users port.UserRepository,
	events port.EventPublisher,
	logger *zap.Logger,
) *ChatService {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &ChatService{
		messages: messages,
		users:    users,
		events:   events,
		logger:   logger,
		now:      time.Now,
	}
}

// WithClock overrides the time source. Intended for tests.
func (s *ChatService) WithClock(now func() time.Time) *ChatService {
	s.now = now
	return s
}

// SendMessage persists a new message in the sent state with a server-side
// timestamp.
func (s *ChatService) SendMessage(ctx context.Context, senderID, receiverID, content string) (*domain.Message, error) {
	if content == "" {
		return nil, ErrEmptyMessage
	}

	message := domain.Message{
		ID:         uuid.NewString(),
		Content:    content,
		SenderID:   senderID,
		ReceiverID: receiverID,
		Timestamp:  s.now().UTC(),
		Status:     domain.MessageStatusSent,
	}

	if err := s.messages.Create(ctx, message); err != nil {
		return nil, fmt.Errorf("store message: %w", err)
	}

	return &message, nil
}

// UpdateSeenStatus marks every message from sender to receiver as seen.
// The openedAt instant is accepted for API compatibility but does not narrow
// the update; all unseen messages transition regardless of when they arrived.
// Idempotent, and matching zero messages is success.
func (s *ChatService) UpdateSeenStatus(ctx context.Context, receiverID, senderID string, openedAt time.Time) error {
	_ = openedAt

	if err := s.messages.MarkSeen(ctx, receiverID, senderID); err != nil {
		return fmt.Errorf("mark seen: %w", err)
	}

	return nil
}

// GetChat marks the counterpart's messages as seen and returns the full
// two-way history, oldest first. A failed seen update fails the whole call;
// a history that silently disagrees with its seen state is worse than an
// error.
func (s *ChatService) GetChat(ctx context.Context, userID, counterpartID string, openedAt time.Time) ([]domain.Message, error) {
	if err := s.UpdateSeenStatus(ctx, userID, counterpartID, openedAt); err != nil {
		return nil, err
	}

	messages, err := s.messages.GetConversation(ctx, userID, counterpartID)
	if err != nil {
		return nil, fmt.Errorf("load conversation: %w", err)
	}

	return messages, nil
}

// GetUserChats groups all of the user's messages by counterpart and returns
// up to limit summaries ordered by latest activity. Summaries are recomputed
// from the message store on every call.
func (s *ChatService) GetUserChats(ctx context.Context, userID string, limit int) ([]domain.ChatSummary, error) {
	messages, err := s.messages.ListByParticipant(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load messages: %w", err)
	}

	// Messages arrive newest first, so the first message per counterpart is
	// the latest of that conversation.
	summaries := make(map[string]*domain.ChatSummary)
	var order []string
	for _, m := range messages {
		counterpart := m.CounterpartOf(userID)
		summary, ok := summaries[counterpart]
		if !ok {
			summary = &domain.ChatSummary{
				CounterpartID:   counterpart,
				LatestContent:   m.Content,
				LatestTimestamp: m.Timestamp,
				LatestStatus:    m.Status,
			}
			summaries[counterpart] = summary
			order = append(order, counterpart)
		}
		if m.ReceiverID == userID && m.Status != domain.MessageStatusSeen {
			summary.UnseenCount++
		}
	}

	if limit > 0 && len(order) > limit {
		order = order[:limit]
	}

	profiles, err := s.users.GetProfiles(ctx, order)
	if err != nil {
		return nil, fmt.Errorf("resolve counterpart profiles: %w", err)
	}

	result := make([]domain.ChatSummary, 0, len(order))
	for _, counterpart := range order {
		summary := *summaries[counterpart]
		if profile, ok := profiles[counterpart]; ok {
			summary.CounterpartName = profile.DisplayName()
			summary.ProfileImage = profile.ProfileImage
		}
		result = append(result, summary)
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].LatestTimestamp.After(result[j].LatestTimestamp)
	})

	return result, nil
}

// DeleteMessage removes a message by id. Any authenticated caller may delete
// any message; the endpoint has no ownership restriction.
func (s *ChatService) DeleteMessage(ctx context.Context, userID, messageID string) error {
	if err := s.messages.DeleteByID(ctx, messageID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrMessageNotFound
		}
		return fmt.Errorf("delete message: %w", err)
	}

	s.publishDeleted(ctx, userID, messageID)

	return nil
}

func (s *ChatService) publishDeleted(ctx context.Context, userID, messageID string) {
	if s.events == nil {
		return
	}
	err := s.events.PublishMessageDeleted(ctx, domain.MessageDeletedEvent{
		MessageID:   messageID,
		RequestedBy: userID,
		DeletedAt:   s.now().UTC(),
	})
	if err != nil {
		s.logger.Warn("publish event failed", zap.Error(err))
	}
}
