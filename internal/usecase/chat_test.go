package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/RaoufAlaadin/MedicaRental/internal/core/domain"
)

func seedMessage(repo *stubMessageRepo, id, sender, receiver, content string, at time.Time, status domain.MessageStatus) {
	repo.messages = append(repo.messages, domain.Message{
		ID:         id,
		Content:    content,
		SenderID:   sender,
		ReceiverID: receiver,
		Timestamp:  at,
		Status:     status,
	})
}

func TestSendMessage(t *testing.T) {
	messages := &stubMessageRepo{}
	service := NewChatService(messages, newStubUserRepo(), nil, nil)

	sent, err := service.SendMessage(context.Background(), "client-1", "seller-1", "Is the wheelchair available?")
	if err != nil {
		t.Fatalf("SendMessage: %v", err)
	}
	if sent.Status != domain.MessageStatusSent {
		t.Fatalf("expected sent status, got %v", sent.Status)
	}
	if sent.ID == "" {
		t.Fatalf("expected an assigned message id")
	}

	if _, err := service.SendMessage(context.Background(), "client-1", "seller-1", ""); !errors.Is(err, ErrEmptyMessage) {
		t.Fatalf("expected ErrEmptyMessage, got %v", err)
	}
}

func TestUpdateSeenStatus_MarksAllRegardlessOfOpenedAt(t *testing.T) {
	messages := &stubMessageRepo{}
	service := NewChatService(messages, newStubUserRepo(), nil, nil)

	opened := time.Now().UTC()
	seedMessage(messages, "msg-1", "seller-1", "client-1", "early", opened.Add(-time.Hour), domain.MessageStatusSent)
	// Arrived after the chat was opened; still transitions.
	seedMessage(messages, "msg-2", "seller-1", "client-1", "late", opened.Add(time.Minute), domain.MessageStatusDelivered)
	seedMessage(messages, "msg-3", "client-1", "seller-1", "own", opened, domain.MessageStatusSent)

	if err := service.UpdateSeenStatus(context.Background(), "client-1", "seller-1", opened); err != nil {
		t.Fatalf("UpdateSeenStatus: %v", err)
	}

	for _, m := range messages.messages[:2] {
		if m.Status != domain.MessageStatusSeen {
			t.Fatalf("message %s not marked seen", m.ID)
		}
	}
	if messages.messages[2].Status == domain.MessageStatusSeen {
		t.Fatalf("own outgoing message must not be marked seen")
	}

	// Idempotent on a second open.
	if err := service.UpdateSeenStatus(context.Background(), "client-1", "seller-1", opened); err != nil {
		t.Fatalf("second UpdateSeenStatus: %v", err)
	}

	// No messages from this counterpart is still success.
	if err := service.UpdateSeenStatus(context.Background(), "client-1", "stranger", opened); err != nil {
		t.Fatalf("UpdateSeenStatus with no messages: %v", err)
	}
}

func TestGetChat_FailsWhenSeenUpdateFails(t *testing.T) {
	messages := &stubMessageRepo{markSeenErr: errors.New("storage offline")}
	service := NewChatService(messages, newStubUserRepo(), nil, nil)

	if _, err := service.GetChat(context.Background(), "client-1", "seller-1", time.Now()); err == nil {
		t.Fatalf("expected GetChat to fail when the seen update fails")
	}
}

func TestGetChat_ReturnsOrderedHistory(t *testing.T) {
	messages := &stubMessageRepo{}
	service := NewChatService(messages, newStubUserRepo(), nil, nil)

	base := time.Now().UTC().Add(-time.Hour)
	seedMessage(messages, "msg-2", "seller-1", "client-1", "second", base.Add(time.Minute), domain.MessageStatusSent)
	seedMessage(messages, "msg-1", "client-1", "seller-1", "first", base, domain.MessageStatusSeen)
	seedMessage(messages, "msg-x", "client-1", "other", "unrelated", base, domain.MessageStatusSent)

	history, err := service.GetChat(context.Background(), "client-1", "seller-1", time.Now())
	if err != nil {
		t.Fatalf("GetChat: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(history))
	}
	if history[0].ID != "msg-1" || history[1].ID != "msg-2" {
		t.Fatalf("history out of order: %s then %s", history[0].ID, history[1].ID)
	}
	if history[1].Status != domain.MessageStatusSeen {
		t.Fatalf("incoming message should be seen after GetChat")
	}
}

func TestGetUserChats_GroupsByCounterpart(t *testing.T) {
	messages := &stubMessageRepo{}
	users := newStubUserRepo()
	service := NewChatService(messages, users, nil, nil)

	avatar := "avatars/seller.png"
	_ = users.Create(context.Background(), domain.User{ID: "seller-1", Email: "s1@example.com", FirstName: "Salma", ProfileImage: &avatar})
	_ = users.Create(context.Background(), domain.User{ID: "seller-2", Email: "s2@example.com", FirstName: "Omar"})

	base := time.Now().UTC().Add(-time.Hour)
	seedMessage(messages, "msg-1", "client-1", "seller-1", "hello", base, domain.MessageStatusSeen)
	seedMessage(messages, "msg-2", "seller-1", "client-1", "hi back", base.Add(2*time.Minute), domain.MessageStatusSent)
	seedMessage(messages, "msg-3", "seller-2", "client-1", "your order", base.Add(time.Minute), domain.MessageStatusDelivered)
	seedMessage(messages, "msg-4", "seller-2", "client-1", "shipped", base.Add(3*time.Minute), domain.MessageStatusSent)

	chats, err := service.GetUserChats(context.Background(), "client-1", 10)
	if err != nil {
		t.Fatalf("GetUserChats: %v", err)
	}
	if len(chats) != 2 {
		t.Fatalf("expected 2 chats, got %d", len(chats))
	}

	// Ordered by latest activity: seller-2 wrote last.
	if chats[0].CounterpartID != "seller-2" {
		t.Fatalf("expected seller-2 first, got %s", chats[0].CounterpartID)
	}
	if chats[0].LatestContent != "shipped" {
		t.Fatalf("expected latest content from seller-2, got %q", chats[0].LatestContent)
	}
	if chats[0].UnseenCount != 2 {
		t.Fatalf("expected 2 unseen from seller-2, got %d", chats[0].UnseenCount)
	}
	if chats[0].CounterpartName != "Omar" {
		t.Fatalf("expected counterpart name Omar, got %q", chats[0].CounterpartName)
	}

	if chats[1].CounterpartID != "seller-1" {
		t.Fatalf("expected seller-1 second, got %s", chats[1].CounterpartID)
	}
	if chats[1].UnseenCount != 1 {
		t.Fatalf("expected 1 unseen from seller-1, got %d", chats[1].UnseenCount)
	}
	if chats[1].ProfileImage == nil || *chats[1].ProfileImage != avatar {
		t.Fatalf("expected seller-1 avatar, got %v", chats[1].ProfileImage)
	}
}

func TestGetUserChats_LimitCapsSummaries(t *testing.T) {
	messages := &stubMessageRepo{}
	service := NewChatService(messages, newStubUserRepo(), nil, nil)

	base := time.Now().UTC()
	seedMessage(messages, "msg-1", "a", "client-1", "one", base, domain.MessageStatusSent)
	seedMessage(messages, "msg-2", "b", "client-1", "two", base.Add(-time.Minute), domain.MessageStatusSent)
	seedMessage(messages, "msg-3", "c", "client-1", "three", base.Add(-2*time.Minute), domain.MessageStatusSent)

	chats, err := service.GetUserChats(context.Background(), "client-1", 2)
	if err != nil {
		t.Fatalf("GetUserChats: %v", err)
	}
	if len(chats) != 2 {
		t.Fatalf("expected limit of 2 chats, got %d", len(chats))
	}
	if chats[0].CounterpartID != "a" || chats[1].CounterpartID != "b" {
		t.Fatalf("expected the two most recent chats, got %s and %s", chats[0].CounterpartID, chats[1].CounterpartID)
	}
}

func TestDeleteMessage_NoOwnershipCheck(t *testing.T) {
	messages := &stubMessageRepo{}
	events := &stubEventPublisher{}
	service := NewChatService(messages, newStubUserRepo(), events, nil)

	seedMessage(messages, "msg-1", "seller-1", "client-1", "hello", time.Now().UTC(), domain.MessageStatusSent)

	// A user who is neither sender nor receiver can still delete.
	if err := service.DeleteMessage(context.Background(), "someone-else", "msg-1"); err != nil {
		t.Fatalf("DeleteMessage: %v", err)
	}
	if len(messages.messages) != 0 {
		t.Fatalf("message not removed")
	}

	if err := service.DeleteMessage(context.Background(), "someone-else", "msg-1"); !errors.Is(err, ErrMessageNotFound) {
		t.Fatalf("expected ErrMessageNotFound, got %v", err)
	}

	kinds := events.kinds()
	if len(kinds) != 1 || kinds[0] != "chat.message.deleted" {
		t.Fatalf("expected a chat.message.deleted event, got %v", kinds)
	}
}
