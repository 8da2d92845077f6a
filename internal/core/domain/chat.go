package domain

import "time"

// MessageStatus enumerates the delivery lifecycle of a chat message.
// The progression is ordered and monotonic: a message never regresses.
type MessageStatus int

const (
	MessageStatusSent MessageStatus = iota
	MessageStatusDelivered
	MessageStatusSeen
)

// String returns the wire name of the status.
func (s MessageStatus) String() string {
	switch s {
	case MessageStatusSent:
		return "sent"
	case MessageStatusDelivered:
		return "delivered"
	case MessageStatusSeen:
		return "seen"
	default:
		return "unknown"
	}
}

// Message mirrors the persisted representation in the messages table.
type Message struct {
	ID         string
	Content    string
	SenderID   string
	ReceiverID string
	Timestamp  time.Time
	Status     MessageStatus
}

// CounterpartOf returns the participant on the other side of the message.
func (m Message) CounterpartOf(userID string) string {
	if m.SenderID == userID {
		return m.ReceiverID
	}
	return m.SenderID
}

// ChatSummary is a derived projection over the messages between two users.
// It is recomputed per query and never persisted.
type ChatSummary struct {
	CounterpartID   string
	CounterpartName string
	ProfileImage    *string
	LatestContent   string
	LatestTimestamp time.Time
	LatestStatus    MessageStatus
	UnseenCount     int
}
