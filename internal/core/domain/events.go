package domain

import "time"

// UserRegisteredEvent is emitted after a successful registration.
type UserRegisteredEvent struct {
	EventID      string
	UserID       string
	Email        string
	Role         string
	RegisteredAt time.Time
}

// UserBlockedEvent is emitted when an account is blocked.
type UserBlockedEvent struct {
	EventID    string
	UserID     string
	Email      string
	LockoutEnd time.Time
	BlockedAt  time.Time
}

// UserUnblockedEvent is emitted when an account block is lifted.
type UserUnblockedEvent struct {
	EventID     string
	UserID      string
	Email       string
	UnblockedAt time.Time
}

// MessageDeletedEvent is emitted after a chat message is removed.
type MessageDeletedEvent struct {
	EventID     string
	MessageID   string
	RequestedBy string
	DeletedAt   time.Time
}
