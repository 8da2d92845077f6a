package domain

import "time"

// Item is the minimal listing record the cart projects over.
type Item struct {
	ID    string
	Name  string
	Price float64
	Image *string
}

// CartItem links a listed item to a client's cart.
type CartItem struct {
	ID       string
	ItemID   string
	ClientID string
	AddedAt  time.Time
}

// CartItemView is the projection returned to clients browsing their cart.
type CartItemView struct {
	ItemID string
	Name   string
	Price  float64
	Image  *string
}

// ReportType partitions reports by the surface they were filed against.
type ReportType string

const (
	ReportTypeChat   ReportType = "chat"
	ReportTypeReview ReportType = "review"
	ReportTypeItem   ReportType = "item"
)

// Report is a user-submitted complaint about a chat, review, or item.
type Report struct {
	ID         string
	ReporterID string
	Type       ReportType
	TargetID   string
	Reason     string
	CreatedAt  time.Time
}
