package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/RaoufAlaadin/MedicaRental/internal/core/domain"
)

// ErrorResponse represents a generic error payload with trace ID for debugging.
type ErrorResponse struct {
	Error   string `json:"error"`
	TraceID string `json:"trace_id,omitempty"`
}

// NewErrorResponse creates an error response with trace ID from context
func NewErrorResponse(c *gin.Context, errorMsg string) ErrorResponse {
	traceID, _ := c.Get("trace_id")
	traceIDStr, _ := traceID.(string)

	return ErrorResponse{
		Error:   errorMsg,
		TraceID: traceIDStr,
	}
}

// MessageResponse represents a simple message payload.
type MessageResponse struct {
	Message string `json:"message"`
}

// HealthResponse reports service liveness.
type HealthResponse struct {
	Status    string    `json:"status"`
	StartedAt time.Time `json:"started_at"`
}

// LoginRequest defines the payload for the login endpoint.
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// TokenBundleResponse carries the credentials returned by login and refresh.
type TokenBundleResponse struct {
	Token            string    `json:"token"`
	ExpiresOn        time.Time `json:"expiresOn"`
	RefreshToken     string    `json:"refreshToken"`
	RefreshExpiresOn time.Time `json:"refreshTokenExpiresOn"`
	Role             string    `json:"role"`
	UserID           string    `json:"userId"`
}

// RegisterRequest defines the payload for account creation.
type RegisterRequest struct {
	Email        string  `json:"email" binding:"required,email"`
	Password     string  `json:"password" binding:"required"`
	FirstName    string  `json:"firstName" binding:"required"`
	LastName     string  `json:"lastName" binding:"required"`
	Phone        *string `json:"phone"`
	ProfileImage *string `json:"profileImage"`
	Role         string  `json:"role"`
}

// RegisterResponse confirms account creation.
type RegisterResponse struct {
	Message string `json:"message"`
	UserID  string `json:"userId"`
	Email   string `json:"email"`
}

// RefreshRequest defines the payload for session rotation.
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// BlockUserRequest defines the payload for blocking an account.
type BlockUserRequest struct {
	UserID  string    `json:"userId" binding:"required"`
	EndDate time.Time `json:"endDate" binding:"required"`
}

// UnblockUserRequest defines the payload for lifting a block.
type UnblockUserRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// SendMessageRequest defines the payload for sending a chat message.
type SendMessageRequest struct {
	ReceiverID string `json:"receiverId" binding:"required"`
	Content    string `json:"content" binding:"required"`
}

// MessageView is the wire form of a chat message.
type MessageView struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	SenderID  string    `json:"senderId"`
	Timestamp time.Time `json:"timestamp"`
	Status    string    `json:"status"`
}

// NewMessageView projects a domain message for the conversation payload.
func NewMessageView(m domain.Message) MessageView {
	return MessageView{
		ID:        m.ID,
		Content:   m.Content,
		SenderID:  m.SenderID,
		Timestamp: m.Timestamp,
		Status:    m.Status.String(),
	}
}

// ChatSummaryView is the wire form of a per-counterpart chat overview entry.
type ChatSummaryView struct {
	UserID          string    `json:"userId"`
	Name            string    `json:"name"`
	ProfileImage    *string   `json:"profileImage,omitempty"`
	LatestContent   string    `json:"latestContent"`
	LatestTimestamp time.Time `json:"latestTimestamp"`
	LatestStatus    string    `json:"latestStatus"`
	UnseenCount     int       `json:"unseenCount"`
}

// NewChatSummaryView projects a chat summary for the overview payload.
func NewChatSummaryView(s domain.ChatSummary) ChatSummaryView {
	return ChatSummaryView{
		UserID:          s.CounterpartID,
		Name:            s.CounterpartName,
		ProfileImage:    s.ProfileImage,
		LatestContent:   s.LatestContent,
		LatestTimestamp: s.LatestTimestamp,
		LatestStatus:    s.LatestStatus.String(),
		UnseenCount:     s.UnseenCount,
	}
}

// CartItemResponse is the wire form of a cart entry.
type CartItemResponse struct {
	ItemID string  `json:"itemId"`
	Name   string  `json:"name"`
	Price  float64 `json:"price"`
	Image  *string `json:"image,omitempty"`
}

// AddToCartRequest defines the payload for cart insertion.
type AddToCartRequest struct {
	ItemID string `json:"itemId" binding:"required"`
}

// ReportView is the wire form of a report.
type ReportView struct {
	ID         string    `json:"id"`
	ReporterID string    `json:"reporterId"`
	Type       string    `json:"type"`
	TargetID   string    `json:"targetId"`
	Reason     string    `json:"reason"`
	CreatedAt  time.Time `json:"createdAt"`
}

// NewReportView projects a domain report for list and detail payloads.
func NewReportView(r domain.Report) ReportView {
	return ReportView{
		ID:         r.ID,
		ReporterID: r.ReporterID,
		Type:       string(r.Type),
		TargetID:   r.TargetID,
		Reason:     r.Reason,
		CreatedAt:  r.CreatedAt,
	}
}

// InsertReportRequest defines the payload for filing a report.
type InsertReportRequest struct {
	Type     string `json:"type" binding:"required"`
	TargetID string `json:"targetId" binding:"required"`
	Reason   string `json:"reason" binding:"required"`
}
