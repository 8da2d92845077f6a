package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/RaoufAlaadin/MedicaRental/internal/transport/http/middleware"
	"github.com/RaoufAlaadin/MedicaRental/internal/usecase"
)

const defaultChatLimit = 50

// ChatHandler exposes conversation endpoints.
type ChatHandler struct {
	chat     *usecase.ChatService
	accounts *usecase.AccountService
}

// NewChatHandler constructs ChatHandler.
func NewChatHandler(chat *usecase.ChatService, accounts *usecase.AccountService) *ChatHandler {
	return &ChatHandler{chat: chat, accounts: accounts}
}

// RegisterRoutes binds chat routes; every endpoint requires authentication.
func (h *ChatHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.Use(middleware.RequireAuth(h.accounts))

	r.GET("", h.listChats)
	r.POST("", h.sendMessage)
	r.GET("/:userId", h.getChat)
	r.DELETE("/messages/:messageId", h.deleteMessage)
}

func (h *ChatHandler) listChats(c *gin.Context) {
	userID := middleware.AuthenticatedUserID(c)

	limit := defaultChatLimit
	if raw := c.Query("upTo"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, NewErrorResponse(c, "upTo must be a positive integer"))
			return
		}
		limit = parsed
	}

	summaries, err := h.chat.GetUserChats(c.Request.Context(), userID, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "failed to load chats"))
		return
	}

	views := make([]ChatSummaryView, 0, len(summaries))
	for _, s := range summaries {
		views = append(views, NewChatSummaryView(s))
	}

	c.JSON(http.StatusOK, views)
}

func (h *ChatHandler) getChat(c *gin.Context) {
	userID := middleware.AuthenticatedUserID(c)
	counterpartID := c.Param("userId")

	openedAt := time.Now().UTC()
	if raw := c.Query("openedAt"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, NewErrorResponse(c, "openedAt must be RFC 3339"))
			return
		}
		openedAt = parsed
	}

	// A failed seen update aborts the request; returning history whose seen
	// state is stale would mislead the client.
	messages, err := h.chat.GetChat(c.Request.Context(), userID, counterpartID, openedAt)
	if err != nil {
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "failed to load chat"))
		return
	}

	views := make([]MessageView, 0, len(messages))
	for _, m := range messages {
		views = append(views, NewMessageView(m))
	}

	c.JSON(http.StatusOK, views)
}

func (h *ChatHandler) sendMessage(c *gin.Context) {
	userID := middleware.AuthenticatedUserID(c)

	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, err.Error()))
		return
	}

	message, err := h.chat.SendMessage(c.Request.Context(), userID, req.ReceiverID, req.Content)
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrEmptyMessage, Status: http.StatusBadRequest, Message: "message content is empty"},
		}, http.StatusInternalServerError, "failed to send message")
		return
	}

	c.JSON(http.StatusCreated, NewMessageView(*message))
}

func (h *ChatHandler) deleteMessage(c *gin.Context) {
	userID := middleware.AuthenticatedUserID(c)
	messageID := c.Param("messageId")

	if err := h.chat.DeleteMessage(c.Request.Context(), userID, messageID); err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrMessageNotFound, Status: http.StatusBadRequest, Message: "failed to delete message"},
		}, http.StatusInternalServerError, "failed to delete message")
		return
	}

	c.Status(http.StatusNoContent)
}
