package handler

import (
	"errors"
	"io"
	"net/http"
	"time"

	"secretpages/backend/internal/auth"
	"secretpages/backend/internal/hub"
	"secretpages/backend/internal/metrics"
	"secretpages/backend/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// region --- DTOs ---

// SaveMessageInput carries the new secret message text.
type SaveMessageInput struct {
	Message string `json:"message" example:"my secret"`
}

// MessageResponse is the stored secret message.
type MessageResponse struct {
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// endregion

// MessageHandler serves the secret message endpoints, including the live
// change stream.
type MessageHandler struct {
	messages *store.MessageStore
	hub      *hub.Hub
}

func NewMessageHandler(messages *store.MessageStore, h *hub.Hub) *MessageHandler {
	return &MessageHandler{messages: messages, hub: h}
}

// GetMessage godoc
// @Summary      Get own secret message
// @Description  Returns the authenticated user's current secret message.
// @Tags         messages
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  MessageResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse "No message yet"
// @Failure      500  {object}  ErrorResponse
// @Router       /messages/me [get]
func (h *MessageHandler) GetMessage(c *gin.Context) {
	userID := auth.GetUserID(c)
	msg, err := h.messages.Get(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "No secret message yet"})
			return
		}
		log.Error().Err(err).Str("user_id", userID).Msg("get secret message")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch message"})
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: msg.Message, CreatedAt: msg.CreatedAt})
}

// SaveMessage godoc
// @Summary      Save own secret message
// @Description  Creates or replaces the authenticated user's secret message. Empty or whitespace-only text is rejected.
// @Tags         messages
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body SaveMessageInput true "Message"
// @Success      200  {object}  MessageResponse
// @Failure      400  {object}  ErrorResponse "Message cannot be empty"
// @Failure      401  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /messages/me [put]
func (h *MessageHandler) SaveMessage(c *gin.Context) {
	var input SaveMessageInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	userID := auth.GetUserID(c)
	msg, err := h.messages.Save(c.Request.Context(), userID, input.Message)
	if err != nil {
		if errors.Is(err, store.ErrEmptyMessage) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Message cannot be empty"})
			return
		}
		log.Error().Err(err).Str("user_id", userID).Msg("save secret message")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error saving message"})
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: msg.Message, CreatedAt: msg.CreatedAt})
}

// StreamMessages godoc
// @Summary      Stream secret message changes
// @Description  Server-sent events feed of the authenticated user's message changes. The subscription is released when the client disconnects.
// @Tags         messages
// @Produce      text/event-stream
// @Security     BearerAuth
// @Success      200  {string}  string "SSE stream"
// @Failure      401  {object}  ErrorResponse
// @Router       /messages/me/stream [get]
func (h *MessageHandler) StreamMessages(c *gin.Context) {
	userID := auth.GetUserID(c)

	client := h.hub.Subscribe(userID)
	defer h.hub.Unsubscribe(userID, client)

	metrics.StreamConnections.Inc()
	defer metrics.StreamConnections.Dec()

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	// Periodic comments keep intermediaries from closing an idle stream.
	keepalive := time.NewTicker(30 * time.Second)
	defer keepalive.Stop()

	c.Stream(func(w io.Writer) bool {
		select {
		case raw, ok := <-client:
			if !ok {
				return false
			}
			c.SSEvent("message", string(raw))
			return true
		case <-keepalive.C:
			c.SSEvent("ping", time.Now().Unix())
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}
