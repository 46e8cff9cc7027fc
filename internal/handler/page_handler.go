package handler

import (
	"errors"
	"net/http"

	"secretpages/backend/internal/auth"
	"secretpages/backend/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// PageHandler renders the view models behind the landing page and the three
// guarded secret pages. The pages are thin: every one is a projection of the
// stores with no logic of its own.
type PageHandler struct {
	messages      *store.MessageStore
	relationships *store.RelationshipStore
}

func NewPageHandler(messages *store.MessageStore, relationships *store.RelationshipStore) *PageHandler {
	return &PageHandler{messages: messages, relationships: relationships}
}

// Landing is the public entry point; unauthenticated navigation ends up here.
func (h *PageHandler) Landing(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"page":    "landing",
		"sign_in": "/api/v1/auth/login",
		"sign_up": "/api/v1/auth/register",
	})
}

// SecretPage1 shows the user's own secret message alongside the stream
// endpoint that keeps it current.
func (h *PageHandler) SecretPage1(c *gin.Context) {
	userID := auth.GetUserID(c)

	view := gin.H{
		"page":   "secret-page-1",
		"email":  auth.GetUserEmail(c),
		"stream": "/api/v1/messages/me/stream",
	}
	msg, err := h.messages.Get(c.Request.Context(), userID)
	switch {
	case err == nil:
		view["message"] = msg.Message
	case errors.Is(err, store.ErrNotFound):
		view["message"] = nil
	default:
		log.Error().Err(err).Str("user_id", userID).Msg("secret page 1")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load page"})
		return
	}
	c.JSON(http.StatusOK, view)
}

// SecretPage2 is the editor view: the current message plus where to save it.
func (h *PageHandler) SecretPage2(c *gin.Context) {
	userID := auth.GetUserID(c)

	view := gin.H{
		"page":  "secret-page-2",
		"email": auth.GetUserEmail(c),
		"save":  "/api/v1/messages/me",
	}
	msg, err := h.messages.Get(c.Request.Context(), userID)
	switch {
	case err == nil:
		view["current_message"] = msg.Message
	case errors.Is(err, store.ErrNotFound):
		view["current_message"] = nil
	default:
		log.Error().Err(err).Str("user_id", userID).Msg("secret page 2")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load page"})
		return
	}
	c.JSON(http.StatusOK, view)
}

// SecretPage3 is the friends view: friends with their secrets, plus pending
// requests awaiting a decision.
func (h *PageHandler) SecretPage3(c *gin.Context) {
	userID := auth.GetUserID(c)
	ctx := c.Request.Context()

	friends, err := h.relationships.Friends(ctx, userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("secret page 3 friends")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load page"})
		return
	}
	ids := make([]string, 0, len(friends))
	for _, f := range friends {
		ids = append(ids, f.ID)
	}
	messages, err := h.messages.LatestFor(ctx, ids)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("secret page 3 messages")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load page"})
		return
	}
	pending, err := h.relationships.PendingReceived(ctx, userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("secret page 3 pending")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load page"})
		return
	}

	friendViews := make([]FriendResponse, 0, len(friends))
	for _, f := range friends {
		friendViews = append(friendViews, FriendResponse{ID: f.ID, Email: f.Email, Message: messages[f.ID]})
	}
	pendingViews := make([]FriendRequestResponse, 0, len(pending))
	for _, r := range pending {
		pendingViews = append(pendingViews, FriendRequestResponse{
			ID:          r.ID,
			SenderID:    r.SenderID,
			SenderEmail: r.SenderEmail,
			CreatedAt:   r.CreatedAt,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"page":             "secret-page-3",
		"email":            auth.GetUserEmail(c),
		"friends":          friendViews,
		"pending_requests": pendingViews,
	})
}
