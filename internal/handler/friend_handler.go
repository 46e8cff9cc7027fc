package handler

import (
	"errors"
	"net/http"
	"time"

	"secretpages/backend/internal/auth"
	"secretpages/backend/internal/models"
	"secretpages/backend/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// region --- DTOs ---

// SendRequestInput asks for a friend request to whoever owns the email.
type SendRequestInput struct {
	Email string `json:"email" binding:"required,email" example:"friend@example.com"`
}

// RespondInput carries the decision for a pending request.
type RespondInput struct {
	Decision models.RequestStatus `json:"decision" binding:"required" example:"accepted"`
}

// FriendRequestResponse is a pending request as shown to its receiver.
type FriendRequestResponse struct {
	ID          string    `json:"id"`
	SenderID    string    `json:"sender_id"`
	SenderEmail string    `json:"sender_email"`
	CreatedAt   time.Time `json:"created_at"`
}

// FriendResponse is a friend together with their current secret message, if
// they have one.
type FriendResponse struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	Message string `json:"message,omitempty"`
}

// endregion

// FriendHandler serves the friend-request state machine endpoints.
type FriendHandler struct {
	relationships *store.RelationshipStore
	messages      *store.MessageStore
}

func NewFriendHandler(relationships *store.RelationshipStore, messages *store.MessageStore) *FriendHandler {
	return &FriendHandler{relationships: relationships, messages: messages}
}

// SendRequest godoc
// @Summary      Send friend request
// @Description  Looks up a user by email and sends them a pending friend request.
// @Tags         friends
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body SendRequestInput true "Target email"
// @Success      201  {object}  map[string]string "{"message": "Friend request sent successfully!"}"
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse "User not found"
// @Failure      409  {object}  ErrorResponse "Already pending or already friends"
// @Failure      500  {object}  ErrorResponse
// @Router       /friends/requests [post]
func (h *FriendHandler) SendRequest(c *gin.Context) {
	var input SendRequestInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := auth.GetUserID(c)
	_, err := h.relationships.SendRequest(c.Request.Context(), userID, auth.GetUserEmail(c), input.Email)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		case errors.Is(err, store.ErrRequestPending):
			c.JSON(http.StatusConflict, gin.H{"error": "A friend request is already pending with this user"})
		case errors.Is(err, store.ErrAlreadyFriends):
			c.JSON(http.StatusConflict, gin.H{"error": "You are already friends with this user"})
		default:
			log.Error().Err(err).Str("user_id", userID).Msg("send friend request")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "An error occurred while processing your request"})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Friend request sent successfully!"})
}

// ListPending godoc
// @Summary      List pending friend requests
// @Description  Lists the pending requests the authenticated user has received.
// @Tags         friends
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   FriendRequestResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /friends/requests [get]
func (h *FriendHandler) ListPending(c *gin.Context) {
	userID := auth.GetUserID(c)
	requests, err := h.relationships.PendingReceived(c.Request.Context(), userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("list pending requests")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch pending requests"})
		return
	}

	out := make([]FriendRequestResponse, 0, len(requests))
	for _, r := range requests {
		out = append(out, FriendRequestResponse{
			ID:          r.ID,
			SenderID:    r.SenderID,
			SenderEmail: r.SenderEmail,
			CreatedAt:   r.CreatedAt,
		})
	}
	c.JSON(http.StatusOK, out)
}

// Respond godoc
// @Summary      Respond to a friend request
// @Description  Accepts or rejects a pending request addressed to the authenticated user. Rejection removes the request entirely.
// @Tags         friends
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string        true  "Request ID"
// @Param        input body      RespondInput  true  "Decision"
// @Success      200  {object}  map[string]string "{"message": "..."}"
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse "Pending request not found"
// @Failure      500  {object}  ErrorResponse
// @Router       /friends/requests/{id}/respond [post]
func (h *FriendHandler) Respond(c *gin.Context) {
	var input RespondInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := auth.GetUserID(c)
	requestID := c.Param("id")
	err := h.relationships.Respond(c.Request.Context(), userID, requestID, input.Decision)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrInvalidDecision):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Decision must be accepted or rejected"})
		case errors.Is(err, store.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Pending request not found"})
		default:
			log.Error().Err(err).Str("user_id", userID).Str("request_id", requestID).Msg("respond to friend request")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error handling friend request"})
		}
		return
	}

	if input.Decision == models.StatusAccepted {
		c.JSON(http.StatusOK, gin.H{"message": "Friend request accepted"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Friend request rejected"})
}

// ListFriends godoc
// @Summary      List friends
// @Description  Lists the authenticated user's friends together with each friend's current secret message.
// @Tags         friends
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   FriendResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /friends [get]
func (h *FriendHandler) ListFriends(c *gin.Context) {
	userID := auth.GetUserID(c)
	friends, err := h.relationships.Friends(c.Request.Context(), userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("list friends")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch friends"})
		return
	}

	ids := make([]string, 0, len(friends))
	for _, f := range friends {
		ids = append(ids, f.ID)
	}
	messages, err := h.messages.LatestFor(c.Request.Context(), ids)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("fetch friend messages")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch friends"})
		return
	}

	out := make([]FriendResponse, 0, len(friends))
	for _, f := range friends {
		out = append(out, FriendResponse{ID: f.ID, Email: f.Email, Message: messages[f.ID]})
	}
	c.JSON(http.StatusOK, out)
}

// Unfriend godoc
// @Summary      Remove a friend
// @Description  Deletes the relationship with the given user in either direction. Removing a non-existent relationship succeeds.
// @Tags         friends
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Friend user ID"
// @Success      200  {object}  map[string]string "{"message": "Friend removed successfully"}"
// @Failure      401  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /friends/{id} [delete]
func (h *FriendHandler) Unfriend(c *gin.Context) {
	userID := auth.GetUserID(c)
	otherID := c.Param("id")
	if err := h.relationships.Unfriend(c.Request.Context(), userID, otherID); err != nil {
		log.Error().Err(err).Str("user_id", userID).Str("other_id", otherID).Msg("unfriend")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error removing friend"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Friend removed successfully"})
}
