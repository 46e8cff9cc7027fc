package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"secretpages/backend/internal/auth"
	"secretpages/backend/internal/config"
	"secretpages/backend/internal/models"
	"secretpages/backend/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// region --- DTOs ---

// PublicUserResponse is the profile shape exposed to other users.
type PublicUserResponse struct {
	ID    string `json:"id" example:"5f8a4f0e-0b1c-4a8e-9d3e-111111111111"`
	Email string `json:"email" example:"test@example.com"`
}

// PaginationMeta defines the structure for pagination metadata.
type PaginationMeta struct {
	TotalItems  int64 `json:"total_items"`
	TotalPages  int   `json:"total_pages"`
	CurrentPage int   `json:"current_page"`
	PageSize    int   `json:"page_size"`
}

// PaginatedUserResponse defines the structure for a paginated list of users.
type PaginatedUserResponse struct {
	Data []PublicUserResponse `json:"data"`
	Meta PaginationMeta       `json:"meta"`
}

// endregion

// escapeLike escapes the ILIKE metacharacters so user input matches
// literally instead of acting as a pattern.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "%", `\%`)
	s = strings.ReplaceAll(s, "_", `\_`)
	return s
}

// UserHandler serves profile lookup, search, and account deletion.
type UserHandler struct {
	cfg      *config.Config
	db       *gorm.DB
	accounts *store.AccountStore
}

func NewUserHandler(cfg *config.Config, db *gorm.DB, accounts *store.AccountStore) *UserHandler {
	return &UserHandler{cfg: cfg, db: db, accounts: accounts}
}

// GetMe godoc
// @Summary      Get current user's info
// @Description  Retrieves the profile of the currently authenticated user.
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  PublicUserResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /users/me [get]
func (h *UserHandler) GetMe(c *gin.Context) {
	user, err := h.accounts.Get(c.Request.Context(), auth.GetUserID(c))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	c.JSON(http.StatusOK, PublicUserResponse{ID: user.ID, Email: user.Email})
}

// SearchUsers godoc
// @Summary      Search for users
// @Description  Searches for users by email with pagination. The viewer is excluded from results.
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        q     query     string  false  "Search query for email"
// @Param        page  query     int     false  "Page number" default(1)
// @Param        limit query     int     false  "Items per page" default(10)
// @Success      200   {object}  PaginatedUserResponse
// @Failure      401   {object}  ErrorResponse
// @Failure      500   {object}  ErrorResponse
// @Router       /users [get]
func (h *UserHandler) SearchUsers(c *gin.Context) {
	viewerID := auth.GetUserID(c)
	searchQuery := c.Query("q")

	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if err != nil || limit < 1 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}

	query := h.db.WithContext(c.Request.Context()).
		Model(&models.User{}).
		Where("id <> ?", viewerID)
	if searchQuery != "" {
		query = query.Where("email ILIKE ?", "%"+escapeLike(searchQuery)+"%")
	}

	var totalItems int64
	if err := query.Count(&totalItems).Error; err != nil {
		log.Error().Err(err).Msg("search users count")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to search users"})
		return
	}

	var users []models.User
	offset := (page - 1) * limit
	if err := query.Order("email asc").Limit(limit).Offset(offset).Find(&users).Error; err != nil {
		log.Error().Err(err).Msg("search users")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to search users"})
		return
	}

	data := make([]PublicUserResponse, 0, len(users))
	for _, u := range users {
		data = append(data, PublicUserResponse{ID: u.ID, Email: u.Email})
	}

	c.JSON(http.StatusOK, PaginatedUserResponse{
		Data: data,
		Meta: PaginationMeta{
			TotalItems:  totalItems,
			TotalPages:  (int(totalItems) + limit - 1) / limit,
			CurrentPage: page,
			PageSize:    limit,
		},
	})
}

// DeleteMe godoc
// @Summary      Delete account
// @Description  Permanently deletes the authenticated account with its messages, friend requests, and sessions, then clears the session cookie.
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]string "{"message": "Account deleted"}"
// @Failure      401  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /users/me [delete]
func (h *UserHandler) DeleteMe(c *gin.Context) {
	userID := auth.GetUserID(c)
	if err := h.accounts.Delete(c.Request.Context(), userID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		// Single transaction: on failure nothing was deleted.
		log.Error().Err(err).Str("user_id", userID).Msg("delete account")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete account"})
		return
	}

	clearSessionCookie(c, h.cfg)
	c.JSON(http.StatusOK, gin.H{"message": "Account deleted"})
}
