package handler

import (
	"errors"
	"net/http"

	"secretpages/backend/internal/auth"
	"secretpages/backend/internal/config"
	"secretpages/backend/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// region --- DTOs ---

// RegisterInput defines the structure for account signup.
type RegisterInput struct {
	Email           string `json:"email" binding:"required,email" example:"test@example.com"`
	Password        string `json:"password" binding:"required,min=8" example:"password123"`
	ConfirmPassword string `json:"confirm_password" binding:"required" example:"password123"`
}

// LoginInput defines the structure for signing in.
type LoginInput struct {
	Email    string `json:"email" binding:"required,email" example:"test@example.com"`
	Password string `json:"password" binding:"required" example:"password123"`
}

// RefreshInput carries the refresh token being rotated or revoked.
type RefreshInput struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// ErrorResponse represents a generic error response.
type ErrorResponse struct {
	Error string `json:"error" example:"An error message"`
}

// endregion

// AuthHandler serves the session endpoints.
type AuthHandler struct {
	cfg      *config.Config
	accounts *store.AccountStore
}

func NewAuthHandler(cfg *config.Config, accounts *store.AccountStore) *AuthHandler {
	return &AuthHandler{cfg: cfg, accounts: accounts}
}

// Register godoc
// @Summary      Sign up
// @Description  Creates a new account. A confirmation notice is returned; no session is issued until the user signs in.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        input body RegisterInput true "Signup Info"
// @Success      201  {object}  map[string]string "{"message": "..."}"
// @Failure      400  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var input RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	// Local validation only; nothing is sent to the database on mismatch.
	if input.Password != input.ConfirmPassword {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Passwords do not match"})
		return
	}

	_, err := h.accounts.Register(c.Request.Context(), input.Email, input.Password)
	if err != nil {
		if errors.Is(err, store.ErrEmailTaken) {
			c.JSON(http.StatusConflict, gin.H{"error": "Email already registered"})
			return
		}
		log.Error().Err(err).Str("email", input.Email).Msg("register account")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create account"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Confirmation link sent to your email!"})
}

// Login godoc
// @Summary      Sign in
// @Description  Authenticates with email and password, returning an access/refresh token pair. The access token is also set as the session cookie for page navigation.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        input body LoginInput true "Login Info"
// @Success      200  {object}  map[string]interface{} "{"access_token": "...", "refresh_token": "...", "user": {...}}"
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	session, err := h.accounts.Login(c.Request.Context(), input.Email, input.Password)
	if err != nil {
		if errors.Is(err, store.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}
		log.Error().Err(err).Str("email", input.Email).Msg("login")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Login failed"})
		return
	}

	setSessionCookie(c, h.cfg, session.AccessToken)
	c.JSON(http.StatusOK, gin.H{
		"access_token":  session.AccessToken,
		"refresh_token": session.RefreshToken,
		"user":          gin.H{"id": session.User.ID, "email": session.User.Email},
	})
}

// Refresh godoc
// @Summary      Refresh session
// @Description  Rotates a refresh token and returns a new token pair.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        input body RefreshInput true "Refresh token"
// @Success      200  {object}  map[string]string "{"access_token": "...", "refresh_token": "..."}"
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Router       /auth/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	var input RefreshInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	session, err := h.accounts.Refresh(c.Request.Context(), input.RefreshToken)
	if err != nil {
		if !errors.Is(err, store.ErrInvalidToken) {
			log.Warn().Err(err).Msg("refresh token")
		}
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid refresh token"})
		return
	}

	setSessionCookie(c, h.cfg, session.AccessToken)
	c.JSON(http.StatusOK, gin.H{
		"access_token":  session.AccessToken,
		"refresh_token": session.RefreshToken,
	})
}

// Logout godoc
// @Summary      Sign out
// @Description  Revokes the refresh token and clears the session cookie.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        input body RefreshInput true "Refresh token"
// @Success      200  {object}  map[string]string "{"message": "Signed out"}"
// @Failure      400  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	var input RefreshInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	if err := h.accounts.Logout(c.Request.Context(), input.RefreshToken); err != nil {
		log.Error().Err(err).Msg("logout revoke token")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Sign out failed"})
		return
	}

	clearSessionCookie(c, h.cfg)
	c.JSON(http.StatusOK, gin.H{"message": "Signed out"})
}

func setSessionCookie(c *gin.Context, cfg *config.Config, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(auth.SessionCookie, token, cfg.AccessTokenTTLMinutes*60, "/", "", cookieSecure(cfg), true)
}

func clearSessionCookie(c *gin.Context, cfg *config.Config) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(auth.SessionCookie, "", -1, "/", "", cookieSecure(cfg), true)
}

// cookieSecure is the single rule for the session cookie's Secure flag; dev
// runs over plain HTTP.
func cookieSecure(cfg *config.Config) bool {
	return cfg.Env != "dev"
}
