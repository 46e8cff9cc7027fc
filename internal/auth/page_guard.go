package auth

import (
	"net/http"

	"secretpages/backend/internal/config"
	"secretpages/backend/internal/models"
	"secretpages/backend/pkg/jwt"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// PageGuard protects the secret pages for browser navigation: it reads the
// session cookie set at login and redirects to the landing page when no valid
// session exists. This is advisory defense in depth; every store query is
// still scoped by the authenticated user ID.
func PageGuard(cfg *config.Config, db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr, err := c.Cookie(SessionCookie)
		if err != nil || tokenStr == "" {
			c.Redirect(http.StatusFound, "/")
			c.Abort()
			return
		}
		claims, err := jwt.ParseToken(tokenStr, cfg.JWTSecret)
		if err != nil {
			c.Redirect(http.StatusFound, "/")
			c.Abort()
			return
		}
		var user models.User
		if err := db.WithContext(c.Request.Context()).First(&user, "id = ?", claims.UserID).Error; err != nil {
			c.Redirect(http.StatusFound, "/")
			c.Abort()
			return
		}
		c.Set("userID", user.ID)
		c.Set("userEmail", user.Email)
		c.Next()
	}
}
