package server

import (
	"net/http"
	"time"

	"secretpages/backend/internal/auth"
	"secretpages/backend/internal/config"
	"secretpages/backend/internal/handler"
	"secretpages/backend/internal/hub"
	"secretpages/backend/internal/metrics"
	"secretpages/backend/internal/mw"
	"secretpages/backend/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"golang.org/x/time/rate"
	"gorm.io/gorm"
)

// SetupRouter wires middleware, the API surface, and the guarded pages.
func SetupRouter(cfg *config.Config, db *gorm.DB, h *hub.Hub) *gin.Engine {
	accounts := store.NewAccountStore(db, cfg)
	relationships := store.NewRelationshipStore(db)
	messages := store.NewMessageStore(db, h)

	authHandler := handler.NewAuthHandler(cfg, accounts)
	userHandler := handler.NewUserHandler(cfg, db, accounts)
	friendHandler := handler.NewFriendHandler(relationships, messages)
	messageHandler := handler.NewMessageHandler(messages, h)
	pageHandler := handler.NewPageHandler(messages, relationships)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(metrics.GinMiddleware())
	r.Use(mw.CORS(cfg.Env))
	r.Use(mw.RateLimit(rate.Every(time.Second/20), 40))

	r.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Public landing page; unauthenticated page navigation redirects here.
	r.GET("/", pageHandler.Landing)

	// Guarded pages: session cookie checked before rendering.
	pages := r.Group("")
	pages.Use(auth.PageGuard(cfg, db))
	{
		pages.GET("/secret-page-1", pageHandler.SecretPage1)
		pages.GET("/secret-page-2", pageHandler.SecretPage2)
		pages.GET("/secret-page-3", pageHandler.SecretPage3)
	}

	apiV1 := r.Group("/api/v1")
	{
		authRoutes := apiV1.Group("/auth")
		{
			authRoutes.POST("/register", authHandler.Register)
			authRoutes.POST("/login", authHandler.Login)
			authRoutes.POST("/refresh", authHandler.Refresh)
			authRoutes.POST("/logout", authHandler.Logout)
		}

		protected := apiV1.Group("")
		protected.Use(auth.Middleware(cfg, db))
		{
			userRoutes := protected.Group("/users")
			{
				userRoutes.GET("", userHandler.SearchUsers)
				userRoutes.GET("/me", userHandler.GetMe)
				userRoutes.DELETE("/me", userHandler.DeleteMe)
			}

			messageRoutes := protected.Group("/messages")
			{
				messageRoutes.GET("/me", messageHandler.GetMessage)
				messageRoutes.PUT("/me", messageHandler.SaveMessage)
				messageRoutes.GET("/me/stream", messageHandler.StreamMessages)
			}

			friendRoutes := protected.Group("/friends")
			{
				friendRoutes.GET("", friendHandler.ListFriends)
				friendRoutes.DELETE("/:id", friendHandler.Unfriend)
				friendRoutes.POST("/requests", friendHandler.SendRequest)
				friendRoutes.GET("/requests", friendHandler.ListPending)
				friendRoutes.POST("/requests/:id/respond", friendHandler.Respond)
			}
		}
	}

	return r
}
