package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"secretpages/backend/internal/config"
	"secretpages/backend/internal/database"
	"secretpages/backend/internal/hub"
	"secretpages/backend/internal/logging"
	"secretpages/backend/internal/server"

	"github.com/rs/zerolog/log"

	// Required for swag to find the generated docs.
	_ "secretpages/backend/docs"
)

func init() {
	config.LoadConfig()
}

// @title           Secret Pages API
// @version         1.0
// @description     Authenticated secret messages with friend requests and live updates.
// @host            localhost:8080
// @BasePath        /api/v1
// @securityDefinitions.apiKey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg := config.AppConfig
	logging.Init(cfg.Env)

	gdb, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("db connect")
	}
	if err := database.Migrate(gdb); err != nil {
		log.Fatal().Err(err).Msg("db migrate")
	}

	h := hub.NewHub()
	router := server.SetupRouter(cfg, gdb, h)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server run")
		}
	}()

	// signal.Notify requires the channel to be buffered.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server shutdown")
	}
}
