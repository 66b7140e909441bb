package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"buzzboard/config"
	"buzzboard/handlers"
	"buzzboard/middleware"
	"buzzboard/routes"
	"buzzboard/services"

	"github.com/gin-gonic/gin"
)

const shutdownTimeout = 10 * time.Second

func migrate(cfg *config.Config) error {
	db, err := config.InitDB(cfg)
	if err != nil {
		return err
	}
	if err := config.Migrate(db); err != nil {
		return err
	}
	log.Printf("Database schema is up to date")
	return nil
}

func serve(parent context.Context, cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize database
	db, err := config.InitDB(cfg)
	if err != nil {
		return err
	}
	if err := config.Migrate(db); err != nil {
		return err
	}

	// Initialize Redis
	redisClient := config.InitRedis(cfg)
	defer redisClient.Close()

	// Real-time delivery
	registry := services.NewRegistry()
	hub := services.NewHub(registry)

	var transport services.Publisher = hub
	var relay *services.RedisRelay
	if cfg.RealtimeBackend == config.RealtimeRedis {
		relay = services.NewRedisRelay(redisClient, hub)
		if err := relay.Subscribe(ctx); err != nil {
			return err
		}
		transport = relay
	}
	publisher := services.NewJournal(db, transport)

	// Initialize services
	authService := services.NewAuthService(db, services.NewSessionStore(redisClient), cfg.JWTSecret, cfg.SessionTTL)
	gameService := services.NewGameService(db, publisher)

	h := &routes.Handlers{
		Auth:     handlers.NewAuthHandler(authService, cfg.CookieSecure),
		Tag:      handlers.NewTagHandler(services.NewTagService(db)),
		Question: handlers.NewQuestionHandler(services.NewQuestionService(db), authService),
		Board:    handlers.NewBoardHandler(services.NewBoardService(db)),
		Game:     handlers.NewGameHandler(gameService),
		Student:  handlers.NewStudentHandler(gameService),
		Stream:   handlers.NewStreamHandler(gameService, hub),
		QR:       handlers.NewQRHandler(gameService, cfg.BaseURL),
	}

	// Setup Gin router
	router := gin.Default()
	router.Use(middleware.CORS(cfg.AllowedOrigins()...))
	routes.SetupRoutes(router, h, authService)

	go func() {
		if err := hub.RunKeepAlive(ctx, cfg.KeepAliveInterval); err != nil {
			log.Printf("[hub] keep-alive loop: %v", err)
		}
	}()
	if relay != nil {
		go func() {
			if err := relay.Run(ctx); err != nil {
				log.Printf("[relay] stopped: %v", err)
				stop()
			}
		}()
	}

	srv := &http.Server{
		Addr:    cfg.Addr(),
		Handler: router,
		// Streams end with the root context instead of holding up shutdown.
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Server starting on %s (realtime backend: %s)", cfg.Addr(), cfg.RealtimeBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("failed to start server: %w", err)
		}
	case <-ctx.Done():
	}

	log.Printf("Shutting down (connections: %d)", registry.Count())
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}
