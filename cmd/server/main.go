package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"blogg/internal/api"
	"blogg/internal/app/service"
	"blogg/internal/common/security"
	"blogg/internal/domain/repository"
	"blogg/internal/platform/config"
	"blogg/internal/platform/database"
	"blogg/internal/platform/session"
)

func main() {
	// 1. Load Configuration
	config.Load()

	// 2. Initialize JWT
	security.InitJWT()

	// 3. Initialize Database and Schema
	database.Connect()
	defer database.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := database.EnsureSchema(ctx, database.DB, database.Active); err != nil {
		cancel()
		log.Fatalf("Could not ensure schema: %v", err)
	}
	cancel()

	// 4. Initialize Session Store
	var sessions session.Store
	if config.AppConfig.RedisAddr != "" {
		var err error
		sessions, err = session.NewRedisStore(
			config.AppConfig.RedisAddr,
			config.AppConfig.RedisPassword,
			config.AppConfig.RedisDB,
			config.AppConfig.SessionTTL,
		)
		if err != nil {
			log.Fatalf("Could not connect to Redis: %v", err)
		}
		log.Println("Using Redis session store.")
	} else {
		sessions = session.NewMemoryStore(config.AppConfig.SessionTTL)
		log.Println("Using in-memory session store.")
	}
	defer sessions.Close()

	// 5. Initialize Repositories
	userRepo := repository.NewUserRepository(database.DB, database.Active)
	postRepo := repository.NewPostRepository(database.DB, database.Active)
	todoRepo := repository.NewTodoRepository(database.DB, database.Active)

	// 6. Initialize Services
	authService := service.NewAuthService(userRepo)
	postService := service.NewPostService(postRepo)
	todoService := service.NewTodoService(todoRepo)

	// 7. Initialize Router & HTTP Server
	router := api.NewRouter(authService, postService, todoService, sessions)

	server := &http.Server{
		Addr:         ":" + config.AppConfig.APIPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// 8. Graceful Shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Server starting on port %s", config.AppConfig.APIPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Could not listen on %s: %v\n", config.AppConfig.APIPort, err)
		}
	}()

	<-stop // Wait for interrupt signal

	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server shutdown failed: %v", err)
	}

	log.Println("Server stopped gracefully.")
}
