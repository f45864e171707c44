package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/medbot/intake/api"
	"github.com/medbot/intake/assistant"
	"github.com/medbot/intake/config"
	"github.com/medbot/intake/llm"
	"github.com/medbot/intake/policy"
	"github.com/medbot/intake/store"
)

func main() {
	// Load configuration
	cfg := config.Load()

	log.Printf("Starting intake service...")
	log.Printf("HTTP Port: %d", cfg.HTTPPort)
	log.Printf("LLM URL: %s (model %s)", cfg.LLMURL, cfg.LLMModel)

	// Initialize store: in-memory by default, SQLite when configured
	var db store.Store
	if cfg.DatabaseURL == "" {
		log.Printf("Database: in-memory")
		db = store.NewMemoryStore()
	} else {
		log.Printf("Database: %s", cfg.DatabaseURL)
		sqlite, err := store.NewSQLiteStore(cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("Failed to initialize store: %v", err)
		}
		db = sqlite
	}
	defer db.Close()

	// Initialize LLM client and assistant
	llmClient := llm.NewClient(cfg.LLMURL, cfg.LLMAPIKey, cfg.LLMTimeout)
	bot := assistant.New(llmClient, cfg.LLMModel, cfg.LLMTemperature, cfg.LLMMaxTokens, cfg.HistoryWindow)

	// Initialize intake policy engine
	ctx := context.Background()
	policyEngine, err := policy.NewEngine(ctx, policy.DefaultPolicy)
	if err != nil {
		log.Fatalf("Failed to initialize policy engine: %v", err)
	}

	// Initialize handler
	h := api.NewHandler(db, bot, policyEngine, cfg)

	// Create Echo server
	server := echo.New()
	server.HideBanner = true

	// Middleware
	server.Use(middleware.Logger())
	server.Use(middleware.Recover())
	server.Use(middleware.CORS())

	// Register routes
	h.RegisterRoutes(server)

	// Start server
	go func() {
		addr := fmt.Sprintf(":%d", cfg.HTTPPort)
		if err := server.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	log.Printf("Intake API started on port %d", cfg.HTTPPort)

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down intake service...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Failed to shutdown server gracefully: %v", err)
	}

	log.Println("Intake service stopped")
}
