package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"maternal-meal-planner/internal/catalog"
	"maternal-meal-planner/internal/config"
	"maternal-meal-planner/internal/database"
	"maternal-meal-planner/internal/llm"
	"maternal-meal-planner/internal/planner"
	"maternal-meal-planner/internal/report"
	"maternal-meal-planner/internal/telegram"
)

func main() {
	// 1. Load Configuration
	cfg, err := config.NewFromEnv()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.RequireTelegram(); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx := context.Background()

	// 2. Initialize the SQLite database and repositories
	db, err := database.NewDB(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	catalogRepo := catalog.NewRepository(db.SQL)
	if _, err := catalogRepo.SeedDefaults(ctx); err != nil {
		log.Fatalf("Failed to seed food catalog: %v", err)
	}
	planRepo := planner.NewPlanRepository(db.SQL)

	// 3. Optional Gemini narration
	var narrator *report.Narrator
	if cfg.GeminiAPIKey != "" {
		geminiClient, err := llm.NewGeminiClient(ctx, cfg.GeminiAPIKey)
		if err != nil {
			log.Fatalf("Failed to create Gemini client: %v", err)
		}
		defer geminiClient.Close()
		narrator = report.NewNarrator(geminiClient)
	}

	// 4. Initialize Services
	mealPlanner := planner.NewPlanner(catalogRepo, planner.Options{
		CooldownWindow: cfg.CooldownWindow,
	})

	// 5. Initialize Telegram Bot
	bot, err := telegram.NewBot(cfg, mealPlanner, catalogRepo, planRepo, narrator)
	if err != nil {
		log.Fatalf("Failed to initialize Telegram Bot: %v", err)
	}

	// 6. Start Server with Graceful Shutdown
	bot.RegisterHandlers()

	srv := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: nil,
	}

	go func() {
		log.Printf("Telegram Bot Server listening on %s", cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctxShutdown); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting")
}
