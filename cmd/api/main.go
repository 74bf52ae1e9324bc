package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/pitchcoach-labs/pitchcoach/backend/internal/adapters/groq"
	"github.com/pitchcoach-labs/pitchcoach/backend/internal/adapters/hume"
	"github.com/pitchcoach-labs/pitchcoach/backend/internal/adapters/rest"
	"github.com/pitchcoach-labs/pitchcoach/backend/internal/adapters/sqlite"
	"github.com/pitchcoach-labs/pitchcoach/backend/internal/config"
	"github.com/pitchcoach-labs/pitchcoach/backend/internal/core/services"
	"github.com/pitchcoach-labs/pitchcoach/backend/internal/worker"
)

func main() {
	// 1. Configuration. Crash early if required config is missing.
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment")
	}

	cfg, err := config.Load("config/config.yaml")
	if err != nil {
		log.Fatalf("FATAL: %v", err)
	}

	// 2. Initialize "Driven" Adapters (The Tools)
	repo, err := sqlite.NewAdapter(cfg.Storage.Database)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize database: %v", err)
	}
	defer repo.Close()

	expressionClient := hume.NewClient(nil, cfg.Hume.BaseURL, cfg.Hume.APIKey)
	scorerClient := groq.NewClient(cfg.Groq.APIKey, cfg.Groq.BaseURL, cfg.Groq.Model)

	// 3. Background workers for the session energy probe.
	pool := worker.NewPool(repo, cfg.Workers.QueueSize)
	pool.Start(cfg.Workers.Count)
	defer pool.Stop()

	// 4. Initialize Core Logic (Dependency Injection in action).
	analyzer := services.NewAnalysisService(expressionClient)
	svc := services.NewPitchService(
		analyzer,
		scorerClient,
		repo,
		pool,
		time.Duration(cfg.Hume.TimeoutSeconds)*time.Second,
	)

	// 5. Initialize "Driving" Adapter (The Interface)
	handler := rest.NewHandler(
		svc,
		int64(cfg.Limits.MaxUploadMB)<<20,
		cfg.Dashboard.UserName,
		cfg.Dashboard.JoinDate,
	)

	// 6. Start the Server
	log.Println("------------------------------------------------")
	log.Printf("🎤 Pitch Coach API is running on %s", cfg.Server.Addr)
	log.Println("------------------------------------------------")

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 15 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		err := srv.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			serverErr <- err
			return
		}
		serverErr <- nil
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-serverErr:
		if err != nil {
			log.Fatal(err)
		}
	case <-ctx.Done():
		log.Println("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("shutdown error: %v", err)
		}
	}
}
