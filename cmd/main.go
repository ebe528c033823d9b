package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	routes "retro_site_builder/api"
	"retro_site_builder/config"
	"retro_site_builder/internal/ai"
	"retro_site_builder/internal/api"
	"retro_site_builder/internal/export"
	"retro_site_builder/internal/session"
	"retro_site_builder/internal/shell"
)

func main() {
	// --- Load .env file ---
	// Must happen before viper reads the environment.
	err := godotenv.Load()
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("Warning: Error loading .env file: %v", err)
		} else {
			log.Println("Info: .env file not found, relying on system environment variables.")
		}
	} else {
		log.Println("Info: Loaded environment variables from .env file.")
	}

	// --- Configuration Loading ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("Cannot load config: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// --- Dependency Initialization ---

	// AI backend. Without credentials the desktop still works; ai commands
	// report that generation is unavailable.
	var generator ai.Collaborator
	model, err := ai.NewModel(ctx, ai.ProviderConfig{
		Provider:      cfg.AIProvider,
		GeminiAPIKey:  cfg.GeminiAPIKey,
		GeminiModel:   cfg.GeminiModel,
		OpenAIAPIKey:  cfg.OpenAIKey,
		OpenAIModel:   cfg.OpenAIModel,
		OpenAIBaseURL: cfg.OpenAIBaseURL,
	})
	if err != nil {
		log.Printf("WARN: AI generation disabled: %v", err)
	} else {
		log.Printf("Using %s for site generation", model.Name())
		generator = ai.NewGenerator(model, cfg.AIMaxAttempts)
	}

	// Sessions
	sessions, err := session.NewStore(cfg.SessionCacheSize, shell.Viewport{
		Width:  float64(cfg.ViewportWidth),
		Height: float64(cfg.ViewportHeight),
	})
	if err != nil {
		log.Fatalf("Cannot create session store: %v", err)
	}
	defer sessions.Close()

	// Export target
	var exporter export.Exporter = export.NewDiskExporter(cfg.ExportDir)
	s3cfg := export.S3Config{
		Endpoint:  cfg.ExportS3Endpoint,
		Region:    cfg.ExportS3Region,
		AccessKey: cfg.ExportS3Access,
		SecretKey: cfg.ExportS3Secret,
		Bucket:    cfg.ExportS3Bucket,
		UseSSL:    cfg.ExportS3UseSSL,
	}
	if s3cfg.Enabled() {
		s3, err := export.NewS3Exporter(s3cfg)
		if err != nil {
			log.Fatalf("Cannot create S3 exporter: %v", err)
		}
		exporter = s3
		log.Printf("Exporting saves to bucket %s at %s", cfg.ExportS3Bucket, cfg.ExportS3Endpoint)
	} else {
		log.Printf("Exporting saves to %s", cfg.ExportDir)
	}

	apiHandler := api.NewAPIHandler(generator, sessions, exporter, cfg.AITimeout())

	// --- Start API Server ---
	if cfg.Production() {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
		log.Println("Running in Gin Debug Mode")
	}

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	routes.RegisterRoutes(router, apiHandler)

	server := &http.Server{
		Addr:    cfg.ServerAddress,
		Handler: router,
		// Writes must outlast a full AI round trip.
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.AITimeout() + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Starting API server on %s\n", cfg.ServerAddress)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("API server listen error: %s\n", err)
		}
		log.Println("API server has stopped listening.")
	}()

	// --- Graceful Shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Printf("Received signal: %s. Shutting down server...", sig)

	shutdownCtx, serverCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer serverCancel()

	cancel()

	log.Println("Shutting down API server...")
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("API server forced shutdown error: %v", err)
	} else {
		log.Println("API server gracefully stopped.")
	}

	log.Println("Application exiting.")
}
