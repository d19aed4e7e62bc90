package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"craftora/internal/apiconfig"
	"craftora/internal/config"
	"craftora/internal/domain"
	"craftora/internal/handler"
	"craftora/internal/middleware"
	"craftora/internal/repository/memory"
	"craftora/internal/repository/postgres"
	"craftora/internal/service/dataset"
	"craftora/internal/service/generation"
	"craftora/internal/service/generation/gemini"
	"craftora/internal/service/session"

	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	// Load configuration
	cfg := config.Load()

	// Setup structured logging
	logLevel := slog.LevelInfo
	if cfg.Environment == "dev" {
		logLevel = slog.LevelDebug
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
	)

	// Model-credentials file (api.json), falling back to env vars
	apiConfig := apiconfig.NewService(cfg.APIConfigPath, logger)
	logger.Info("api config loaded", "source", apiConfig.Status().Source)

	// Stores: Postgres when DATABASE_URL is set, in-memory otherwise
	var artifacts domain.ArtifactStore
	var sessions domain.SessionStore
	if cfg.DatabaseURL != "" {
		ctx := context.Background()
		pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("Failed to create connection pool: %v", err)
		}
		defer pool.Close()

		if err := postgres.EnsureSchema(ctx, pool); err != nil {
			log.Fatalf("Failed to ensure database schema: %v", err)
		}

		artifacts = postgres.NewArtifactStore(pool, logger)
		sessions = postgres.NewSessionStore(pool, logger)
		logger.Info("using postgres stores")
	} else {
		artifacts = memory.NewArtifactStore()
		sessions = memory.NewSessionStore()
		logger.Info("using in-memory stores")
	}

	// Generation engine: template shortcuts, Gemini provider, fallback page
	templates, err := generation.NewTemplateRegistry()
	if err != nil {
		log.Fatalf("Failed to load page templates: %v", err)
	}
	provider := gemini.NewProvider(logger)
	engine := generation.NewEngine(apiConfig, provider, templates, logger)

	sessionService := session.NewService(sessions, logger)
	saver := dataset.NewSaver(cfg.DatasetDir, logger)

	// Create handlers
	generateHandler := handler.NewGenerateHandler(engine, sessionService, artifacts, saver, cfg.GenerateTimeout, logger)
	artifactHandler := handler.NewArtifactHandler(artifacts, logger)
	chatHandler := handler.NewChatHandler(sessionService, logger)
	datasetHandler := handler.NewDatasetHandler(saver, logger)
	configHandler := handler.NewConfigHandler(apiConfig, logger)

	logger.Info("services initialized")

	// Create HTTP router (Go 1.22+ enhanced patterns)
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("GET /health", handler.Health)

	// Generation routes
	mux.HandleFunc("POST /api/generate", generateHandler.Generate)
	mux.HandleFunc("PUT /api/generated/{id}", generateHandler.Update)
	mux.HandleFunc("POST /api/save-code", generateHandler.SaveCode)

	// Artifact routes
	mux.HandleFunc("GET /api/generated/{id}", artifactHandler.Get)
	mux.HandleFunc("GET /api/recent-codes", artifactHandler.Recent)

	// Chat routes
	mux.HandleFunc("GET /api/chat/sessions", chatHandler.ListSessions)
	mux.HandleFunc("GET /api/chat/sessions/{id}", chatHandler.GetSession)
	mux.HandleFunc("GET /api/chat/sessions/{id}/messages", chatHandler.GetMessages)

	// Dataset routes
	mux.HandleFunc("GET /api/dataset/stats", datasetHandler.Stats)
	mux.HandleFunc("GET /api/dataset/export", datasetHandler.Export)
	mux.HandleFunc("GET /api/dataset/training-format", datasetHandler.TrainingFormat)

	// Config routes
	mux.HandleFunc("GET /api/config", configHandler.Get)
	mux.HandleFunc("GET /api/config/status", configHandler.Status)
	mux.HandleFunc("POST /api/config/api-key", configHandler.UpdateAPIKey)

	// Build middleware chain
	var root http.Handler = mux

	// Apply middleware in reverse order (they wrap each other)
	// Order: CORS → RequestID → RequestLogger → Recovery → Routes
	root = middleware.Recovery(logger)(root)
	root = middleware.RequestLogger(logger)(root)
	root = middleware.RequestID(root)

	// CORS - handles OPTIONS pre-flight requests
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept"},
		AllowCredentials: true,
	})
	root = corsHandler.Handler(root)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      root,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.GenerateTimeout + 30*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server
	logger.Info("server listening", "port", cfg.Port)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Failed to start server: %v", err)
	}
}
