package main

import (
	"context"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	"claimdocs/internal/auth"
	"claimdocs/internal/config"
	domainservices "claimdocs/internal/domain/services"
	"claimdocs/internal/handler"
	"claimdocs/internal/middleware"
	"claimdocs/internal/repository/postgres"
	"claimdocs/internal/service"
	"claimdocs/internal/storage"
)

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	cfg := config.Load()

	// Setup structured logging
	logLevel := slog.LevelInfo
	if cfg.Debug {
		logLevel = slog.LevelDebug
	}

	var logOut io.Writer = os.Stdout
	if cfg.LogDir != "" {
		logFile, err := config.SetupLogFile(cfg.LogDir, cfg.LogMaxFiles)
		if err != nil {
			log.Fatalf("Failed to set up log file: %v", err)
		}
		defer logFile.Close()
		logOut = io.MultiWriter(os.Stdout, logFile)
	}

	logger := slog.New(slog.NewJSONHandler(logOut, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"table_prefix", cfg.TablePrefix,
	)

	// JWT verifier
	jwtVerifier, err := auth.NewJWTVerifier(cfg.JWKSURL, logger)
	if err != nil {
		log.Fatalf("Failed to create JWT verifier: %v", err)
	}
	defer jwtVerifier.Close()

	// Apply schema migrations, then open the pool
	if err := postgres.Migrate(cfg.DatabaseURL, cfg.TablePrefix, logger); err != nil {
		log.Fatalf("Failed to apply migrations: %v", err)
	}

	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to create connection pool: %v", err)
	}
	defer pool.Close()

	logger.Info("database connected")

	// Blob storage
	blobs, err := storage.NewDiskStore(cfg.StorageDir)
	if err != nil {
		log.Fatalf("Failed to create blob store: %v", err)
	}

	// Repositories
	tables := postgres.NewTableNames(cfg.TablePrefix)
	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: tables,
		Logger: logger,
	}
	docRepo := postgres.NewDocumentRepository(repoConfig)
	catalogRepo := postgres.NewCatalogRepository(repoConfig)
	userPrefsRepo := postgres.NewUserPreferencesRepository(repoConfig)

	// Description generation is optional; without an API key the endpoint
	// reports it as not configured
	var describer domainservices.Describer
	if cfg.AnthropicAPIKey != "" {
		describer, err = service.NewAnthropicDescriber(cfg.AnthropicAPIKey, cfg.DescriptionModel)
		if err != nil {
			log.Fatalf("Failed to create describer: %v", err)
		}
		logger.Info("description generation enabled", "model", cfg.DescriptionModel)
	}

	// Services
	docService := service.NewDocumentService(docRepo, catalogRepo, blobs, describer, logger)
	catalogService := service.NewCatalogService(catalogRepo, docRepo, logger)
	userPrefsService := service.NewUserPreferencesService(userPrefsRepo, logger)

	// Handlers
	docHandler := handler.NewDocumentHandler(docService, logger)
	catalogHandler := handler.NewCatalogHandler(catalogService, logger)
	userPrefsHandler := handler.NewUserPreferencesHandler(userPrefsService, logger)

	logger.Info("services initialized")

	// HTTP router (Go 1.22+ enhanced patterns)
	mux := http.NewServeMux()

	// Health check and metrics
	mux.HandleFunc("GET /health", docHandler.HealthCheck)
	mux.Handle("GET /metrics", promhttp.Handler())

	// Document routes
	mux.HandleFunc("GET /api/documents", docHandler.ListDocuments)
	mux.HandleFunc("POST /api/documents/upload", docHandler.UploadDocument)
	mux.HandleFunc("PUT /api/documents/{id}", docHandler.UpdateDocument)
	mux.HandleFunc("DELETE /api/documents/{id}", docHandler.DeleteDocument)
	mux.HandleFunc("POST /api/documents/{id}/generate-description", docHandler.GenerateDescription)
	mux.HandleFunc("GET /api/documents/{id}/preview", docHandler.PreviewDocument)
	mux.HandleFunc("GET /api/documents/{id}/download", docHandler.DownloadDocument)

	// Required-document-type catalog
	mux.HandleFunc("GET /api/required-document-types/{objectType}", catalogHandler.ListRequiredTypes)

	// User preferences (view modes)
	mux.HandleFunc("GET /api/users/me/preferences", userPrefsHandler.GetPreferences)
	mux.HandleFunc("PATCH /api/users/me/preferences", userPrefsHandler.UpdatePreferences)
	mux.HandleFunc("PUT /api/users/me/preferences/view-mode", userPrefsHandler.SetViewMode)

	// Build middleware chain
	var h http.Handler = mux

	// Apply middleware in reverse order (they wrap each other)
	// Order: CORS → Recovery → Metrics → Auth → Routes
	h = middleware.AuthMiddleware(jwtVerifier)(h)
	h = middleware.Metrics()(h)
	h = middleware.Recovery(logger)(h)

	// CORS - Must be outermost to handle OPTIONS pre-flight requests
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
	})
	h = corsHandler.Handler(h)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      h,
		ReadTimeout:  60 * time.Second, // uploads can be slow on bad links
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.Info("server listening", "port", cfg.Port)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Failed to start server: %v", err)
	}
}
