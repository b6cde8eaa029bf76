package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/zatekoja/strokescreening/internal/adapters/cache"
	"github.com/zatekoja/strokescreening/internal/adapters/database"
	"github.com/zatekoja/strokescreening/internal/adapters/events"
	"github.com/zatekoja/strokescreening/internal/adapters/providers/capture"
	"github.com/zatekoja/strokescreening/internal/adapters/storage"
	"github.com/zatekoja/strokescreening/internal/api/handlers"
	"github.com/zatekoja/strokescreening/internal/api/middleware"
	"github.com/zatekoja/strokescreening/internal/api/routes"
	"github.com/zatekoja/strokescreening/internal/application/services"
	"github.com/zatekoja/strokescreening/internal/domain/providers"
	"github.com/zatekoja/strokescreening/internal/domain/repositories"
	"github.com/zatekoja/strokescreening/internal/infrastructure/clients/postgres"
	"github.com/zatekoja/strokescreening/internal/infrastructure/clients/redis"
	"github.com/zatekoja/strokescreening/internal/infrastructure/clients/strokeapi"
	"github.com/zatekoja/strokescreening/internal/infrastructure/observability"
	"github.com/zatekoja/strokescreening/pkg/config"
	"github.com/zatekoja/strokescreening/pkg/secrets"
)

func main() {
	// Load .env for local development; real deployments set the environment.
	_ = godotenv.Load()

	// Hydrate the environment from Vault before reading configuration.
	// Postgres, Redis and MinIO credentials live there in deployed setups.
	vaultResult, vaultErr := secrets.ApplyVaultSecrets(context.Background(), secrets.LoadVaultConfigFromEnv(""))

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	observability.InitLogger(cfg.OTEL.ServiceName, cfg.Env)
	logger := observability.GetLogger()

	if vaultErr != nil {
		logger.Warn().Err(vaultErr).Msg("failed to load secrets from Vault")
	} else if vaultResult.Enabled {
		logger.Info().
			Str("path", vaultResult.Path).
			Int("loaded", vaultResult.Loaded).
			Int("skipped", vaultResult.Skipped).
			Msg("Loaded secrets from Vault")
	}

	// Set up context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize OpenTelemetry if enabled
	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err := observability.Setup(
			ctx,
			cfg.OTEL.ServiceName,
			cfg.OTEL.ServiceVersion,
			cfg.OTEL.Endpoint,
		)
		if err != nil {
			logger.Warn().Err(err).Msg("failed to set up OpenTelemetry")
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdown(ctx); err != nil {
					logger.Warn().Err(err).Msg("error shutting down OpenTelemetry")
				}
			}()
			logger.Info().Msg("OpenTelemetry initialized")
		}
	}

	// Initialize metrics
	metrics, err := observability.InitMetrics()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize metrics")
	}

	// Initialize database client; the hospital directory is optional and the
	// workflow runs without it.
	var hospitalRepo repositories.HospitalRepository
	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		logger.Warn().Err(err).Msg("hospital directory unavailable, continuing without local fallback")
	} else {
		defer pgClient.Close()
		hospitalRepo = database.NewHospitalAdapter(pgClient)
	}

	// Initialize Redis client
	var cacheProvider providers.CacheProvider
	var eventBus providers.EventBus
	redisClient, err := redis.NewClient(&cfg.Redis)
	if err != nil {
		logger.Warn().Err(err).Msg("failed to initialize Redis, continuing without cache and events")
	} else {
		defer redisClient.Close()
		cacheProvider = cache.NewRedisAdapter(redisClient)
		eventBus = events.NewRedisEventBus(redisClient)
	}

	// Initialize media staging
	mediaStore, err := storage.NewMediaStore(ctx, cfg.Media)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize media store")
	}

	// Initialize capture provider
	captureProvider := capture.NewCaptureProvider(capture.ProviderConfig{
		Provider:     cfg.Capture.Provider,
		StagedMaxAge: cfg.Capture.StagedMaxAge,
	}, mediaStore)

	// Initialize diagnosis API client
	apiClient := strokeapi.NewClient(cfg.StrokeAPI.BaseURL, cfg.StrokeAPI.Timeout, mediaStore)

	// Initialize services
	workflowService, err := services.NewWorkflowService(
		captureProvider,
		apiClient,
		services.NewScoringService(),
		hospitalRepo,
		eventBus,
		metrics,
		services.WorkflowConfig{
			FaceDuration:      cfg.Capture.FaceDuration,
			MaxCaptureRetries: cfg.Capture.MaxCaptureRetry,
			MaxSessions:       cfg.Sessions.MaxSessions,
		},
	)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize workflow service")
	}

	// Initialize handlers
	diagnosisHandler := handlers.NewDiagnosisHandler(workflowService)
	mediaHandler := handlers.NewMediaHandler(mediaStore)

	var playbackHandler *handlers.PlaybackHandler
	var cacheMiddleware *middleware.CacheMiddleware
	if cacheProvider != nil {
		playbackHandler = handlers.NewPlaybackHandler(services.NewPlaybackService(cacheProvider))
		cacheMiddleware = middleware.NewCacheMiddleware(cacheProvider)
	}

	var hospitalHandler *handlers.HospitalHandler
	if hospitalRepo != nil {
		hospitalHandler = handlers.NewHospitalHandler(hospitalRepo)
	}

	var eventsHandler *handlers.EventsHandler
	if eventBus != nil {
		eventsHandler = handlers.NewEventsHandler(eventBus)
	}

	router := routes.NewRouter(
		diagnosisHandler,
		mediaHandler,
		playbackHandler,
		hospitalHandler,
		eventsHandler,
		cacheMiddleware,
		metrics,
	)

	handler := router.SetupRoutes()

	// Create HTTP server
	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info().Str("addr", serverAddr).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("server shutting down")

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Warn().Err(err).Msg("error during server shutdown")
	}

	// Close event bus
	if eventBus != nil {
		if err := eventBus.Close(); err != nil {
			logger.Warn().Err(err).Msg("error closing event bus")
		}
	}

	logger.Info().Msg("server stopped")
}
