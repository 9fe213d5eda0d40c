package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/exxata/connect-api/docs"
	"github.com/exxata/connect-api/internal/auth"
	"github.com/exxata/connect-api/internal/config"
	"github.com/exxata/connect-api/internal/database"
	"github.com/exxata/connect-api/internal/http/handler"
	"github.com/exxata/connect-api/internal/http/middleware"
	"github.com/exxata/connect-api/internal/http/router"
	"github.com/exxata/connect-api/internal/jobs"
	"github.com/exxata/connect-api/internal/logger"
	"github.com/exxata/connect-api/internal/repository"
	"github.com/exxata/connect-api/internal/service"
	"github.com/exxata/connect-api/internal/storage"
	"github.com/exxata/connect-api/internal/warehouse"
)

// @title Exxata Connect API
// @version 1.0
// @description Project portal API for Exxata's consulting engagements: projects, teams, indicators, activities and documents

// @contact.name API Support
// @contact.email suporte@exxata.com.br

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Supabase JWT Bearer token

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name x-api-key
// @description API Key for system operations
// @Security BearerAuth
// @Security ApiKeyAuth

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	// Load basic configuration first (for logging setup)
	basicCfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize logger
	log, err := logger.NewLogger(&basicCfg.Logging, &basicCfg.App)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting application",
		zap.String("app", basicCfg.App.Name),
		zap.String("env", basicCfg.App.Environment),
		zap.Int("port", basicCfg.App.Port),
	)

	// Configure Swagger host based on environment
	switch basicCfg.App.Environment {
	case "staging":
		docs.SwaggerInfo.Host = "connect-staging.exxata.com.br"
	case "production":
		docs.SwaggerInfo.Host = "connect.exxata.com.br"
	default:
		docs.SwaggerInfo.Host = fmt.Sprintf("localhost:%d", basicCfg.App.Port)
	}

	// Load full configuration with secrets
	// In development: uses environment variables
	// In staging/production: fetches from Azure Key Vault
	cfg, err := config.LoadWithSecrets(ctx, log)
	if err != nil {
		return fmt.Errorf("failed to load secrets: %w", err)
	}

	// Connect to database with retry logic
	db, err := database.NewDatabase(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	// Initialize storage
	fileStorage, err := storage.NewStorage(&cfg.Storage, log)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}

	log.Info("Storage initialized", zap.String("mode", cfg.Storage.Mode))

	// Initialize the ERP measurement warehouse (optional, read-only).
	// The app continues without it if not configured.
	var warehouseClient *warehouse.Client
	if cfg.Warehouse.Enabled {
		warehouseClient, err = warehouse.NewClient(&cfg.Warehouse, log)
		if err != nil {
			log.Warn("Warehouse connection failed, continuing without it",
				zap.Error(err),
			)
		} else if warehouseClient != nil {
			log.Info("Warehouse connected successfully",
				zap.Int("max_open_conns", cfg.Warehouse.MaxOpenConns),
				zap.Int("query_timeout_seconds", cfg.Warehouse.QueryTimeout),
			)
		}
	} else {
		log.Info("Warehouse not configured, skipping",
			zap.Bool("enabled", cfg.Warehouse.Enabled),
		)
	}

	// Initialize repositories
	profileRepo := repository.NewProfileRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	memberRepo := repository.NewMemberRepository(db)
	activityRepo := repository.NewActivityRepository(db)
	indicatorRepo := repository.NewIndicatorRepository(db)
	conductRepo := repository.NewConductRepository(db)
	panoramaRepo := repository.NewPanoramaRepository(db)
	fileRepo := repository.NewFileRepository(db)

	// Initialize services
	authService := service.NewAuthService(profileRepo, log)
	projectService := service.NewProjectService(projectRepo, memberRepo, panoramaRepo, log)
	overviewService := service.NewOverviewService(projectService, log)
	activityService := service.NewActivityService(activityRepo, projectService, log)
	indicatorService := service.NewIndicatorService(indicatorRepo, projectService, log)
	conductService := service.NewConductService(conductRepo, projectService, log)
	panoramaService := service.NewPanoramaService(panoramaRepo, projectService, log)
	fileService := service.NewFileService(fileRepo, projectService, fileStorage, cfg.Storage.MaxUploadSizeMB, log)
	gotrueClient := auth.NewGoTrueClient(&cfg.Supabase)
	teamService := service.NewTeamService(profileRepo, memberRepo, projectService, gotrueClient, log)
	dashboardService := service.NewDashboardService(projectRepo, activityRepo, log)

	// Initialize middleware
	authMiddleware := auth.NewMiddleware(cfg, log)
	rateLimiter := middleware.NewRateLimiter(&cfg.RateLimit, log)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService, log)
	projectHandler := handler.NewProjectHandler(projectService, log)
	overviewHandler := handler.NewOverviewHandler(overviewService, log)
	activityHandler := handler.NewActivityHandler(activityService, log)
	indicatorHandler := handler.NewIndicatorHandler(indicatorService, log)
	conductHandler := handler.NewConductHandler(conductService, log)
	panoramaHandler := handler.NewPanoramaHandler(panoramaService, log)
	fileHandler := handler.NewFileHandler(fileService, log)
	teamHandler := handler.NewTeamHandler(teamService, log)
	dashboardHandler := handler.NewDashboardHandler(dashboardService, log)

	// Setup router
	rt := router.NewRouter(
		cfg,
		log,
		db,
		warehouseClient,
		authMiddleware,
		rateLimiter,
		authHandler,
		projectHandler,
		overviewHandler,
		activityHandler,
		indicatorHandler,
		conductHandler,
		panoramaHandler,
		fileHandler,
		teamHandler,
		dashboardHandler,
	)

	// Initialize and start scheduler for background jobs
	var scheduler *jobs.Scheduler
	if cfg.Warehouse.Enabled && warehouseClient != nil {
		scheduler = jobs.NewScheduler(log)

		syncService := service.NewMeasurementSyncService(projectRepo, warehouseClient, log)
		syncJob := jobs.NewMeasurementSyncJob(syncService, log, cfg.Warehouse.QueryTimeoutDuration())

		if err := scheduler.AddJob(jobs.MeasurementSyncJobName, cfg.Warehouse.SyncSchedule, syncJob.Run); err != nil {
			log.Error("Failed to register measurement sync job", zap.Error(err))
		} else {
			scheduler.Start()
			log.Info("Scheduler started with measurement sync job",
				zap.String("cron_expr", cfg.Warehouse.SyncSchedule),
			)
		}
	} else {
		log.Info("Measurement sync disabled",
			zap.Bool("warehouse_enabled", cfg.Warehouse.Enabled),
			zap.Bool("warehouse_client_available", warehouseClient != nil),
		)
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      rt.Setup(),
		ReadTimeout:  cfg.Server.ReadTimeoutDuration(),
		WriteTimeout: cfg.Server.WriteTimeoutDuration(),
	}

	// Start server in goroutine
	serverErrors := make(chan error, 1)
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		serverErrors <- srv.ListenAndServe()
	}()

	// Wait for interrupt signal
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdown:
		log.Info("Shutdown signal received", zap.String("signal", sig.String()))

		// Stop scheduler if running
		if scheduler != nil {
			ctx := scheduler.Stop()
			<-ctx.Done()
			log.Info("Scheduler stopped")
		}

		// Graceful shutdown with timeout
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Error("Failed to shutdown gracefully", zap.Error(err))
			return err
		}

		// Close warehouse connection if initialized
		if warehouseClient != nil {
			if err := warehouseClient.Close(); err != nil {
				log.Warn("Error closing warehouse connection", zap.Error(err))
			}
		}

		log.Info("Server stopped gracefully")
	}

	return nil
}
