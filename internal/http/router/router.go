package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/exxata/connect-api/internal/auth"
	"github.com/exxata/connect-api/internal/config"
	"github.com/exxata/connect-api/internal/database"
	"github.com/exxata/connect-api/internal/domain"
	"github.com/exxata/connect-api/internal/http/handler"
	"github.com/exxata/connect-api/internal/http/middleware"
	"github.com/exxata/connect-api/internal/warehouse"

	_ "github.com/exxata/connect-api/docs" // Import generated swagger docs
)

type Router struct {
	cfg              *config.Config
	logger           *zap.Logger
	db               *gorm.DB
	warehouseClient  *warehouse.Client
	authMiddleware   *auth.Middleware
	rateLimiter      *middleware.RateLimiter
	authHandler      *handler.AuthHandler
	projectHandler   *handler.ProjectHandler
	overviewHandler  *handler.OverviewHandler
	activityHandler  *handler.ActivityHandler
	indicatorHandler *handler.IndicatorHandler
	conductHandler   *handler.ConductHandler
	panoramaHandler  *handler.PanoramaHandler
	fileHandler      *handler.FileHandler
	teamHandler      *handler.TeamHandler
	dashboardHandler *handler.DashboardHandler
}

func NewRouter(
	cfg *config.Config,
	logger *zap.Logger,
	db *gorm.DB,
	warehouseClient *warehouse.Client,
	authMiddleware *auth.Middleware,
	rateLimiter *middleware.RateLimiter,
	authHandler *handler.AuthHandler,
	projectHandler *handler.ProjectHandler,
	overviewHandler *handler.OverviewHandler,
	activityHandler *handler.ActivityHandler,
	indicatorHandler *handler.IndicatorHandler,
	conductHandler *handler.ConductHandler,
	panoramaHandler *handler.PanoramaHandler,
	fileHandler *handler.FileHandler,
	teamHandler *handler.TeamHandler,
	dashboardHandler *handler.DashboardHandler,
) *Router {
	return &Router{
		cfg:              cfg,
		logger:           logger,
		db:               db,
		warehouseClient:  warehouseClient,
		authMiddleware:   authMiddleware,
		rateLimiter:      rateLimiter,
		authHandler:      authHandler,
		projectHandler:   projectHandler,
		overviewHandler:  overviewHandler,
		activityHandler:  activityHandler,
		indicatorHandler: indicatorHandler,
		conductHandler:   conductHandler,
		panoramaHandler:  panoramaHandler,
		fileHandler:      fileHandler,
		teamHandler:      teamHandler,
		dashboardHandler: dashboardHandler,
	}
}

func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(rt.logger))
	r.Use(chimw.Timeout(rt.cfg.Server.RequestTimeoutDuration()))
	r.Use(middleware.Logging(rt.logger))
	r.Use(middleware.SecurityHeaders(&rt.cfg.Security))
	r.Use(middleware.CORS(&rt.cfg.CORS, rt.cfg.App.Environment, rt.logger))
	r.Use(rt.rateLimiter.LimitByIP)

	// Health check (basic liveness probe)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Database health check (readiness probe with detailed stats)
	r.Get("/health/db", func(w http.ResponseWriter, r *http.Request) {
		stats, err := database.HealthCheckWithStats(rt.db)
		if err != nil {
			rt.logger.Error("Database health check failed", zap.Error(err))
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"status":  "unhealthy",
				"error":   err.Error(),
				"service": "database",
			})
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status":  "healthy",
			"service": "database",
			"stats": map[string]interface{}{
				"max_open_connections": stats.MaxOpenConnections,
				"open_connections":     stats.OpenConnections,
				"in_use":               stats.InUse,
				"idle":                 stats.Idle,
				"wait_count":           stats.WaitCount,
				"wait_duration_ms":     stats.WaitDuration.Milliseconds(),
				"max_idle_closed":      stats.MaxIdleClosed,
				"max_lifetime_closed":  stats.MaxLifetimeClosed,
			},
		})
	})

	// Combined readiness check (database plus the ERP mirror when enabled)
	r.Get("/health/ready", func(w http.ResponseWriter, r *http.Request) {
		checks := make(map[string]interface{})
		allHealthy := true

		if err := database.HealthCheck(rt.db); err != nil {
			rt.logger.Error("Database health check failed", zap.Error(err))
			checks["database"] = map[string]interface{}{
				"status": "unhealthy",
				"error":  err.Error(),
			}
			allHealthy = false
		} else {
			checks["database"] = map[string]interface{}{
				"status": "healthy",
			}
		}

		if rt.warehouseClient != nil && rt.warehouseClient.IsEnabled() {
			status := rt.warehouseClient.HealthCheck(r.Context())
			checks["warehouse"] = status
			if status.Status != "healthy" {
				allHealthy = false
			}
		}

		w.Header().Set("Content-Type", "application/json")
		if allHealthy {
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"status": "healthy",
				"checks": checks,
			})
		} else {
			w.WriteHeader(http.StatusServiceUnavailable)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"status": "unhealthy",
				"checks": checks,
			})
		}
	})

	// Swagger documentation
	if rt.cfg.Server.EnableSwagger {
		r.Get("/swagger/*", httpSwagger.Handler(
			httpSwagger.URL("/swagger/doc.json"),
		))
	}

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(rt.authMiddleware.Authenticate)

			// Auth
			r.Get("/auth/me", rt.authHandler.Me)

			// Users (staff only)
			r.Route("/users", func(r chi.Router) {
				r.Use(rt.authMiddleware.RequirePermission(domain.PermissionManageTeam))
				r.Get("/", rt.teamHandler.ListProfiles)
				r.Post("/invite", rt.teamHandler.Invite)
				r.Put("/{userId}/role", rt.teamHandler.UpdateProfileRole)
			})

			// Overview card catalog (not project-scoped)
			r.Get("/overview/catalog", rt.overviewHandler.Catalog)

			// Indicator import template
			r.Get("/indicators/template", rt.indicatorHandler.Template)

			// Dashboard
			r.With(rt.authMiddleware.RequireStaff).
				Get("/dashboard/metrics", rt.dashboardHandler.GetMetrics)

			// Projects and their sub-resources
			r.Route("/projects", func(r chi.Router) {
				r.Get("/", rt.projectHandler.List)
				r.Post("/", rt.projectHandler.Create)

				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", rt.projectHandler.Get)
					r.Patch("/", rt.projectHandler.Patch)
					r.Delete("/", rt.projectHandler.Delete)

					// Overview cards
					r.Route("/overview", func(r chi.Router) {
						r.Get("/", rt.overviewHandler.Cards)
						r.Get("/export", rt.overviewHandler.ExportExcel)
						r.Post("/import", rt.overviewHandler.ImportExcel)
						r.Post("/widgets", rt.overviewHandler.AddWidget)
						r.Post("/widgets/all", rt.overviewHandler.AddAllWidgets)
						r.Put("/widgets/reorder", rt.overviewHandler.ReorderWidgets)
						r.Delete("/widgets/{widgetId}", rt.overviewHandler.RemoveWidget)
						r.Put("/widgets/{widgetId}/size", rt.overviewHandler.ToggleWidgetSize)
					})

					// Activities
					r.Route("/activities", func(r chi.Router) {
						r.Get("/", rt.activityHandler.List)
						r.Post("/", rt.activityHandler.Create)
						r.Get("/timeline", rt.activityHandler.Timeline)
						r.Put("/{activityId}", rt.activityHandler.Update)
						r.Delete("/{activityId}", rt.activityHandler.Delete)
						r.Post("/{activityId}/duplicate", rt.activityHandler.Duplicate)
					})

					// Indicators
					r.Route("/indicators", func(r chi.Router) {
						r.Get("/", rt.indicatorHandler.List)
						r.Post("/", rt.indicatorHandler.Create)
						r.Put("/reorder", rt.indicatorHandler.Reorder)
						r.Get("/export/pdf", rt.indicatorHandler.ExportPDF)
						r.Put("/{indicatorId}", rt.indicatorHandler.Update)
						r.Delete("/{indicatorId}", rt.indicatorHandler.Delete)
						r.Post("/{indicatorId}/duplicate", rt.indicatorHandler.Duplicate)
						r.Get("/{indicatorId}/data", rt.indicatorHandler.GetData)
						r.Post("/{indicatorId}/import", rt.indicatorHandler.Import)
					})

					// Conducts
					r.Route("/conducts", func(r chi.Router) {
						r.Get("/", rt.conductHandler.List)
						r.Post("/", rt.conductHandler.Create)
						r.Put("/reorder", rt.conductHandler.Reorder)
						r.Put("/{conductId}", rt.conductHandler.Update)
						r.Delete("/{conductId}", rt.conductHandler.Delete)
					})

					// Panorama
					r.Route("/panorama", func(r chi.Router) {
						r.Get("/", rt.panoramaHandler.List)
						r.Put("/{category}", rt.panoramaHandler.Update)
					})

					// Files
					r.Route("/files", func(r chi.Router) {
						r.Get("/", rt.fileHandler.List)
						r.Post("/", rt.fileHandler.Upload)
						r.Get("/{fileId}/download", rt.fileHandler.Download)
						r.Delete("/{fileId}", rt.fileHandler.Delete)
					})

					// Team
					r.Route("/members", func(r chi.Router) {
						r.Get("/", rt.teamHandler.ListMembers)
						r.Post("/", rt.teamHandler.AddMember)
						r.Put("/{userId}", rt.teamHandler.UpdateMemberRole)
						r.Delete("/{userId}", rt.teamHandler.RemoveMember)
					})
				})
			})
		})
	})

	return r
}
