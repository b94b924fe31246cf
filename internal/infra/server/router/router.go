// Package router sets up the HTTP routing for the application.
package router

import (
	"github.com/gin-gonic/gin"

	"github.com/ledger-keeper/backend/internal/integration/entrypoint/controller"
	"github.com/ledger-keeper/backend/internal/integration/entrypoint/middleware"
)

// Router holds the Gin engine and controller dependencies.
type Router struct {
	engine              *gin.Engine
	healthController    *controller.HealthController
	entryController     *controller.EntryController
	categoryController  *controller.CategoryController
	dashboardController *controller.DashboardController
	importRateLimiter   *middleware.RateLimiter
}

// NewRouter creates a new router instance with all dependencies.
func NewRouter(
	healthController *controller.HealthController,
	entryController *controller.EntryController,
	categoryController *controller.CategoryController,
	dashboardController *controller.DashboardController,
	importRateLimiter *middleware.RateLimiter,
) *Router {
	return &Router{
		healthController:    healthController,
		entryController:     entryController,
		categoryController:  categoryController,
		dashboardController: dashboardController,
		importRateLimiter:   importRateLimiter,
	}
}

// Setup configures and returns the Gin engine with all routes.
func (r *Router) Setup(environment string) *gin.Engine {
	if environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else if environment == "test" {
		gin.SetMode(gin.TestMode)
	}

	// Default middleware: logger and recovery.
	r.engine = gin.Default()

	r.setupHealthRoutes()
	r.setupAPIRoutes()

	return r.engine
}

// setupHealthRoutes configures health check endpoints.
func (r *Router) setupHealthRoutes() {
	r.engine.GET("/health", r.healthController.Check)
}

// setupAPIRoutes configures the main API routes.
func (r *Router) setupAPIRoutes() {
	v1 := r.engine.Group("/api/v1")
	{
		if r.entryController != nil {
			entries := v1.Group("/entries")
			{
				// Bulk import sits above the per-kind routes so ":kind"
				// cannot shadow it.
				if r.importRateLimiter != nil {
					entries.POST("/import", r.importRateLimiter.Middleware(), r.entryController.Import)
				} else {
					entries.POST("/import", r.entryController.Import)
				}

				entries.GET("/:kind", r.entryController.GetByDateRange)
				entries.GET("/:kind/page", r.entryController.List)
				entries.GET("/:kind/statistics", r.entryController.Statistics)
				entries.GET("/:kind/:id", r.entryController.Get)
				entries.POST("/:kind", r.entryController.Create)
				entries.PUT("/:kind/:id", r.entryController.Update)
				entries.DELETE("/:kind/:id", r.entryController.Delete)
				entries.DELETE("/:kind", r.entryController.BulkDelete)
			}
		}

		if r.categoryController != nil {
			categories := v1.Group("/categories")
			{
				categories.GET("", r.categoryController.List)
				categories.POST("", r.categoryController.Create)
				categories.PATCH("/:id", r.categoryController.Update)
				categories.DELETE("/:id", r.categoryController.Delete)
			}
		}

		if r.dashboardController != nil {
			dashboard := v1.Group("/dashboard")
			{
				dashboard.GET("/summary", r.dashboardController.Summary)
				dashboard.GET("/trends", r.dashboardController.Trends)
			}
		}
	}
}

// Engine returns the underlying Gin engine.
func (r *Router) Engine() *gin.Engine {
	return r.engine
}
