// Package dependency provides dependency injection for the application.
package dependency

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/ledger-keeper/backend/config"
	"github.com/ledger-keeper/backend/internal/application/usecase/category"
	"github.com/ledger-keeper/backend/internal/application/usecase/dashboard"
	"github.com/ledger-keeper/backend/internal/application/usecase/ledger"
	"github.com/ledger-keeper/backend/internal/infra/server/router"
	"github.com/ledger-keeper/backend/internal/integration/cache"
	"github.com/ledger-keeper/backend/internal/integration/entrypoint/controller"
	"github.com/ledger-keeper/backend/internal/integration/entrypoint/middleware"
	"github.com/ledger-keeper/backend/internal/integration/persistence"
)

// Injector holds all application dependencies.
type Injector struct {
	Config *config.Config
	DB     *gorm.DB
	Router *router.Router
}

// NewInjector creates a new dependency injector with all dependencies wired.
func NewInjector(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) *Injector {
	// Repositories and the transaction coordinator
	incomeRepo := persistence.NewIncomeRepository(db)
	spendingRepo := persistence.NewSpendingRepository(db)
	categoryRepo := persistence.NewCategoryRepository(db)
	uow := persistence.NewUnitOfWork(db)

	// Cache service and invalidation
	cacheService := cache.NewRedisCache(redisClient)
	invalidator := cache.NewInvalidator(cacheService)

	// Ledger use cases
	createIncomeUseCase := ledger.NewCreateIncomeUseCase(uow, invalidator)
	createSpendingUseCase := ledger.NewCreateSpendingUseCase(uow, invalidator)
	updateIncomeUseCase := ledger.NewUpdateIncomeUseCase(uow, invalidator)
	updateSpendingUseCase := ledger.NewUpdateSpendingUseCase(uow, invalidator)
	deleteEntryUseCase := ledger.NewDeleteEntryUseCase(uow, invalidator)
	getEntryUseCase := ledger.NewGetEntryUseCase(incomeRepo, spendingRepo)
	getByRangeUseCase := ledger.NewGetByDateRangeUseCase(incomeRepo, spendingRepo, cacheService, cfg.Cache.EntryTTL)
	listEntriesUseCase := ledger.NewListEntriesUseCase(incomeRepo, spendingRepo, cacheService, cfg.Cache.EntryTTL)
	statisticsUseCase := ledger.NewGetStatisticsUseCase(incomeRepo, spendingRepo, cacheService, cfg.Cache.StatsTTL)
	bulkDeleteUseCase := ledger.NewBulkDeleteEntriesUseCase(uow, invalidator)
	importEntriesUseCase := ledger.NewImportEntriesUseCase(uow, invalidator)

	// Category use cases
	listCategoriesUseCase := category.NewListCategoriesUseCase(categoryRepo)
	createCategoryUseCase := category.NewCreateCategoryUseCase(uow)
	updateCategoryUseCase := category.NewUpdateCategoryUseCase(uow, invalidator)
	deleteCategoryUseCase := category.NewDeleteCategoryUseCase(uow, invalidator)

	// Dashboard use cases
	getTrendsUseCase := dashboard.NewGetTrendsUseCase(incomeRepo, spendingRepo, cacheService, cfg.Cache.DashboardTTL)
	getSummaryUseCase := dashboard.NewGetSummaryUseCase(incomeRepo, spendingRepo, getTrendsUseCase, cacheService, cfg.Cache.DashboardTTL)

	// Controllers
	healthController := controller.NewHealthController(
		func() bool {
			sqlDB, err := db.DB()
			if err != nil {
				return false
			}
			return sqlDB.Ping() == nil
		},
		func() bool {
			ctx, cancel := contextWithTimeout()
			defer cancel()
			return redisClient.Ping(ctx).Err() == nil
		},
	)

	entryController := controller.NewEntryController(
		createIncomeUseCase,
		createSpendingUseCase,
		updateIncomeUseCase,
		updateSpendingUseCase,
		deleteEntryUseCase,
		getEntryUseCase,
		getByRangeUseCase,
		listEntriesUseCase,
		statisticsUseCase,
		bulkDeleteUseCase,
		importEntriesUseCase,
	)

	categoryController := controller.NewCategoryController(
		listCategoriesUseCase,
		createCategoryUseCase,
		updateCategoryUseCase,
		deleteCategoryUseCase,
	)

	dashboardController := controller.NewDashboardController(
		getSummaryUseCase,
		getTrendsUseCase,
	)

	// Use a permissive import limiter in test environments to keep tests
	// from tripping it.
	var importRateLimiter *middleware.RateLimiter
	if cfg.Server.Environment == "test" {
		importRateLimiter = middleware.NewRateLimiterWithConfig(1000, 1*time.Minute)
	} else {
		importRateLimiter = middleware.NewRateLimiter()
	}

	r := router.NewRouter(healthController, entryController, categoryController, dashboardController, importRateLimiter)

	return &Injector{
		Config: cfg,
		DB:     db,
		Router: r,
	}
}

func contextWithTimeout() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 2*time.Second)
}
