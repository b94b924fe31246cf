// Package steps provides step definitions for BDD integration tests.
package steps

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"time"

	"github.com/cucumber/godog"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/ledger-keeper/backend/config"
	"github.com/ledger-keeper/backend/internal/infra/dependency"
	"github.com/ledger-keeper/backend/internal/integration/persistence/model"
	"github.com/ledger-keeper/backend/test/integration/mock"
)

// testContext holds per-scenario state. The server, database and cache are
// shared across scenarios and reset between them.
type testContext struct {
	client  *http.Client
	headers map[string]string

	responseStatus int
	responseBody   []byte

	db    *mock.Db
	redis *redis.Client
	url   string
}

var suiteOnce sync.Once
var suiteServer *httptest.Server
var suiteDB *mock.Db
var suiteRedis *redis.Client

// startSuite wires the full application against in-memory infrastructure.
func startSuite() {
	suiteOnce.Do(func() {
		gin.SetMode(gin.TestMode)

		suiteDB = mock.NewDb(
			&model.IncomeModel{},
			&model.SpendingModel{},
			&model.CategoryModel{},
		)
		suiteRedis = mock.NewRedis()

		cfg := config.Load()
		cfg.Server.Environment = "test"

		injector := dependency.NewInjector(cfg, suiteDB.DbConn, suiteRedis)
		engine := injector.Router.Setup("test")
		suiteServer = httptest.NewServer(engine)
	})
}

// InitializeTestSuite sets up resources before any scenarios run.
func InitializeTestSuite(ctx *godog.TestSuiteContext) {
	ctx.BeforeSuite(startSuite)

	ctx.AfterSuite(func() {
		if suiteServer != nil {
			suiteServer.Close()
		}
	})
}

// InitializeScenario registers all step definitions.
func InitializeScenario(ctx *godog.ScenarioContext) {
	startSuite()

	test := &testContext{
		client: &http.Client{Timeout: 10 * time.Second},
		db:     suiteDB,
		redis:  suiteRedis,
	}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		test.headers = make(map[string]string)
		test.responseStatus = 0
		test.responseBody = nil
		test.url = suiteServer.URL
		if err := test.db.Reset(); err != nil {
			return ctx, err
		}
		return ctx, mock.ClearRedis(test.redis)
	})

	// Background steps
	ctx.Given(`^the API server is running$`, test.theAPIServerIsRunning)

	// Seeding steps
	ctx.Given(`^the following categories exist:$`, test.theFollowingCategoriesExist)
	ctx.Given(`^the following income entries exist:$`, test.theFollowingIncomeEntriesExist)
	ctx.Given(`^the following spending entries exist:$`, test.theFollowingSpendingEntriesExist)

	// Request steps
	ctx.When(`^I send a "([^"]*)" request to "([^"]*)"$`, test.iSendARequestTo)
	ctx.When(`^I send a "([^"]*)" request to "([^"]*)" with body:$`, test.iSendARequestToWithBody)

	// Response assertion steps
	ctx.Then(`^the response status should be (\d+)$`, test.theResponseStatusShouldBe)
	ctx.Then(`^the response should contain "([^"]*)"$`, test.theResponseShouldContain)
	ctx.Then(`^the response field "([^"]*)" should be "([^"]*)"$`, test.theResponseFieldShouldBe)
	ctx.Then(`^the response field "([^"]*)" should exist$`, test.theResponseFieldShouldExist)

	// Database assertion steps
	ctx.Then(`^the db should contain (\d+) objects in the "([^"]*)" table$`, test.theDbShouldContainObjectsInTheTable)

	// Cache assertion steps
	ctx.Then(`^the cache should contain a key with prefix "([^"]*)"$`, test.theCacheShouldContainAKeyWithPrefix)
	ctx.Then(`^the cache should not contain a key with prefix "([^"]*)"$`, test.theCacheShouldNotContainAKeyWithPrefix)
}
