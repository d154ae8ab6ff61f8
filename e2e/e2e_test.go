package e2e

import (
	"context"
	"io"
	"log/slog"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/cucumber/godog"

	"campuscoffee/internal/pos/handler"
	"campuscoffee/internal/pos/service"
	"campuscoffee/internal/pos/store"
	httptransport "campuscoffee/internal/transport/http"
)

// TestFeatures runs features/ against an in-process server backed by the
// in-memory store. Set E2E_BASE_URL (and E2E_ADMIN_TOKEN) to run the same
// scenarios against a deployed instance instead.
func TestFeatures(t *testing.T) {
	tc := newTestContext(t)

	suite := godog.TestSuite{
		Name: "campuscoffee",
		ScenarioInitializer: func(sc *godog.ScenarioContext) {
			sc.Before(func(ctx context.Context, _ *godog.Scenario) (context.Context, error) {
				return ctx, tc.Clear(ctx)
			})
			sc.After(func(ctx context.Context, _ *godog.Scenario, _ error) (context.Context, error) {
				return ctx, tc.Clear(ctx)
			})
			RegisterSteps(sc, tc)
		},
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"features"},
			Strict:   true,
			TestingT: t,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}

func newTestContext(t *testing.T) *TestContext {
	t.Helper()
	if baseURL := os.Getenv("E2E_BASE_URL"); baseURL != "" {
		return NewTestContext(baseURL, os.Getenv("E2E_ADMIN_TOKEN"), nil)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := service.New(store.NewInMemory(), service.WithLogger(logger))
	router := httptransport.NewRouter(httptransport.Deps{
		Logger:      logger,
		Pos:         handler.New(svc, logger),
		CORSOrigins: []string{"*"},
	})
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	return NewTestContext(srv.URL, "", svc.Clear)
}
