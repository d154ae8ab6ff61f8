package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"campuscoffee/internal/platform/httpserver"
	"campuscoffee/internal/platform/metrics"
	"campuscoffee/internal/platform/postgres"
	"campuscoffee/internal/pos/handler"
	posmetrics "campuscoffee/internal/pos/metrics"
	"campuscoffee/internal/pos/service"
	"campuscoffee/internal/pos/store"
	httptransport "campuscoffee/internal/transport/http"
)

func (a *app) serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.serve(cmd.Context())
		},
	}
}

// serve runs the API until SIGINT or SIGTERM, then drains in-flight requests
// within the shutdown timeout.
func (a *app) serve(parent context.Context) error {
	if err := a.cfg.Validate(); err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := postgres.Open(ctx, a.cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	if a.cfg.Database.AutoMigrate {
		if err := postgres.Migrate(ctx, db, postgres.Up); err != nil {
			return err
		}
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	posStore := store.NewPostgres(db, a.cfg.Database.QueryTimeout)
	svc := service.New(posStore,
		service.WithLogger(a.log),
		service.WithMetrics(posmetrics.New(reg)),
	)
	router := httptransport.NewRouter(httptransport.Deps{
		Logger:         a.log,
		Pos:            handler.New(svc, a.log),
		Health:         posStore,
		Metrics:        metrics.New(reg),
		Gatherer:       reg,
		AdminToken:     a.cfg.Server.AdminToken,
		CORSOrigins:    a.cfg.Server.CORSAllowedOrigins,
		RequestTimeout: a.cfg.Server.RequestTimeout,
	})
	if a.cfg.Server.AdminToken == "" {
		a.log.InfoContext(ctx, "admin routes disabled; set POS_ADMIN_TOKEN to enable them")
	}

	srv := httpserver.New(a.cfg.Server, router)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.log.InfoContext(gctx, "starting campuscoffee", "addr", a.cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
		defer cancel()
		a.log.InfoContext(shutdownCtx, "shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
