// Command api serves Udyam form schemas over HTTP.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/pflag"

	"github.com/Bahjat/udyam-scraper/internal/platform/config"
	"github.com/Bahjat/udyam-scraper/internal/platform/logger"
	"github.com/Bahjat/udyam-scraper/internal/platform/middleware"
	"github.com/Bahjat/udyam-scraper/internal/schemacheck"
	"github.com/Bahjat/udyam-scraper/internal/scrapeapi"
	"github.com/Bahjat/udyam-scraper/internal/scraper"
)

const (
	shutdownGrace = 10 * time.Second
	slowRequest   = 20 * time.Second
)

func main() {
	fs := pflag.NewFlagSet("api", pflag.ExitOnError)
	config.RegisterFlags(fs)
	_ = fs.Parse(os.Args[1:])

	cfg, err := config.Load(fs)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(os.Stdout, cfg.LogLevel)

	if err := run(cfg, log); err != nil {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, log *slog.Logger) error {
	table, err := scraper.OpenTable(cfg.FieldsFile)
	if err != nil {
		return err
	}

	fetcher := scraper.NewHTTPClient(scraper.ClientOptions{
		Timeout:              cfg.FetchTimeout,
		AllowPrivateNetworks: cfg.AllowPrivateNetworks,
	})
	engine := scraper.NewEngine(fetcher, scraper.NewAssembler(table, log), cfg.SourceURL)
	checker := schemacheck.New(schemacheck.Options{Expectations: table.Expectations()})

	svc := scrapeapi.NewService(engine, checker, log)
	transport := scrapeapi.NewTransport(svc, log)

	mux := http.NewServeMux()
	transport.RegisterRoutes(mux)
	mux.Handle("GET /metrics", promhttp.Handler())

	// Metrics must sit directly on the mux to see the matched pattern.
	var handler http.Handler = middleware.Metrics(mux)
	handler = middleware.Logging(log, slowRequest)(handler)
	handler = middleware.RequestID(handler)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      90 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", "addr", srv.Addr, "source", cfg.SourceURL)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		log.Info("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return <-errCh
}
