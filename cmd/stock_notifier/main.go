// Package main runs the stock notifier, a JetStream consumer reporting low and empty whisky stock.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "net/http/pprof"

	"github.com/abgdnv/whiskystock/internal/config"
	"github.com/abgdnv/whiskystock/internal/notifier"
	"github.com/abgdnv/whiskystock/pkg/bootstrap"
	"github.com/abgdnv/whiskystock/pkg/config/configloader"
	"github.com/abgdnv/whiskystock/pkg/messaging"
	"github.com/abgdnv/whiskystock/pkg/nats"
	"github.com/abgdnv/whiskystock/pkg/telemetry"
	"golang.org/x/sync/errgroup"
)

const serviceName = "notifier"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		log.Printf("application run failed: %v", err)
		os.Exit(1)
	}
	log.Println("application stopped gracefully")
}

// run initializes the application, starts the NATS subscriber, and optionally starts the pprof server if enabled.
func run(ctx context.Context) error {
	cfg, cfgErr := configloader.Load[*config.NotifierConfig](serviceName, configloader.Options{Defaults: config.NotifierDefaults()})
	if cfgErr != nil {
		return fmt.Errorf("failed to load configuration: %w", cfgErr)
	}
	log.Printf("Configuration loaded: %v", cfg)

	logger := bootstrap.NewLogger(cfg.Log.Level)
	slog.SetDefault(logger)

	tp, err := telemetry.NewTracerProvider(ctx, "stock-notifier", cfg.Telemetry.Traces)
	if err != nil {
		return fmt.Errorf("failed to create tracer provider: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Shutdown.Timeout)
		defer cancel()
		if err := tp.Shutdown(shutdownCtx); err != nil {
			logger.Error("failed to shutdown tracer provider", "error", err)
		}
	}()

	natsConn, err := nats.NewClient(cfg.Nats.Url, cfg.Nats.Timeout)
	if err != nil {
		return fmt.Errorf("failed to create NATS connection: %w", err)
	}
	defer natsConn.Close()
	js, err := nats.NewJetStreamContext(natsConn)
	if err != nil {
		return fmt.Errorf("failed to get JetStream context: %w", err)
	}
	// the notifier may start before the whisky service created the stream
	streamCtx, cancel := context.WithTimeout(ctx, cfg.Nats.Timeout)
	_, err = nats.EnsureStream(streamCtx, js, cfg.Subscriber.Stream, messaging.WhiskySubjects)
	cancel()
	if err != nil {
		return err
	}

	n := notifier.New(logger, cfg.Alerts.LowStockPercent)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("NATS subscriber started", "stream", cfg.Subscriber.Stream, "subject", cfg.Subscriber.Subject)
		err := n.Start(gCtx, js, cfg.Subscriber)
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("subscriber failed", "error", err)
			return err
		}
		logger.Info("subscriber stopped gracefully.")
		return nil
	})

	// Start the pprof server if enabled
	if cfg.PProf.Enabled {
		pprofServer := &http.Server{
			Addr:              cfg.PProf.Addr,
			ReadHeaderTimeout: 5 * time.Second,
		}
		g.Go(func() error {
			logger.Info("Pprof server listening", slog.String("addr", pprofServer.Addr))
			if err := pprofServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("pprof server failed: %w", err)
			}
			return nil
		})
		// gracefully shutdown pprof server on context cancellation
		g.Go(func() error {
			<-gCtx.Done()
			logger.Info("Shutting down pprof server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Shutdown.Timeout)
			defer cancel()
			return pprofServer.Shutdown(shutdownCtx)
		})
	}

	if err := g.Wait(); err != nil {
		if !errors.Is(err, context.Canceled) {
			return fmt.Errorf("errgroup encountered an error: %w", err)
		}
	}

	return nil
}
