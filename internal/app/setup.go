// Package app contains the application setup for the whisky service.
package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/abgdnv/whiskystock/internal/config"
	"github.com/abgdnv/whiskystock/internal/service"
	"github.com/abgdnv/whiskystock/internal/store"
	grpcImpl "github.com/abgdnv/whiskystock/internal/transport/grpc"
	"github.com/abgdnv/whiskystock/internal/transport/rest"
	"github.com/abgdnv/whiskystock/pkg/messaging"
	"github.com/abgdnv/whiskystock/pkg/server"
	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"google.golang.org/grpc"
)

const serviceName = "whisky-service"

type Dependencies struct {
	WhiskyService  service.WhiskyService
	Health         *grpcImpl.Health
	MetricsHandler http.Handler
	MetricsPath    string
	Logger         *slog.Logger

	closers []func(context.Context) error
}

// NewDependencies builds the service graph on top of an already opened store.
// A nil publisher disables event publishing.
func NewDependencies(repo store.WhiskyStore, publisher messaging.Publisher, logger *slog.Logger) *Dependencies {
	return &Dependencies{
		WhiskyService: service.NewService(repo, publisher),
		Health:        grpcImpl.NewHealth(),
		Logger:        logger,
	}
}

// SetupDependencies opens the configured store backend and event publisher.
// Close releases everything that was opened.
func SetupDependencies(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Dependencies, error) {
	repo, closeStore, err := openStore(ctx, cfg.Store, logger)
	if err != nil {
		return nil, err
	}
	publisher, closePublisher, err := openPublisher(ctx, cfg.Nats, cfg.Resilience, logger)
	if err != nil {
		_ = closeStore(ctx)
		return nil, err
	}
	deps := NewDependencies(repo, publisher, logger)
	deps.closers = append(deps.closers, closePublisher, closeStore)
	return deps, nil
}

// Close releases the store and publisher connections in reverse order of opening.
func (d *Dependencies) Close(ctx context.Context) error {
	d.Health.Shutdown()
	var errs []error
	for _, closeFn := range d.closers {
		errs = append(errs, closeFn(ctx))
	}
	return errors.Join(errs...)
}

// SetupHttpHandler initializes the routes and middleware of the whisky service.
// Used by E2E tests to set up the HTTP server with the necessary routes and middleware.
func SetupHttpHandler(deps *Dependencies) http.Handler {
	mux := server.NewChiRouter(deps.Logger)
	wireRoutes(mux, deps)
	return otelhttp.NewHandler(mux, serviceName)
}

// wireRoutes sets up the HTTP routes for the whisky service.
func wireRoutes(mux *chi.Mux, deps *Dependencies) {
	whiskyHandler := rest.NewHandler(deps.WhiskyService, deps.Logger)
	whiskyHandler.RegisterRoutes(mux)
	if deps.MetricsHandler != nil && deps.MetricsPath != "" {
		mux.Handle(deps.MetricsPath, deps.MetricsHandler)
	}
}

// SetupHttpServer creates and configures an HTTP server for the whisky service.
func SetupHttpServer(deps *Dependencies, cfg *config.Config) *http.Server {
	mux := SetupHttpHandler(deps)

	httpCfg := server.HTTPConfig{
		Port:           cfg.HTTPServer.Port,
		MaxHeaderBytes: cfg.HTTPServer.MaxHeaderBytes,
		ReadTimeout:    cfg.HTTPServer.Timeout.Read,
		WriteTimeout:   cfg.HTTPServer.Timeout.Write,
		IdleTimeout:    cfg.HTTPServer.Timeout.Idle,
		ReadHeader:     cfg.HTTPServer.Timeout.ReadHeader,
	}

	return server.NewHTTPServer(httpCfg, mux)
}

// SetupGrpcServer initializes the gRPC server exposing the health service.
func SetupGrpcServer(deps *Dependencies, reflectionEnabled bool) *grpc.Server {
	opts := []grpc.ServerOption{grpc.StatsHandler(otelgrpc.NewServerHandler())}
	return server.NewGRPCServer(reflectionEnabled, opts, deps.Health.Register)
}
