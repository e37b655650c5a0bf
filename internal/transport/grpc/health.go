// Package grpc exposes the gRPC surface of the whisky service: the standard health service.
package grpc

import (
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
)

// ServiceName is the health service name reported next to the overall ("") status.
const ServiceName = "whiskystock.WhiskyService"

// Health wraps the standard gRPC health server. Both the overall status and
// ServiceName start as NOT_SERVING until the store is reachable.
type Health struct {
	srv *health.Server
}

func NewHealth() *Health {
	srv := health.NewServer()
	srv.SetServingStatus("", grpc_health_v1.HealthCheckResponse_NOT_SERVING)
	srv.SetServingStatus(ServiceName, grpc_health_v1.HealthCheckResponse_NOT_SERVING)
	return &Health{srv: srv}
}

// Register registers the health service. Must be called before Serve.
func (h *Health) Register(grpcSrv *grpc.Server) {
	grpc_health_v1.RegisterHealthServer(grpcSrv, h.srv)
}

func (h *Health) SetServing() {
	h.srv.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
	h.srv.SetServingStatus(ServiceName, grpc_health_v1.HealthCheckResponse_SERVING)
}

func (h *Health) SetNotServing() {
	h.srv.SetServingStatus("", grpc_health_v1.HealthCheckResponse_NOT_SERVING)
	h.srv.SetServingStatus(ServiceName, grpc_health_v1.HealthCheckResponse_NOT_SERVING)
}

// Shutdown switches every status to NOT_SERVING and ignores later updates.
func (h *Health) Shutdown() {
	h.srv.Shutdown()
}
