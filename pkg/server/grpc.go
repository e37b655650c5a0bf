package server

import (
	"google.golang.org/grpc"
	"google.golang.org/grpc/reflection"
)

// RegistrationFunc registers a grpc service with the server.
type RegistrationFunc func(*grpc.Server)

// NewGRPCServer creates a new gRPC server instance with optional reflection and service registration.
// serverOpts are passed to grpc.NewServer, e.g. a stats handler for tracing.
func NewGRPCServer(enableReflection bool, serverOpts []grpc.ServerOption, registerFunc ...RegistrationFunc) *grpc.Server {
	grpcServer := grpc.NewServer(serverOpts...)

	for _, regFunc := range registerFunc {
		regFunc(grpcServer)
	}

	if enableReflection {
		reflection.Register(grpcServer)
	}

	return grpcServer
}
