package web

import (
	"context"

	"github.com/go-chi/chi/v5/middleware"
)

// WithRequestID stores the request id under chi's key so middleware.GetReqID and the log handler find it.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, middleware.RequestIDKey, id)
}
