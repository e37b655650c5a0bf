// Package store provides an interface for whisky storage operations and its implementations.
package store

import (
	"context"
	"time"
)

// Whisky is the persisted form of a whisky stock record.
type Whisky struct {
	ID        int64
	Name      string
	Brand     string
	Type      string
	Max       int32
	Quantity  int32
	CreatedAt time.Time
	UpdatedAt time.Time
}

// WhiskyStore is an interface for whisky storage operations.
// It abstracts the underlying data store, allowing for different implementations (in-memory, PostgreSQL, Redis, MongoDB).
type WhiskyStore interface {
	// Save inserts the whisky when its ID is zero and updates it otherwise.
	// Returns the persisted whisky with its assigned ID.
	// Returns ErrWhiskyAlreadyRegistered if the name is taken and ErrWhiskyNotFound if an update targets a missing ID.
	Save(ctx context.Context, whisky *Whisky) (*Whisky, error)

	// FindByID retrieves a single whisky by its unique identifier.
	// Returns ErrWhiskyNotFound if no whisky exists with the given ID.
	FindByID(ctx context.Context, id int64) (*Whisky, error)

	// FindByName retrieves a single whisky by its unique name.
	// Returns ErrWhiskyNotFound if no whisky exists with the given name.
	FindByName(ctx context.Context, name string) (*Whisky, error)

	// FindAll returns every whisky ordered by ID.
	// Returns an empty slice if no whiskies exist.
	FindAll(ctx context.Context) ([]Whisky, error)

	// DeleteByID removes a whisky by its ID.
	// Returns ErrWhiskyNotFound if no whisky exists with the given ID.
	DeleteByID(ctx context.Context, id int64) error
}
