package store

import (
	"context"
	"errors"
	"fmt"

	werrors "github.com/abgdnv/whiskystock/internal/errors"
	"github.com/abgdnv/whiskystock/internal/store/db"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	pgUniqueViolation = "23505"
	pgCheckViolation  = "23514"
)

// PgStore implements WhiskyStore using PostgreSQL as the data store.
type PgStore struct {
	db *pgxpool.Pool
	q  *db.Queries
}

// NewPgStore creates a new instance of WhiskyStore using a PostgreSQL connection pool.
func NewPgStore(dbp *pgxpool.Pool) *PgStore {
	return &PgStore{
		db: dbp,
		q:  db.New(dbp),
	}
}

// Save inserts a new whisky or updates an existing one.
// A duplicate name is reported as ErrWhiskyAlreadyRegistered, a quantity outside [0, max] as ErrWhiskyStockExceeded.
func (p *PgStore) Save(ctx context.Context, whisky *Whisky) (*Whisky, error) {
	var (
		row db.Whisky
		err error
	)
	if whisky.ID == 0 {
		row, err = p.q.CreateWhisky(ctx, db.CreateWhiskyParams{
			Name:        whisky.Name,
			Brand:       whisky.Brand,
			WhiskyType:  whisky.Type,
			MaxCapacity: whisky.Max,
			Quantity:    whisky.Quantity,
		})
	} else {
		row, err = p.q.UpdateWhisky(ctx, db.UpdateWhiskyParams{
			ID:          whisky.ID,
			Name:        whisky.Name,
			Brand:       whisky.Brand,
			WhiskyType:  whisky.Type,
			MaxCapacity: whisky.Max,
			Quantity:    whisky.Quantity,
		})
	}
	if err != nil {
		return nil, mapPgError(err, "failed to save whisky")
	}
	return fromRow(row), nil
}

// FindByID retrieves a whisky by its unique identifier.
// Returns ErrWhiskyNotFound if no whisky exists with the given ID.
func (p *PgStore) FindByID(ctx context.Context, id int64) (*Whisky, error) {
	row, err := p.q.FindWhiskyByID(ctx, id)
	if err != nil {
		return nil, mapPgError(err, "failed to find whisky by ID")
	}
	return fromRow(row), nil
}

// FindByName retrieves a whisky by its name.
// Returns ErrWhiskyNotFound if no whisky exists with the given name.
func (p *PgStore) FindByName(ctx context.Context, name string) (*Whisky, error) {
	row, err := p.q.FindWhiskyByName(ctx, name)
	if err != nil {
		return nil, mapPgError(err, "failed to find whisky by name")
	}
	return fromRow(row), nil
}

// FindAll retrieves all whiskies ordered by ID.
func (p *PgStore) FindAll(ctx context.Context) ([]Whisky, error) {
	rows, err := p.q.FindAllWhiskies(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to find all whiskies: %w", err)
	}
	whiskies := make([]Whisky, len(rows))
	for i, row := range rows {
		whiskies[i] = *fromRow(row)
	}
	return whiskies, nil
}

// DeleteByID removes a whisky by its unique identifier.
// Returns ErrWhiskyNotFound if no whisky exists with the given ID.
func (p *PgStore) DeleteByID(ctx context.Context, id int64) error {
	count, err := p.q.DeleteWhisky(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete whisky by ID: %w", err)
	}
	if count == 0 {
		return werrors.ErrWhiskyNotFound
	}
	return nil
}

func mapPgError(err error, msg string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return werrors.ErrWhiskyNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return werrors.ErrWhiskyAlreadyRegistered
		case pgCheckViolation:
			return werrors.ErrWhiskyStockExceeded
		}
	}
	return fmt.Errorf("%s: %w", msg, err)
}

func fromRow(row db.Whisky) *Whisky {
	return &Whisky{
		ID:        row.ID,
		Name:      row.Name,
		Brand:     row.Brand,
		Type:      row.WhiskyType,
		Max:       row.MaxCapacity,
		Quantity:  row.Quantity,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
}
