package store

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/abgdnv/whiskystock/internal/migrations"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// PgStoreSuite is a test suite for the PgStore implementation.
type PgStoreSuite struct {
	suite.Suite
	pgContainer *postgres.PostgresContainer
	dbPool      *pgxpool.Pool
	logger      *slog.Logger
	ctx         context.Context
}

// SetupSuite starts a PostgreSQL container and applies the embedded migrations.
func (s *PgStoreSuite) SetupSuite() {
	s.ctx = context.Background()
	var err error
	s.logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))

	// 1. Start a PostgreSQL container and wait until it accepts connections.
	s.pgContainer, err = postgres.Run(s.ctx,
		"postgres:17.5-alpine",
		postgres.WithDatabase("whisky_db"),
		postgres.WithUsername("user"),
		postgres.WithPassword("password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(5*time.Minute),
		),
	)
	require.NoError(s.T(), err, "Failed to run PostgreSQL container")

	connStr, err := s.pgContainer.ConnectionString(s.ctx, "sslmode=disable")
	require.NoError(s.T(), err, "Failed to get connection string from container")

	// 2. Connection pool
	s.dbPool, err = pgxpool.New(s.ctx, connStr)
	require.NoError(s.T(), err, "Failed to create pgxpool")
	for i := range 10 {
		s.logger.Info("Pinging PostgreSQL database", "attempt", i+1)
		err = s.dbPool.Ping(s.ctx)
		if err == nil {
			break
		}
		time.Sleep(time.Second * 2)
	}
	require.NoError(s.T(), err, "Failed to connect to PostgreSQL after retries")

	// 3. Migrations
	require.NoError(s.T(), migrations.Up(connStr), "Failed to apply migrations")
	s.logger.Info("Initialization complete for PgStoreSuite")
}

// TearDownSuite closes the pool and terminates the container.
func (s *PgStoreSuite) TearDownSuite() {
	if s.dbPool != nil {
		s.dbPool.Close()
	}
	if s.pgContainer != nil {
		if err := s.pgContainer.Terminate(s.ctx); err != nil {
			s.logger.Warn("failed to terminate PostgreSQL container", "error", err)
		}
	}
}

func (s *PgStoreSuite) truncate(t *testing.T) {
	_, err := s.dbPool.Exec(s.ctx, "TRUNCATE TABLE whiskies RESTART IDENTITY")
	require.NoError(t, err, "Failed to truncate whiskies table")
}

// TestPgStoreIntegration runs the PgStore integration tests.
func TestPgStoreIntegration(t *testing.T) {
	if os.Getenv(skipIntegrationTests) == "1" {
		t.Skip("Skipping integration tests based on " + skipIntegrationTests + " env var")
	}
	suite.Run(t, new(PgStoreSuite))
}

func (s *PgStoreSuite) TestContract() {
	runWhiskyStoreContract(s.T(), func(t *testing.T) WhiskyStore {
		s.truncate(t)
		return NewPgStore(s.dbPool)
	})
}

func (s *PgStoreSuite) TestQuantityAboveMaxIsRejected() {
	// given
	s.truncate(s.T())
	store := NewPgStore(s.dbPool)
	saved, err := store.Save(s.ctx, testWhisky("Old Parr"))
	s.Require().NoError(err)
	// when
	saved.Quantity = saved.Max + 1
	_, err = store.Save(s.ctx, saved)
	// then
	s.Require().Error(err)
	found, err := store.FindByID(s.ctx, saved.ID)
	s.Require().NoError(err)
	s.Equal(int32(10), found.Quantity)
}

func (s *PgStoreSuite) TestUpdateKeepsCreatedAt() {
	// given
	s.truncate(s.T())
	store := NewPgStore(s.dbPool)
	saved, err := store.Save(s.ctx, testWhisky("Jameson"))
	s.Require().NoError(err)
	// when
	saved.Quantity = 20
	updated, err := store.Save(s.ctx, saved)
	// then
	s.Require().NoError(err)
	s.WithinDuration(saved.CreatedAt, updated.CreatedAt, time.Millisecond)
	s.False(updated.UpdatedAt.Before(saved.UpdatedAt))
}
