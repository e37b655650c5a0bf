package store

import (
	"context"
	"testing"

	werrors "github.com/abgdnv/whiskystock/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const skipIntegrationTests = "WHISKY_SVC_SKIP_INTEGRATION_TESTS"

func testWhisky(name string) *Whisky {
	return &Whisky{Name: name, Brand: "Scotland", Type: "OLDPARR", Max: 50, Quantity: 10}
}

// runWhiskyStoreContract checks the behaviour every WhiskyStore implementation shares.
// newStore must return an empty store.
func runWhiskyStoreContract(t *testing.T, newStore func(t *testing.T) WhiskyStore) {
	ctx := context.Background()

	t.Run("Save assigns ID and FindByID returns it", func(t *testing.T) {
		// given
		s := newStore(t)
		// when
		saved, err := s.Save(ctx, testWhisky("Old Parr"))
		// then
		require.NoError(t, err)
		require.NotZero(t, saved.ID)
		assert.False(t, saved.CreatedAt.IsZero())

		found, err := s.FindByID(ctx, saved.ID)
		require.NoError(t, err)
		assert.Equal(t, saved.ID, found.ID)
		assert.Equal(t, "Old Parr", found.Name)
		assert.Equal(t, "Scotland", found.Brand)
		assert.Equal(t, "OLDPARR", found.Type)
		assert.Equal(t, int32(50), found.Max)
		assert.Equal(t, int32(10), found.Quantity)
	})

	t.Run("FindByName", func(t *testing.T) {
		// given
		s := newStore(t)
		saved, err := s.Save(ctx, testWhisky("Jameson"))
		require.NoError(t, err)
		// when
		found, err := s.FindByName(ctx, "Jameson")
		// then
		require.NoError(t, err)
		assert.Equal(t, saved.ID, found.ID)

		_, err = s.FindByName(ctx, "Grants")
		assert.ErrorIs(t, err, werrors.ErrWhiskyNotFound)
	})

	t.Run("FindByID not found", func(t *testing.T) {
		s := newStore(t)
		_, err := s.FindByID(ctx, 999)
		assert.ErrorIs(t, err, werrors.ErrWhiskyNotFound)
	})

	t.Run("duplicate name is rejected", func(t *testing.T) {
		// given
		s := newStore(t)
		_, err := s.Save(ctx, testWhisky("Old Parr"))
		require.NoError(t, err)
		// when
		_, err = s.Save(ctx, testWhisky("Old Parr"))
		// then
		assert.ErrorIs(t, err, werrors.ErrWhiskyAlreadyRegistered)
		all, err := s.FindAll(ctx)
		require.NoError(t, err)
		assert.Len(t, all, 1)
	})

	t.Run("Save updates existing whisky", func(t *testing.T) {
		// given
		s := newStore(t)
		saved, err := s.Save(ctx, testWhisky("White Horse"))
		require.NoError(t, err)
		// when
		saved.Quantity = 42
		updated, err := s.Save(ctx, saved)
		// then
		require.NoError(t, err)
		assert.Equal(t, saved.ID, updated.ID)
		assert.Equal(t, int32(42), updated.Quantity)

		found, err := s.FindByID(ctx, saved.ID)
		require.NoError(t, err)
		assert.Equal(t, int32(42), found.Quantity)
	})

	t.Run("Save of missing ID", func(t *testing.T) {
		s := newStore(t)
		w := testWhisky("Royal Salute")
		w.ID = 999
		_, err := s.Save(ctx, w)
		assert.ErrorIs(t, err, werrors.ErrWhiskyNotFound)
	})

	t.Run("FindAll is ordered by ID", func(t *testing.T) {
		// given
		s := newStore(t)
		all, err := s.FindAll(ctx)
		require.NoError(t, err)
		assert.NotNil(t, all)
		assert.Empty(t, all)

		for _, name := range []string{"Old Parr", "White Horse", "Grants"} {
			_, err := s.Save(ctx, testWhisky(name))
			require.NoError(t, err)
		}
		// when
		all, err = s.FindAll(ctx)
		// then
		require.NoError(t, err)
		require.Len(t, all, 3)
		assert.Equal(t, "Old Parr", all[0].Name)
		assert.Equal(t, "White Horse", all[1].Name)
		assert.Equal(t, "Grants", all[2].Name)
		assert.Less(t, all[0].ID, all[1].ID)
		assert.Less(t, all[1].ID, all[2].ID)
	})

	t.Run("DeleteByID", func(t *testing.T) {
		// given
		s := newStore(t)
		saved, err := s.Save(ctx, testWhisky("Balantines"))
		require.NoError(t, err)
		// when
		err = s.DeleteByID(ctx, saved.ID)
		// then
		require.NoError(t, err)
		_, err = s.FindByID(ctx, saved.ID)
		assert.ErrorIs(t, err, werrors.ErrWhiskyNotFound)
		_, err = s.FindByName(ctx, "Balantines")
		assert.ErrorIs(t, err, werrors.ErrWhiskyNotFound)

		err = s.DeleteByID(ctx, saved.ID)
		assert.ErrorIs(t, err, werrors.ErrWhiskyNotFound)

		// the name can be registered again
		_, err = s.Save(ctx, testWhisky("Balantines"))
		assert.NoError(t, err)
	})
}
