package service

import (
	"context"
	"errors"
	"testing"

	werrors "github.com/abgdnv/whiskystock/internal/errors"
	"github.com/abgdnv/whiskystock/internal/store"
	"github.com/abgdnv/whiskystock/pkg/messaging"
	"github.com/abgdnv/whiskystock/pkg/messaging/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockWhiskyStore is a mock implementation of the WhiskyStore interface
type mockWhiskyStore struct {
	whisky    *store.Whisky
	whiskies  []store.Whisky
	findErr   error
	saveErr   error
	deleteErr error

	saved   []store.Whisky
	deleted []int64
}

func (m *mockWhiskyStore) find() (*store.Whisky, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	if m.whisky == nil {
		return nil, werrors.ErrWhiskyNotFound
	}
	w := *m.whisky
	return &w, nil
}

func (m *mockWhiskyStore) Save(_ context.Context, whisky *store.Whisky) (*store.Whisky, error) {
	if m.saveErr != nil {
		return nil, m.saveErr
	}
	saved := *whisky
	if saved.ID == 0 {
		saved.ID = 1
	}
	m.saved = append(m.saved, saved)
	return &saved, nil
}

func (m *mockWhiskyStore) FindByID(_ context.Context, _ int64) (*store.Whisky, error) {
	return m.find()
}

func (m *mockWhiskyStore) FindByName(_ context.Context, _ string) (*store.Whisky, error) {
	return m.find()
}

func (m *mockWhiskyStore) FindAll(_ context.Context) ([]store.Whisky, error) {
	return m.whiskies, m.findErr
}

func (m *mockWhiskyStore) DeleteByID(_ context.Context, id int64) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	m.deleted = append(m.deleted, id)
	return nil
}

// recordingPublisher keeps every published event
type recordingPublisher struct {
	events []messaging.Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, event messaging.Event) error {
	p.events = append(p.events, event)
	return p.err
}

func oldParr() *store.Whisky {
	return &store.Whisky{ID: 1, Name: "Old Parr", Brand: "Scotland", Type: string(OldParr), Max: 50, Quantity: 10}
}

func oldParrCreateDto() WhiskyCreateDto {
	return WhiskyCreateDto{Name: "Old Parr", Brand: "Scotland", Type: OldParr, Max: 50, Quantity: 10}
}

func Test_WhiskyService_Register(t *testing.T) {
	ErrStoreError := errors.New("store error")
	testCases := []struct {
		name        string
		mockStore   *mockWhiskyStore
		expected    *WhiskyDto
		expectError error
	}{
		{
			name:      "Success - whisky registered",
			mockStore: &mockWhiskyStore{},
			expected: &WhiskyDto{
				ID: 1, Name: "Old Parr", Brand: "Scotland", Max: 50, Quantity: 10, Type: OldParr,
			},
		},
		{
			name:        "Error - name already registered",
			mockStore:   &mockWhiskyStore{whisky: oldParr()},
			expectError: werrors.ErrWhiskyAlreadyRegistered,
		},
		{
			name:        "Error - lookup fails",
			mockStore:   &mockWhiskyStore{findErr: ErrStoreError},
			expectError: ErrStoreError,
		},
		{
			name:        "Error - save fails",
			mockStore:   &mockWhiskyStore{saveErr: ErrStoreError},
			expectError: ErrStoreError,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			publisher := &recordingPublisher{}
			service := NewService(tc.mockStore, publisher)
			// when
			registered, err := service.Register(context.Background(), oldParrCreateDto())
			// then
			if tc.expectError != nil {
				assert.ErrorIs(t, err, tc.expectError)
				assert.Nil(t, registered)
				assert.Empty(t, tc.mockStore.saved)
				assert.Empty(t, publisher.events)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, registered)
			require.Len(t, publisher.events, 1)
			event, ok := publisher.events[0].(events.WhiskyRegisteredEvent)
			require.True(t, ok)
			assert.Equal(t, int64(1), event.ID)
			assert.Equal(t, "Old Parr", event.Name)
		})
	}
}

func Test_WhiskyService_Register_PublishFailureIsIgnored(t *testing.T) {
	// given
	publisher := &recordingPublisher{err: errors.New("broker down")}
	service := NewService(&mockWhiskyStore{}, publisher)
	// when
	registered, err := service.Register(context.Background(), oldParrCreateDto())
	// then
	require.NoError(t, err)
	assert.Equal(t, int64(1), registered.ID)
	assert.Len(t, publisher.events, 1)
}

func Test_WhiskyService_FindByName(t *testing.T) {
	testCases := []struct {
		name        string
		mockStore   *mockWhiskyStore
		expected    *WhiskyDto
		expectError error
	}{
		{
			name:      "Success - whisky found",
			mockStore: &mockWhiskyStore{whisky: oldParr()},
			expected: &WhiskyDto{
				ID: 1, Name: "Old Parr", Brand: "Scotland", Max: 50, Quantity: 10, Type: OldParr,
			},
		},
		{
			name:        "Error - whisky not found",
			mockStore:   &mockWhiskyStore{},
			expectError: werrors.ErrWhiskyNotFound,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			service := NewService(tc.mockStore, nil)
			// when
			found, err := service.FindByName(context.Background(), "Old Parr")
			// then
			if tc.expectError != nil {
				assert.ErrorIs(t, err, tc.expectError)
				assert.Nil(t, found)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, found)
		})
	}
}

func Test_WhiskyService_FindAll(t *testing.T) {
	ErrStoreError := errors.New("store error")
	testCases := []struct {
		name         string
		mockStore    *mockWhiskyStore
		expectedList []WhiskyDto
		expectError  error
	}{
		{
			name:      "Success - whiskies found",
			mockStore: &mockWhiskyStore{whiskies: []store.Whisky{*oldParr()}},
			expectedList: []WhiskyDto{
				{ID: 1, Name: "Old Parr", Brand: "Scotland", Max: 50, Quantity: 10, Type: OldParr},
			},
		},
		{
			name:         "Success - no whiskies",
			mockStore:    &mockWhiskyStore{},
			expectedList: []WhiskyDto{},
		},
		{
			name:        "Error - store error",
			mockStore:   &mockWhiskyStore{findErr: ErrStoreError},
			expectError: ErrStoreError,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			service := NewService(tc.mockStore, nil)
			// when
			found, err := service.FindAll(context.Background())
			// then
			if tc.expectError != nil {
				assert.ErrorIs(t, err, tc.expectError)
				assert.Nil(t, found)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, found)
			assert.Equal(t, tc.expectedList, found)
		})
	}
}

func Test_WhiskyService_DeleteByID(t *testing.T) {
	ErrStoreError := errors.New("store error")
	testCases := []struct {
		name        string
		mockStore   *mockWhiskyStore
		expectError error
	}{
		{
			name:      "Success - whisky deleted",
			mockStore: &mockWhiskyStore{whisky: oldParr()},
		},
		{
			name:        "Error - whisky not found",
			mockStore:   &mockWhiskyStore{},
			expectError: werrors.ErrWhiskyNotFound,
		},
		{
			name:        "Error - delete fails",
			mockStore:   &mockWhiskyStore{whisky: oldParr(), deleteErr: ErrStoreError},
			expectError: ErrStoreError,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			publisher := &recordingPublisher{}
			service := NewService(tc.mockStore, publisher)
			// when
			err := service.DeleteByID(context.Background(), 1)
			// then
			if tc.expectError != nil {
				assert.ErrorIs(t, err, tc.expectError)
				assert.Empty(t, publisher.events)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, []int64{1}, tc.mockStore.deleted)
			require.Len(t, publisher.events, 1)
			assert.IsType(t, events.WhiskyDeletedEvent{}, publisher.events[0])
		})
	}
}

func Test_WhiskyService_Adjust(t *testing.T) {
	testCases := []struct {
		name             string
		mockStore        *mockWhiskyStore
		decrement        bool
		amount           int32
		expectedQuantity int32
		expectError      error
	}{
		{
			name:             "Success - increment within capacity",
			mockStore:        &mockWhiskyStore{whisky: oldParr()},
			amount:           10,
			expectedQuantity: 20,
		},
		{
			name:             "Success - increment up to capacity",
			mockStore:        &mockWhiskyStore{whisky: oldParr()},
			amount:           40,
			expectedQuantity: 50,
		},
		{
			name:        "Error - increment exceeds capacity",
			mockStore:   &mockWhiskyStore{whisky: oldParr()},
			amount:      45,
			expectError: werrors.ErrWhiskyStockExceeded,
		},
		{
			name:             "Success - decrement",
			mockStore:        &mockWhiskyStore{whisky: oldParr()},
			decrement:        true,
			amount:           5,
			expectedQuantity: 5,
		},
		{
			name:             "Success - decrement to zero",
			mockStore:        &mockWhiskyStore{whisky: oldParr()},
			decrement:        true,
			amount:           10,
			expectedQuantity: 0,
		},
		{
			name:        "Error - decrement below zero",
			mockStore:   &mockWhiskyStore{whisky: oldParr()},
			decrement:   true,
			amount:      80,
			expectError: werrors.ErrWhiskyStockExceeded,
		},
		{
			name:        "Error - whisky not found",
			mockStore:   &mockWhiskyStore{},
			amount:      1,
			expectError: werrors.ErrWhiskyNotFound,
		},
		{
			name:        "Error - zero amount",
			mockStore:   &mockWhiskyStore{whisky: oldParr()},
			amount:      0,
			expectError: werrors.ErrInvalidQuantity,
		},
		{
			name:        "Error - negative amount",
			mockStore:   &mockWhiskyStore{whisky: oldParr()},
			decrement:   true,
			amount:      -3,
			expectError: werrors.ErrInvalidQuantity,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			publisher := &recordingPublisher{}
			service := NewService(tc.mockStore, publisher)
			adjust := service.Increment
			if tc.decrement {
				adjust = service.Decrement
			}
			// when
			updated, err := adjust(context.Background(), 1, tc.amount)
			// then
			if tc.expectError != nil {
				assert.ErrorIs(t, err, tc.expectError)
				assert.Nil(t, updated)
				assert.Empty(t, tc.mockStore.saved)
				assert.Empty(t, publisher.events)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expectedQuantity, updated.Quantity)
			require.Len(t, tc.mockStore.saved, 1)
			assert.Equal(t, tc.expectedQuantity, tc.mockStore.saved[0].Quantity)

			require.Len(t, publisher.events, 1)
			event, ok := publisher.events[0].(events.WhiskyStockChangedEvent)
			require.True(t, ok)
			assert.Equal(t, int32(10), event.PreviousQuantity)
			assert.Equal(t, tc.expectedQuantity, event.Quantity)
			assert.Equal(t, tc.expectedQuantity-10, event.Delta)
		})
	}
}

// The scenarios below run against the in-memory store so that state changes are observable.

func newInMemoryService(t *testing.T) (*Service, *store.InMemoryStore) {
	t.Helper()
	repo := store.NewInMemoryStore()
	return NewService(repo, nil), repo
}

func Test_WhiskyService_RegisterThenFind(t *testing.T) {
	// given
	service, _ := newInMemoryService(t)
	ctx := context.Background()
	// when
	registered, err := service.Register(ctx, oldParrCreateDto())
	require.NoError(t, err)
	found, err := service.FindByName(ctx, "Old Parr")
	// then
	require.NoError(t, err)
	assert.Equal(t, registered, found)
	assert.Equal(t, int64(1), found.ID)
	assert.Equal(t, "Scotland", found.Brand)
	assert.Equal(t, int32(50), found.Max)
	assert.Equal(t, int32(10), found.Quantity)
	assert.Equal(t, OldParr, found.Type)
}

func Test_WhiskyService_RegisterTwice(t *testing.T) {
	// given
	service, repo := newInMemoryService(t)
	ctx := context.Background()
	_, err := service.Register(ctx, oldParrCreateDto())
	require.NoError(t, err)
	// when
	_, err = service.Register(ctx, oldParrCreateDto())
	// then
	assert.ErrorIs(t, err, werrors.ErrWhiskyAlreadyRegistered)
	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func Test_WhiskyService_DeleteMissingOnEmptyStore(t *testing.T) {
	// given
	service, _ := newInMemoryService(t)
	// when
	err := service.DeleteByID(context.Background(), 999)
	// then
	assert.ErrorIs(t, err, werrors.ErrWhiskyNotFound)
}

func Test_WhiskyService_DeleteThenFind(t *testing.T) {
	// given
	service, _ := newInMemoryService(t)
	ctx := context.Background()
	registered, err := service.Register(ctx, oldParrCreateDto())
	require.NoError(t, err)
	// when
	err = service.DeleteByID(ctx, registered.ID)
	// then
	require.NoError(t, err)
	_, err = service.FindByName(ctx, "Old Parr")
	assert.ErrorIs(t, err, werrors.ErrWhiskyNotFound)
	all, err := service.FindAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func Test_WhiskyService_StockScenarios(t *testing.T) {
	testCases := []struct {
		name             string
		decrement        bool
		amount           int32
		expectError      error
		expectedQuantity int32
	}{
		{name: "increment 10", amount: 10, expectedQuantity: 20},
		{name: "increment 45 exceeds max", amount: 45, expectError: werrors.ErrWhiskyStockExceeded, expectedQuantity: 10},
		{name: "decrement 5", decrement: true, amount: 5, expectedQuantity: 5},
		{name: "decrement 80 below zero", decrement: true, amount: 80, expectError: werrors.ErrWhiskyStockExceeded, expectedQuantity: 10},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			service, _ := newInMemoryService(t)
			ctx := context.Background()
			registered, err := service.Register(ctx, oldParrCreateDto())
			require.NoError(t, err)
			// when
			if tc.decrement {
				_, err = service.Decrement(ctx, registered.ID, tc.amount)
			} else {
				_, err = service.Increment(ctx, registered.ID, tc.amount)
			}
			// then
			if tc.expectError != nil {
				assert.ErrorIs(t, err, tc.expectError)
			} else {
				require.NoError(t, err)
			}
			found, err := service.FindByName(ctx, "Old Parr")
			require.NoError(t, err)
			assert.Equal(t, tc.expectedQuantity, found.Quantity)
		})
	}
}

func Test_WhiskyService_AdjustMissing(t *testing.T) {
	// given
	service, _ := newInMemoryService(t)
	ctx := context.Background()
	// when
	_, incErr := service.Increment(ctx, 42, 1)
	_, decErr := service.Decrement(ctx, 42, 1)
	// then
	assert.ErrorIs(t, incErr, werrors.ErrWhiskyNotFound)
	assert.ErrorIs(t, decErr, werrors.ErrWhiskyNotFound)
}

func Test_WhiskyType(t *testing.T) {
	for _, wt := range WhiskyTypes() {
		assert.True(t, wt.IsValid(), wt)
		assert.NotEmpty(t, wt.Description(), wt)
	}
	assert.Equal(t, "Johnny Walker", JohnnyWalker.Description())
	assert.False(t, WhiskyType("TALISKER").IsValid())
	assert.Empty(t, WhiskyType("").Description())
}
