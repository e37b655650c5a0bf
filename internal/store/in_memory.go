package store

import (
	"context"
	"slices"
	"sync"
	"time"

	werrors "github.com/abgdnv/whiskystock/internal/errors"
)

// InMemoryStore implements WhiskyStore on top of a map guarded by a RWMutex.
type InMemoryStore struct {
	mu      sync.RWMutex
	byID    map[int64]Whisky
	nextID  int64
	nowFunc func() time.Time
}

// NewInMemoryStore creates an empty in-memory store. IDs start at 1.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		byID:    make(map[int64]Whisky),
		nowFunc: time.Now,
	}
}

func (s *InMemoryStore) Save(_ context.Context, whisky *Whisky) (*Whisky, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, w := range s.byID {
		if w.Name == whisky.Name && id != whisky.ID {
			return nil, werrors.ErrWhiskyAlreadyRegistered
		}
	}

	now := s.nowFunc().UTC()
	saved := *whisky
	if saved.ID == 0 {
		s.nextID++
		saved.ID = s.nextID
		saved.CreatedAt = now
	} else {
		existing, ok := s.byID[saved.ID]
		if !ok {
			return nil, werrors.ErrWhiskyNotFound
		}
		saved.CreatedAt = existing.CreatedAt
	}
	saved.UpdatedAt = now
	s.byID[saved.ID] = saved

	return &saved, nil
}

func (s *InMemoryStore) FindByID(_ context.Context, id int64) (*Whisky, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	w, ok := s.byID[id]
	if !ok {
		return nil, werrors.ErrWhiskyNotFound
	}
	return &w, nil
}

func (s *InMemoryStore) FindByName(_ context.Context, name string) (*Whisky, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, w := range s.byID {
		if w.Name == name {
			return &w, nil
		}
	}
	return nil, werrors.ErrWhiskyNotFound
}

func (s *InMemoryStore) FindAll(_ context.Context) ([]Whisky, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	whiskies := make([]Whisky, 0, len(s.byID))
	for _, w := range s.byID {
		whiskies = append(whiskies, w)
	}
	slices.SortFunc(whiskies, byID)
	return whiskies, nil
}

func (s *InMemoryStore) DeleteByID(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byID[id]; !ok {
		return werrors.ErrWhiskyNotFound
	}
	delete(s.byID, id)
	return nil
}

func byID(a, b Whisky) int {
	switch {
	case a.ID < b.ID:
		return -1
	case a.ID > b.ID:
		return 1
	default:
		return 0
	}
}
