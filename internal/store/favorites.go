package store

import (
	"context"
	"log/slog"
	"sync"

	"github.com/bichitomultihogar/elcausa/internal/domain"
	"github.com/bichitomultihogar/elcausa/internal/repository"
	apperrors "github.com/bichitomultihogar/elcausa/pkg/errors"
)

// FavoritesStore holds one session's favorite product ids with the same
// lifecycle and write-through contract as CartStore.
type FavoritesStore struct {
	mu      sync.Mutex
	favs    domain.Favorites
	state   domain.LoadState
	persist persister
}

// NewFavoritesStore creates an uninitialized favorites store persisting under key.
func NewFavoritesStore(repo repository.StateRepository, key string, logger *slog.Logger, metrics *Metrics) *FavoritesStore {
	return &FavoritesStore{
		persist: persister{name: "favorites", key: key, repo: repo, logger: logger, metrics: metrics},
	}
}

// Load replaces the in-memory set with the persisted one.
func (s *FavoritesStore) Load(ctx context.Context) domain.LoadState {
	s.mu.Lock()
	defer s.mu.Unlock()

	var favs domain.Favorites
	s.state = s.persist.load(ctx, &favs)
	if s.state != domain.StateLoaded {
		favs = domain.Favorites{}
	}
	s.favs = favs
	return s.state
}

func (s *FavoritesStore) State() domain.LoadState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// ToggleFavorite flips membership of productID and returns the new membership.
func (s *FavoritesStore) ToggleFavorite(ctx context.Context, productID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ready(); err != nil {
		return false, err
	}
	if productID == "" {
		return false, apperrors.InvalidInput("product id is required")
	}
	member := s.favs.Toggle(productID)
	s.save(ctx)
	return member, nil
}

// AddToFavorites is idempotent.
func (s *FavoritesStore) AddToFavorites(ctx context.Context, productID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ready(); err != nil {
		return err
	}
	if productID == "" {
		return apperrors.InvalidInput("product id is required")
	}
	if s.favs.Add(productID) {
		s.save(ctx)
	}
	return nil
}

// RemoveFromFavorites is idempotent.
func (s *FavoritesStore) RemoveFromFavorites(ctx context.Context, productID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ready(); err != nil {
		return err
	}
	if s.favs.Remove(productID) {
		s.save(ctx)
	}
	return nil
}

// ClearFavorites empties the set.
func (s *FavoritesStore) ClearFavorites(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ready(); err != nil {
		return err
	}
	s.favs.Clear()
	s.save(ctx)
	return nil
}

func (s *FavoritesStore) IsFavorite(productID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.favs.Contains(productID)
}

// IDs returns the favorite ids in insertion order.
func (s *FavoritesStore) IDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.favs.IDs()
}

func (s *FavoritesStore) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.favs.Len()
}

func (s *FavoritesStore) ready() error {
	if !s.state.Hydrated() {
		return apperrors.NotLoaded("favorites")
	}
	return nil
}

func (s *FavoritesStore) save(ctx context.Context) {
	s.persist.save(ctx, s.favs)
}
