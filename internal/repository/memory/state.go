package memory

import (
	"context"
	"sync"

	apperrors "github.com/bichitomultihogar/elcausa/pkg/errors"
)

// StateRepository is a process-local repository.StateRepository. Values are
// copied on the way in and out.
type StateRepository struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewStateRepository creates an empty in-memory repository.
func NewStateRepository() *StateRepository {
	return &StateRepository{data: make(map[string][]byte)}
}

func (r *StateRepository) Get(_ context.Context, key string) ([]byte, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	v, ok := r.data[key]
	if !ok {
		return nil, apperrors.NotFound("state", key)
	}
	return append([]byte(nil), v...), nil
}

func (r *StateRepository) Set(_ context.Context, key string, value []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.data[key] = append([]byte(nil), value...)
	return nil
}

func (r *StateRepository) Delete(_ context.Context, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.data, key)
	return nil
}

// Len returns the number of stored keys.
func (r *StateRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.data)
}
