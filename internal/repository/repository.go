package repository

import "context"

// Storage keys of the two persisted collections. They are independent: no
// operation writes both in one transaction.
const (
	CartKey      = "el-causa-cart"
	FavoritesKey = "el-causa-favorites"
)

// SessionKey scopes a storage key to one shopper session.
func SessionKey(key, sessionID string) string {
	return key + ":" + sessionID
}

// StateRepository is the key-value collaborator the session stores persist
// through. Values are opaque serialized collections.
type StateRepository interface {
	// Get returns the stored value. A missing key yields an error matching
	// apperrors.ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key string, value []byte) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}
