package storage

import (
	"context"

	"github.com/uzhavan/disai/core"
)

// VectorCache persists embedding vectors keyed by content hash.
// Implementations must be thread-safe and support concurrent access.
type VectorCache interface {
	// GetVector retrieves a cached vector by key.
	// Returns ErrNotFound if no vector is stored under the key.
	GetVector(ctx context.Context, key core.ID) ([]float32, error)

	// GetVectors retrieves multiple vectors in one transaction.
	// The result is aligned with keys; a nil entry marks a cache miss.
	// Missing keys are not an error.
	GetVectors(ctx context.Context, keys ...core.ID) ([][]float32, error)

	// PutVector stores a vector under key, overwriting any existing entry.
	PutVector(ctx context.Context, key core.ID, vector []float32) error

	// PutVectors stores multiple vectors in one transaction.
	// keys and vectors must have equal length.
	PutVectors(ctx context.Context, keys []core.ID, vectors [][]float32) error

	// Close closes the cache and releases resources.
	Close() error
}

// CacheKey derives the cache key for a (model, text) pair. The model
// identifier participates in the hash so that vectors produced by different
// models never collide.
func CacheKey(modelID, text string) core.ID {
	return core.IDFromContent(modelID + "|" + text)
}
