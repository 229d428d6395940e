package badger

import (
	"context"
	"fmt"

	"github.com/dgraph-io/badger/v4"

	"github.com/uzhavan/disai/core"
	"github.com/uzhavan/disai/storage"
)

// VectorCache implements storage.VectorCache on a BadgerDB backend.
type VectorCache struct {
	backend *Backend
}

var _ storage.VectorCache = (*VectorCache)(nil)

// NewVectorCache creates a vector cache on the given backend.
// The backend's lifetime is owned by the caller.
func NewVectorCache(backend *Backend) *VectorCache {
	return &VectorCache{backend: backend}
}

// GetVector retrieves a cached vector by key.
func (c *VectorCache) GetVector(ctx context.Context, key core.ID) ([]float32, error) {
	if c.backend.IsClosed() {
		return nil, storage.ErrStorageClosed
	}

	var result []float32
	err := c.backend.WithTx(func(tx *badger.Txn) error {
		vector, err := c.readVector(tx, key)
		if err != nil {
			return err
		}
		if vector == nil {
			return storage.ErrNotFound
		}
		result = vector
		return nil
	}, false)
	return result, err
}

// GetVectors retrieves multiple vectors in one transaction. The result is
// aligned with keys; nil entries mark cache misses.
func (c *VectorCache) GetVectors(ctx context.Context, keys ...core.ID) ([][]float32, error) {
	if c.backend.IsClosed() {
		return nil, storage.ErrStorageClosed
	}

	result := make([][]float32, len(keys))
	err := c.backend.WithTx(func(tx *badger.Txn) error {
		for i, key := range keys {
			vector, err := c.readVector(tx, key)
			if err != nil {
				return err
			}
			result[i] = vector
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// PutVector stores a vector under key, overwriting any existing entry.
func (c *VectorCache) PutVector(ctx context.Context, key core.ID, vector []float32) error {
	return c.PutVectors(ctx, []core.ID{key}, [][]float32{vector})
}

// PutVectors stores multiple vectors in one transaction.
func (c *VectorCache) PutVectors(ctx context.Context, keys []core.ID, vectors [][]float32) error {
	if len(keys) != len(vectors) {
		return fmt.Errorf("%w: %d keys, %d vectors", core.ErrCandidateMismatch, len(keys), len(vectors))
	}
	if c.backend.IsClosed() {
		return storage.ErrStorageClosed
	}

	return c.backend.WithTx(func(tx *badger.Txn) error {
		for i, key := range keys {
			if err := tx.Set(makeVectorKey(key), storage.MarshalVector(vectors[i])); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// Close releases cache resources. The backend is closed separately by its
// owner.
func (c *VectorCache) Close() error {
	return nil
}

// readVector reads one vector inside a transaction. A missing key yields
// (nil, nil); undecodable bytes yield ErrTruncatedData.
func (c *VectorCache) readVector(tx *badger.Txn, key core.ID) ([]float32, error) {
	item, err := tx.Get(makeVectorKey(key))
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var vector []float32
	err = item.Value(func(val []byte) error {
		var unmarshalErr error
		vector, unmarshalErr = storage.UnmarshalVector(val)
		if unmarshalErr != nil {
			return fmt.Errorf("%w: %w", storage.ErrTruncatedData, unmarshalErr)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if vector == nil {
		// Stored empty vectors decode to a non-nil empty slice upstream;
		// keep nil reserved for "missing".
		vector = []float32{}
	}
	return vector, nil
}
