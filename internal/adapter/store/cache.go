package store

import (
	"encoding/binary"
	"encoding/json"
	"fmt"

	"go.etcd.io/bbolt"

	"semsearch/internal/domain"
)

// CurrentSchemaVersion is the current cache layout version.
// Increment this when making breaking changes to the storage format.
const CurrentSchemaVersion = 1

var (
	bucketVectors = []byte("vectors")
	bucketMeta    = []byte("meta")
	keyManifest   = []byte("manifest")
)

// BoltCache is the embedding cache artifact: one bbolt file holding the aligned
// vector list (keyed by big-endian row index) and its manifest.
type BoltCache struct {
	db *bbolt.DB
}

type storedVector struct {
	Vector []float32 `json:"v"`
}

func OpenBoltCache(path string) (*BoltCache, error) {
	db, err := bbolt.Open(path, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		for _, b := range [][]byte{bucketVectors, bucketMeta} {
			if _, err := tx.CreateBucketIfNotExists(b); err != nil {
				return fmt.Errorf("failed to create bucket %s: %w", b, err)
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &BoltCache{db: db}, nil
}

// Manifest returns the stored manifest; ok is false for a cache that has never been written.
func (c *BoltCache) Manifest() (domain.CacheManifest, bool, error) {
	var m domain.CacheManifest
	var ok bool
	err := c.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketMeta).Get(keyManifest)
		if data == nil {
			return nil
		}
		ok = true
		return json.Unmarshal(data, &m)
	})
	if err != nil {
		return domain.CacheManifest{}, false, fmt.Errorf("failed to read manifest: %w", err)
	}
	if m.SchemaVersion > CurrentSchemaVersion {
		return domain.CacheManifest{}, false, domain.NewConfigurationError(domain.ErrCacheMismatch,
			"cache created by newer version (v%d > v%d)", m.SchemaVersion, CurrentSchemaVersion)
	}
	return m, ok, nil
}

// ReadAll returns every cached vector in row order. Keys must be the dense
// sequence 0..n-1; a gap means the artifact is corrupt.
func (c *BoltCache) ReadAll() ([][]float32, error) {
	var vectors [][]float32
	err := c.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketVectors)
		vectors = make([][]float32, 0, b.Stats().KeyN)

		return b.ForEach(func(k, v []byte) error {
			if len(k) != 8 {
				return fmt.Errorf("vector rows not contiguous: malformed key %x at row %d", k, len(vectors))
			}
			row := binary.BigEndian.Uint64(k)
			if row != uint64(len(vectors)) {
				return fmt.Errorf("vector rows not contiguous: expected row %d, found %d", len(vectors), row)
			}
			var stored storedVector
			if err := json.Unmarshal(v, &stored); err != nil {
				return fmt.Errorf("row %d: %w", row, err)
			}
			vectors = append(vectors, stored.Vector)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return vectors, nil
}

// Replace atomically swaps the cache contents for vectors and manifest.
func (c *BoltCache) Replace(manifest domain.CacheManifest, vectors [][]float32) error {
	if manifest.SchemaVersion == 0 {
		manifest.SchemaVersion = CurrentSchemaVersion
	}
	manifest.Count = len(vectors)

	return c.db.Update(func(tx *bbolt.Tx) error {
		if err := tx.DeleteBucket(bucketVectors); err != nil && err != bbolt.ErrBucketNotFound {
			return err
		}
		b, err := tx.CreateBucket(bucketVectors)
		if err != nil {
			return err
		}
		b.FillPercent = 1.0 // keys are appended in order

		for row, vec := range vectors {
			data, err := json.Marshal(storedVector{Vector: vec})
			if err != nil {
				return err
			}
			if err := b.Put(rowKey(row), data); err != nil {
				return err
			}
		}

		data, err := json.Marshal(manifest)
		if err != nil {
			return err
		}
		return tx.Bucket(bucketMeta).Put(keyManifest, data)
	})
}

func (c *BoltCache) Close() error {
	return c.db.Close()
}

func rowKey(row int) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, uint64(row))
	return key
}
