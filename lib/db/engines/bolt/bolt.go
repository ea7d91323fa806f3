package bolt

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/ValentinKolb/hKV/lib/db"
	bbolt "go.etcd.io/bbolt"
)

// --------------------------------------------------------------------------
// Core bolt engine structure
// --------------------------------------------------------------------------

// boltImpl implements a persistent engine backed by a bbolt database file.
// Contents survive process restarts.
type boltImpl struct {
	db     *bbolt.DB
	bucket []byte
	used   atomic.Int64 // tracked payload bytes (keys + values)
	quota  int64        // 0 = unlimited
}

// EngineOptions configures the boltImpl behavior during initialization
type EngineOptions struct {
	Path       string // Path to the database file (required)
	Bucket     string // Name of the bucket to use ("" = "store")
	QuotaBytes int64  // Maximum payload size in bytes (0 = unlimited)
}

// DefaultOptions returns the default boltImpl options for the given file path
func DefaultOptions(path string) *EngineOptions {
	return &EngineOptions{
		Path:       path,
		Bucket:     "store",
		QuotaBytes: 0, // Unlimited by default
	}
}

// --------------------------------------------------------------------------
// Initialization and Setup
// --------------------------------------------------------------------------

// NewBoltEngine opens (creating if absent) a persistent engine at the path
// given in the options. The bucket is created on first open and the tracked
// payload size is rebuilt from the existing entries.
//
// Thread-safety: This function is not thread-safe and should only be called
// once per database file during initialization.
func NewBoltEngine(opts *EngineOptions) (db.HostKV, error) {
	if opts == nil || opts.Path == "" {
		return nil, fmt.Errorf("bolt engine requires a database file path")
	}

	bucket := opts.Bucket
	if bucket == "" {
		bucket = "store"
	}

	bdb, err := bbolt.Open(opts.Path, 0o600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open database file %s: %w", opts.Path, err)
	}

	engine := &boltImpl{
		db:     bdb,
		bucket: []byte(bucket),
		quota:  opts.QuotaBytes,
	}

	// Create the bucket on first open and rebuild the payload size tracker
	var used int64
	err = bdb.Update(func(tx *bbolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(engine.bucket)
		if err != nil {
			return err
		}
		return b.ForEach(func(k, v []byte) error {
			used += int64(len(k)) + int64(len(v))
			return nil
		})
	})
	if err != nil {
		_ = bdb.Close()
		return nil, err
	}
	engine.used.Store(used)

	return engine, nil
}

// --------------------------------------------------------------------------
// HostKV Interface Methods - Write Operations
// --------------------------------------------------------------------------

// Set inserts or updates an entry with the given key and value.
// If the key already exists, the old value is overwritten.
// Returns an error wrapping db.ErrQuotaExceeded if the configured quota
// would be exceeded; in that case nothing is committed.
//
// Thread-safety: This method is thread-safe, bbolt serializes writers.
func (e *boltImpl) Set(key string, value []byte) error {
	return e.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(e.bucket)

		delta := int64(len(key)) + int64(len(value))
		if old := b.Get([]byte(key)); old != nil {
			delta = int64(len(value)) - int64(len(old))
		}

		if e.quota > 0 && e.used.Load()+delta > e.quota {
			return fmt.Errorf("%w: write of %d bytes exceeds quota of %d bytes", db.ErrQuotaExceeded, len(value), e.quota)
		}

		if err := b.Put([]byte(key), value); err != nil {
			return err
		}
		e.used.Add(delta)
		return nil
	})
}

// Delete removes an entry with the specified key.
// Deleting an absent key is not an error.
//
// Thread-safety: This method is thread-safe, bbolt serializes writers.
func (e *boltImpl) Delete(key string) error {
	return e.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(e.bucket)
		old := b.Get([]byte(key))
		if old == nil {
			return nil
		}
		if err := b.Delete([]byte(key)); err != nil {
			return err
		}
		e.used.Add(-(int64(len(key)) + int64(len(old))))
		return nil
	})
}

// Clear removes all entries by dropping and recreating the bucket.
//
// Thread-safety: This method is thread-safe, bbolt serializes writers.
func (e *boltImpl) Clear() error {
	err := e.db.Update(func(tx *bbolt.Tx) error {
		if err := tx.DeleteBucket(e.bucket); err != nil {
			return err
		}
		_, err := tx.CreateBucket(e.bucket)
		return err
	})
	if err != nil {
		return err
	}
	e.used.Store(0)
	return nil
}

// --------------------------------------------------------------------------
// HostKV Interface Methods - Query Operations
// --------------------------------------------------------------------------

// Get retrieves the value for an exact key.
// The returned value is a copy of the stored data and therefore safe to
// use after the read transaction has closed.
//
// Thread-safety: This method is thread-safe and can be called concurrently.
func (e *boltImpl) Get(key string) ([]byte, bool, error) {
	var (
		value  []byte
		loaded bool
	)
	err := e.db.View(func(tx *bbolt.Tx) error {
		v := tx.Bucket(e.bucket).Get([]byte(key))
		if v == nil {
			return nil
		}
		loaded = true
		value = append([]byte(nil), v...)
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return value, loaded, nil
}

// Keys returns a snapshot of all keys currently in the engine.
//
// Thread-safety: This method is thread-safe and can be called concurrently.
func (e *boltImpl) Keys() ([]string, error) {
	var keys []string
	err := e.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(e.bucket).ForEach(func(k, _ []byte) error {
			keys = append(keys, string(k))
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return keys, nil
}

// Len returns the number of entries in the engine.
//
// Thread-safety: This method is thread-safe and can be called concurrently.
func (e *boltImpl) Len() (int, error) {
	var n int
	err := e.db.View(func(tx *bbolt.Tx) error {
		n = tx.Bucket(e.bucket).Stats().KeyN
		return nil
	})
	if err != nil {
		return 0, err
	}
	return n, nil
}

// --------------------------------------------------------------------------
// HostKV Interface Implementation - Features and Metadata
// --------------------------------------------------------------------------

// GetInfo returns statistics about the engine
func (e *boltImpl) GetInfo() (db.StorageInfo, error) {
	supportedFeatures := []db.Feature{
		db.FeatureSet, db.FeatureGet, db.FeatureDelete,
		db.FeatureKeys, db.FeatureLen, db.FeatureClear,
		db.FeaturePersistent,
	}
	if e.quota > 0 {
		supportedFeatures = append(supportedFeatures, db.FeatureQuota)
	}

	n, err := e.Len()
	if err != nil {
		return db.StorageInfo{}, err
	}

	meta := &struct {
		Entries    int    `json:"entries"`
		Path       string `json:"path"`
		Bucket     string `json:"bucket"`
		QuotaBytes int64  `json:"quota_bytes"`
	}{
		Entries:    n,
		Path:       e.db.Path(),
		Bucket:     string(e.bucket),
		QuotaBytes: e.quota,
	}

	return db.StorageInfo{
		SizeBytes:         int(e.used.Load()),
		EngineType:        db.EngineBolt,
		SupportedFeatures: supportedFeatures,
		Metadata:          meta,
	}, nil
}

// SupportsFeature checks if this implementation supports a specific HostKV feature
func (e *boltImpl) SupportsFeature(feature db.Feature) bool {
	supportedFeatures := db.FeatureSet |
		db.FeatureGet |
		db.FeatureDelete |
		db.FeatureKeys |
		db.FeatureLen |
		db.FeatureClear |
		db.FeaturePersistent
	if e.quota > 0 {
		supportedFeatures |= db.FeatureQuota
	}
	return supportedFeatures&feature == feature
}

// Close closes the underlying database file.
func (e *boltImpl) Close() error {
	return e.db.Close()
}
