package mem

import (
	"fmt"
	"sync/atomic"

	"github.com/ValentinKolb/hKV/lib/db"
	"github.com/puzpuzpuz/xsync/v3"
)

// --------------------------------------------------------------------------
// Core mem engine structure
// --------------------------------------------------------------------------

// memImpl implements an ephemeral engine on top of a concurrent map.
// Contents do not outlive the process.
type memImpl struct {
	data  *xsync.MapOf[string, []byte]
	used  atomic.Int64 // tracked payload bytes (keys + values)
	quota int64        // 0 = unlimited
}

// EngineOptions configures the memImpl behavior during initialization
type EngineOptions struct {
	QuotaBytes int64 // Maximum payload size in bytes (0 = unlimited)
}

// DefaultOptions returns the default memImpl options
func DefaultOptions() *EngineOptions {
	return &EngineOptions{
		QuotaBytes: 0, // Unlimited by default
	}
}

// --------------------------------------------------------------------------
// Initialization and Setup
// --------------------------------------------------------------------------

// NewMemEngine creates a new ephemeral engine instance with the specified
// options (optional).
//
// Thread-safety: This function is not thread-safe and should only be called
// once during initialization.
func NewMemEngine(opts *EngineOptions) db.HostKV {
	if opts == nil {
		opts = DefaultOptions()
	}

	return &memImpl{
		data:  xsync.NewMapOf[string, []byte](),
		quota: opts.QuotaBytes,
	}
}

// entrySize returns the payload size accounted for a single entry
func entrySize(key string, value []byte) int64 {
	return int64(len(key)) + int64(len(value))
}

// --------------------------------------------------------------------------
// HostKV Interface Methods - Write Operations
// --------------------------------------------------------------------------

// Set inserts or updates an entry with the given key and value.
// If the key already exists, the old value is overwritten.
// Returns an error wrapping db.ErrQuotaExceeded if the configured quota
// would be exceeded; in that case the store is left unchanged.
//
// Thread-safety: This method is thread-safe and can be called concurrently.
func (m *memImpl) Set(key string, value []byte) error {
	// Copy value to prevent memory corruption
	valueCopy := make([]byte, len(value))
	copy(valueCopy, value)

	var quotaErr error
	m.data.Compute(key, func(old []byte, loaded bool) ([]byte, bool) {
		delta := entrySize(key, valueCopy)
		if loaded {
			delta = int64(len(valueCopy)) - int64(len(old))
		}

		if m.quota > 0 && m.used.Load()+delta > m.quota {
			quotaErr = fmt.Errorf("%w: write of %d bytes exceeds quota of %d bytes", db.ErrQuotaExceeded, len(valueCopy), m.quota)
			if loaded {
				return old, false // keep the old entry
			}
			return nil, true // true means don't create the entry
		}

		m.used.Add(delta)
		return valueCopy, false
	})
	return quotaErr
}

// Delete removes an entry with the specified key.
// Deleting an absent key is not an error.
//
// Thread-safety: This method is thread-safe and can be called concurrently.
func (m *memImpl) Delete(key string) error {
	if old, loaded := m.data.LoadAndDelete(key); loaded {
		m.used.Add(-entrySize(key, old))
	}
	return nil
}

// Clear removes all entries from the engine.
//
// Thread-safety: This method is thread-safe and can be called concurrently.
func (m *memImpl) Clear() error {
	m.data.Clear()
	m.used.Store(0)
	return nil
}

// --------------------------------------------------------------------------
// HostKV Interface Methods - Query Operations
// --------------------------------------------------------------------------

// Get retrieves the value for an exact key.
// The returned value is a copy of the stored data and therefore safe to modify.
//
// Thread-safety: This method is thread-safe and can be called concurrently.
func (m *memImpl) Get(key string) ([]byte, bool, error) {
	value, loaded := m.data.Load(key)
	if !loaded {
		return nil, false, nil
	}

	valueCopy := make([]byte, len(value))
	copy(valueCopy, value)
	return valueCopy, true, nil
}

// Keys returns a snapshot of all keys currently in the engine.
// The snapshot is decoupled from the live map, so the caller may delete
// entries while iterating over it.
//
// Thread-safety: This method is thread-safe and can be called concurrently.
func (m *memImpl) Keys() ([]string, error) {
	keys := make([]string, 0, m.data.Size())
	m.data.Range(func(key string, _ []byte) bool {
		keys = append(keys, key)
		return true
	})
	return keys, nil
}

// Len returns the number of entries in the engine.
//
// Thread-safety: This method is thread-safe and can be called concurrently.
func (m *memImpl) Len() (int, error) {
	return m.data.Size(), nil
}

// --------------------------------------------------------------------------
// HostKV Interface Implementation - Features and Metadata
// --------------------------------------------------------------------------

// GetInfo returns statistics about the engine
func (m *memImpl) GetInfo() (db.StorageInfo, error) {
	supportedFeatures := []db.Feature{
		db.FeatureSet, db.FeatureGet, db.FeatureDelete,
		db.FeatureKeys, db.FeatureLen, db.FeatureClear,
	}
	if m.quota > 0 {
		supportedFeatures = append(supportedFeatures, db.FeatureQuota)
	}

	meta := &struct {
		Entries    int   `json:"entries"`
		QuotaBytes int64 `json:"quota_bytes"`
	}{
		Entries:    m.data.Size(),
		QuotaBytes: m.quota,
	}

	return db.StorageInfo{
		SizeBytes:         int(m.used.Load()),
		EngineType:        db.EngineMem,
		SupportedFeatures: supportedFeatures,
		Metadata:          meta,
	}, nil
}

// SupportsFeature checks if this implementation supports a specific HostKV feature
func (m *memImpl) SupportsFeature(feature db.Feature) bool {
	supportedFeatures := db.FeatureSet |
		db.FeatureGet |
		db.FeatureDelete |
		db.FeatureKeys |
		db.FeatureLen |
		db.FeatureClear
	if m.quota > 0 {
		supportedFeatures |= db.FeatureQuota
	}
	return supportedFeatures&feature == feature
}

// Close releases the engine. The backing map is dropped so a closed engine
// holds no data.
func (m *memImpl) Close() error {
	m.data.Clear()
	m.used.Store(0)
	return nil
}
