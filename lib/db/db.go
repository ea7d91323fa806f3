package db

import "errors"

// --------------------------------------------------------------------------
// Helper Types
// --------------------------------------------------------------------------

type Engine string

const (
	EngineMem  Engine = "mem"
	EngineBolt Engine = "bolt"
)

// ErrQuotaExceeded is returned by Set when the engine's configured capacity
// would be exceeded by the write. Engines wrap this sentinel with detail.
var ErrQuotaExceeded = errors.New("storage quota exceeded")

// Feature represents engine features as bit flags
type Feature uint64

const (
	FeatureSet        Feature = 1 << iota // Support for Set operations
	FeatureGet                            // Support for Get operations
	FeatureDelete                         // Support for Delete operations
	FeatureKeys                           // Support for Keys enumeration
	FeatureLen                            // Support for Len operations
	FeatureClear                          // Support for Clear operations
	FeaturePersistent                     // Contents survive process restarts
	FeatureQuota                          // Engine enforces a byte quota
)

func (f Feature) String() string {
	switch f {
	case FeatureSet:
		return "Set"
	case FeatureGet:
		return "Get"
	case FeatureDelete:
		return "Delete"
	case FeatureKeys:
		return "Keys"
	case FeatureLen:
		return "Len"
	case FeatureClear:
		return "Clear"
	case FeaturePersistent:
		return "Persistent"
	case FeatureQuota:
		return "Quota"
	default:
		return "Unknown"
	}
}

type StorageInfo struct {
	SizeBytes         int         `json:"size_bytes"`
	EngineType        Engine      `json:"engine_type"`
	SupportedFeatures []Feature   `json:"supported_features"`
	Metadata          interface{} `json:"metadata"`
}

// EngineFactory is a function type that creates a new engine instance.
// It is used to abstract the creation of the engine from the facades so
// they can be tested against any implementation.
type EngineFactory func() HostKV

// --------------------------------------------------------------------------
// Engine Interface
// --------------------------------------------------------------------------

// HostKV defines the interface for host storage engine implementations.
// It models the raw key-value facility the facades wrap: an unordered,
// per-store collection of (key, value) entries with a host-defined capacity.
// Implementations can vary in their feature support, which can be queried
// with SupportsFeature.
type HostKV interface {

	// --------------------------------------------------------------------------
	// Write Operations
	// --------------------------------------------------------------------------

	// Set inserts or updates an entry with the given key and value.
	// If the key already exists, the old value is overwritten.
	// Returns an error wrapping ErrQuotaExceeded if the write would exceed
	// the engine's configured capacity.
	Set(key string, value []byte) error

	// Delete removes an entry with the specified key.
	// Deleting an absent key is not an error.
	Delete(key string) error

	// Clear removes all entries from the engine.
	Clear() error

	// --------------------------------------------------------------------------
	// Query Operations
	// --------------------------------------------------------------------------

	// Get retrieves the value for an exact key.
	// The boolean return value indicates whether a value for the key was found.
	// The returned slice is a copy and safe to modify.
	Get(key string) (value []byte, loaded bool, err error)

	// Keys returns a snapshot of all keys currently in the engine.
	// The snapshot is decoupled from the live collection, so the caller may
	// delete entries while iterating over it.
	Keys() (keys []string, err error)

	// Len returns the number of entries in the engine.
	Len() (n int, err error)

	// --------------------------------------------------------------------------
	// Feature Support
	// --------------------------------------------------------------------------

	// SupportsFeature checks if the engine implementation supports the specified feature.
	// Multiple features can be checked at once using the bitwise OR (|) operator.
	SupportsFeature(feature Feature) (ok bool)

	// GetInfo returns information about the engine.
	GetInfo() (info StorageInfo, err error)

	// Close closes the engine and releases any held resources.
	Close() (err error)
}
