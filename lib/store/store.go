package store

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ValentinKolb/hKV/lib/db"
	"github.com/ValentinKolb/hKV/lib/logger"
	"github.com/ValentinKolb/hKV/lib/serializer"
	"github.com/VictoriaMetrics/metrics"
)

// --------------------------------------------------------------------------
// Construction
// --------------------------------------------------------------------------

type facadeImpl struct {
	db      db.HostKV
	ser     serializer.ISerializer
	logger  logger.ILogger
	backend string
}

// Option configures a facade during construction.
type Option func(*facadeImpl)

// WithSerializer overrides the default JSON serializer.
func WithSerializer(s serializer.ISerializer) Option {
	return func(f *facadeImpl) {
		f.ser = s
	}
}

// WithLogger overrides the default package logger as the diagnostic sink.
func WithLogger(l logger.ILogger) Option {
	return func(f *facadeImpl) {
		f.logger = l
	}
}

// New creates a new storage facade on top of the engine created by the
// factory. Whether the facade is the ephemeral or the persistent one is
// decided entirely by the injected engine.
func New(factory db.EngineFactory, opts ...Option) IStore {
	f := &facadeImpl{
		db:     factory(),
		ser:    serializer.NewJSONSerializer(),
		logger: logger.GetLogger("store"),
	}
	for _, opt := range opts {
		opt(f)
	}

	if info, err := f.db.GetInfo(); err == nil {
		f.backend = string(info.EngineType)
	} else {
		f.backend = "unknown"
	}

	return f
}

// --------------------------------------------------------------------------
// Helpers
// --------------------------------------------------------------------------

// validateKey checks that the key is non-empty after trimming whitespace.
// Every keyed operation runs this before touching the engine.
func validateKey(key string) *Error {
	if strings.TrimSpace(key) == "" {
		return NewError(RetCInvalidKey, "key must be a non-empty string")
	}
	return nil
}

// countOp increments the per-operation counter for this facade's backend
func (f *facadeImpl) countOp(op string) {
	metrics.GetOrCreateCounter(fmt.Sprintf(`hkv_store_ops_total{op=%q,backend=%q}`, op, f.backend)).Inc()
}

// isEmptyValue reports whether a stored serialized value counts as empty:
// a zero-length payload, a null, or an empty string.
func (f *facadeImpl) isEmptyValue(raw []byte) bool {
	if len(raw) == 0 {
		return true
	}
	value, err := f.ser.Deserialize(raw)
	if err != nil {
		// undecodable entries are left alone, Clean only targets empties
		return false
	}
	if value == nil {
		return true
	}
	if s, ok := value.(string); ok && s == "" {
		return true
	}
	return false
}

// --------------------------------------------------------------------------
// Interface Methods (docu see store/interface.go)
// --------------------------------------------------------------------------

func (f *facadeImpl) Store(key string, value interface{}) error {
	if err := validateKey(key); err != nil {
		return err
	}
	if !f.db.SupportsFeature(db.FeatureSet) {
		return NewError(RetCUnsupportedOperation, "Store operation is not supported")
	}
	f.countOp("store")

	raw, err := f.ser.Serialize(value)
	if err != nil {
		return NewError(RetCSerialization, fmt.Sprintf("failed to serialize value for key %q: %v", key, err))
	}

	if err := f.db.Set(key, raw); err != nil {
		if errors.Is(err, db.ErrQuotaExceeded) {
			metrics.GetOrCreateCounter(fmt.Sprintf(`hkv_store_quota_failures_total{backend=%q}`, f.backend)).Inc()
			f.logger.Errorf("write of key %q rejected: %v - free up space with Remove or Clean, or raise the engine quota", key, err)
			return NewError(RetCQuotaExceeded, fmt.Sprintf("write of key %q rejected: %v", key, err))
		}
		return NewError(RetCInternalError, fmt.Sprintf("failed to write key %q: %v", key, err))
	}
	return nil
}

func (f *facadeImpl) StoreGet(key string, value interface{}) (interface{}, error) {
	storeErr := f.Store(key, value)
	switch Code(storeErr) {
	case RetCSuccess, RetCQuotaExceeded:
		// re-read either way: after a quota failure the caller gets nil plus
		// the write error, after a success the stored value
	default:
		return nil, storeErr
	}

	stored, err := f.Retrieve(key)
	if err != nil {
		return nil, err
	}
	return stored, storeErr
}

func (f *facadeImpl) Retrieve(key string) (interface{}, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}
	if !f.db.SupportsFeature(db.FeatureGet) {
		return nil, NewError(RetCUnsupportedOperation, "Retrieve operation is not supported")
	}
	f.countOp("retrieve")

	raw, loaded, err := f.db.Get(key)
	if err != nil {
		return nil, NewError(RetCInternalError, fmt.Sprintf("failed to read key %q: %v", key, err))
	}
	if !loaded {
		return nil, nil
	}

	value, err := f.ser.Deserialize(raw)
	if err != nil {
		return nil, NewError(RetCSerialization, fmt.Sprintf("failed to deserialize value for key %q: %v", key, err))
	}
	return value, nil
}

func (f *facadeImpl) Remove(key string) error {
	if err := validateKey(key); err != nil {
		return err
	}
	if !f.db.SupportsFeature(db.FeatureDelete) {
		return NewError(RetCUnsupportedOperation, "Remove operation is not supported")
	}
	f.countOp("remove")

	if err := f.db.Delete(key); err != nil {
		return NewError(RetCInternalError, fmt.Sprintf("failed to remove key %q: %v", key, err))
	}
	return nil
}

func (f *facadeImpl) Clear() error {
	if !f.db.SupportsFeature(db.FeatureClear) {
		return NewError(RetCUnsupportedOperation, "Clear operation is not supported")
	}
	f.countOp("clear")

	if err := f.db.Clear(); err != nil {
		return NewError(RetCInternalError, fmt.Sprintf("failed to clear store: %v", err))
	}
	return nil
}

func (f *facadeImpl) Supported() bool {
	if f.db == nil {
		f.logger.Errorf("storage facility is not available in this environment")
		return false
	}
	if _, err := f.db.GetInfo(); err != nil {
		f.logger.Errorf("storage facility is not usable: %v", err)
		return false
	}
	f.logger.Infof("storage facility (%s engine) is available", f.backend)
	return true
}

func (f *facadeImpl) Clean() (int, error) {
	if !f.db.SupportsFeature(db.FeatureKeys | db.FeatureGet | db.FeatureDelete) {
		return 0, NewError(RetCUnsupportedOperation, "Clean operation is not supported")
	}
	f.countOp("clean")

	keys, err := f.db.Keys()
	if err != nil {
		return 0, NewError(RetCInternalError, fmt.Sprintf("failed to enumerate keys: %v", err))
	}

	// first pass: collect the keys to delete
	var toDelete []string
	for _, key := range keys {
		if strings.TrimSpace(key) == "" {
			toDelete = append(toDelete, key)
			continue
		}

		raw, loaded, err := f.db.Get(key)
		if err != nil {
			return 0, NewError(RetCInternalError, fmt.Sprintf("failed to read key %q: %v", key, err))
		}
		if loaded && f.isEmptyValue(raw) {
			toDelete = append(toDelete, key)
		}
	}

	// second pass: delete them
	for _, key := range toDelete {
		if err := f.db.Delete(key); err != nil {
			return 0, NewError(RetCInternalError, fmt.Sprintf("failed to remove key %q: %v", key, err))
		}
	}

	if len(toDelete) > 0 {
		f.logger.Infof("cleaned %d empty entries from the store", len(toDelete))
	}
	return len(toDelete), nil
}

func (f *facadeImpl) Amount() (int, error) {
	if !f.db.SupportsFeature(db.FeatureLen) {
		return 0, NewError(RetCUnsupportedOperation, "Amount operation is not supported")
	}
	f.countOp("amount")

	n, err := f.db.Len()
	if err != nil {
		return 0, NewError(RetCInternalError, fmt.Sprintf("failed to count entries: %v", err))
	}
	f.logger.Infof("store holds %d entries", n)
	return n, nil
}

func (f *facadeImpl) AmountOf(key string) (int, error) {
	if err := validateKey(key); err != nil {
		return 0, err
	}
	if !f.db.SupportsFeature(db.FeatureGet) {
		return 0, NewError(RetCUnsupportedOperation, "AmountOf operation is not supported")
	}
	f.countOp("amount")

	raw, loaded, err := f.db.Get(key)
	if err != nil {
		return 0, NewError(RetCInternalError, fmt.Sprintf("failed to read key %q: %v", key, err))
	}
	if !loaded {
		// an absent entry reports length zero, consistent with Retrieve
		// returning nil for a miss
		f.logger.Infof("no entry for key %q", key)
		return 0, nil
	}

	f.logger.Infof("value for key %q is %d bytes", key, len(raw))
	return len(raw), nil
}

func (f *facadeImpl) GetStorageInfo() (db.StorageInfo, error) {
	info, err := f.db.GetInfo()
	if err != nil {
		return db.StorageInfo{}, NewError(RetCInternalError, fmt.Sprintf("failed to get storage info: %v", err))
	}
	return info, nil
}

func (f *facadeImpl) Close() error {
	return f.db.Close()
}
