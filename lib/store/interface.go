package store

import (
	"errors"
	"fmt"

	"github.com/ValentinKolb/hKV/lib/db"
)

// --------------------------------------------------------------------------
// Interface Definition
// --------------------------------------------------------------------------

// IStore is the generic interface for the key-value storage facades.
// All write operations return only an error (nil on success),
// while read operations return the requested data along with an error.
//
// The ephemeral and the persistent facade share this contract; they differ
// only in the engine injected at construction time.
type IStore interface {
	// Store serializes the value and writes it under the given key,
	// overwriting any existing entry. A quota rejection by the engine is
	// reported as an error with code RetCQuotaExceeded.
	Store(key string, value interface{}) (err error)
	// StoreGet behaves like Store but re-reads and deserializes the
	// just-written entry afterwards. The returned value is nil if no entry
	// exists after the write (e.g. the write failed due to quota); in that
	// case the write error is returned alongside.
	StoreGet(key string, value interface{}) (stored interface{}, err error)
	// Retrieve returns the deserialized value for a key, or nil if no entry
	// exists for the key.
	Retrieve(key string) (value interface{}, err error)
	// Remove deletes the entry for the key if present; removing an absent
	// key is not an error.
	Remove(key string) (err error)
	// Clear deletes all entries in the store.
	Clear() (err error)
	// Supported reports whether the underlying storage facility is usable in
	// the current environment. It emits a diagnostic in both cases and never
	// panics.
	Supported() (ok bool)
	// Clean scans all entries and removes any whose key is blank or whose
	// value is empty or null. It collects the keys first and deletes second,
	// so entries are never skipped by deleting while enumerating.
	// Returns the number of removed entries.
	Clean() (removed int, err error)
	// Amount returns the total number of entries in the store.
	Amount() (n int, err error)
	// AmountOf returns the length of the serialized value stored at the key.
	// An absent key reports length 0 and no error.
	AmountOf(key string) (n int, err error)
	// GetStorageInfo returns metadata about the engine underlying the facade.
	GetStorageInfo() (info db.StorageInfo, err error)
	// Close closes the underlying engine.
	Close() (err error)
}

// --------------------------------------------------------------------------
// Custom Error Type
// --------------------------------------------------------------------------

// Error is a custom error type that wraps a return code (of type RetCode)
// and an error message.
type Error struct {
	Code RetCode // The return code
	Msg  string  // The error message.
}

// Error implements the error interface.
func (e *Error) Error() string {
	errorCode := ""
	switch e.Code {
	case RetCInvalidKey:
		errorCode = "InvalidKey"
	case RetCQuotaExceeded:
		errorCode = "QuotaExceeded"
	case RetCSerialization:
		errorCode = "Serialization"
	case RetCInternalError:
		errorCode = "InternalError"
	case RetCUnsupportedOperation:
		errorCode = "UnsupportedOperation"
	default:
		errorCode = "Unknown"
	}

	return fmt.Sprintf("StoreError (code %s): %s", errorCode, e.Msg)
}

// NewError creates a new store Error with the given code and message.
func NewError(code RetCode, msg string) *Error {
	return &Error{
		Code: code,
		Msg:  msg,
	}
}

// Code extracts the RetCode from an error returned by a facade operation.
// A nil error maps to RetCSuccess, a foreign error to RetCInternalError.
func Code(err error) RetCode {
	if err == nil {
		return RetCSuccess
	}
	var storeErr *Error
	if errors.As(err, &storeErr) {
		return storeErr.Code
	}
	return RetCInternalError
}

// --------------------------------------------------------------------------
// Return Codes
// --------------------------------------------------------------------------

type RetCode uint64

const (
	RetCSuccess              RetCode = iota // 0: Operation executed successfully.
	RetCInvalidKey                          // 1: Key is blank after trimming whitespace.
	RetCQuotaExceeded                       // 2: Engine rejected the write because capacity is exhausted.
	RetCSerialization                       // 3: Value could not be (de)serialized.
	RetCInternalError                       // 4: Operation failed due to an internal engine error.
	RetCUnsupportedOperation                // 5: Operation is not supported by the underlying engine.
)
