// Package store provides a high-level facade for key-value storage operations
// with input validation, value serialization, and unified error handling.
// It serves as an abstraction layer over the lower-level db.HostKV engines,
// reducing the boilerplate (manual serialization, existence checks, error
// handling) of reading and writing small pieces of application state.
//
// The package focuses on:
//   - A unified interface (IStore) for CRUD operations across different engines
//   - Pluggable storage backend architecture through the db.EngineFactory pattern
//   - Structured error reporting instead of silently swallowed failures
//
// Key Components:
//
//   - IStore Interface: The core abstraction defining operations for
//     interacting with a storage facility: Store, StoreGet, Retrieve, Remove,
//     Clear, Supported, Clean, Amount and AmountOf. The ephemeral and the
//     persistent facade share this single contract; they differ only in the
//     engine injected at construction time.
//
//   - Error System: A structured error reporting mechanism using typed error
//     codes and descriptive messages. Key validation failures (RetCInvalidKey)
//     are the caller's primary concern; quota rejections surface as
//     RetCQuotaExceeded alongside a logged remediation hint, so calling code
//     can distinguish "write succeeded" from "write failed due to quota"
//     without resorting to re-reads.
//
//   - Serialization: Values are serialized through an injected
//     serializer.ISerializer (JSON by default) before being written and
//     deserialized back to their original shape on read.
//
// Usage:
//
//	ephemeral := store.New(func() db.HostKV { return mem.NewMemEngine(nil) })
//	err := ephemeral.Store("user", map[string]interface{}{"id": 1, "name": "A"})
//	value, err := ephemeral.Retrieve("user")
//
// Diagnostics go to the injected logger.ILogger (the package logger named
// "store" by default); operation counts are exported as VictoriaMetrics
// counters labelled with the operation and the backing engine.
package store
