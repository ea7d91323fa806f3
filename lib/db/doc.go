// Package db provides a standardized interface for host storage engine
// implementations. It defines the HostKV interface that allows for consistent
// interaction with various storage backends while abstracting implementation
// details.
//
// The package focuses on:
//   - A unified interface for key-value operations (Set, Get, Delete, Keys, Len, Clear)
//   - Feature discovery through capability flags
//   - Quota signaling through the ErrQuotaExceeded sentinel
//   - Standardized metadata reporting
//
// Key Components:
//
//   - HostKV Interface: The core interface that all engine implementations must
//     satisfy. It models the raw storage facility the higher-level facades wrap:
//     an unordered collection of (key, value) entries with a host-defined
//     capacity. Engines differ in lifecycle only: an ephemeral engine loses its
//     contents when the process exits, a persistent engine keeps them.
//
//   - Feature Flags: The Feature type defines capability flags that
//     implementations can advertise through the SupportsFeature method. This
//     allows clients to discover supported operations at runtime.
//
//   - Quota Signaling: Engines with a configured capacity return an error
//     wrapping ErrQuotaExceeded when a write would exceed it. Callers can test
//     for this condition with errors.Is.
//
//   - Storage Information: The StorageInfo structure provides standardized
//     reporting on engine state, including size statistics, engine type, and
//     engine-specific metadata. Size statistics may be estimates where a precise
//     calculation is expensive.
//
// Related Packages:
//
// The engines/mem package (github.com/ValentinKolb/hKV/lib/db/engines/mem)
// provides an ephemeral, in-process implementation built on a concurrent map.
// Contents do not outlive the process, which makes it the session-scoped
// storage variant.
//
// The engines/bolt package (github.com/ValentinKolb/hKV/lib/db/engines/bolt)
// provides a persistent implementation backed by a bbolt database file.
// Contents survive process restarts, which makes it the persistent storage
// variant.
//
// The testing package (github.com/ValentinKolb/hKV/lib/db/testing) provides
// a standardized test suite for engine implementations that satisfy the
// db.HostKV interface:
//   - RunHostKVTests: Runs a standardized test suite to validate implementations
package db
