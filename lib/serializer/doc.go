// Package serializer provides value serialization for the storage facades.
// It defines a common interface and multiple implementations for turning
// arbitrary values into their stored form and back.
//
// The package focuses on:
//   - Providing a consistent interface for different serialization formats
//   - Offering implementations with different round-trip characteristics
//   - Keeping the facades independent of the chosen encoding
//
// Key Components:
//
//   - ISerializer: Core interface that all serializer implementations must satisfy.
//
//   - jsonSerializerImpl: The default implementation using JSON encoding. It
//     matches the structured-to-text encoding of a host environment: maps,
//     slices, strings, booleans and numbers round-trip, with numbers decoding
//     as float64. Human-readable stored form, useful for debugging.
//
//   - gobSerializerImpl: Implementation using Go's built-in gob encoding. It
//     preserves concrete Go types through the round trip but produces an
//     opaque binary stored form. Common container and scalar types are
//     pre-registered; callers storing custom types must gob.Register them.
//
// Values that cannot round-trip through the chosen encoding (cyclic
// structures, channels, functions) fail at Serialize time; this is a
// documented limitation, not a handled case.
//
// Thread Safety:
//
//	All serializer implementations are stateless and safe for concurrent use
//	across multiple goroutines without additional synchronization.
package serializer
