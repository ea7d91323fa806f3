// Package testing provides a standardized test suite for engine
// implementations that satisfy the db.HostKV interface.
//
// The package offers suite runners that validate implementation correctness:
//   - RunHostKVTests: basic operations, enumeration, clearing, concurrent
//     usage, and edge cases
//   - RunHostKVQuotaTests: quota enforcement for engines configured with a
//     byte capacity
//
// Tests automatically skip operations a given engine does not advertise via
// SupportsFeature, so the same suite runs against every engine.
package testing
