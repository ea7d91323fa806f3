// Package mem provides an ephemeral implementation of the db.HostKV interface
// built on a concurrent map (github.com/puzpuzpuz/xsync). Contents do not
// outlive the process, which makes it the session-scoped storage variant.
//
// The engine copies values on write and on read, so callers can never corrupt
// stored data by mutating a slice they handed in or got back.
//
// An optional byte quota can be configured through EngineOptions.QuotaBytes.
// When a write would push the tracked payload size (keys plus values) above
// the quota, Set leaves the store unchanged and returns an error wrapping
// db.ErrQuotaExceeded, mirroring how a host environment rejects writes to a
// full storage area.
package mem
