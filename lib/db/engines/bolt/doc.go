// Package bolt provides a persistent implementation of the db.HostKV
// interface backed by a bbolt database file (go.etcd.io/bbolt). Contents
// survive process restarts, which makes it the persistent storage variant.
//
// Each engine instance owns one bucket inside the database file. The tracked
// payload size is rebuilt from the existing entries on open, so a configured
// byte quota (EngineOptions.QuotaBytes) holds across restarts: when a write
// would push the payload size above the quota, Set commits nothing and returns
// an error wrapping db.ErrQuotaExceeded.
package bolt
