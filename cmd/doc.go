// Package cmd implements the command-line interface for the hKV host
// key-value store. It provides a hierarchical command structure with
// operations for the storage facades and the resource cache.
//
// The package is organized into several subpackages:
//
//   - kv: Commands for key-value store operations (get, set, del, etc.)
//   - cache: Commands for resource cache operations (add, add-all, get)
//   - util: Shared utilities for command-line processing and configuration (internal use)
//
// See hkv -help for a list of all commands.
package cmd
