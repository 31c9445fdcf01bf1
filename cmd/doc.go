// Package cmd implements the command-line interface for the sKV storage
// system. It provides a hierarchical command structure with operations for
// running the server and interacting with backends as a client.
//
// The package is organized into several subpackages:
//
//   - kv: Commands for storage operations (get, set, delete, scan, query, ...)
//     against either a remote server or a local database
//   - serve: Commands for starting and configuring the sKV server
//   - util: Shared utilities for command-line processing and configuration (internal use)
//
// See skv -help for a list of all commands.
package cmd
