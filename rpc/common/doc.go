// Package common provides core data structures and utilities shared across
// the RPC layer of the storage system. It defines fundamental types,
// configuration structures, and protocol elements used by other packages.
//
// The package focuses on:
//   - Message protocol definition for client/server communication
//   - Configuration structures for client and server components
//   - Custom logging implementation with consistent formatting
//
// Key Components:
//
//   - Message: Core data structure for all RPC communication between
//     components, with a flexible structure that adapts to different
//     operation types. Includes factory methods for creating various request
//     and response messages. Error responses carry the backend return code
//     alongside the message text, so typed errors survive the wire.
//
//   - MessageType: Enumeration defining all supported operation types in the
//     system: the storage operations (set, get, delete, has, scan, query),
//     the info probe and control messages.
//
//   - ServerConfig: Configuration for the RPC server, including the shard
//     table (shard ID, engine, DSN), transport endpoint, timeouts and the
//     optional metrics endpoint.
//
//   - ClientConfig: Configuration for client components, controlling
//     connection parameters, timeouts, and retry behavior.
//
//   - Logger: Custom logging implementation built on the dragonboat logger
//     facade, providing consistent formatting across the application.
package common
