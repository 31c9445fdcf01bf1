// Package server implements the RPC server for the storage system.
// It provides the adapter that maps RPC requests onto backend operations,
// along with the core server implementation that manages shards and
// request routing.
//
// The package focuses on:
//   - Server-side RPC request handling for all backend operations
//   - Adapter pattern to decouple storage logic from RPC mechanisms
//   - Flexible shard configuration, one SQL backend per shard
//   - Dynamic creation of backends based on the shard configuration
//
// Key Components:
//
//   - IRPCServerAdapter: Interface defining the contract for all server adapters,
//     with the Handle method that processes incoming requests against a
//     backend.IBackend.
//
//   - NewBackendServerAdapter: Factory function creating the adapter for
//     storage operations, translating RPC requests to backend.IBackend
//     method calls.
//
//   - NewRPCServer: Factory function creating a configured server with the
//     specified transport and serializer mechanisms.
//
// Usage Example:
//
//	// Create server configuration
//	config := common.ServerConfig{
//	  Shards: []common.ServerShard{
//	    {ShardID: 100, Engine: "sqlite", DSN: ":memory:"},
//	    {ShardID: 200, Engine: "postgres", DSN: "postgres://user:pw@db:5432/app"},
//	  },
//	  Endpoint: "0.0.0.0:8080",
//	  TimeoutSecond: 5,
//	  LogLevel: "info",
//	}
//
//	// Create and start the server
//	s := server.NewRPCServer(
//	  config,
//	  tcp.NewTCPServerTransport(),
//	  serializer.NewBinarySerializer(),
//	)
//
//	// Start the server
//	if err := s.Serve(); err != nil {
//	  log.Fatalf("Server error: %v", err)
//	}
//
// A single server can serve any number of shards, and the shards may mix
// engines: an embedded SQLite file next to a PostgreSQL or MySQL
// connection pool. Each shard is addressed by its shard ID, which the
// client sends with every request.
//
// Thread Safety:
//
//	The server implementation is thread-safe and can handle concurrent requests
//	across multiple connections. Each request is processed independently.
//	The Listen method is not thread-safe and should be called only once.
package server
