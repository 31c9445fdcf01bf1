// Package client implements the RPC client for the storage system.
// It provides an implementation of the backend.IBackend interface that
// communicates with remote servers via RPC.
//
// The package focuses on:
//   - Transparent RPC access to remote storage backends
//   - Integration with the transport and serialization layers
//   - Error handling and conversion between RPC and backend errors
//
// Key Components:
//
//   - NewRPCBackend: Factory function that creates a client implementing the
//     backend.IBackend interface. This client forwards all operations to remote
//     servers via the configured transport layer. The return code of server-side
//     errors is preserved, so errors.IsNotFound and friends work on both sides
//     of the wire.
//
// Usage Example:
//
//	// Configure the client
//	config := common.ClientConfig{
//	  TimeoutSecond: 5,
//	  Transport: common.TransportConfig{
//	    Endpoints:              []string{"localhost:5000"},
//	    RetryCount:             3,
//	    ConnectionsPerEndpoint: 1,
//	  },
//	}
//
//	// Create a serializer
//	serializer := serializer.NewBinarySerializer()
//
//	// Create backend client
//	b, _ := client.NewRPCBackend(1, config, tcp.NewTCPClientTransport(), serializer)
//
//	// Use the backend
//	b.Set(ctx, "mykey", []byte("myvalue"))
//	value, exists, _ := b.Get(ctx, "mykey")
//
// Performance Considerations:
//
//   - For applications that frequently send large payloads, increasing ConnectionsPerEndpoint
//     can improve throughput by allowing parallel requests.
//
//   - For small messages, a single connection per endpoint is often more efficient due to
//     reduced connection overhead.
//
//   - The choice of serializer significantly affects performance. The binary serializer
//     provides the best performance and smallest payload size.
//
// Thread Safety:
//
//	The client implementation is thread-safe and can be used concurrently from
//	multiple goroutines without additional synchronization.
package client
