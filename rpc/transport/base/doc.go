// Package base implements the shared machinery for stream-socket transports.
// The concrete transports (tcp, unix) supply only a dial and a listen
// function; everything else lives here.
//
// Wire format: every message is one frame with a 16 byte header carrying the
// payload length, the shard ID and a request ID (big endian), followed by the
// payload. Payloads above 64 MiB are rejected as corrupt.
//
// Concurrency model: connections are synchronous. The client keeps a pool of
// idle connections and checks one out per request, so a single connection
// never has more than one request in flight and responses cannot arrive out
// of order. The server serves each connection with one goroutine that reads,
// handles and answers frames sequentially. Parallelism on both sides comes
// from the number of connections, bounded on the client by endpoints times
// ConnectionsPerEndpoint.
//
// Failed requests are retried on a fresh connection with exponential backoff;
// a connection that saw any error is discarded rather than pooled.
package base
