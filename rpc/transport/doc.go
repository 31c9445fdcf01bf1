// Package transport defines the contract between the RPC layer and the
// protocols that carry its messages. Client and server agree only on bytes
// in, bytes out plus a shard ID for routing; everything protocol-specific
// lives in the subpackages.
//
// Implementations: tcp and unix share the framed stream machinery in base,
// http maps each request onto one POST.
package transport
