// Package unix provides the Unix domain socket flavour of the stream
// transport for clients and servers on the same machine. It plugs a dial and
// a listen function into the base package, which owns framing, pooling and
// retries.
//
// The server removes a stale socket file left by a previous run before
// binding.
package unix
