// Package tcp provides the TCP flavour of the stream transport. It plugs a
// dial and a listen function into the base package, which owns framing,
// pooling and retries.
//
// Dialed connections disable Nagle's algorithm, since requests are small and
// latency-sensitive, and enable keep-alive so pooled connections survive NAT
// timeouts.
package tcp
