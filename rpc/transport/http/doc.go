// Package http carries RPC messages over plain HTTP, one POST per request.
// The shard ID is the URL path, the serialized message is the body. This
// transport trades the stream transports' framing for easy debuggability:
// any HTTP client can talk to the server.
//
// The client validates all endpoint URLs at connect time, selects endpoints
// round-robin and retries failed requests with the same backoff ramp as the
// stream transports. Connection pooling is left to net/http.
package http
