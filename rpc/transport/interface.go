package transport

import (
	"github.com/skvdb/skv/rpc/common"
)

// --------------------------------------------------------------------------
// Server Transport
// --------------------------------------------------------------------------

// ServerHandleFunc processes one already-received request and produces the
// response bytes. The transport calls it once per request; routing the
// request to the right shard happens inside the handler.
type ServerHandleFunc func(shardId uint64, req []byte) (resp []byte)

// IRPCServerTransport is the server side of a transport protocol. A handler
// must be registered before Listen is called; Listen blocks while serving.
type IRPCServerTransport interface {
	// RegisterHandler sets the function invoked for every incoming request
	RegisterHandler(handler ServerHandleFunc)
	// Listen binds the configured endpoint and serves requests until the
	// process ends or the listener fails
	Listen(config common.ServerConfig) error
}

// --------------------------------------------------------------------------
// Client Transport
// --------------------------------------------------------------------------

// IRPCClientTransport is the client side of a transport protocol. Connect
// must succeed before Send is used; implementations are safe for concurrent
// Send calls.
type IRPCClientTransport interface {
	// Connect prepares the transport for the given endpoints
	Connect(config common.ClientConfig) error
	// Send performs one request/response exchange with a server
	Send(shardId uint64, req []byte) (resp []byte, err error)
	// Close releases all connections held by the transport
	Close() error
}
