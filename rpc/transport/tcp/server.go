package tcp

import (
	"net"

	"github.com/skvdb/skv/rpc/common"
	"github.com/skvdb/skv/rpc/transport"
	"github.com/skvdb/skv/rpc/transport/base"
)

// listen binds the TCP listening socket.
func listen(config common.ServerConfig) (net.Listener, error) {
	return net.Listen("tcp", config.Endpoint)
}

// NewTCPServerTransport creates a new TCP server transport
func NewTCPServerTransport() transport.IRPCServerTransport {
	return base.NewStreamServer("tcp", listen)
}
