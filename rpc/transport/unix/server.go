package unix

import (
	"fmt"
	"net"
	"os"

	"github.com/skvdb/skv/rpc/common"
	"github.com/skvdb/skv/rpc/transport"
	"github.com/skvdb/skv/rpc/transport/base"
)

// listen binds the Unix domain socket, removing a stale socket file from a
// previous run first.
func listen(config common.ServerConfig) (net.Listener, error) {
	if err := os.RemoveAll(config.Endpoint); err != nil {
		return nil, fmt.Errorf("failed to remove existing socket: %w", err)
	}
	return net.Listen("unix", config.Endpoint)
}

// NewUnixServerTransport creates a new Unix socket server transport
func NewUnixServerTransport() transport.IRPCServerTransport {
	return base.NewStreamServer("unix", listen)
}
