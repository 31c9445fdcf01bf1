package unix

import (
	"net"
	"time"

	"github.com/skvdb/skv/rpc/common"
	"github.com/skvdb/skv/rpc/transport"
	"github.com/skvdb/skv/rpc/transport/base"
)

// dial opens one connection to a Unix domain socket. No socket options are
// needed, local sockets have neither Nagle nor NAT.
func dial(endpoint string, config common.ClientConfig) (net.Conn, error) {
	timeout := time.Duration(config.TimeoutSecond) * time.Second
	return net.DialTimeout("unix", endpoint, timeout)
}

// NewUnixClientTransport creates a new Unix socket client transport
func NewUnixClientTransport() transport.IRPCClientTransport {
	return base.NewPoolClientTransport("unix", dial)
}
