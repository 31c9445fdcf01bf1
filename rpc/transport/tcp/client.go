package tcp

import (
	"net"
	"time"

	"github.com/skvdb/skv/rpc/common"
	"github.com/skvdb/skv/rpc/transport"
	"github.com/skvdb/skv/rpc/transport/base"
)

const (
	// keepAlivePeriod keeps long-lived pooled connections from being dropped
	// by intermediate NAT devices.
	keepAlivePeriod = 30 * time.Second
)

// dial opens one TCP connection with latency-oriented socket options.
func dial(endpoint string, config common.ClientConfig) (net.Conn, error) {
	timeout := time.Duration(config.TimeoutSecond) * time.Second
	conn, err := net.DialTimeout("tcp", endpoint, timeout)
	if err != nil {
		return nil, err
	}

	if tcpConn, ok := conn.(*net.TCPConn); ok {
		// Disable Nagle's algorithm: requests are small and latency-sensitive
		if err := tcpConn.SetNoDelay(true); err != nil {
			_ = conn.Close()
			return nil, err
		}
		if err := tcpConn.SetKeepAlive(true); err != nil {
			_ = conn.Close()
			return nil, err
		}
		if err := tcpConn.SetKeepAlivePeriod(keepAlivePeriod); err != nil {
			_ = conn.Close()
			return nil, err
		}
	}
	return conn, nil
}

// NewTCPClientTransport creates a new TCP client transport
func NewTCPClientTransport() transport.IRPCClientTransport {
	return base.NewPoolClientTransport("tcp", dial)
}
