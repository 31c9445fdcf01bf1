package base

import (
	"errors"
	"fmt"
	"io"
	"net"
	"time"

	"github.com/skvdb/skv/rpc/common"
	"github.com/skvdb/skv/rpc/transport"
)

// ListenFunc opens the listening socket for a stream protocol.
type ListenFunc func(config common.ServerConfig) (net.Listener, error)

// --------------------------------------------------------------------------
// Stream Server
// --------------------------------------------------------------------------

// StreamServer implements transport.IRPCServerTransport for any stream
// protocol. Each accepted connection is served by one goroutine that reads a
// frame, invokes the handler and writes the response before reading the next
// frame. Clients that want parallel requests open parallel connections, which
// matches how the pooled client transport behaves.
type StreamServer struct {
	name    string
	listen  ListenFunc
	handler transport.ServerHandleFunc
	timeout time.Duration
}

// NewStreamServer creates a server transport for a stream protocol. The name
// only appears in logs.
func NewStreamServer(name string, listen ListenFunc) *StreamServer {
	return &StreamServer{name: name, listen: listen}
}

// --------------------------------------------------------------------------
// Interface Methods (docu see transport.IRPCServerTransport)
// --------------------------------------------------------------------------

func (s *StreamServer) RegisterHandler(handler transport.ServerHandleFunc) {
	s.handler = handler
}

func (s *StreamServer) Listen(config common.ServerConfig) error {
	s.timeout = time.Duration(config.TimeoutSecond) * time.Second

	ln, err := s.listen(config)
	if err != nil {
		return fmt.Errorf("%s transport: failed to listen: %w", s.name, err)
	}

	Logger.Infof("%s server listening on %s", s.name, config.Endpoint)
	return s.Serve(ln)
}

// Serve accepts connections from ln until the listener is closed. It is
// exported so callers can bring their own listener, e.g. one bound to an
// ephemeral port.
func (s *StreamServer) Serve(ln net.Listener) error {
	for {
		conn, err := ln.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			Logger.Errorf("%s server: accept failed: %v", s.name, err)
			continue
		}
		go s.serveConn(conn)
	}
}

// --------------------------------------------------------------------------
// Helper Methods
// --------------------------------------------------------------------------

// serveConn processes one connection until the peer hangs up or a frame is
// damaged.
func (s *StreamServer) serveConn(conn net.Conn) {
	defer func() { _ = conn.Close() }()

	for {
		if s.timeout > 0 {
			if err := conn.SetReadDeadline(time.Now().Add(s.timeout)); err != nil {
				Logger.Errorf("%s server: failed to set read deadline: %v", s.name, err)
				return
			}
		}

		req, err := readFrame(conn)
		if err != nil {
			if errors.Is(err, io.EOF) {
				Logger.Debugf("%s server: connection closed by client", s.name)
			} else {
				Logger.Errorf("%s server: failed to read request: %v", s.name, err)
			}
			return
		}

		start := time.Now()
		resp := s.handler(req.shardID, req.payload)
		Logger.Debugf("%s server: request %d for shard %d took %s",
			s.name, req.requestID, req.shardID, time.Since(start))

		if s.timeout > 0 {
			if err := conn.SetWriteDeadline(time.Now().Add(s.timeout)); err != nil {
				Logger.Errorf("%s server: failed to set write deadline: %v", s.name, err)
				return
			}
		}

		// The response echoes shard and request ID so the client can match
		// it against the request it is waiting on.
		err = writeFrame(conn, frame{
			shardID:   req.shardID,
			requestID: req.requestID,
			payload:   resp,
		})
		if err != nil {
			Logger.Errorf("%s server: failed to write response: %v", s.name, err)
			return
		}
	}
}
