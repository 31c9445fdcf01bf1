package base

import (
	"fmt"
	"math/rand"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/lni/dragonboat/v4/logger"

	"github.com/skvdb/skv/rpc/common"
	"github.com/skvdb/skv/rpc/transport"
)

var Logger = logger.GetLogger("transport/rpc")

// DialFunc opens one connection to an endpoint with all socket options
// already applied. Stream transports differ only in how they dial.
type DialFunc func(endpoint string, config common.ClientConfig) (net.Conn, error)

// --------------------------------------------------------------------------
// Pooled Client
// --------------------------------------------------------------------------

// poolClient implements transport.IRPCClientTransport with a pool of
// synchronous connections. A request checks one connection out, performs a
// blocking write/read round trip on it and returns it to the pool, so a
// connection never carries two requests at once. Concurrency comes from the
// pool size (endpoints times ConnectionsPerEndpoint), not from multiplexing.
type poolClient struct {
	name   string
	dial   DialFunc
	config common.ClientConfig

	next  atomic.Uint32 // round-robin endpoint cursor
	reqID atomic.Uint32

	mu     sync.Mutex
	idle   []net.Conn
	closed bool
}

// NewPoolClientTransport creates a client transport for a stream protocol.
// The name only appears in logs and error messages.
func NewPoolClientTransport(name string, dial DialFunc) transport.IRPCClientTransport {
	return &poolClient{name: name, dial: dial}
}

// --------------------------------------------------------------------------
// Interface Methods (docu see transport.IRPCClientTransport)
// --------------------------------------------------------------------------

func (c *poolClient) Connect(config common.ClientConfig) error {
	if len(config.Transport.Endpoints) == 0 {
		return fmt.Errorf("%s transport: no endpoints configured", c.name)
	}

	c.mu.Lock()
	c.config = config
	c.closed = false
	stale := c.idle
	c.idle = nil
	c.mu.Unlock()

	for _, conn := range stale {
		_ = conn.Close()
	}

	// One probe connection up front, so an unreachable server surfaces at
	// connect time instead of on the first request.
	conn, err := c.dialNext()
	if err != nil {
		return err
	}
	c.release(conn)

	Logger.Infof("%s transport ready, %d endpoint(s), up to %d pooled connection(s)",
		c.name, len(config.Transport.Endpoints), c.capacity())
	return nil
}

func (c *poolClient) Send(shardID uint64, req []byte) ([]byte, error) {
	attempts := c.config.Transport.RetryCount
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			sleepBackoff(attempt)
		}

		conn, err := c.checkout()
		if err != nil {
			lastErr = err
			continue
		}

		resp, err := c.roundTrip(conn, shardID, req)
		if err != nil {
			// A connection that failed mid round trip is in an unknown
			// state and is never returned to the pool. This also covers
			// pooled connections the server has since dropped; the retry
			// dials a fresh one.
			_ = conn.Close()
			lastErr = err
			Logger.Debugf("%s transport: attempt %d/%d failed: %v", c.name, attempt+1, attempts, err)
			continue
		}

		c.release(conn)
		return resp, nil
	}

	return nil, fmt.Errorf("%s transport: request failed after %d attempt(s): %w", c.name, attempts, lastErr)
}

func (c *poolClient) Close() error {
	c.mu.Lock()
	c.closed = true
	idle := c.idle
	c.idle = nil
	c.mu.Unlock()

	for _, conn := range idle {
		_ = conn.Close()
	}
	return nil
}

// --------------------------------------------------------------------------
// Helper Methods
// --------------------------------------------------------------------------

// roundTrip performs one blocking request/response exchange. The caller owns
// the connection for the whole exchange.
func (c *poolClient) roundTrip(conn net.Conn, shardID uint64, req []byte) ([]byte, error) {
	id := c.reqID.Add(1)

	if c.config.TimeoutSecond > 0 {
		deadline := time.Now().Add(time.Duration(c.config.TimeoutSecond) * time.Second)
		if err := conn.SetDeadline(deadline); err != nil {
			return nil, err
		}
	}

	if err := writeFrame(conn, frame{shardID: shardID, requestID: id, payload: req}); err != nil {
		return nil, err
	}

	resp, err := readFrame(conn)
	if err != nil {
		return nil, err
	}
	if resp.requestID != id {
		return nil, fmt.Errorf("response id %d does not match request id %d", resp.requestID, id)
	}
	return resp.payload, nil
}

// checkout takes an idle connection from the pool or dials a new one.
func (c *poolClient) checkout() (net.Conn, error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil, fmt.Errorf("%s transport is closed", c.name)
	}
	if n := len(c.idle); n > 0 {
		conn := c.idle[n-1]
		c.idle = c.idle[:n-1]
		c.mu.Unlock()
		return conn, nil
	}
	c.mu.Unlock()

	return c.dialNext()
}

// release returns a healthy connection to the pool, or closes it when the
// pool is full or the transport shut down meanwhile.
func (c *poolClient) release(conn net.Conn) {
	c.mu.Lock()
	if !c.closed && len(c.idle) < c.capacity() {
		c.idle = append(c.idle, conn)
		c.mu.Unlock()
		return
	}
	c.mu.Unlock()

	_ = conn.Close()
}

// dialNext dials the next endpoint in round-robin order, falling through the
// whole endpoint list once before giving up.
func (c *poolClient) dialNext() (net.Conn, error) {
	endpoints := c.config.Transport.Endpoints

	var lastErr error
	for range endpoints {
		endpoint := endpoints[int(c.next.Add(1))%len(endpoints)]
		conn, err := c.dial(endpoint, c.config)
		if err == nil {
			return conn, nil
		}
		lastErr = err
		Logger.Warningf("%s transport: failed to dial %s: %v", c.name, endpoint, err)
	}
	return nil, fmt.Errorf("%s transport: no endpoint reachable: %w", c.name, lastErr)
}

func (c *poolClient) capacity() int {
	perEndpoint := c.config.Transport.ConnectionsPerEndpoint
	if perEndpoint < 1 {
		perEndpoint = 1
	}
	return perEndpoint * len(c.config.Transport.Endpoints)
}

// sleepBackoff pauses before retry number attempt, doubling the base delay
// each time with a small random jitter so synchronized clients fan out.
func sleepBackoff(attempt int) {
	baseMs := 50 << (attempt - 1)
	jittered := float64(baseMs) * (0.9 + 0.2*rand.Float64())
	time.Sleep(time.Duration(jittered) * time.Millisecond)
}
