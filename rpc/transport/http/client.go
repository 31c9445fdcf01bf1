package http

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/skvdb/skv/rpc/common"
	"github.com/skvdb/skv/rpc/transport"
)

// NewHttpClientTransport creates a client transport that sends one RPC
// request per POST, letting net/http manage the connection pool.
func NewHttpClientTransport() transport.IRPCClientTransport {
	return &httpClientTransport{}
}

type httpClientTransport struct {
	endpoints []string
	client    *http.Client
	next      atomic.Uint32
	attempts  int
}

// --------------------------------------------------------------------------
// Interface Methods (docu see transport.IRPCClientTransport)
// --------------------------------------------------------------------------

func (t *httpClientTransport) Connect(config common.ClientConfig) error {
	if len(config.Transport.Endpoints) == 0 {
		return fmt.Errorf("http transport: no endpoints configured")
	}

	// Validate all endpoints up front so a typo fails at connect time
	endpoints := make([]string, 0, len(config.Transport.Endpoints))
	for _, endpoint := range config.Transport.Endpoints {
		u, err := url.Parse(endpoint)
		if err != nil {
			return fmt.Errorf("http transport: invalid endpoint %q: %w", endpoint, err)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return fmt.Errorf("http transport: endpoint %q must use http or https", endpoint)
		}
		endpoints = append(endpoints, u.String())
	}

	t.endpoints = endpoints
	t.client = &http.Client{
		Timeout: time.Duration(config.TimeoutSecond) * time.Second,
	}
	t.attempts = config.Transport.RetryCount
	if t.attempts < 1 {
		t.attempts = 1
	}
	return nil
}

func (t *httpClientTransport) Send(shardID uint64, req []byte) ([]byte, error) {
	if t.client == nil {
		return nil, fmt.Errorf("http transport: not connected")
	}

	var lastErr error
	for attempt := 0; attempt < t.attempts; attempt++ {
		if attempt > 0 {
			// Same backoff ramp as the stream transports
			time.Sleep(time.Duration(50<<(attempt-1)) * time.Millisecond)
		}

		endpoint := t.endpoints[int(t.next.Add(1))%len(t.endpoints)]
		resp, err := t.post(endpoint, shardID, req)
		if err != nil {
			lastErr = err
			continue
		}
		return resp, nil
	}
	return nil, fmt.Errorf("http transport: request failed after %d attempt(s): %w", t.attempts, lastErr)
}

func (t *httpClientTransport) Close() error {
	if t.client != nil {
		t.client.CloseIdleConnections()
		t.client = nil
	}
	return nil
}

// --------------------------------------------------------------------------
// Helper Methods
// --------------------------------------------------------------------------

// post performs one request against one endpoint.
func (t *httpClientTransport) post(endpoint string, shardID uint64, req []byte) ([]byte, error) {
	target := endpoint + "/" + strconv.FormatUint(shardID, 10)

	httpResp, err := t.client.Post(target, "application/octet-stream", bytes.NewReader(req))
	if err != nil {
		return nil, err
	}
	defer func() { _ = httpResp.Body.Close() }()

	if httpResp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("server returned %s", httpResp.Status)
	}
	return io.ReadAll(httpResp.Body)
}
