package tcp

import (
	"fmt"
	"net"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skvdb/skv/rpc/common"
	"github.com/skvdb/skv/rpc/transport/base"
)

// startEchoServer serves on an ephemeral port and answers every request with
// the shard ID prepended to the request payload.
func startEchoServer(t *testing.T) string {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = ln.Close() })

	srv, ok := NewTCPServerTransport().(*base.StreamServer)
	require.True(t, ok)

	srv.RegisterHandler(func(shardID uint64, req []byte) []byte {
		return append([]byte(fmt.Sprintf("shard=%d;", shardID)), req...)
	})
	go func() { _ = srv.Serve(ln) }()

	return ln.Addr().String()
}

func newTestClientConfig(endpoint string) common.ClientConfig {
	return common.ClientConfig{
		TimeoutSecond: 5,
		Transport: common.TransportConfig{
			Endpoints:              []string{endpoint},
			ConnectionsPerEndpoint: 4,
			RetryCount:             2,
		},
	}
}

func TestTCPRoundTrip(t *testing.T) {
	endpoint := startEchoServer(t)

	client := NewTCPClientTransport()
	require.NoError(t, client.Connect(newTestClientConfig(endpoint)))
	defer func() { _ = client.Close() }()

	resp, err := client.Send(100, []byte("ping"))
	require.NoError(t, err)
	assert.Equal(t, "shard=100;ping", string(resp))

	// Empty payloads must survive the wire as well
	resp, err = client.Send(200, nil)
	require.NoError(t, err)
	assert.Equal(t, "shard=200;", string(resp))
}

func TestTCPConcurrentRequests(t *testing.T) {
	endpoint := startEchoServer(t)

	client := NewTCPClientTransport()
	require.NoError(t, client.Connect(newTestClientConfig(endpoint)))
	defer func() { _ = client.Close() }()

	// More goroutines than pooled connections, so checkouts interleave
	const workers = 8
	const requestsPerWorker = 25

	var wg sync.WaitGroup
	errs := make(chan error, workers*requestsPerWorker)

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < requestsPerWorker; i++ {
				payload := fmt.Sprintf("w%d-r%d", w, i)
				resp, err := client.Send(uint64(w), []byte(payload))
				if err != nil {
					errs <- err
					continue
				}
				want := fmt.Sprintf("shard=%d;%s", w, payload)
				if string(resp) != want {
					errs <- fmt.Errorf("got %q, want %q", resp, want)
				}
			}
		}(w)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Error(err)
	}
}

func TestTCPLargePayload(t *testing.T) {
	endpoint := startEchoServer(t)

	client := NewTCPClientTransport()
	require.NoError(t, client.Connect(newTestClientConfig(endpoint)))
	defer func() { _ = client.Close() }()

	payload := make([]byte, 1<<20)
	for i := range payload {
		payload[i] = byte(i)
	}

	resp, err := client.Send(1, payload)
	require.NoError(t, err)
	require.Len(t, resp, len("shard=1;")+len(payload))
	assert.Equal(t, payload, resp[len("shard=1;"):])
}

func TestTCPConnectFailsWithoutServer(t *testing.T) {
	client := NewTCPClientTransport()
	err := client.Connect(newTestClientConfig("127.0.0.1:1"))
	require.Error(t, err)
}

func TestTCPConnectRequiresEndpoints(t *testing.T) {
	client := NewTCPClientTransport()
	err := client.Connect(common.ClientConfig{})
	require.Error(t, err)
}

func TestTCPSendAfterClose(t *testing.T) {
	endpoint := startEchoServer(t)

	client := NewTCPClientTransport()
	require.NoError(t, client.Connect(newTestClientConfig(endpoint)))
	require.NoError(t, client.Close())

	_, err := client.Send(1, []byte("late"))
	require.Error(t, err)
}
