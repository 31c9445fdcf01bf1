package client

import (
	"context"
	"testing"

	"github.com/skvdb/skv/lib/backend"
	"github.com/skvdb/skv/lib/backend/engines/sqlmulti"
	"github.com/skvdb/skv/rpc/common"
	"github.com/skvdb/skv/rpc/serializer"
	"github.com/skvdb/skv/rpc/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// loopbackTransport satisfies transport.IRPCClientTransport by handing every
// request straight to a server adapter in the same process. It exercises the
// full client, serializer and adapter path without a network listener.
type loopbackTransport struct {
	backend    backend.IBackend
	adapter    server.IRPCServerAdapter
	serializer serializer.IRPCSerializer
	shardId    uint64
}

func (t *loopbackTransport) Connect(_ common.ClientConfig) error { return nil }

func (t *loopbackTransport) Send(shardId uint64, req []byte) ([]byte, error) {
	var msg common.Message
	if shardId != t.shardId {
		return t.serializer.Serialize(*common.NewErrorResponse("shard not found"))
	}
	if err := t.serializer.Deserialize(req, &msg); err != nil {
		return nil, err
	}
	resp := t.adapter.Handle(context.Background(), &msg, t.backend)
	return t.serializer.Serialize(*resp)
}

func (t *loopbackTransport) Close() error { return t.backend.Close() }

func newLoopbackBackend(t *testing.T) backend.IBackend {
	t.Helper()

	local, err := sqlmulti.NewSQLite(context.Background(), ":memory:")
	require.NoError(t, err)

	transport := &loopbackTransport{
		backend:    local,
		adapter:    server.NewBackendServerAdapter(),
		serializer: serializer.NewBinarySerializer(),
		shardId:    1,
	}

	remote, err := NewRPCBackend(1, common.ClientConfig{TimeoutSecond: 5}, transport, serializer.NewBinarySerializer())
	require.NoError(t, err)
	t.Cleanup(func() { _ = remote.Close() })
	return remote
}

func TestRPCBackendRoundTrip(t *testing.T) {
	b := newLoopbackBackend(t)
	ctx := context.Background()

	require.NoError(t, b.Set(ctx, "alpha", []byte("one")))

	val, ok, err := b.Get(ctx, "alpha")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("one"), val)

	ok, err = b.Has(ctx, "alpha")
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, b.Delete(ctx, "alpha"))

	_, ok, err = b.Get(ctx, "alpha")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRPCBackendTypedErrors(t *testing.T) {
	b := newLoopbackBackend(t)
	ctx := context.Background()

	// The NotFound code must survive serialization on both sides
	err := b.Delete(ctx, "missing")
	require.Error(t, err)
	assert.True(t, backend.IsNotFound(err))

	_, err = b.Begin(ctx)
	require.Error(t, err)
	assert.True(t, backend.IsUnsupported(err))
}

func TestRPCBackendScanAndQuery(t *testing.T) {
	b := newLoopbackBackend(t)
	ctx := context.Background()

	for _, key := range []string{"user:2", "user:1", "other"} {
		require.NoError(t, b.Set(ctx, key, []byte("v")))
	}

	scan, err := b.Scan(ctx, "user:")
	require.NoError(t, err)
	assert.Equal(t, []string{"user:1", "user:2"}, scan.Keys)

	result, err := b.Query(ctx, "SELECT key FROM kv_store ORDER BY key", nil)
	require.NoError(t, err)
	require.Len(t, result.Rows, 3)
	val, ok := result.Rows[0].Get("key")
	require.True(t, ok)
	assert.Equal(t, []byte("other"), val)

	result, err = b.Query(ctx, "DELETE FROM kv_store", nil)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), result.Affected)

	// Parameters cannot travel over the wire
	_, err = b.Query(ctx, "SELECT 1", [][]byte{[]byte("x")})
	require.Error(t, err)
	assert.True(t, backend.IsUnsupported(err))
}

func TestRPCBackendInfo(t *testing.T) {
	b := newLoopbackBackend(t)

	assert.Equal(t, backend.FamilySQL, b.Family())
	caps := b.Capabilities()
	assert.True(t, caps.SQLQueries)
	// The engine profile travels unchanged: transactions stay true even
	// though Begin on the proxy fails with Unsupported.
	assert.True(t, caps.Transactions)
	assert.False(t, caps.TTL)
}

func TestRPCBackendContextCancel(t *testing.T) {
	b := newLoopbackBackend(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := b.Set(ctx, "alpha", []byte("one"))
	assert.ErrorIs(t, err, context.Canceled)
}
