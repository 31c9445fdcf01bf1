package server

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/skvdb/skv/lib/backend"
	"github.com/skvdb/skv/lib/backend/engines/sqlmulti"
	"github.com/skvdb/skv/rpc/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestBackend creates an in-memory backend for adapter tests.
func newTestBackend(t *testing.T) backend.IBackend {
	t.Helper()
	b, err := sqlmulti.NewSQLite(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = b.Close() })
	return b
}

func TestAdapterSetGet(t *testing.T) {
	adapter := NewBackendServerAdapter()
	b := newTestBackend(t)
	ctx := context.Background()

	resp := adapter.Handle(ctx, common.NewSetRequest("alpha", []byte("one")), b)
	require.Equal(t, common.MsgTSet, resp.MsgType)
	require.Empty(t, resp.Err)

	resp = adapter.Handle(ctx, common.NewGetRequest("alpha"), b)
	require.Equal(t, common.MsgTGet, resp.MsgType)
	require.Empty(t, resp.Err)
	assert.True(t, resp.Ok)
	assert.Equal(t, []byte("one"), resp.Value)

	// Missing key is not an error, just Ok=false
	resp = adapter.Handle(ctx, common.NewGetRequest("missing"), b)
	require.Empty(t, resp.Err)
	assert.False(t, resp.Ok)
	assert.Nil(t, resp.Value)
}

func TestAdapterDelete(t *testing.T) {
	adapter := NewBackendServerAdapter()
	b := newTestBackend(t)
	ctx := context.Background()

	resp := adapter.Handle(ctx, common.NewSetRequest("alpha", []byte("one")), b)
	require.Empty(t, resp.Err)

	resp = adapter.Handle(ctx, common.NewDeleteRequest("alpha"), b)
	require.Equal(t, common.MsgTDelete, resp.MsgType)
	require.Empty(t, resp.Err)

	// Deleting an absent key carries the NotFound code over the wire
	resp = adapter.Handle(ctx, common.NewDeleteRequest("alpha"), b)
	assert.NotEmpty(t, resp.Err)
	assert.Equal(t, uint64(backend.RetCNotFound), resp.ErrCode)
}

func TestAdapterHas(t *testing.T) {
	adapter := NewBackendServerAdapter()
	b := newTestBackend(t)
	ctx := context.Background()

	resp := adapter.Handle(ctx, common.NewHasRequest("alpha"), b)
	require.Empty(t, resp.Err)
	assert.False(t, resp.Ok)

	adapter.Handle(ctx, common.NewSetRequest("alpha", []byte("one")), b)

	resp = adapter.Handle(ctx, common.NewHasRequest("alpha"), b)
	require.Empty(t, resp.Err)
	assert.True(t, resp.Ok)
}

func TestAdapterScan(t *testing.T) {
	adapter := NewBackendServerAdapter()
	b := newTestBackend(t)
	ctx := context.Background()

	for _, key := range []string{"user:2", "user:1", "other"} {
		resp := adapter.Handle(ctx, common.NewSetRequest(key, []byte("v")), b)
		require.Empty(t, resp.Err)
	}

	resp := adapter.Handle(ctx, common.NewScanRequest("user:"), b)
	require.Equal(t, common.MsgTScan, resp.MsgType)
	require.Empty(t, resp.Err)
	assert.Equal(t, []string{"user:1", "user:2"}, resp.Keys)
}

func TestAdapterQuery(t *testing.T) {
	adapter := NewBackendServerAdapter()
	b := newTestBackend(t)
	ctx := context.Background()

	adapter.Handle(ctx, common.NewSetRequest("alpha", []byte("one")), b)

	resp := adapter.Handle(ctx, common.NewQueryRequest("SELECT key FROM kv_store"), b)
	require.Equal(t, common.MsgTQuery, resp.MsgType)
	require.Empty(t, resp.Err)
	require.Len(t, resp.Rows, 1)
	val, ok := resp.Rows[0].Get("key")
	require.True(t, ok)
	assert.Equal(t, []byte("alpha"), val)

	resp = adapter.Handle(ctx, common.NewQueryRequest("DELETE FROM kv_store"), b)
	require.Empty(t, resp.Err)
	assert.Equal(t, uint64(1), resp.Affected)

	// Invalid SQL is reported as an error response, not a panic
	resp = adapter.Handle(ctx, common.NewQueryRequest("NOT SQL"), b)
	assert.NotEmpty(t, resp.Err)
}

func TestAdapterInfo(t *testing.T) {
	adapter := NewBackendServerAdapter()
	b := newTestBackend(t)

	resp := adapter.Handle(context.Background(), common.NewInfoRequest(), b)
	require.Equal(t, common.MsgTInfo, resp.MsgType)
	require.Empty(t, resp.Err)

	var info common.BackendInfo
	require.NoError(t, json.Unmarshal(resp.Meta, &info))
	assert.Equal(t, backend.FamilySQL, info.Family)
	assert.True(t, info.Capabilities.SQLQueries)
	// The profile reports the engine's features; transactions are an engine
	// feature even though Begin is not exposed through this facade.
	assert.True(t, info.Capabilities.Transactions)
	assert.False(t, info.Capabilities.TTL)
}

func TestAdapterUnsupportedType(t *testing.T) {
	adapter := NewBackendServerAdapter()
	b := newTestBackend(t)

	resp := adapter.Handle(context.Background(), common.NewCustomRequest([]byte("x")), b)
	assert.Equal(t, common.MsgTError, resp.MsgType)
	assert.Contains(t, resp.Err, "Unsupported message type")
}

func TestAdapterNilBackend(t *testing.T) {
	adapter := NewBackendServerAdapter()

	resp := adapter.Handle(context.Background(), common.NewGetRequest("alpha"), nil)
	assert.Equal(t, common.MsgTError, resp.MsgType)
	assert.NotEmpty(t, resp.Err)
}
