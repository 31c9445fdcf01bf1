package server

import (
	"fmt"
	"testing"

	"github.com/skvdb/skv/rpc/common"
	"github.com/skvdb/skv/rpc/serializer"
	"github.com/skvdb/skv/rpc/transport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// capturingTransport hands the registered handler to the test instead of a
// network listener.
type capturingTransport struct {
	handler transport.ServerHandleFunc
}

func (t *capturingTransport) RegisterHandler(handler transport.ServerHandleFunc) {
	t.handler = handler
}

func (t *capturingTransport) Listen(common.ServerConfig) error { return nil }

// failingSerializer refuses to encode anything but error responses.
type failingSerializer struct {
	inner serializer.IRPCSerializer
}

func (s *failingSerializer) Serialize(msg common.Message) ([]byte, error) {
	if msg.MsgType != common.MsgTError {
		return nil, fmt.Errorf("encoder exhausted")
	}
	return s.inner.Serialize(msg)
}

func (s *failingSerializer) Deserialize(data []byte, msg *common.Message) error {
	return s.inner.Deserialize(data, msg)
}

func TestHandlerShardNotFound(t *testing.T) {
	tr := &capturingTransport{}
	ser := serializer.NewBinarySerializer()

	srv := NewRPCServer(common.ServerConfig{TimeoutSecond: 5, LogLevel: "error"}, tr, ser)
	srv.registerTransportHandler()

	req, err := ser.Serialize(*common.NewGetRequest("alpha"))
	require.NoError(t, err)

	respBytes := tr.handler(42, req)
	require.NotNil(t, respBytes)

	var resp common.Message
	require.NoError(t, ser.Deserialize(respBytes, &resp))
	assert.Equal(t, common.MsgTError, resp.MsgType)
	assert.Equal(t, "shard not found", resp.Err)
}

func TestHandlerSerializeFailureReturnsErrorFrame(t *testing.T) {
	tr := &capturingTransport{}
	inner := serializer.NewBinarySerializer()
	ser := &failingSerializer{inner: inner}

	srv := NewRPCServer(common.ServerConfig{TimeoutSecond: 5, LogLevel: "error"}, tr, ser)
	srv.shards.Store(1, serverShard{
		Backend: newTestBackend(t),
		Adapter: NewBackendServerAdapter(),
	})
	srv.registerTransportHandler()

	// Build the request with the working serializer; only responses fail
	req, err := inner.Serialize(*common.NewGetRequest("alpha"))
	require.NoError(t, err)

	respBytes := tr.handler(1, req)

	// The client must receive a decodable error frame, not the stale
	// payload of the failed serialization attempt
	require.NotNil(t, respBytes)
	var resp common.Message
	require.NoError(t, inner.Deserialize(respBytes, &resp))
	assert.Equal(t, common.MsgTError, resp.MsgType)
	assert.Contains(t, resp.Err, "failed to serialize response")
	assert.Contains(t, resp.Err, "encoder exhausted")
}

func TestHandlerMalformedRequest(t *testing.T) {
	tr := &capturingTransport{}
	ser := serializer.NewBinarySerializer()

	srv := NewRPCServer(common.ServerConfig{TimeoutSecond: 5, LogLevel: "error"}, tr, ser)
	srv.shards.Store(1, serverShard{
		Backend: newTestBackend(t),
		Adapter: NewBackendServerAdapter(),
	})
	srv.registerTransportHandler()

	respBytes := tr.handler(1, []byte{0xFF})
	require.NotNil(t, respBytes)

	var resp common.Message
	require.NoError(t, ser.Deserialize(respBytes, &resp))
	assert.Equal(t, common.MsgTError, resp.MsgType)
	assert.Contains(t, resp.Err, "failed to deserialize request")
}
