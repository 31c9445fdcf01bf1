package client

import (
	"fmt"

	"github.com/lni/dragonboat/v4/logger"
	"github.com/skvdb/skv/lib/backend"
	"github.com/skvdb/skv/rpc/common"
	"github.com/skvdb/skv/rpc/serializer"
	"github.com/skvdb/skv/rpc/transport"
)

var (
	Logger = logger.GetLogger("rpc")
)

// invokeRPCRequest is a helper function used by the RPC client to send requests
// It takes a shard ID, a request message, a transport layer and a serializer as parameters
// It returns a response message and an error if any occurs
// This method also checks if the response is an error response and if the type of the response is the expected type
func invokeRPCRequest(shardId uint64, req *common.Message, transport transport.IRPCClientTransport, serializer serializer.IRPCSerializer) (*common.Message, error) {
	// Serialize the request
	reqBytes, err := serializer.Serialize(*req)
	if err != nil {
		return nil, err
	}

	// Send the request
	respBytes, err := transport.Send(shardId, reqBytes)
	if err != nil {
		return nil, err
	}

	// Deserialize the response
	resp := &common.Message{}
	err = serializer.Deserialize(respBytes, resp)
	if err != nil {
		return nil, fmt.Errorf("RPC BackendAdapter - Error: %s", err)
	}

	// Check if the response is an error response
	// The return code travels in the ErrCode field so typed errors survive the wire
	if resp.MsgType == common.MsgTError || resp.Err != "" {
		if resp.ErrCode > 0 {
			return nil, backend.NewError(backend.RetCode(resp.ErrCode), resp.Err)
		}
		return nil, backend.NewError(backend.RetCBackend, resp.Err)
	}

	// Check if the type of the response is the expected type
	if resp.MsgType != req.MsgType {
		return nil, fmt.Errorf("RPC BackendAdapter - Unexpected message type: %s, expected %s", resp.MsgType, req.MsgType)
	}

	// Return the response
	return resp, nil
}
