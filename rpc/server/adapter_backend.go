package server

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/skvdb/skv/lib/backend"
	"github.com/skvdb/skv/rpc/common"
)

func NewBackendServerAdapter() IRPCServerAdapter {
	return &backendServerAdapterImpl{}
}

type backendServerAdapterImpl struct{}

func (adapter *backendServerAdapterImpl) Handle(ctx context.Context, req *common.Message, b backend.IBackend) *common.Message {
	// Check for nil backend
	if b == nil {
		return common.NewErrorResponse("handler: backend is nil")
	}

	// Handle different message types
	switch req.MsgType {
	case common.MsgTSet:
		err := b.Set(ctx, req.Key, req.Value)
		return common.NewSetResponse(err)
	case common.MsgTGet:
		val, ok, err := b.Get(ctx, req.Key)
		return common.NewGetResponse(val, ok, err)
	case common.MsgTDelete:
		err := b.Delete(ctx, req.Key)
		return common.NewDeleteResponse(err)
	case common.MsgTHas:
		ok, err := b.Has(ctx, req.Key)
		return common.NewHasResponse(ok, err)
	case common.MsgTScan:
		result, err := b.Scan(ctx, req.Key)
		return common.NewScanResponse(result.Keys, err)
	case common.MsgTQuery:
		result, err := b.Query(ctx, req.Query, nil)
		return common.NewQueryResponse(result, err)
	case common.MsgTInfo:
		info := common.BackendInfo{
			Family:       b.Family(),
			Capabilities: b.Capabilities(),
		}
		meta, err := json.Marshal(info)
		return common.NewInfoResponse(meta, err)
	default:
		return common.NewErrorResponse(
			fmt.Sprintf("RPC BackendAdapter - Unsupported message type: %s", req.MsgType),
		)
	}
}
