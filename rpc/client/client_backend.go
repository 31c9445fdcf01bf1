package client

import (
	"context"
	"encoding/json"

	"github.com/skvdb/skv/lib/backend"
	"github.com/skvdb/skv/rpc/common"
	"github.com/skvdb/skv/rpc/serializer"
	"github.com/skvdb/skv/rpc/transport"
)

// NewRPCBackend creates a new RPC backend proxy
// The function takes a shard ID, a config, a transport and a serializer as parameters
// It returns a backend.IBackend and an error
//
// The proxy fetches the backend profile of the shard once on creation, so
// Capabilities and Family answer locally without a network round trip.
func NewRPCBackend(
	shardId uint64,
	config common.ClientConfig,
	transport transport.IRPCClientTransport,
	serializer serializer.IRPCSerializer,
) (backend.IBackend, error) {

	// Connect the transport
	err := transport.Connect(config)
	if err != nil {
		return nil, err
	}

	// Create a new RPC backend
	b := rpcBackend{
		shardId:    shardId,
		config:     config,
		transport:  transport,
		serializer: serializer,
		family:     backend.FamilyUnknown,
	}

	// Fetch the backend profile of the shard
	if resp, err := invokeRPCRequest(shardId, common.NewInfoRequest(), transport, serializer); err != nil {
		Logger.Warningf("failed to fetch backend info for shard %d: %v", shardId, err)
	} else {
		var info common.BackendInfo
		if err := json.Unmarshal(resp.Meta, &info); err != nil {
			Logger.Warningf("failed to decode backend info for shard %d: %v", shardId, err)
		} else {
			b.family = info.Family
			b.caps = info.Capabilities
		}
	}

	// Return the RPC backend
	return &b, nil
}

// rpcBackend is a struct that stores all data needed for the RPC backend proxy
type rpcBackend struct {
	shardId    uint64
	config     common.ClientConfig
	transport  transport.IRPCClientTransport
	serializer serializer.IRPCSerializer
	family     backend.Family
	caps       backend.Capabilities
}

// --------------------------------------------------------------------------
// Interface Methods (docu see the backend package in interface.go)
// --------------------------------------------------------------------------

func (i *rpcBackend) Set(ctx context.Context, key string, value []byte) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}
	req := common.NewSetRequest(key, value)
	_, err = invokeRPCRequest(i.shardId, req, i.transport, i.serializer)
	return err
}

func (i *rpcBackend) Get(ctx context.Context, key string) (value []byte, loaded bool, err error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	req := common.NewGetRequest(key)
	resp, err := invokeRPCRequest(i.shardId, req, i.transport, i.serializer)
	if err != nil {
		return nil, false, err
	}
	return resp.Value, resp.Ok, nil
}

func (i *rpcBackend) Delete(ctx context.Context, key string) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}
	req := common.NewDeleteRequest(key)
	_, err = invokeRPCRequest(i.shardId, req, i.transport, i.serializer)
	return err
}

func (i *rpcBackend) Has(ctx context.Context, key string) (loaded bool, err error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	req := common.NewHasRequest(key)
	resp, err := invokeRPCRequest(i.shardId, req, i.transport, i.serializer)
	if err != nil {
		return false, err
	}
	return resp.Ok, nil
}

func (i *rpcBackend) Scan(ctx context.Context, prefix string) (result backend.ScanResult, err error) {
	if err := ctx.Err(); err != nil {
		return backend.ScanResult{}, err
	}
	req := common.NewScanRequest(prefix)
	resp, err := invokeRPCRequest(i.shardId, req, i.transport, i.serializer)
	if err != nil {
		return backend.ScanResult{}, err
	}
	return backend.ScanResult{Keys: resp.Keys}, nil
}

func (i *rpcBackend) Query(ctx context.Context, query string, params [][]byte) (result backend.QueryResult, err error) {
	if err := ctx.Err(); err != nil {
		return backend.QueryResult{}, err
	}
	// The wire protocol carries literal SQL only
	if len(params) > 0 {
		return backend.QueryResult{}, backend.NewError(backend.RetCUnsupported, "query parameters are not supported over RPC")
	}
	req := common.NewQueryRequest(query)
	resp, err := invokeRPCRequest(i.shardId, req, i.transport, i.serializer)
	if err != nil {
		return backend.QueryResult{}, err
	}
	return backend.QueryResult{Rows: resp.Rows, Affected: resp.Affected}, nil
}

// Begin is not implemented for rpc
func (i *rpcBackend) Begin(ctx context.Context) (tx backend.Transaction, err error) {
	return nil, backend.NewError(backend.RetCUnsupported, "transactions are not supported by the RPC backend")
}

func (i *rpcBackend) Close() (err error) {
	return i.transport.Close()
}

func (i *rpcBackend) Capabilities() (caps backend.Capabilities) {
	return i.caps
}

func (i *rpcBackend) Family() (family backend.Family) {
	return i.family
}
