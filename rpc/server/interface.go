package server

import (
	"context"

	"github.com/skvdb/skv/lib/backend"
	"github.com/skvdb/skv/rpc/common"
)

// IRPCServerAdapter is the interface for all RPC server adapters
// It is responsible for handling requests and responses
type IRPCServerAdapter interface {
	// Handle handles a request and returns a response
	// It takes a context, a Message and a backend as parameters.
	// It returns a Message as a response
	// If an error occurs, it should be set in the response
	Handle(ctx context.Context, req *common.Message, b backend.IBackend) (resp *common.Message)
}
