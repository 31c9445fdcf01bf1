package http

import (
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/lni/dragonboat/v4/logger"

	"github.com/skvdb/skv/rpc/common"
	"github.com/skvdb/skv/rpc/transport"
)

var Logger = logger.GetLogger("transport/rpc")

// maxRequestBody caps a single HTTP request body, matching the frame limit
// of the stream transports.
const maxRequestBody = 64 << 20

// NewHttpServerTransport creates a server transport that accepts one RPC
// request per POST. The shard ID is the request path.
func NewHttpServerTransport() transport.IRPCServerTransport {
	return &httpServerTransport{}
}

type httpServerTransport struct {
	handler  transport.ServerHandleFunc
	logDebug bool
}

// --------------------------------------------------------------------------
// Interface Methods (docu see transport.IRPCServerTransport)
// --------------------------------------------------------------------------

func (t *httpServerTransport) RegisterHandler(handler transport.ServerHandleFunc) {
	t.handler = handler
}

func (t *httpServerTransport) Listen(config common.ServerConfig) error {
	t.logDebug = config.LogLevel == "debug"

	mux := http.NewServeMux()
	mux.HandleFunc("POST /{shardId}", t.serveRPC)

	srv := &http.Server{
		Addr:              config.Endpoint,
		Handler:           mux,
		ReadHeaderTimeout: time.Duration(config.TimeoutSecond) * time.Second,
	}

	Logger.Infof("http server listening on %s", config.Endpoint)
	return srv.ListenAndServe()
}

// --------------------------------------------------------------------------
// Helper Methods
// --------------------------------------------------------------------------

func (t *httpServerTransport) serveRPC(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	shardID, err := strconv.ParseUint(r.PathValue("shardId"), 10, 64)
	if err != nil {
		http.Error(w, "invalid shard id", http.StatusBadRequest)
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxRequestBody))
	if err != nil {
		http.Error(w, "failed to read request body", http.StatusBadRequest)
		return
	}

	resp := t.handler(shardID, body)

	w.Header().Set("Content-Type", "application/octet-stream")
	if _, err := w.Write(resp); err != nil {
		Logger.Errorf("http server: failed to write response: %v", err)
		return
	}

	if t.logDebug {
		Logger.Debugf("http server: shard %d request took %s", shardID, time.Since(start))
	}
}
