package server

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/VictoriaMetrics/metrics"
	"github.com/lni/dragonboat/v4/logger"
	"github.com/puzpuzpuz/xsync/v3"
	"github.com/skvdb/skv/lib/backend"
	"github.com/skvdb/skv/lib/backend/engines/sqlmulti"
	"github.com/skvdb/skv/rpc/common"
	"github.com/skvdb/skv/rpc/serializer"
	"github.com/skvdb/skv/rpc/transport"
)

var Logger = logger.GetLogger("rpc")

// serverShard is a struct that represents a shard in the RPC server
// It contains the backend it encapsulates and the adapter
// that handles requests for the backend
type serverShard struct {
	Backend backend.IBackend
	Adapter IRPCServerAdapter
}

// NewRPCServer creates a new RPC server
// It takes a config, transport and serializer as parameters
//
// Usage:
//
//	s := server.NewRPCServer(
//		*config,
//		http.NewHttpServerTransport(),
//		serializer.NewBinarySerializer(),
//	)
//
//	if err := s.Serve(); err != nil {
//		panic(err)
//	 }
func NewRPCServer(
	config common.ServerConfig,
	transport transport.IRPCServerTransport,
	serializer serializer.IRPCSerializer,
) rpcServer {
	// https://github.com/golang/go/issues/17393
	if runtime.GOOS == "darwin" {
		signal.Ignore(syscall.Signal(0xd))
	}

	// Create shards map
	shardMap := xsync.NewMapOf[uint64, serverShard]()

	Logger.Infof("Created RPC Server")
	Logger.Infof(config.String())

	// Create the RPC server
	return rpcServer{
		config:     config,
		transport:  transport,
		serializer: serializer,
		shards:     shardMap,
	}
}

type rpcServer struct {
	config     common.ServerConfig
	transport  transport.IRPCServerTransport
	serializer serializer.IRPCSerializer
	shards     *xsync.MapOf[uint64, serverShard]
}

func (s *rpcServer) registerTransportHandler() {
	timeout := time.Duration(s.config.TimeoutSecond) * time.Second

	s.transport.RegisterHandler(func(shardId uint64, req []byte) []byte {
		var msg common.Message
		var respMsg common.Message

		// Get appropriate shard
		shard, ok := s.shards.Load(shardId)

		// Case shard does not exist -> error
		if !ok {
			respMsg = common.Message{
				MsgType: common.MsgTError,
				Err:     "shard not found",
			}
		} else {
			// Decode the request
			err := s.serializer.Deserialize(req, &msg)

			if err != nil {
				respMsg = common.Message{
					MsgType: common.MsgTError,
					Err:     fmt.Sprintf("failed to deserialize request: %s", err),
				}
			} else {
				// Let the adapter handle the request
				ctx, cancel := context.WithTimeout(context.Background(), timeout)
				respMsg = *shard.Adapter.Handle(ctx, &msg, shard.Backend)
				cancel()
			}
		}

		// Return result
		val, err := s.serializer.Serialize(respMsg)
		if err != nil {
			// The client must still receive a decodable frame, so the
			// failure itself is serialized as an error response.
			respMsg = common.Message{
				MsgType: common.MsgTError,
				Err:     fmt.Sprintf("failed to serialize response: %s", err),
			}
			val, err = s.serializer.Serialize(respMsg)
			if err != nil {
				Logger.Errorf("failed to serialize error response: %v", err)
				return nil
			}
		}
		return val
	})
}

func (s *rpcServer) init() error {

	// Init logger
	common.InitLoggers(s.config)

	// CREATE SHARDS

	/*
		Note: A single RPC Server can serve any number of shards. Each shard
		is backed by its own SQL backend, so one server can e.g. expose an
		embedded SQLite database next to a PostgreSQL connection pool. The
		following loop creates all the backends and stores them for the
		RPC server.
	*/

	for _, shardConfig := range s.config.Shards {
		engine, err := sqlmulti.ParseEngine(shardConfig.Engine)
		if err != nil {
			return fmt.Errorf("shard %d: %w", shardConfig.ShardID, err)
		}

		b, err := sqlmulti.New(context.Background(), sqlmulti.Config{
			Engine: engine,
			DSN:    shardConfig.DSN,
		})
		if err != nil {
			return fmt.Errorf("failed to create backend for shard %d: %w", shardConfig.ShardID, err)
		}

		s.shards.Store(shardConfig.ShardID, serverShard{
			Backend: b,
			Adapter: NewBackendServerAdapter(),
		})
		Logger.Infof("created %s backend for shard %d", engine, shardConfig.ShardID)
	}

	Logger.Infof("sKV setup completed successfully")

	// Start the metrics endpoint if configured
	if s.config.MetricsEndpoint != "" {
		go s.serveMetrics()
	}

	// Configure the transport layer
	s.registerTransportHandler()

	return nil
}

// serveMetrics exposes all collected metrics in Prometheus text format.
func (s *rpcServer) serveMetrics() {
	mux := http.NewServeMux()
	mux.HandleFunc("/metrics", func(w http.ResponseWriter, r *http.Request) {
		metrics.WritePrometheus(w, true)
	})

	Logger.Infof("serving metrics on %s", s.config.MetricsEndpoint)
	if err := http.ListenAndServe(s.config.MetricsEndpoint, mux); err != nil {
		Logger.Errorf("metrics listener failed: %v", err)
	}
}

// Serve starts the RPC server
// This function will also initialize the server plus the shards and start the transport layer
func (s *rpcServer) Serve() error {
	err := s.init()
	if err != nil {
		return err
	}
	return s.transport.Listen(s.config)
}
