package serve

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	cmdUtil "github.com/skvdb/skv/cmd/util"
	"github.com/skvdb/skv/rpc/common"
	"github.com/skvdb/skv/rpc/serializer"
	"github.com/skvdb/skv/rpc/server"
	"github.com/skvdb/skv/rpc/transport"
	"github.com/skvdb/skv/rpc/transport/http"
	"github.com/skvdb/skv/rpc/transport/tcp"
	"github.com/skvdb/skv/rpc/transport/unix"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	serveCmdConfig = &common.ServerConfig{}
	ServeCmd       = &cobra.Command{
		Use:     "serve",
		Short:   "Start the sKV server",
		Long:    `Start the sKV server with the specified configuration. The configuration can be set via command line flags or environment variables. The format of the environment variables is SKV_<flag> (e.g. SKV_TIMEOUT=15)`,
		PreRunE: processConfig,
		RunE:    run,
	}
)

func init() {
	// initialize viper
	cobra.OnInitialize(initConfig)

	// add flags
	key := "shards"
	ServeCmd.PersistentFlags().String(key, "100=sqlite(:memory:)", cmdUtil.WrapString("Comma-separated list of shards to serve. Format: ID=ENGINE(DSN) where ENGINE is one of: sqlite, postgres, mysql (e.g. 100=sqlite(/var/lib/skv/data.db),200=postgres(postgres://user:pw@db:5432/app)). Because the comma separates shards, a DSN must not contain one; pass comma-bearing DSN options via the engine's environment variables instead"))

	key = "timeout"
	ServeCmd.PersistentFlags().Int64(key, 5, cmdUtil.WrapString("Timeout in seconds for a single backend operation"))

	key = "endpoint"
	ServeCmd.PersistentFlags().String(key, "0.0.0.0:8080", cmdUtil.WrapString("The address on which the API will listen (e.g. localhost:8080, /tmp/skv.sock, ...)"))

	key = "metrics-endpoint"
	ServeCmd.PersistentFlags().String(key, "", cmdUtil.WrapString("The address on which metrics will be exposed in Prometheus format (e.g. :9100). Empty disables the metrics listener"))

	key = "log-level"
	ServeCmd.PersistentFlags().String(key, "info", cmdUtil.WrapString("LogLevel is the level at which logs will be output (debug, info, warn, error)"))
}

// processConfig reads the configuration from the command line flags and environment variables and converts them to the server configuration
func processConfig(cmd *cobra.Command, _ []string) error {
	// bind the flags to viper
	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return err
	}

	// parse shards
	shardsConfig := viper.GetString("shards")
	serveCmdConfig.Shards = []common.ServerShard{}
	for _, shardConfig := range strings.Split(shardsConfig, ",") {
		parts := strings.SplitN(shardConfig, "=", 2)
		if len(parts) != 2 {
			return fmt.Errorf("invalid shard format: %s (expected ID=ENGINE(DSN))", shardConfig)
		}

		// Parse shard ID
		shardID, err := strconv.ParseUint(strings.TrimSpace(parts[0]), 10, 64)
		if err != nil {
			return fmt.Errorf("invalid shard ID %s: %v", parts[0], err)
		}

		// Parse engine and DSN
		engine, dsn, err := parseEngineSpec(strings.TrimSpace(parts[1]))
		if err != nil {
			return fmt.Errorf("invalid shard %d: %w", shardID, err)
		}

		serveCmdConfig.Shards = append(serveCmdConfig.Shards, common.ServerShard{
			ShardID: shardID,
			Engine:  engine,
			DSN:     dsn,
		})
	}

	// read the configuration from the command line flags and environment variables
	serveCmdConfig.TimeoutSecond = viper.GetInt64("timeout")
	serveCmdConfig.Endpoint = viper.GetString("endpoint")
	serveCmdConfig.MetricsEndpoint = viper.GetString("metrics-endpoint")
	serveCmdConfig.LogLevel = viper.GetString("log-level")

	return nil
}

// parseEngineSpec splits "ENGINE(DSN)" into its parts. The DSN may contain
// parentheses itself (e.g. MySQL's tcp(host:port) address), only the outer
// pair belongs to the spec.
func parseEngineSpec(spec string) (engine, dsn string, err error) {
	open := strings.Index(spec, "(")
	if open < 0 || !strings.HasSuffix(spec, ")") {
		return "", "", fmt.Errorf("invalid engine spec: %s (expected ENGINE(DSN))", spec)
	}
	return spec[:open], spec[open+1 : len(spec)-1], nil
}

// run starts the sKV server
func run(_ *cobra.Command, _ []string) error {

	// parse the serializer
	var s serializer.IRPCSerializer
	switch viper.GetString("serializer") {
	case "json":
		s = serializer.NewJSONSerializer()
	case "gob":
		s = serializer.NewGOBSerializer()
	case "binary":
		s = serializer.NewBinarySerializer()
	default:
		return fmt.Errorf("invalid serializer %s", viper.GetString("serializer"))
	}

	// Parse the transport
	var t transport.IRPCServerTransport
	switch viper.GetString("transport") {
	case "http":
		t = http.NewHttpServerTransport()
	case "tcp":
		t = tcp.NewTCPServerTransport()
	case "unix":
		t = unix.NewUnixServerTransport()
	default:
		return fmt.Errorf("invalid transport %s", viper.GetString("transport"))
	}

	serv := server.NewRPCServer(
		*serveCmdConfig,
		t,
		s,
	)

	return serv.Serve()
}

// initConfig reads in serveCmdConfig file and ENV variables if set.
func initConfig() {
	// load env files
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	// initialize viper
	viper.SetEnvPrefix("skv")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // read in environment variables that match
}
