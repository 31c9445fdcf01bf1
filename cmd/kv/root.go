package kv

import (
	"context"
	"time"

	"github.com/skvdb/skv/cmd/util"
	"github.com/skvdb/skv/lib/backend"
	"github.com/skvdb/skv/lib/backend/engines/sqlmulti"
	"github.com/skvdb/skv/rpc/client"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	kvBackend backend.IBackend

	// KeyValueCommands represents the KV command group
	KeyValueCommands = &cobra.Command{
		Use:               "kv",
		Short:             "Perform key-value store operations",
		PersistentPreRunE: setupKVBackend,
	}
)

func init() {
	// Initialize viper
	cobra.OnInitialize(util.InitClientConfig)

	// Add common RPC flags to the KV command
	util.SetupRPCClientFlags(KeyValueCommands)

	// Set default shard ID for key value operations
	KeyValueCommands.PersistentFlags().Int("shard", 100, util.WrapString("ID of the shard to connect to"))

	// Local mode flags - when an engine is given, the commands talk to the
	// database directly instead of going through an RPC server
	KeyValueCommands.PersistentFlags().String("engine", "", util.WrapString("Connect directly to a database instead of an RPC server (sqlite, postgres, mysql)"))
	KeyValueCommands.PersistentFlags().String("dsn", ":memory:", util.WrapString("Connection string or path for the local engine"))

	// Add subcommands
	KeyValueCommands.AddCommand(setCmd)
	KeyValueCommands.AddCommand(getCmd)
	KeyValueCommands.AddCommand(delCmd)
	KeyValueCommands.AddCommand(hasCmd)
	KeyValueCommands.AddCommand(scanCmd)
	KeyValueCommands.AddCommand(queryCmd)
	KeyValueCommands.AddCommand(infoCmd)
	KeyValueCommands.AddCommand(perfTestCmd)
}

// setupKVBackend initializes either a local backend or an RPC client
func setupKVBackend(cmd *cobra.Command, _ []string) error {
	// Bind command flags to viper
	if err := util.BindCommandFlags(cmd); err != nil {
		return err
	}

	// Case local mode
	if engineName := viper.GetString("engine"); engineName != "" {
		engine, err := sqlmulti.ParseEngine(engineName)
		if err != nil {
			return err
		}
		kvBackend, err = sqlmulti.New(context.Background(), sqlmulti.Config{
			Engine: engine,
			DSN:    viper.GetString("dsn"),
		})
		return err
	}

	// Get client configuration components
	config := util.GetClientConfig()
	shardId := util.GetShardID()

	// Get serializer and transport
	s, err := util.GetSerializer()
	if err != nil {
		return err
	}

	t, err := util.GetTransport()
	if err != nil {
		return err
	}

	// Create the backend client
	kvBackend, err = client.NewRPCBackend(
		shardId,
		*config,
		t,
		s,
	)

	return err
}

// opCtx returns a context bounded by the configured client timeout
func opCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), time.Duration(viper.GetInt("timeout"))*time.Second)
}
