// Package util holds flag and configuration plumbing shared by the CLI
// commands that talk to a remote server.
package util

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/skvdb/skv/rpc/common"
	"github.com/skvdb/skv/rpc/serializer"
	"github.com/skvdb/skv/rpc/transport"
	"github.com/skvdb/skv/rpc/transport/http"
	"github.com/skvdb/skv/rpc/transport/tcp"
	"github.com/skvdb/skv/rpc/transport/unix"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// helpWidth is the column at which flag help texts wrap.
const helpWidth = 50

// WrapString reflows text into lines of at most helpWidth characters,
// breaking only between words.
func WrapString(text string) string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString(words[0])
	width := len(words[0])

	for _, word := range words[1:] {
		if width+1+len(word) > helpWidth {
			b.WriteString("\n")
			b.WriteString(word)
			width = len(word)
			continue
		}
		b.WriteString(" ")
		b.WriteString(word)
		width += 1 + len(word)
	}
	return b.String()
}

// SetupRPCClientFlags adds the connection flags every remote command shares.
func SetupRPCClientFlags(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()
	flags.Int("timeout", 10,
		WrapString("The timeout in seconds of the client"))
	flags.String("transport-endpoints", "http://localhost:8080",
		WrapString("The address of the sKV server. For transports that support load balancing, multiple endpoints can be specified as a comma-separated list"))
	flags.Int("transport-conn-per-endpoint", 1,
		WrapString("Simultaneous connections per endpoint - for transports that support this feature"))
	flags.Int("transport-retries", 3,
		WrapString("How many times to retry the request"))
}

// InitClientConfig loads .env files and wires environment variables into
// viper. SKV_TRANSPORT_RETRIES=5 has the same effect as --transport-retries=5.
func InitClientConfig() {
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	viper.SetEnvPrefix("skv")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

// GetClientConfig assembles the client configuration from viper.
func GetClientConfig() *common.ClientConfig {
	return &common.ClientConfig{
		TimeoutSecond: viper.GetInt("timeout"),
		Transport: common.TransportConfig{
			Endpoints:              strings.Split(viper.GetString("transport-endpoints"), ","),
			ConnectionsPerEndpoint: viper.GetInt("transport-conn-per-endpoint"),
			RetryCount:             viper.GetInt("transport-retries"),
		},
	}
}

var serializerFactories = map[string]func() serializer.IRPCSerializer{
	"json":   serializer.NewJSONSerializer,
	"gob":    serializer.NewGOBSerializer,
	"binary": serializer.NewBinarySerializer,
}

// GetSerializer resolves the configured serializer name.
func GetSerializer() (serializer.IRPCSerializer, error) {
	name := viper.GetString("serializer")
	factory, ok := serializerFactories[name]
	if !ok {
		return nil, fmt.Errorf("invalid serializer %s", name)
	}
	return factory(), nil
}

var transportFactories = map[string]func() transport.IRPCClientTransport{
	"http": http.NewHttpClientTransport,
	"tcp":  tcp.NewTCPClientTransport,
	"unix": unix.NewUnixClientTransport,
}

// GetTransport resolves the configured transport name.
func GetTransport() (transport.IRPCClientTransport, error) {
	name := viper.GetString("transport")
	factory, ok := transportFactories[name]
	if !ok {
		return nil, fmt.Errorf("invalid transport %s", name)
	}
	return factory(), nil
}

// GetShardID returns the shard targeted by the current invocation.
func GetShardID() uint64 {
	return uint64(viper.GetInt("shard"))
}

// BindCommandFlags makes a command's flags readable through viper.
func BindCommandFlags(cmd *cobra.Command) error {
	return viper.BindPFlags(cmd.Flags())
}
