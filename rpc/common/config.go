package common

import (
	"fmt"
	"strconv"
	"strings"
)

// --------------------------------------------------------------------------
// RPC server configuration struct
// --------------------------------------------------------------------------

// ServerShard describes one storage shard served by the RPC server: the
// shard ID clients address their requests to, the SQL engine behind it and
// the engine's connection string.
type ServerShard struct {
	// ShardID is the ID of the shard
	ShardID uint64
	// Engine selects the SQL engine (sqlite, postgres, mysql)
	Engine string
	// DSN is the engine-native connection string or path
	DSN string
}

// ServerConfig holds all configuration parameters for the RPC server.
type ServerConfig struct {
	// Shards to serve
	Shards []ServerShard

	// Transport settings
	Endpoint      string
	TimeoutSecond int64

	// Metrics endpoint (e.g. ":9100"), empty disables the metrics listener
	MetricsEndpoint string

	// Logging configuration
	LogLevel string
}

// String returns a formatted string representation of the configuration
func (c *ServerConfig) String() string {
	var sb strings.Builder

	// Create helper functions for consistent formatting
	addSection := func(title string) {
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("%s\n", strings.ToUpper(title)))
	}

	addField := func(name, value string) {
		sb.WriteString(fmt.Sprintf("  %-22s: %s\n", name, value))
	}

	// RPC settings
	addSection("RPC Server")
	addField("Endpoint", c.Endpoint)
	addField("Timeout", fmt.Sprintf("%d sec", c.TimeoutSecond))
	if c.MetricsEndpoint != "" {
		addField("Metrics Endpoint", c.MetricsEndpoint)
	}

	// Logging configuration
	addSection("Logging")
	addField("Log Level", c.LogLevel)

	// Shards
	addSection("Shards")
	for _, shard := range c.Shards {
		addField(strconv.FormatUint(shard.ShardID, 10),
			fmt.Sprintf("%s (%s)", shard.Engine, shard.DSN))
	}

	return sb.String()
}

// --------------------------------------------------------------------------
// RPC client configuration struct
// --------------------------------------------------------------------------

// TransportConfig holds the transport-level settings of a client.
type TransportConfig struct {
	Endpoints              []string
	RetryCount             int
	ConnectionsPerEndpoint int
}

// ClientConfig holds all configuration parameters for an RPC client.
type ClientConfig struct {
	TimeoutSecond int
	Transport     TransportConfig
}

// String returns a formatted string representation of the client configuration
func (c *ClientConfig) String() string {
	var sb strings.Builder

	// Create helper functions for consistent formatting
	addSection := func(title string) {
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("%s\n", strings.ToUpper(title)))
	}

	addField := func(name, value string) {
		sb.WriteString(fmt.Sprintf("  %-22s: %s\n", name, value))
	}

	// General Client Settings
	addSection("Client Configuration")
	addField("Timeout", fmt.Sprintf("%d sec", c.TimeoutSecond))
	addField("Retry Count", strconv.Itoa(c.Transport.RetryCount))

	connectionsPerEP := c.Transport.ConnectionsPerEndpoint
	if connectionsPerEP < 1 {
		connectionsPerEP = 1
	}
	addField("Connections Per Endpoint", strconv.Itoa(connectionsPerEP))

	// Endpoints
	addSection("Endpoints")
	for i, endpoint := range c.Transport.Endpoints {
		addField(strconv.Itoa(i), endpoint)
	}

	return sb.String()
}
