package app

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config contains runtime settings for a node process.
type Config struct {
	NodeID   string
	LogLevel string

	DataDir   string
	AdminAddr string
	PeerAddrs []string

	PersistenceEnabled bool

	JournalRecoveryLogBatchSize     uint32
	RecoverySnapshotIntervalSeconds uint32

	MetricsAddr string
	PprofAddr   string

	TracingEnabled     bool
	TracingEndpoint    string
	TracingServiceName string
}

// DefaultConfig returns a local-development configuration.
func DefaultConfig() Config {
	return Config{
		NodeID:                          "node-1",
		LogLevel:                        "info",
		DataDir:                         "./var/node-1",
		AdminAddr:                       ":8080",
		PersistenceEnabled:              true,
		JournalRecoveryLogBatchSize:     100,
		RecoverySnapshotIntervalSeconds: 0,
		TracingServiceName:              "consensus-lab-node",
	}
}

// LoadConfigFromEnv loads config from environment variables.
//
// Supported vars:
//   - APP_NODE_ID
//   - APP_LOG_LEVEL (debug|info|warn|error)
//   - APP_DATA_DIR
//   - APP_ADMIN_ADDR
//   - APP_PEERS (comma-separated addresses)
//   - APP_PERSISTENCE_ENABLED (bool, default true)
//   - APP_RECOVERY_BATCH_SIZE (uint32, default 100)
//   - APP_RECOVERY_SNAPSHOT_INTERVAL_SECONDS (uint32, 0 disables)
//   - APP_METRICS_ADDR
//   - APP_PPROF_ADDR
//   - APP_TRACING_ENABLED (bool)
//   - APP_TRACING_ENDPOINT
//   - APP_TRACING_SERVICE_NAME
func LoadConfigFromEnv() (Config, error) {
	cfg := DefaultConfig()

	if v := strings.TrimSpace(os.Getenv("APP_NODE_ID")); v != "" {
		cfg.NodeID = v
	}
	if v := strings.TrimSpace(os.Getenv("APP_LOG_LEVEL")); v != "" {
		cfg.LogLevel = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv("APP_DATA_DIR")); v != "" {
		cfg.DataDir = v
	}
	if v := strings.TrimSpace(os.Getenv("APP_ADMIN_ADDR")); v != "" {
		cfg.AdminAddr = v
	}
	if v := strings.TrimSpace(os.Getenv("APP_PEERS")); v != "" {
		cfg.PeerAddrs = splitCSV(v)
	}
	if v := strings.TrimSpace(os.Getenv("APP_PERSISTENCE_ENABLED")); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return Config{}, fmt.Errorf("app: invalid APP_PERSISTENCE_ENABLED %q: %w", v, err)
		}
		cfg.PersistenceEnabled = b
	}
	if v := strings.TrimSpace(os.Getenv("APP_RECOVERY_BATCH_SIZE")); v != "" {
		n, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			return Config{}, fmt.Errorf("app: invalid APP_RECOVERY_BATCH_SIZE %q: %w", v, err)
		}
		cfg.JournalRecoveryLogBatchSize = uint32(n)
	}
	if v := strings.TrimSpace(os.Getenv("APP_RECOVERY_SNAPSHOT_INTERVAL_SECONDS")); v != "" {
		n, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			return Config{}, fmt.Errorf("app: invalid APP_RECOVERY_SNAPSHOT_INTERVAL_SECONDS %q: %w", v, err)
		}
		cfg.RecoverySnapshotIntervalSeconds = uint32(n)
	}
	if v := strings.TrimSpace(os.Getenv("APP_METRICS_ADDR")); v != "" {
		cfg.MetricsAddr = v
	}
	if v := strings.TrimSpace(os.Getenv("APP_PPROF_ADDR")); v != "" {
		cfg.PprofAddr = v
	}
	if v := strings.TrimSpace(os.Getenv("APP_TRACING_ENABLED")); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return Config{}, fmt.Errorf("app: invalid APP_TRACING_ENABLED %q: %w", v, err)
		}
		cfg.TracingEnabled = b
	}
	if v := strings.TrimSpace(os.Getenv("APP_TRACING_ENDPOINT")); v != "" {
		cfg.TracingEndpoint = v
	}
	if v := strings.TrimSpace(os.Getenv("APP_TRACING_SERVICE_NAME")); v != "" {
		cfg.TracingServiceName = v
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks that required settings are present and supported.
func (c Config) Validate() error {
	if strings.TrimSpace(c.NodeID) == "" {
		return fmt.Errorf("app: node id is required")
	}
	switch strings.ToLower(strings.TrimSpace(c.LogLevel)) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("app: unsupported log level %q", c.LogLevel)
	}
	if strings.TrimSpace(c.DataDir) == "" {
		return fmt.Errorf("app: data dir is required")
	}
	if strings.TrimSpace(c.AdminAddr) == "" {
		return fmt.Errorf("app: admin addr is required")
	}
	if c.JournalRecoveryLogBatchSize == 0 {
		return fmt.Errorf("app: recovery batch size must be > 0")
	}
	if c.TracingEnabled && strings.TrimSpace(c.TracingEndpoint) == "" {
		return fmt.Errorf("app: tracing endpoint is required when tracing is enabled")
	}
	return nil
}

// PeerAddrMap parses PeerAddrs into a map of peer-id -> address.
// Each entry is either "host:port" (peer ID equals address) or "peer-id=host:port".
func (c Config) PeerAddrMap() (map[string]string, error) {
	out := make(map[string]string, len(c.PeerAddrs))
	for _, raw := range c.PeerAddrs {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}

		id := raw
		addr := raw
		if left, right, ok := strings.Cut(raw, "="); ok {
			id = strings.TrimSpace(left)
			addr = strings.TrimSpace(right)
		}

		if id == "" || addr == "" {
			return nil, fmt.Errorf("app: invalid peer entry %q", raw)
		}
		if _, exists := out[id]; exists {
			return nil, fmt.Errorf("app: duplicate peer id %q", id)
		}
		out[id] = addr
	}
	return out, nil
}

func splitCSV(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}
