package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	apisrv "github.com/chaintrack-network/chaintrack/server/api"
	"github.com/chaintrack-network/chaintrack/x/monitor"
	"github.com/chaintrack-network/chaintrack/x/tipsource"
)

// Config holds the complete application configuration
type Config struct {
	Node    tipsource.RPCConfig `mapstructure:"node"    yaml:"node"`
	Chain   ChainConfig         `mapstructure:"chain"   yaml:"chain"`
	Monitor monitor.Config      `mapstructure:"monitor" yaml:"monitor"`
	API     apisrv.Config       `mapstructure:"api"     yaml:"api"`
	Metrics MetricsConfig       `mapstructure:"metrics" yaml:"metrics"`
	Log     LogConfig           `mapstructure:"log"     yaml:"log"`
}

// ChainConfig describes the followed chain's time-keeping.
type ChainConfig struct {
	// StartTime is the chain's genesis instant, RFC 3339.
	StartTime string `mapstructure:"start_time" yaml:"start_time" env:"CHAIN_START_TIME"`
	// EraFile points to a YAML era history. When set it wins over the
	// single-era fields below.
	EraFile string `mapstructure:"era_file" yaml:"era_file" env:"CHAIN_ERA_FILE"`
	// SlotLength and HorizonSlot describe a single era when no era file is given.
	SlotLength  time.Duration `mapstructure:"slot_length"  yaml:"slot_length"  env:"CHAIN_SLOT_LENGTH"`
	HorizonSlot uint64        `mapstructure:"horizon_slot" yaml:"horizon_slot" env:"CHAIN_HORIZON_SLOT"`
}

// MetricsConfig holds metrics configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled" env:"METRICS_ENABLED"`
	Path    string `mapstructure:"path"    yaml:"path"    env:"METRICS_PATH"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `mapstructure:"level"  yaml:"level"  env:"LOG_LEVEL"`
	Pretty bool   `mapstructure:"pretty" yaml:"pretty" env:"LOG_PRETTY"`
}

// Load loads configuration from file and environment
func Load(configPath string) (*Config, error) {
	v := viper.New()

	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("node.endpoint", "")
	v.SetDefault("node.method", tipsource.DefaultTipMethod)

	v.SetDefault("chain.era_file", "")
	v.SetDefault("chain.slot_length", "1s")
	v.SetDefault("chain.horizon_slot", 0)

	v.SetDefault("monitor.poll_interval", "10s")
	v.SetDefault("monitor.tolerance", "30s")

	v.SetDefault("api.listen_addr", ":8081")
	v.SetDefault("api.read_header_timeout", "5s")
	v.SetDefault("api.read_timeout", "15s")
	v.SetDefault("api.write_timeout", "30s")
	v.SetDefault("api.idle_timeout", "120s")
	v.SetDefault("api.max_header_bytes", 1048576)
	v.SetDefault("api.enable_cors", false)

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if err := c.Node.Validate(); err != nil {
		return err
	}
	if err := c.validateChain(); err != nil {
		return err
	}
	if err := c.Monitor.Validate(); err != nil {
		return err
	}
	if c.Metrics.Enabled && strings.TrimSpace(c.Metrics.Path) == "" {
		return fmt.Errorf("metrics.path must be set when metrics are enabled")
	}
	return nil
}

// ParseStartTime parses the configured genesis instant.
func (c ChainConfig) ParseStartTime() (time.Time, error) {
	ts, err := time.Parse(time.RFC3339, c.StartTime)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid chain.start_time %q: %w", c.StartTime, err)
	}
	return ts, nil
}

func (c *Config) validateChain() error {
	if _, err := c.Chain.ParseStartTime(); err != nil {
		return err
	}
	if strings.TrimSpace(c.Chain.EraFile) != "" {
		return nil
	}
	if c.Chain.SlotLength <= 0 {
		return fmt.Errorf("chain.slot_length must be positive when no era file is given")
	}
	if c.Chain.HorizonSlot == 0 {
		return fmt.Errorf("chain.horizon_slot must be positive when no era file is given")
	}
	return nil
}
