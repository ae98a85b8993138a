package monitor

import (
	"fmt"
	"time"

	"github.com/chaintrack-network/chaintrack/x/syncprogress"
)

// Config configures the sync monitor.
type Config struct {
	// PollInterval is how often the node's tip is fetched and judged.
	PollInterval time.Duration `mapstructure:"poll_interval" yaml:"poll_interval"`
	// Tolerance is the tip lag that still counts as caught up.
	Tolerance time.Duration `mapstructure:"tolerance" yaml:"tolerance"`
	// Now returns the current time. Useful for deterministic tests.
	// Defaults to time.Now if nil.
	Now func() time.Time `mapstructure:"-" yaml:"-"`
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		PollInterval: 10 * time.Second,
		Tolerance:    syncprogress.DefaultTolerance,
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.PollInterval <= 0 {
		return fmt.Errorf("monitor: poll_interval must be positive, got %s", c.PollInterval)
	}
	if c.Tolerance < 0 {
		return fmt.Errorf("monitor: tolerance must not be negative, got %s", c.Tolerance)
	}
	return nil
}
