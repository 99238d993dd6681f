package config

import (
	"fmt"

	coretypes "github.com/projecteru2/core/types"

	"github.com/cocoonstack/cocoon-hwaddr/types"
)

// Config holds global cocoon-hwaddr configuration.
type Config struct {
	// Format is the default output style: colon, dash or plain.
	// Env: HWADDR_FORMAT. Default: colon.
	Format string `json:"format" mapstructure:"format"`
	// NICs is how many per-interface addresses gen derives for each input.
	// Zero means one address for the input itself, not per interface.
	// Env: HWADDR_NICS. Default: 0.
	NICs int `json:"nics" mapstructure:"nics"`
	// PoolSize bounds how many inputs gen derives concurrently.
	// Env: HWADDR_POOL_SIZE. Defaults to runtime.NumCPU() if zero.
	PoolSize int `json:"pool_size" mapstructure:"pool_size"`
	// Log configuration, uses eru core's ServerLogConfig.
	Log *coretypes.ServerLogConfig `json:"log" mapstructure:"log"`
}

// DefaultConfig returns the configuration used when no file, env or flag
// overrides a field.
func DefaultConfig() *Config {
	return &Config{
		Format: types.FormatColon,
		Log: &coretypes.ServerLogConfig{
			Level: "info",
		},
	}
}

// Validate rejects values no command can work with.
func (c *Config) Validate() error {
	if _, err := (types.HwAddr{}).Format(c.Format); err != nil {
		return fmt.Errorf("format: %w", err)
	}
	if c.PoolSize < 0 {
		return fmt.Errorf("pool_size must not be negative, got %d", c.PoolSize)
	}
	if c.NICs < 0 {
		return fmt.Errorf("nics must not be negative, got %d", c.NICs)
	}
	return nil
}
