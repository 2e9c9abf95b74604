package rpc

import (
	"fmt"
	"time"

	"github.com/BurntSushi/toml"
)

// Default public cluster endpoints.
const (
	EndpointMainnet = "https://api.mainnet-beta.solana.com"
	EndpointDevnet  = "https://api.devnet.solana.com"
	EndpointTestnet = "https://api.testnet.solana.com"
)

// Duration wraps time.Duration so TOML values can be written as "30s", "2m".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = parsed
	return nil
}

// Config controls the RPC client: which endpoint to talk to and how patient
// to be with it.
type Config struct {
	Endpoint       string   `toml:"endpoint"`
	RequestTimeout Duration `toml:"request-timeout"`
	RetryMax       int      `toml:"retry-max"`
	RetryWaitMin   Duration `toml:"retry-wait-min"`
	RetryWaitMax   Duration `toml:"retry-wait-max"`

	// ConfirmPollInterval and ConfirmTimeout bound WaitForConfirmation.
	ConfirmPollInterval Duration `toml:"confirm-poll-interval"`
	ConfirmTimeout      Duration `toml:"confirm-timeout"`
}

// DefaultConfig returns the client defaults for the given cluster endpoint.
func DefaultConfig(endpoint string) Config {
	return Config{
		Endpoint:            endpoint,
		RequestTimeout:      Duration{30 * time.Second},
		RetryMax:            3,
		RetryWaitMin:        Duration{500 * time.Millisecond},
		RetryWaitMax:        Duration{5 * time.Second},
		ConfirmPollInterval: Duration{2 * time.Second},
		ConfirmTimeout:      Duration{90 * time.Second},
	}
}

// ReadConfig loads a TOML config file, applying defaults for unset fields.
func ReadConfig(path string) (Config, error) {
	cfg := DefaultConfig(EndpointDevnet)
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the fields the client cannot default its way around.
func (c *Config) Validate() error {
	if c.Endpoint == "" {
		return fmt.Errorf("rpc endpoint is unset")
	}
	if c.RetryMax < 0 {
		return fmt.Errorf("retry-max must be non-negative")
	}
	if c.ConfirmPollInterval.Duration <= 0 {
		return fmt.Errorf("confirm-poll-interval must be positive")
	}
	return nil
}
