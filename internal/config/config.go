package config

import (
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	nftrouter "github.com/kaifufi/nft-router-sdk-go"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. NFTROUTER_API_PORT
const EnvPrefix = "NFTROUTER"

const keyDelimiter = "::"

type Config struct {
	Api              Api               `toml:"api" mapstructure:"api" json:"api"`
	ChainID          int64             `toml:"chain_id" mapstructure:"chain_id" json:"chain_id"`
	Log              Log               `toml:"log" mapstructure:"log" json:"log"`
	Referrer         string            `toml:"referrer" mapstructure:"referrer" json:"referrer"`
	DeadlineTTL      time.Duration     `toml:"deadline_ttl" mapstructure:"deadline_ttl" json:"deadline_ttl"`
	RPCURL           string            `toml:"rpc_url" mapstructure:"rpc_url" json:"rpc_url"`
	AddressOverrides map[string]string `toml:"address_overrides" mapstructure:"address_overrides" json:"address_overrides"`
}

type Api struct {
	Port        string   `toml:"port" mapstructure:"port" json:"port"`
	MaxItems    int      `toml:"max_items" mapstructure:"max_items" json:"max_items"`
	CorsOrigins []string `toml:"cors_origins" mapstructure:"cors_origins" json:"cors_origins"`
	Pprof       bool     `toml:"pprof" mapstructure:"pprof" json:"pprof"`
}

type Log struct {
	Level       string `toml:"level" mapstructure:"level" json:"level"`
	Development bool   `toml:"development" mapstructure:"development" json:"development"`
}

// DefaultConfig returns the configuration used for unset keys
func DefaultConfig() *Config {
	return &Config{
		Api: Api{
			Port:     ":8080",
			MaxItems: 50,
		},
		ChainID:     nftrouter.ChainIDMainnet,
		Log:         Log{Level: "info"},
		DeadlineTTL: time.Hour,
	}
}

// UnmarshalConfig reads a TOML config file, applies NFTROUTER_ environment
// overrides and validates the result. An empty path reads the environment only.
func UnmarshalConfig(configFilePath string) (*Config, error) {
	// kind literals such as wyvern-v2.3 contain dots, so keys are split on "::"
	v := viper.NewWithOptions(viper.KeyDelimiter(keyDelimiter))
	v.SetConfigType("toml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(keyDelimiter, "_"))
	v.AutomaticEnv()

	defaults := DefaultConfig()
	v.SetDefault("api::port", defaults.Api.Port)
	v.SetDefault("api::max_items", defaults.Api.MaxItems)
	v.SetDefault("api::cors_origins", []string{})
	v.SetDefault("api::pprof", false)
	v.SetDefault("chain_id", defaults.ChainID)
	v.SetDefault("log::level", defaults.Log.Level)
	v.SetDefault("log::development", false)
	v.SetDefault("referrer", "")
	v.SetDefault("deadline_ttl", defaults.DeadlineTTL)
	v.SetDefault("rpc_url", "")

	if configFilePath != "" {
		v.SetConfigFile(configFilePath)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "failed to read config %s", configFilePath)
		}
	}

	config := DefaultConfig()
	if err := v.Unmarshal(config); err != nil {
		return nil, errors.Wrap(err, "failed to decode config")
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate checks the values the daemon cannot start without
func (c *Config) Validate() error {
	if c.ChainID <= 0 {
		return errors.Errorf("chain_id must be positive, got %d", c.ChainID)
	}
	if c.Api.Port == "" {
		return errors.New("api.port is required")
	}
	if c.Api.MaxItems <= 0 {
		return errors.Errorf("api.max_items must be positive, got %d", c.Api.MaxItems)
	}
	if c.DeadlineTTL < 0 {
		return errors.Errorf("deadline_ttl must not be negative, got %s", c.DeadlineTTL)
	}
	if _, err := c.Overrides(); err != nil {
		return err
	}
	return nil
}

// Overrides parses address_overrides into router form
func (c *Config) Overrides() (map[nftrouter.ExchangeKind]common.Address, error) {
	overrides := make(map[nftrouter.ExchangeKind]common.Address, len(c.AddressOverrides))
	for literal, addr := range c.AddressOverrides {
		kind, err := nftrouter.ParseExchangeKind(literal)
		if err != nil {
			return nil, errors.Wrap(err, "address_overrides")
		}
		if !common.IsHexAddress(addr) {
			return nil, errors.Errorf("address_overrides: invalid address %q for %s", addr, literal)
		}
		overrides[kind] = common.HexToAddress(addr)
	}
	return overrides, nil
}
