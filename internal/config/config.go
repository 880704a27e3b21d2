package config

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config holds configuration values loaded from flags, env, or config file.
type Config struct {
	FeeBps        uint64
	VoterShareBps uint64
	Treasury      string
	VoterClaimant string
	Out           string
	PgDSN         string
	LogLevel      string
}

// Load merges config file, environment variables, and flags into Config.
func Load(cfgFile string, flags *pflag.FlagSet) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("PAIRSWAP")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("fee-bps", uint64(25))
	v.SetDefault("voter-share-bps", uint64(6000))
	v.SetDefault("out", "./data/events.jsonl")
	v.SetDefault("log-level", "info")

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return Config{}, fmt.Errorf("bind flags: %w", err)
		}
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return Config{}, fmt.Errorf("read config: %w", err)
			}
		}
	}

	cfg := Config{
		FeeBps:        v.GetUint64("fee-bps"),
		VoterShareBps: v.GetUint64("voter-share-bps"),
		Treasury:      v.GetString("treasury"),
		VoterClaimant: v.GetString("voter-claimant"),
		Out:           v.GetString("out"),
		PgDSN:         v.GetString("pg-dsn"),
		LogLevel:      v.GetString("log-level"),
	}

	if cfg.FeeBps >= 10_000 {
		return Config{}, fmt.Errorf("fee-bps must be below 10000")
	}
	if cfg.VoterShareBps > 10_000 {
		return Config{}, fmt.Errorf("voter-share-bps must not exceed 10000")
	}

	return cfg, nil
}
