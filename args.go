package main

import (
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"auction-platform/internal/config"
)

// ParseArgs binds command-line flags and AUCTION_-prefixed environment
// variables and returns the resulting configuration.
func ParseArgs() config.Config {
	// server config
	pflag.String("server-addr", "0.0.0.0:8080", "")
	pflag.String("log-level", "info", "")

	// settlement config
	pflag.Duration("sweep-interval", time.Minute, "")
	pflag.Float64("commission-rate", 0.05, "")

	// smtp config
	pflag.String("smtp-host", "", "")
	pflag.Int("smtp-port", 465, "")
	pflag.String("smtp-mail", "", "")
	pflag.String("smtp-password", "", "")

	// bind pflag to viper
	pflag.Parse()
	viper.BindPFlags(pflag.CommandLine)
	viper.AutomaticEnv()
	viper.SetEnvPrefix("AUCTION")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	config.SetDefaults()

	return config.FromViper()
}
