package config

import (
	"time"

	"github.com/spf13/viper"
)

// SMTPConfig carries the transport settings for the winner notification
// mailer.
type SMTPConfig struct {
	Host     string
	Port     int
	Mail     string
	Password string
}

// Config is the full runtime configuration of the marketplace process.
type Config struct {
	ServerAddr     string
	LogLevel       string
	SweepInterval  time.Duration
	CommissionRate float64
	SMTP           SMTPConfig
}

// SetDefaults registers the default value for every configuration key.
func SetDefaults() {
	viper.SetDefault("server-addr", "0.0.0.0:8080")
	viper.SetDefault("log-level", "info")
	viper.SetDefault("sweep-interval", time.Minute)
	viper.SetDefault("commission-rate", 0.05)
	viper.SetDefault("smtp-host", "")
	viper.SetDefault("smtp-port", 465)
	viper.SetDefault("smtp-mail", "")
	viper.SetDefault("smtp-password", "")
}

// FromViper materializes a Config from the currently-bound viper state.
func FromViper() Config {
	return Config{
		ServerAddr:     viper.GetString("server-addr"),
		LogLevel:       viper.GetString("log-level"),
		SweepInterval:  viper.GetDuration("sweep-interval"),
		CommissionRate: viper.GetFloat64("commission-rate"),
		SMTP: SMTPConfig{
			Host:     viper.GetString("smtp-host"),
			Port:     viper.GetInt("smtp-port"),
			Mail:     viper.GetString("smtp-mail"),
			Password: viper.GetString("smtp-password"),
		},
	}
}

// Validate reports whether the configuration can run the process.
func (c Config) Validate() bool {
	return c.ServerAddr != "" &&
		c.SweepInterval > 0 &&
		c.CommissionRate > 0 && c.CommissionRate < 1
}
