package config

import (
	"time"
)

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server    ServerConfig    `mapstructure:"server" validate:"required"`
	Database  DatabaseConfig  `mapstructure:"database" validate:"required"`
	Scheduler SchedulerConfig `mapstructure:"scheduler" validate:"required"`
	Identity  IdentityConfig  `mapstructure:"identity" validate:"required"`
	Mailer    MailerConfig    `mapstructure:"mailer"`
}

// ServerConfig contains the ops HTTP server and logging settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	// OpsToken enables the manual trigger endpoints when non-empty.
	OpsToken string `mapstructure:"ops_token" validate:"omitempty,min=16"`
}

// DatabaseConfig contains the connection settings of the hosted task database.
type DatabaseConfig struct {
	URL          string `mapstructure:"url" validate:"required,url"`
	MaxOpenConns int    `mapstructure:"max_open_conns" validate:"gte=1"`
	// Migrate applies the embedded schema migrations at startup.
	Migrate bool `mapstructure:"migrate"`
}

// SchedulerConfig contains the settings of the dispatch and reset loops.
//
// MorningTime and EveningTime are HH:MM:SS strings. They are deliberately not
// validated here: malformed values fall back to the defaults when parsed.
type SchedulerConfig struct {
	MorningTime         string        `mapstructure:"morning_time"`
	EveningTime         string        `mapstructure:"evening_time"`
	Timezone            string        `mapstructure:"timezone" validate:"required"`
	DispatchInterval    time.Duration `mapstructure:"dispatch_interval" validate:"gt=0"`
	ResetInterval       time.Duration `mapstructure:"reset_interval" validate:"gt=0"`
	CallTimeout         time.Duration `mapstructure:"call_timeout" validate:"gt=0"`
	DispatchConcurrency int           `mapstructure:"dispatch_concurrency" validate:"gte=1,lte=64"`
	CacheTTL            time.Duration `mapstructure:"cache_ttl" validate:"gt=0"`
}

// Location returns the time zone the reminder slots are evaluated in.
// Load has already verified the name, so an error here falls back to UTC.
func (c SchedulerConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// IdentityConfig contains the settings of the hosted identity service used to
// resolve task owners to contact details.
type IdentityConfig struct {
	BaseURL    string `mapstructure:"base_url" validate:"required,url"`
	ServiceKey string `mapstructure:"service_key" validate:"required"`
	// JWTSecret, when set, is used to sign short-lived service tokens instead
	// of sending the service key as the bearer credential.
	JWTSecret string `mapstructure:"jwt_secret" validate:"omitempty,min=32"`
}

// MailerConfig contains the settings of the hosted mail function.
type MailerConfig struct {
	FunctionURL string `mapstructure:"function_url" validate:"omitempty,url"`
	APIKey      string `mapstructure:"api_key"`
	// DryRun logs digests instead of sending them.
	DryRun bool `mapstructure:"dry_run"`
}
