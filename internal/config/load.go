package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable the configuration reads,
// e.g. GOALPOST_SCHEDULER_MORNING_TIME.
const EnvPrefix = "GOALPOST"

// Default values applied before config files and environment variables.
const (
	DefaultPort                = 8080
	DefaultLogLevel            = "info"
	DefaultMaxOpenConns        = 10
	DefaultMorningTime         = "08:00:00"
	DefaultEveningTime         = "20:00:00"
	DefaultTimezone            = "UTC"
	DefaultDispatchInterval    = time.Minute
	DefaultResetInterval       = time.Hour
	DefaultCallTimeout         = 30 * time.Second
	DefaultDispatchConcurrency = 4
	DefaultCacheTTL            = 30 * time.Minute
)

// keys lists every configuration key so environment variables are bound even
// when no default or config file entry exists for them.
var keys = []string{
	"server.port",
	"server.log_level",
	"server.ops_token",
	"database.url",
	"database.max_open_conns",
	"database.migrate",
	"scheduler.morning_time",
	"scheduler.evening_time",
	"scheduler.timezone",
	"scheduler.dispatch_interval",
	"scheduler.reset_interval",
	"scheduler.call_timeout",
	"scheduler.dispatch_concurrency",
	"scheduler.cache_ttl",
	"identity.base_url",
	"identity.service_key",
	"identity.jwt_secret",
	"mailer.function_url",
	"mailer.api_key",
	"mailer.dry_run",
}

// Load configuration from environment variables and optionally a config.yaml
// file in the working directory. Environment variables take precedence over
// values from the config file.
// Returns a populated Config struct or an error if loading/validation fails.
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, key := range keys {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("failed to bind environment variable for %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks struct tags and the cross-field rules that tags cannot express.
func Validate(cfg *Config) error {
	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	if _, err := time.LoadLocation(cfg.Scheduler.Timezone); err != nil {
		return fmt.Errorf("config validation failed: unknown scheduler timezone %q: %w",
			cfg.Scheduler.Timezone, err)
	}

	if !cfg.Mailer.DryRun && cfg.Mailer.FunctionURL == "" {
		return fmt.Errorf("config validation failed: mailer.function_url is required unless mailer.dry_run is set")
	}

	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", DefaultPort)
	v.SetDefault("server.log_level", DefaultLogLevel)
	v.SetDefault("database.max_open_conns", DefaultMaxOpenConns)
	v.SetDefault("database.migrate", false)
	v.SetDefault("scheduler.morning_time", DefaultMorningTime)
	v.SetDefault("scheduler.evening_time", DefaultEveningTime)
	v.SetDefault("scheduler.timezone", DefaultTimezone)
	v.SetDefault("scheduler.dispatch_interval", DefaultDispatchInterval)
	v.SetDefault("scheduler.reset_interval", DefaultResetInterval)
	v.SetDefault("scheduler.call_timeout", DefaultCallTimeout)
	v.SetDefault("scheduler.dispatch_concurrency", DefaultDispatchConcurrency)
	v.SetDefault("scheduler.cache_ttl", DefaultCacheTTL)
	v.SetDefault("mailer.dry_run", false)
}
