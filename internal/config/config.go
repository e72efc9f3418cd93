// Package config manages environment variables.
//
// It reads variables from the process environment (and a `.env` file when
// present), loads them into structured Go types and validates that required
// values are present, so the rest of the application receives one immutable
// *Config built at startup.
//
// Responsibilities:
//   - Load environment variables (optionally from a `.env` file).
//   - Resolve the database settings from their primary name (DB_HOST) with a
//     secondary fallback name (DATABASE_HOST) and a built-in default.
//   - Validate required values so the app fails fast on bad/missing config.
//     There is no default for the database password.
package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	// Side-effect import: if a `.env` file exists, it is loaded into the
	// process environment before any variable is read.
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

/*
	Key layout:
	- Advanced settings use the PEOPLE_ prefix, nested with a double underscore:
	  PEOPLE_OBSERVABILITY__LOGGING__LEVEL -> observability.logging.level
	- Database settings keep the short names deployments already use:
	  DB_HOST > DATABASE_HOST > default
	- PORT sets the listening port.
*/

const envPrefix = "PEOPLE_"

// Config is the root configuration object for the application.
type Config struct {
	Primary       Primary              `koanf:"primary" validate:"required"`
	Server        ServerConfig         `koanf:"server" validate:"required"`
	Database      DatabaseConfig       `koanf:"database" validate:"required"`
	Observability *ObservabilityConfig `koanf:"observability"`
}

// Primary holds top-level information about the runtime environment.
type Primary struct {
	Env string `koanf:"env" validate:"required"`
}

// ServerConfig groups settings for the HTTP server runtime. Timeouts are seconds.
type ServerConfig struct {
	Port               string   `koanf:"port" validate:"required"`
	ReadTimeout        int      `koanf:"read_timeout" validate:"required"`
	WriteTimeout       int      `koanf:"write_timeout" validate:"required"`
	IdleTimeout        int      `koanf:"idle_timeout" validate:"required"`
	CORSAllowedOrigins []string `koanf:"cors_allowed_origins" validate:"required"`
}

// DatabaseConfig contains PostgreSQL connection parameters and pool tuning.
type DatabaseConfig struct {
	Host            string `koanf:"host" validate:"required"`
	Port            int    `koanf:"port" validate:"required"`
	User            string `koanf:"user" validate:"required"`
	Password        string `koanf:"password" validate:"required"`
	Name            string `koanf:"name" validate:"required"`
	SSLMode         string `koanf:"ssl_mode" validate:"required"`
	MaxConns        int    `koanf:"max_conns" validate:"required,min=1"`
	ConnMaxLifetime int    `koanf:"conn_max_lifetime" validate:"required"`
	ConnMaxIdleTime int    `koanf:"conn_max_idle_time" validate:"required"`
}

// defaults are loaded first; every environment source overrides them.
var defaults = map[string]any{
	"primary.env":                 "development",
	"server.port":                 "5000",
	"server.read_timeout":         15,
	"server.write_timeout":        15,
	"server.idle_timeout":         60,
	"server.cors_allowed_origins": []string{"*"},
	"database.host":               "localhost",
	"database.port":               5432,
	"database.name":               "railway",
	"database.user":               "postgres",
	"database.ssl_mode":           "disable",
	"database.max_conns":          10,
	"database.conn_max_lifetime":  3600,
	"database.conn_max_idle_time": 300,

	"observability.logging.slow_query_threshold":          "200ms",
	"observability.new_relic.app_log_forwarding_enabled":  true,
	"observability.new_relic.distributed_tracing_enabled": true,
	"observability.health_checks.timeout":                 "5s",
}

// databaseAliases maps the secondary (DATABASE_*) and primary (DB_*) names
// onto koanf keys. The primary set is loaded last so it wins.
var (
	secondaryDatabaseVars = map[string]string{
		"DATABASE_HOST":     "database.host",
		"DATABASE_PORT":     "database.port",
		"DATABASE_NAME":     "database.name",
		"DATABASE_USER":     "database.user",
		"DATABASE_PASSWORD": "database.password",
	}
	primaryDatabaseVars = map[string]string{
		"DB_HOST": "database.host",
		"DB_PORT": "database.port",
		"DB_NAME": "database.name",
		"DB_USER": "database.user",
		"DB_PASS": "database.password",
	}
)

// aliasProvider reads only the named variables, skipping empty values so an
// empty DB_HOST falls through to DATABASE_HOST.
func aliasProvider(prefix string, aliases map[string]string) *env.Env {
	return env.ProviderWithValue(prefix, ".", func(key, value string) (string, interface{}) {
		target, ok := aliases[key]
		if !ok || value == "" {
			return "", nil
		}
		return target, value
	})
}

// LoadConfig loads configuration from the environment, unmarshals it into
// Config, applies observability defaults and validates the result.
func LoadConfig() (*Config, error) {
	k := koanf.New(".")

	for key, value := range defaults {
		if err := k.Set(key, value); err != nil {
			return nil, fmt.Errorf("could not set default %s: %w", key, err)
		}
	}

	// Comma-separated values (cors_allowed_origins) are split by koanf's
	// default decode hooks during Unmarshal.
	err := k.Load(env.ProviderWithValue(envPrefix, ".", func(key, value string) (string, interface{}) {
		if value == "" {
			return "", nil
		}
		name := strings.ToLower(strings.TrimPrefix(key, envPrefix))
		return strings.ReplaceAll(name, "__", "."), value
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("could not load %s env variables: %w", envPrefix, err)
	}

	if err := k.Load(aliasProvider("DATABASE_", secondaryDatabaseVars), nil); err != nil {
		return nil, fmt.Errorf("could not load DATABASE_ env variables: %w", err)
	}
	if err := k.Load(aliasProvider("DB_", primaryDatabaseVars), nil); err != nil {
		return nil, fmt.Errorf("could not load DB_ env variables: %w", err)
	}
	if err := k.Load(aliasProvider("PORT", map[string]string{"PORT": "server.port"}), nil); err != nil {
		return nil, fmt.Errorf("could not load PORT: %w", err)
	}

	mainConfig := &Config{}
	if err := k.Unmarshal("", mainConfig); err != nil {
		return nil, fmt.Errorf("could not unmarshal main config: %w", err)
	}

	if mainConfig.Observability == nil {
		mainConfig.Observability = DefaultObservabilityConfig()
	}

	// Service name and environment are not configurable on their own.
	mainConfig.Observability.ServiceName = ServiceName
	mainConfig.Observability.Environment = mainConfig.Primary.Env

	validate := validator.New()
	if err := validate.Struct(mainConfig); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	if err := mainConfig.Observability.Validate(); err != nil {
		return nil, fmt.Errorf("invalid observability config: %w", err)
	}

	return mainConfig, nil
}

// Masked returns the database settings with the password hidden, in the
// shape the connectivity check reports them.
func (d DatabaseConfig) Masked() map[string]string {
	pass := "NOT SET"
	if d.Password != "" {
		pass = "***"
	}
	return map[string]string{
		"DB_HOST": d.Host,
		"DB_PORT": fmt.Sprintf("%d", d.Port),
		"DB_NAME": d.Name,
		"DB_USER": d.User,
		"DB_PASS": pass,
	}
}
