package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/maxviazov/bank-branches-graphql/internal/logger"
)

type Config struct {
	App        AppConfig           `mapstructure:"app"`
	Logger     logger.LoggerConfig `mapstructure:"logger" validate:"-"`
	Storage    StorageConfig       `mapstructure:"storage"`
	Postgres   PostgresConfig      `mapstructure:"postgres"`
	SQLite     SQLiteConfig        `mapstructure:"sqlite"`
	Pagination PaginationConfig    `mapstructure:"pagination"`
	HTTP       HTTPConfig          `mapstructure:"http"`
}

type AppConfig struct {
	Name    string `mapstructure:"name" validate:"required"`
	Version string `mapstructure:"version" validate:"required"`
	Env     string `mapstructure:"env" validate:"oneof=dev staging prod test"`
	Host    string `mapstructure:"host"`
	Port    int    `mapstructure:"port" validate:"min=1,max=65535"`
	Debug   bool   `mapstructure:"debug"`
}

// StorageConfig selects the backing store. QueryTimeout bounds every storage call.
type StorageConfig struct {
	Driver       string        `mapstructure:"driver" validate:"oneof=postgres sqlite"`
	QueryTimeout time.Duration `mapstructure:"query_timeout" validate:"gt=0"`
}

type PostgresConfig struct {
	Host              string `mapstructure:"host"`
	Port              int    `mapstructure:"port"`
	User              string `mapstructure:"user"`
	Password          string `mapstructure:"password"`
	DBName            string `mapstructure:"db"`
	SSLMode           string `mapstructure:"sslmode"`
	MaxConns          int32  `mapstructure:"max_conns"`
	MinConns          int32  `mapstructure:"min_conns"`
	MaxConnLifetime   int    `mapstructure:"max_conn_lifetime"`
	MaxConnIdleTime   int    `mapstructure:"max_conn_idle_time"`
	HealthCheckPeriod int    `mapstructure:"health_check_period"`
}

type SQLiteConfig struct {
	Path string `mapstructure:"path"`
}

// PaginationConfig bounds connection page sizes: DefaultPageSize applies when
// "first" is omitted, larger requests are clamped to MaxPageSize.
type PaginationConfig struct {
	DefaultPageSize int `mapstructure:"default_page_size" validate:"min=1"`
	MaxPageSize     int `mapstructure:"max_page_size" validate:"min=1,gtefield=DefaultPageSize"`
}

type HTTPConfig struct {
	GraphQLPath string   `mapstructure:"graphql_path" validate:"required,startswith=/"`
	CORSOrigins []string `mapstructure:"cors_origins"`
}

// Addr is the listen address of the HTTP server.
func (a AppConfig) Addr() string { return fmt.Sprintf("%s:%d", a.Host, a.Port) }

// Validate checks struct tags plus the rules that depend on the selected driver.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config validation error: %w", err)
	}
	switch c.Storage.Driver {
	case "postgres":
		if c.Postgres.Host == "" || c.Postgres.User == "" || c.Postgres.DBName == "" {
			return errors.New("config validation error: postgres host, user and db are required")
		}
	case "sqlite":
		if c.SQLite.Path == "" {
			return errors.New("config validation error: sqlite path is required")
		}
	}
	return nil
}
