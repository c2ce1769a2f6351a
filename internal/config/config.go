// Package config loads service configuration from the environment.
package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// PostgresConfig holds DB connection details.
type PostgresConfig struct {
	Host     string `envconfig:"POSTGRES_HOST" default:"localhost"`
	Port     int    `envconfig:"POSTGRES_PORT" default:"5432"`
	Database string `envconfig:"POSTGRES_DB" default:"dexboost"`
	User     string `envconfig:"POSTGRES_USER" default:"dexboost"`
	Password string `envconfig:"POSTGRES_PASSWORD" default:"dexboost"`
	PoolMax  int    `envconfig:"PG_POOL_MAX" default:"8"`
}

// DSN renders the pgx connection string.
func (p PostgresConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?pool_max_conns=%d",
		p.User, p.Password, p.Host, p.Port, p.Database, p.PoolMax)
}

// ClickhouseConfig holds ClickHouse connection details.
type ClickhouseConfig struct {
	Host     string `envconfig:"CLICKHOUSE_HOST" default:"localhost"`
	Port     int    `envconfig:"CLICKHOUSE_PORT" default:"9000"`
	Database string `envconfig:"CLICKHOUSE_DB" default:"dexboost"`
	User     string `envconfig:"CLICKHOUSE_USER" default:"default"`
	Password string `envconfig:"CLICKHOUSE_PASSWORD" default:""`
}

// DSN renders the native-protocol connection string.
func (c ClickhouseConfig) DSN() string {
	return fmt.Sprintf("clickhouse://%s:%s@%s:%d/%s",
		c.User, c.Password, c.Host, c.Port, c.Database)
}

// MetricsConfig controls the Prometheus listener.
type MetricsConfig struct {
	Addr string `envconfig:"METRICS_ADDR" default:":9090"`
}

// AnalysisEnv holds the tunable analysis parameters.
type AnalysisEnv struct {
	TPPercent   float64 `envconfig:"TP_PERCENT" default:"30"`
	SLPercent   float64 `envconfig:"SL_PERCENT" default:"-90"`
	MinDistance int     `envconfig:"MIN_DISTANCE" default:"5"`
	Stake       float64 `envconfig:"STAKE" default:"200"`
	Workers     int     `envconfig:"WORKERS" default:"0"`
}

// Load fills the given struct from environment.
func Load[T any](prefix string) (T, error) {
	var cfg T
	err := envconfig.Process(prefix, &cfg)
	return cfg, err
}
