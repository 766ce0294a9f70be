package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"go.mongodb.org/mongo-driver/mongo/options"
	"gopkg.in/yaml.v3"
)

const (
	CONFIG_PATH = "./res/config.yaml"

	DefaultServiceName = "medroute-pilot"
	DefaultLogLevel    = "info"
	DefaultPort        = "3001"
	DefaultTableName   = "pilot_requests"

	DatabaseTypeNone     = "none"
	DatabaseTypeMongo    = "mongo"
	DatabaseTypePostgres = "postgres"
)

// ServiceConfig holds the configuration for the service.
type ServiceConfig struct {
	ServiceName string          `yaml:"service_name" validate:"required"`
	LogLevel    string          `yaml:"loglevel" env:"LOG_LEVEL" validate:"required,oneof=debug info warn error"`
	Host        string          `yaml:"host" env:"HOST"`
	Port        string          `yaml:"port" env:"PORT" validate:"required,numeric"`
	CORS        CORSConfig      `yaml:"cors"`
	RateLimit   RateLimitConfig `yaml:"rate_limit"`
	Database    Database        `yaml:"database"`
}

// CORSConfig lists the origins allowed to call the API from a browser.
// A single "*" entry allows any origin.
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins" env:"CORS_ALLOWED_ORIGINS" envSeparator:","`
}

// RateLimitConfig configures the optional token bucket in front of the pilot route.
type RateLimitConfig struct {
	Enabled           bool    `yaml:"enabled" env:"RATE_LIMIT_ENABLED"`
	RequestsPerSecond float64 `yaml:"requests_per_second" validate:"gte=0"`
	Burst             int     `yaml:"burst" validate:"gte=0"`
}

// Database selects where accepted pilot requests are stored in addition to the log.
type Database struct {
	Type     string         `yaml:"type" env:"DATABASE_TYPE" validate:"required,oneof=none mongo postgres"`
	DSN      string         `yaml:"dsn" env:"DATABASE_DSN" validate:"required_unless=Type none"`
	Timeout  time.Duration  `yaml:"timeout"`
	MongoDB  MongoDBConfig  `yaml:"mongodb_config"`
	Postgres PostgresConfig `yaml:"postgres_config"`
}

type MongoDBConfig struct {
	Collection string             `yaml:"collection"`
	Options    MongoServerOptions `yaml:"mongo_server_options"`
}

type PostgresConfig struct {
	Table   string                `yaml:"table"`
	Options PostgresServerOptions `yaml:"postgres_server_options"`
}

type MongoServerOptions struct {
	APIVersion           string `yaml:"api_version"`
	SetStrict            bool   `yaml:"set_strict"`
	SetDeprecationErrors bool   `yaml:"set_deprecation_errors"`
}

type PostgresServerOptions struct {
	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
}

// ReadLocalConfig reads the service configuration from a YAML file at the specified path.
// Environment variables override the file (PORT, HOST, LOG_LEVEL, CORS_ALLOWED_ORIGINS,
// RATE_LIMIT_ENABLED, DATABASE_TYPE, DATABASE_DSN) and missing values fall back to defaults.
func ReadLocalConfig(configPath string) (*ServiceConfig, error) {
	config := &ServiceConfig{}

	yamlFile, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	err = yaml.Unmarshal(yamlFile, config)
	if err != nil {
		return nil, err
	}

	if err := ApplyEnv(config); err != nil {
		return nil, err
	}

	config.ApplyDefaults()

	return config, nil
}

// ApplyEnv overlays environment variables onto cfg. Unset variables leave cfg untouched.
func ApplyEnv(cfg *ServiceConfig) error {
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// ApplyDefaults fills in every optional setting that was left empty.
func (c *ServiceConfig) ApplyDefaults() {
	if c.ServiceName == "" {
		c.ServiceName = DefaultServiceName
	}
	c.LogLevel = strings.ToLower(c.LogLevel)
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
	if c.Port == "" {
		c.Port = DefaultPort
	}
	if len(c.CORS.AllowedOrigins) == 0 {
		c.CORS.AllowedOrigins = []string{"*"}
	}
	if c.Database.Type == "" {
		c.Database.Type = DatabaseTypeNone
	}
	if c.Database.MongoDB.Collection == "" {
		c.Database.MongoDB.Collection = DefaultTableName
	}
	if c.Database.Postgres.Table == "" {
		c.Database.Postgres.Table = DefaultTableName
	}
}

func BuildServerAPIOptions(cfg MongoServerOptions) *options.ServerAPIOptions {
	opts := options.ServerAPI(options.ServerAPIVersion(cfg.APIVersion))
	opts.SetStrict(cfg.SetStrict)
	opts.SetDeprecationErrors(cfg.SetDeprecationErrors)

	return opts
}

func ListToMap(list []string) map[string]bool {
	result := make(map[string]bool)
	for _, item := range list {
		result[item] = true
	}
	return result
}
