package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds every runtime parameter of the application.
type Config struct {
	Database DatabaseConfig `yaml:"database"`
	RabbitMQ RabbitMQConfig `yaml:"rabbitmq"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	SSLMode  string `yaml:"sslmode"`
	MaxConns int    `yaml:"max_conns"`
}

// RabbitMQConfig is optional: with an empty host the application runs
// without event publishing.
type RabbitMQConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	VHost    string `yaml:"vhost"`
}

// Enabled reports whether an event broker is configured.
func (c RabbitMQConfig) Enabled() bool { return c.Host != "" }

// Load reads the YAML config at path, then applies .env and environment
// overrides on top. A missing file is an error; a missing .env is not.
func Load(path string) (*Config, error) {
	cfg := &Config{
		Database: DatabaseConfig{Port: 5432, SSLMode: "disable", MaxConns: 10},
		RabbitMQ: RabbitMQConfig{Port: 5672, VHost: "/"},
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	_ = godotenv.Load()
	applyEnv(cfg)

	if cfg.Database.Host == "" || cfg.Database.User == "" || cfg.Database.Database == "" {
		return nil, fmt.Errorf("config incomplete: database host, user and database are required")
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	setStr := func(dst *string, key string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	setInt := func(dst *int, key string) {
		if v := os.Getenv(key); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				*dst = n
			}
		}
	}
	setStr(&cfg.Database.Host, "PIZZA_DB_HOST")
	setInt(&cfg.Database.Port, "PIZZA_DB_PORT")
	setStr(&cfg.Database.User, "PIZZA_DB_USER")
	setStr(&cfg.Database.Password, "PIZZA_DB_PASSWORD")
	setStr(&cfg.Database.Database, "PIZZA_DB_NAME")
	setStr(&cfg.Database.SSLMode, "PIZZA_DB_SSLMODE")
	setInt(&cfg.Database.MaxConns, "PIZZA_DB_MAX_CONNS")
	setStr(&cfg.RabbitMQ.Host, "PIZZA_MQ_HOST")
	setInt(&cfg.RabbitMQ.Port, "PIZZA_MQ_PORT")
	setStr(&cfg.RabbitMQ.User, "PIZZA_MQ_USER")
	setStr(&cfg.RabbitMQ.Password, "PIZZA_MQ_PASSWORD")
	setStr(&cfg.RabbitMQ.VHost, "PIZZA_MQ_VHOST")
}
