// Package config loads the application configuration from YAML with
// environment overrides. Defaults come from struct tags, validation from
// struct rules.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

var validate = validator.New()

type Config struct {
	Environment string `yaml:"environment" default:"development" validate:"oneof=development staging production"`

	Storage struct {
		Type      string `yaml:"type" default:"sqlite" validate:"oneof=memory sqlite redis"`
		Path      string `yaml:"path" default:"cryptohub.db"`
		Quota     int64  `yaml:"quota"`
		Namespace string `yaml:"namespace"`
		Redis     struct {
			Addr     string `yaml:"addr" default:"localhost:6379"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
		} `yaml:"redis"`
	} `yaml:"storage"`

	Log struct {
		Level  string `yaml:"level" default:"info" validate:"oneof=trace debug info warn error"`
		Format string `yaml:"format" default:"json" validate:"oneof=json console"`
	} `yaml:"log"`

	Cache struct {
		MaxAge time.Duration `yaml:"max_age"`
	} `yaml:"cache"`

	Feed struct {
		URL            string            `yaml:"url" default:"wss://stream.binance.com:9443/ws"`
		Symbols        []string          `yaml:"symbols" validate:"min=1"`
		CoinIDs        map[string]string `yaml:"coin_ids"`
		ReconnectDelay time.Duration     `yaml:"reconnect_delay" default:"2s"`
		MaxReconnect   time.Duration     `yaml:"max_reconnect_delay" default:"1m"`
		EvalInterval   time.Duration     `yaml:"eval_interval" default:"15s"`
	} `yaml:"feed"`

	Metrics struct {
		Enabled bool   `yaml:"enabled"`
		Addr    string `yaml:"addr" default:":9100"`
		Path    string `yaml:"path" default:"/metrics"`
	} `yaml:"metrics"`
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := defaults.Set(&c); err != nil {
		return nil, fmt.Errorf("apply defaults: %w", err)
	}
	if err := validate.Struct(&c); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return &c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	if v := os.Getenv("CRYPTOHUB_STORAGE"); v != "" {
		c.Storage.Type = v
	}
	if v := os.Getenv("CRYPTOHUB_STORAGE_PATH"); v != "" {
		c.Storage.Path = v
	}
	if v := os.Getenv("CRYPTOHUB_STORAGE_QUOTA"); v != "" {
		quota, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parse CRYPTOHUB_STORAGE_QUOTA: %w", err)
		}
		c.Storage.Quota = quota
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Storage.Redis.Addr = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		c.Storage.Redis.Password = v
	}
	if v := os.Getenv("CRYPTOHUB_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("SYMBOLS"); v != "" {
		c.Feed.Symbols = strings.Split(v, ",")
	}

	if err := validate.Struct(c); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}
