package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Store drivers.
const (
	DriverSQLite = "sqlite"
	DriverRedis  = "redis"
)

// Transport modes.
const (
	TransportHTTP  = "http"
	TransportStdio = "stdio"
)

// Config defines server configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Store     StoreConfig     `yaml:"store"`
	Log       LogConfig       `yaml:"log"`
	Transport TransportConfig `yaml:"transport"`
	Auth      AuthConfig      `yaml:"auth"`
	Webhook   WebhookConfig   `yaml:"webhook"`
	GenAI     GenAIConfig     `yaml:"genai"`
	Seed      SeedConfig      `yaml:"seed"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type StoreConfig struct {
	Driver   string `yaml:"driver"`
	Path     string `yaml:"path"`
	RedisURL string `yaml:"redis_url"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	Path  string `yaml:"path"`
}

type TransportConfig struct {
	Mode string `yaml:"mode"`
}

// AuthConfig maps bearer tokens to the user names written to the change log.
type AuthConfig struct {
	Enabled bool              `yaml:"enabled"`
	Tokens  map[string]string `yaml:"tokens"`
}

type WebhookConfig struct {
	URL     string        `yaml:"url"`
	Timeout time.Duration `yaml:"timeout"`
}

type GenAIConfig struct {
	APIKey string `yaml:"api_key"`
	Model  string `yaml:"model"`
}

type SeedConfig struct {
	Sample bool `yaml:"sample"`
}

// Default returns the configuration used when nothing is overridden.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Store: StoreConfig{
			Driver: DriverSQLite,
			Path:   "pronix.db",
		},
		Log: LogConfig{
			Level: "info",
		},
		Transport: TransportConfig{
			Mode: TransportHTTP,
		},
		Webhook: WebhookConfig{
			Timeout: 15 * time.Second,
		},
		GenAI: GenAIConfig{
			Model: "gemini-3-flash-preview",
		},
		Seed: SeedConfig{
			Sample: true,
		},
	}
}

// Load reads configuration from an optional YAML file and environment variables.
func Load() (Config, error) {
	cfg := Default()

	if path := os.Getenv("PRONIX_CONFIG_PATH"); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if len(cfg.Auth.Tokens) > 0 {
		cfg.Auth.Enabled = true
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	if host := os.Getenv("PRONIX_SERVER_HOST"); host != "" {
		cfg.Server.Host = host
	}
	if portStr := os.Getenv("PRONIX_SERVER_PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return fmt.Errorf("invalid PRONIX_SERVER_PORT: %w", err)
		}
		cfg.Server.Port = port
	}
	if driver := os.Getenv("PRONIX_STORE_DRIVER"); driver != "" {
		cfg.Store.Driver = driver
	}
	if dbPath := os.Getenv("PRONIX_DB_PATH"); dbPath != "" {
		cfg.Store.Path = dbPath
	}
	if redisURL := os.Getenv("PRONIX_REDIS_URL"); redisURL != "" {
		cfg.Store.RedisURL = redisURL
	}
	if level := os.Getenv("PRONIX_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}
	if logPath := os.Getenv("PRONIX_LOG_PATH"); logPath != "" {
		cfg.Log.Path = logPath
	}
	if mode := os.Getenv("PRONIX_TRANSPORT"); mode != "" {
		cfg.Transport.Mode = mode
	}
	if tokens := os.Getenv("PRONIX_AUTH_TOKENS"); tokens != "" {
		parsed, err := parseTokens(tokens)
		if err != nil {
			return err
		}
		cfg.Auth.Tokens = parsed
	}
	if url := os.Getenv("PRONIX_WEBHOOK_URL"); url != "" {
		cfg.Webhook.URL = url
	}
	if key := os.Getenv("PRONIX_GENAI_API_KEY"); key != "" {
		cfg.GenAI.APIKey = key
	} else if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		cfg.GenAI.APIKey = key
	}
	if model := os.Getenv("PRONIX_GENAI_MODEL"); model != "" {
		cfg.GenAI.Model = model
	}
	if seed := os.Getenv("PRONIX_SEED_SAMPLE"); seed != "" {
		enabled, err := strconv.ParseBool(seed)
		if err != nil {
			return fmt.Errorf("invalid PRONIX_SEED_SAMPLE: %w", err)
		}
		cfg.Seed.Sample = enabled
	}
	return nil
}

// parseTokens reads "token=Name,token2=Other" pairs.
func parseTokens(value string) (map[string]string, error) {
	tokens := map[string]string{}
	for _, pair := range strings.Split(value, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		token, name, ok := strings.Cut(pair, "=")
		token, name = strings.TrimSpace(token), strings.TrimSpace(name)
		if !ok || token == "" || name == "" {
			return nil, fmt.Errorf("invalid PRONIX_AUTH_TOKENS entry %q: want token=name", pair)
		}
		tokens[token] = name
	}
	return tokens, nil
}

// Validate checks option values that have a fixed set of choices.
func (c Config) Validate() error {
	switch c.Store.Driver {
	case DriverSQLite:
	case DriverRedis:
		if c.Store.RedisURL == "" {
			return fmt.Errorf("store driver %q requires a redis url", DriverRedis)
		}
	default:
		return fmt.Errorf("unknown store driver %q", c.Store.Driver)
	}
	switch c.Transport.Mode {
	case TransportHTTP, TransportStdio:
	default:
		return fmt.Errorf("unknown transport mode %q", c.Transport.Mode)
	}
	if c.Auth.Enabled && len(c.Auth.Tokens) == 0 {
		return fmt.Errorf("auth enabled without tokens")
	}
	return nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}
