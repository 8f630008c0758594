package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/shlex"
	"github.com/spf13/viper"
)

type HTTPConfig struct {
	Host string
	Port int
}

// ProviderConfig описывает внешний API регистрационных данных (apiplaqueimmatriculation)
type ProviderConfig struct {
	URL              string
	Token            string
	Country          string
	Timeout          time.Duration
	BatchConcurrency int
}

type BackendConfig struct {
	BaseURL     string
	Timeout     time.Duration
	InsecureTLS bool
}

type AssistantConfig struct {
	Command string
	Model   string
	Timeout time.Duration
}

type AuthConfig struct {
	SharedToken string
}

type Config struct {
	Environment    string
	LogLevel       string
	HTTP           HTTPConfig
	Provider       ProviderConfig
	Backend        BackendConfig
	Assistant      AssistantConfig
	Auth           AuthConfig
	MetricsEnabled bool
}

const (
	DefaultProviderURL = "https://api.apiplaqueimmatriculation.com/plaque"
	DefaultBackendURL  = "https://www.hopeful-northcutt.94-23-17-183.plesk.page:3000"
)

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("app")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("./deploy")
	v.AddConfigPath("./internal/config")

	v.AutomaticEnv()

	v.SetDefault("PLATE_API_URL", DefaultProviderURL)
	v.SetDefault("PLATE_API_TOKEN", "TokenDemo2025A")
	v.SetDefault("PLATE_API_COUNTRY", "FR")
	v.SetDefault("PLATE_API_TIMEOUT", 15*time.Second)
	v.SetDefault("PLATE_BATCH_CONCURRENCY", 4)
	v.SetDefault("BACKEND_URL", DefaultBackendURL)
	v.SetDefault("BACKEND_TIMEOUT", 10*time.Second)
	v.SetDefault("BACKEND_INSECURE_TLS", true)
	v.SetDefault("ASSISTANT_COMMAND", "ollama run")
	v.SetDefault("ASSISTANT_MODEL", "gemma3:270m")
	v.SetDefault("ASSISTANT_TIMEOUT", 120*time.Second)
	v.SetDefault("METRICS_ENABLED", true)

	_ = v.ReadInConfig()

	cfg := &Config{
		Environment: v.GetString("APP_ENV"),
		LogLevel:    v.GetString("LOG_LEVEL"),
		HTTP: HTTPConfig{
			Host: v.GetString("HTTP_HOST"),
			Port: v.GetInt("HTTP_PORT"),
		},
		Provider: ProviderConfig{
			URL:              strings.TrimSpace(v.GetString("PLATE_API_URL")),
			Token:            strings.TrimSpace(v.GetString("PLATE_API_TOKEN")),
			Country:          strings.TrimSpace(v.GetString("PLATE_API_COUNTRY")),
			Timeout:          v.GetDuration("PLATE_API_TIMEOUT"),
			BatchConcurrency: v.GetInt("PLATE_BATCH_CONCURRENCY"),
		},
		Backend: BackendConfig{
			BaseURL:     strings.TrimRight(strings.TrimSpace(v.GetString("BACKEND_URL")), "/"),
			Timeout:     v.GetDuration("BACKEND_TIMEOUT"),
			InsecureTLS: v.GetBool("BACKEND_INSECURE_TLS"),
		},
		Assistant: AssistantConfig{
			Command: strings.TrimSpace(v.GetString("ASSISTANT_COMMAND")),
			Model:   strings.TrimSpace(v.GetString("ASSISTANT_MODEL")),
			Timeout: v.GetDuration("ASSISTANT_TIMEOUT"),
		},
		Auth: AuthConfig{
			SharedToken: strings.TrimSpace(v.GetString("GATEWAY_TOKEN")),
		},
		MetricsEnabled: v.GetBool("METRICS_ENABLED"),
	}

	if cfg.HTTP.Host == "" {
		cfg.HTTP.Host = "0.0.0.0"
	}
	// Render и похожие платформы передают порт через PORT
	if cfg.HTTP.Port == 0 {
		cfg.HTTP.Port = v.GetInt("PORT")
	}
	if cfg.HTTP.Port == 0 {
		cfg.HTTP.Port = 10000
	}
	if cfg.Environment == "" {
		cfg.Environment = "development"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
		if cfg.Environment == "development" {
			cfg.LogLevel = "debug"
		}
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// AssistantArgs splits the configured command line the way a shell would.
func (c AssistantConfig) AssistantArgs() ([]string, error) {
	args, err := shlex.Split(c.Command)
	if err != nil {
		return nil, fmt.Errorf("ASSISTANT_COMMAND: %w", err)
	}
	if len(args) == 0 {
		return nil, fmt.Errorf("ASSISTANT_COMMAND is required")
	}
	return args, nil
}

func validate(cfg *Config) error {
	if cfg.Provider.URL == "" {
		return fmt.Errorf("PLATE_API_URL is required")
	}
	if cfg.Provider.Token == "" {
		return fmt.Errorf("PLATE_API_TOKEN is required")
	}
	if cfg.Provider.Country == "" {
		return fmt.Errorf("PLATE_API_COUNTRY is required")
	}
	if cfg.Provider.Timeout <= 0 {
		return fmt.Errorf("PLATE_API_TIMEOUT must be positive")
	}
	if cfg.Provider.BatchConcurrency < 1 {
		return fmt.Errorf("PLATE_BATCH_CONCURRENCY must be at least 1")
	}
	if cfg.Backend.BaseURL == "" {
		return fmt.Errorf("BACKEND_URL is required")
	}
	if cfg.Backend.Timeout <= 0 {
		return fmt.Errorf("BACKEND_TIMEOUT must be positive")
	}
	if cfg.Assistant.Timeout <= 0 {
		return fmt.Errorf("ASSISTANT_TIMEOUT must be positive")
	}
	if _, err := cfg.Assistant.AssistantArgs(); err != nil {
		return err
	}
	return nil
}
