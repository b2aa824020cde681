package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type OAuthProvider struct {
	Key         string `yaml:"-"` // Loaded from environment
	Secret      string `yaml:"-"` // Loaded from environment
	CallbackURL string `yaml:"callback_url"`
}

// Enabled reports whether both credentials are present.
func (p OAuthProvider) Enabled() bool {
	return p.Key != "" && p.Secret != ""
}

type AuthConfig struct {
	Discord OAuthProvider `yaml:"discord"`
	Google  OAuthProvider `yaml:"google"`
}

type Config struct {
	App struct {
		Name        string `yaml:"name"`
		Environment string `yaml:"environment"`
		Port        int    `yaml:"port"`
		BaseURL     string `yaml:"base_url"`
		SessionKey  string `yaml:"-"` // Loaded from environment
	} `yaml:"app"`

	Database struct {
		Filename string `yaml:"filename"`
	} `yaml:"database"`

	Session struct {
		Lifetime time.Duration `yaml:"lifetime"`
	} `yaml:"session"`

	Auth AuthConfig `yaml:"auth"`

	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`
}

func Default() *Config {
	var cfg Config
	cfg.App.Name = "goalit"
	cfg.App.Environment = "development"
	cfg.App.Port = 8080
	cfg.App.BaseURL = "http://localhost:8080"
	cfg.Database.Filename = "data/goalit.db"
	cfg.Session.Lifetime = 24 * time.Hour
	cfg.Auth.Discord.CallbackURL = cfg.App.BaseURL + "/auth/discord/callback"
	cfg.Auth.Google.CallbackURL = cfg.App.BaseURL + "/auth/google/callback"
	cfg.Log.Level = "info"
	return &cfg
}

// Load reads the .env next to configPath and then the YAML file itself. A
// missing YAML file leaves the defaults in place.
func Load(configPath string) (*Config, error) {
	envPath := filepath.Join(filepath.Dir(configPath), ".env")
	if err := godotenv.Load(envPath); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	cfg := Default()
	data, err := os.ReadFile(configPath)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("error parsing config file: %w", err)
		}
	}

	cfg.App.SessionKey = os.Getenv("SESSION_KEY")
	cfg.Auth.Discord.Key = os.Getenv("DISCORD_KEY")
	cfg.Auth.Discord.Secret = os.Getenv("DISCORD_SECRET")
	cfg.Auth.Google.Key = os.Getenv("GOOGLE_KEY")
	cfg.Auth.Google.Secret = os.Getenv("GOOGLE_SECRET")
	if url := os.Getenv("DISCORD_CALLBACK_URL"); url != "" {
		cfg.Auth.Discord.CallbackURL = url
	}
	if url := os.Getenv("GOOGLE_CALLBACK_URL"); url != "" {
		cfg.Auth.Google.CallbackURL = url
	}
	if filename := os.Getenv("DATABASE_FILENAME"); filename != "" {
		cfg.Database.Filename = filename
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

func (c *Config) Validate() error {
	if c.App.Port <= 0 || c.App.Port > 65535 {
		return fmt.Errorf("app port %d is out of range", c.App.Port)
	}
	if c.Database.Filename == "" {
		return fmt.Errorf("database filename is required")
	}
	if c.Session.Lifetime <= 0 {
		return fmt.Errorf("session lifetime must be positive")
	}
	if c.IsProduction() && c.App.SessionKey == "" {
		return fmt.Errorf("SESSION_KEY is required in production")
	}
	return nil
}
