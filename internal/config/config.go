package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/go-homedir"
	"github.com/pbaille/nomi/internal/companion"
	"github.com/spf13/viper"
)

type CompanionConfig struct {
	Endpoint  string        `mapstructure:"endpoint"`
	Model     string        `mapstructure:"model"`
	MaxTokens int           `mapstructure:"max_tokens"`
	APIKey    string        `mapstructure:"api_key"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

type ServerConfig struct {
	Addr string `mapstructure:"addr"`
	CORS bool   `mapstructure:"cors"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // console or json
}

type Config struct {
	DataDir   string          `mapstructure:"data_dir"`
	Backend   string          `mapstructure:"backend"` // diskv or sqlite
	Companion CompanionConfig `mapstructure:"companion"`
	Server    ServerConfig    `mapstructure:"server"`
	Log       LogConfig       `mapstructure:"log"`
}

func Default() Config {
	return Config{
		DataDir: "~/.local/share/nomi",
		Backend: "diskv",
		Companion: CompanionConfig{
			Endpoint:  companion.DefaultEndpoint,
			Model:     companion.DefaultModel,
			MaxTokens: companion.DefaultMaxTokens,
			Timeout:   60 * time.Second,
		},
		Server: ServerConfig{Addr: ":8080", CORS: true},
		Log:    LogConfig{Level: "info", Format: "console"},
	}
}

// DefaultPath is ~/.config/nomi/config.yaml.
func DefaultPath() (string, error) {
	home, err := homedir.Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "nomi", "config.yaml"), nil
}

// Load reads path (DefaultPath when empty), then NOMI_* environment
// variables. A missing file is fine. A .env file in the working directory is
// loaded into the environment first.
func Load(path string) (Config, error) {
	_ = godotenv.Load()

	cfg := Default()
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix("NOMI")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// defaults
	v.SetDefault("data_dir", cfg.DataDir)
	v.SetDefault("backend", cfg.Backend)
	v.SetDefault("companion.endpoint", cfg.Companion.Endpoint)
	v.SetDefault("companion.model", cfg.Companion.Model)
	v.SetDefault("companion.max_tokens", cfg.Companion.MaxTokens)
	v.SetDefault("companion.api_key", "")
	v.SetDefault("companion.timeout", cfg.Companion.Timeout)
	v.SetDefault("server.addr", cfg.Server.Addr)
	v.SetDefault("server.cors", cfg.Server.CORS)
	v.SetDefault("log.level", cfg.Log.Level)
	v.SetDefault("log.format", cfg.Log.Format)

	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return cfg, err
		}
		path = p
	}
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		// ok if the default file is missing
		if _, statErr := os.Stat(path); explicit || statErr == nil {
			return cfg, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("config unmarshal: %w", err)
	}

	if cfg.Companion.APIKey == "" {
		cfg.Companion.APIKey = os.Getenv("ANTHROPIC_API_KEY")
	}

	dir, err := homedir.Expand(cfg.DataDir)
	if err != nil {
		return cfg, fmt.Errorf("expand data_dir: %w", err)
	}
	cfg.DataDir = dir
	cfg.Backend = strings.ToLower(strings.TrimSpace(cfg.Backend))

	return cfg, cfg.Validate()
}

// Validate checks the settings that would otherwise fail late.
func (c Config) Validate() error {
	switch c.Backend {
	case "diskv", "sqlite":
	default:
		return fmt.Errorf("backend must be diskv or sqlite, got %q", c.Backend)
	}
	if c.DataDir == "" {
		return fmt.Errorf("data_dir is required")
	}
	if c.Companion.Endpoint == "" {
		return fmt.Errorf("companion.endpoint is required")
	}
	if c.Companion.MaxTokens <= 0 {
		return fmt.Errorf("companion.max_tokens must be positive")
	}
	return nil
}

// CompanionClient converts the companion section into a client config.
func (c Config) CompanionClient() companion.Config {
	return companion.Config{
		Endpoint:  c.Companion.Endpoint,
		Model:     c.Companion.Model,
		MaxTokens: c.Companion.MaxTokens,
		APIKey:    c.Companion.APIKey,
		Timeout:   c.Companion.Timeout,
	}
}
