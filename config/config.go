// Package config loads the application configuration from an optional JSON
// file plus CRYPTOSCOUT_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the research pipeline
type Config struct {
	General      GeneralConfig      `mapstructure:"general"`
	Server       ServerConfig       `mapstructure:"server"`
	LLM          LLMConfig          `mapstructure:"llm"`
	Search       SearchConfig       `mapstructure:"search"`
	Scraper      ScraperConfig      `mapstructure:"scraper"`
	Market       MarketConfig       `mapstructure:"market"`
	ContextStore ContextStoreConfig `mapstructure:"context_store"`
	Telemetry    TelemetryConfig    `mapstructure:"telemetry"`
}

// GeneralConfig contains general application settings
type GeneralConfig struct {
	Debug          bool          `mapstructure:"debug"`
	DefaultTimeout time.Duration `mapstructure:"default_timeout"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Address string `mapstructure:"address"`
}

// LLMConfig selects the model used for expansion and synthesis
type LLMConfig struct {
	Provider    string        `mapstructure:"provider"`
	APIKey      string        `mapstructure:"api_key"`
	Model       string        `mapstructure:"model"`
	Temperature float64       `mapstructure:"temperature"`
	MaxTokens   int           `mapstructure:"max_tokens"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

// SearchConfig selects the web search backend
type SearchConfig struct {
	Provider string `mapstructure:"provider"` // serper or brave
	APIKey   string `mapstructure:"api_key"`
}

// ScraperConfig tunes the multi-strategy scraper
type ScraperConfig struct {
	BatchSize       int           `mapstructure:"batch_size"`
	InterBatchDelay time.Duration `mapstructure:"inter_batch_delay"`
	StaticTimeout   time.Duration `mapstructure:"static_timeout"`
	BrowserTimeout  time.Duration `mapstructure:"browser_timeout"`
	DisableBrowser  bool          `mapstructure:"disable_browser"`
}

// MarketConfig configures the asset catalog and quote source
type MarketConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	BaseURL string        `mapstructure:"base_url"`
	APIKey  string        `mapstructure:"api_key"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// ContextStoreConfig selects where scraped documents are persisted
type ContextStoreConfig struct {
	Backend string      `mapstructure:"backend"` // none, memory or redis
	Redis   RedisConfig `mapstructure:"redis"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// TelemetryConfig controls the metrics endpoint
type TelemetryConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

func (c SearchConfig) Validate() error {
	switch c.Provider {
	case "serper", "brave":
	default:
		return fmt.Errorf("search.provider must be serper or brave, got %q", c.Provider)
	}
	if c.APIKey == "" {
		return errors.New("search.api_key is required")
	}
	return nil
}

func (c LLMConfig) Validate() error {
	if c.APIKey == "" {
		return errors.New("llm.api_key is required")
	}
	return nil
}

func (c ContextStoreConfig) Validate() error {
	switch c.Backend {
	case "", "none", "memory":
		return nil
	case "redis":
		if c.Redis.Addr == "" {
			return errors.New("context_store.redis.addr is required for the redis backend")
		}
		return nil
	default:
		return fmt.Errorf("context_store.backend must be none, memory or redis, got %q", c.Backend)
	}
}

// LoadConfig reads configuration from the given file, or from the usual
// search paths when path is empty. A missing file is fine; env vars and
// defaults cover everything. Invalid configuration panics.
func LoadConfig(path string) *Config {
	viper.SetConfigName("config")
	viper.SetConfigType("json")

	viper.SetDefault("general.debug", false)
	viper.SetDefault("general.default_timeout", "5m")
	viper.SetDefault("server.address", ":8080")
	viper.SetDefault("llm.provider", "openai")
	viper.SetDefault("llm.model", "gpt-4o-mini")
	viper.SetDefault("llm.temperature", 0.2)
	viper.SetDefault("llm.max_tokens", 4096)
	viper.SetDefault("llm.timeout", "90s")
	viper.SetDefault("search.provider", "serper")
	viper.SetDefault("scraper.batch_size", 4)
	viper.SetDefault("scraper.inter_batch_delay", "500ms")
	viper.SetDefault("scraper.static_timeout", "12s")
	viper.SetDefault("scraper.browser_timeout", "15s")
	viper.SetDefault("market.enabled", true)
	viper.SetDefault("market.base_url", "https://api.coingecko.com/api/v3")
	viper.SetDefault("market.timeout", "15s")
	viper.SetDefault("context_store.backend", "memory")
	viper.SetDefault("context_store.redis.addr", "localhost:6379")
	viper.SetDefault("telemetry.enabled", true)

	if path == "" {
		viper.AddConfigPath("./config")
		viper.AddConfigPath(".")
		exe, _ := os.Executable()
		exeDir := filepath.Dir(exe)
		viper.AddConfigPath(exeDir)
		viper.AddConfigPath(filepath.Join(exeDir, ".."))
	} else {
		viper.SetConfigFile(path)
	}

	viper.SetEnvPrefix("CRYPTOSCOUT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			panic(fmt.Errorf("fatal error config file: %w", err))
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		panic(fmt.Errorf("fatal error config file: %w", err))
	}

	// Bare provider keys beat nothing: fall back to the conventional env
	// vars when the CRYPTOSCOUT_* ones are unset.
	if config.LLM.APIKey == "" {
		config.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	if config.Search.APIKey == "" {
		switch config.Search.Provider {
		case "brave":
			config.Search.APIKey = os.Getenv("BRAVE_API_KEY")
		default:
			config.Search.APIKey = os.Getenv("SERPER_API_KEY")
		}
	}
	if config.Market.APIKey == "" {
		config.Market.APIKey = os.Getenv("COINGECKO_API_KEY")
	}

	if err := config.LLM.Validate(); err != nil {
		panic(err)
	}
	if err := config.Search.Validate(); err != nil {
		panic(err)
	}
	if err := config.ContextStore.Validate(); err != nil {
		panic(err)
	}
	return &config
}
