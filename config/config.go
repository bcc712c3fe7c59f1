package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the assistant service
type Config struct {
	General   GeneralConfig   `mapstructure:"general"`
	Server    ServerConfig    `mapstructure:"server"`
	LLM       LLMConfig       `mapstructure:"llm"`
	Feeds     FeedsConfig     `mapstructure:"feeds"`
	Digest    DigestConfig    `mapstructure:"digest"`
	Schedule  ScheduleConfig  `mapstructure:"schedule"`
	Search    SearchConfig    `mapstructure:"search"`
	Telegram  TelegramConfig  `mapstructure:"telegram"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

// GeneralConfig contains general application settings
type GeneralConfig struct {
	Debug          bool          `mapstructure:"debug"`
	LogLevel       string        `mapstructure:"log_level"`
	DefaultTimeout time.Duration `mapstructure:"default_timeout"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Address string `mapstructure:"address"`
}

func (s ServerConfig) Validate() error {
	if strings.TrimSpace(s.Address) == "" {
		return fmt.Errorf("server.address is required")
	}
	return nil
}

// LLMConfig contains the oracle endpoint settings. BaseURL accepts any
// OpenAI-compatible chat-completions endpoint (OpenAI, LM Studio, vLLM).
type LLMConfig struct {
	BaseURL      string        `mapstructure:"base_url"`
	APIKey       string        `mapstructure:"api_key"`
	Model        string        `mapstructure:"model"`
	MaxTokens    int           `mapstructure:"max_tokens"`
	Timeout      time.Duration `mapstructure:"timeout"`
	SystemPrompt string        `mapstructure:"system_prompt"`
}

func (l LLMConfig) Validate() error {
	if strings.TrimSpace(l.BaseURL) == "" {
		return fmt.Errorf("llm.base_url is required")
	}
	if strings.TrimSpace(l.Model) == "" {
		return fmt.Errorf("llm.model is required")
	}
	return nil
}

// FeedsConfig configures the feed reader used for channel content.
type FeedsConfig struct {
	Provider string `mapstructure:"provider"` // newsapi
	APIKey   string `mapstructure:"api_key"`
	Endpoint string `mapstructure:"endpoint"`
}

func (f FeedsConfig) Validate() error {
	switch f.Provider {
	case "", "newsapi":
	default:
		return fmt.Errorf("feeds.provider %q is not supported", f.Provider)
	}
	return nil
}

// DigestConfig bounds the budgeting stage and names delivery targets.
type DigestConfig struct {
	MaxItems        int      `mapstructure:"max_items"`
	MaxCharsPerItem int      `mapstructure:"max_chars_per_item"`
	WindowHours     int      `mapstructure:"window_hours"`
	Recipients      []string `mapstructure:"recipients"`
}

// ScheduleConfig holds the two daily digest triggers.
type ScheduleConfig struct {
	Morning  string `mapstructure:"morning"`  // "08:00"
	Evening  string `mapstructure:"evening"`  // "20:00"
	Timezone string `mapstructure:"timezone"` // IANA name
}

func (s ScheduleConfig) Validate() error {
	for _, v := range []string{s.Morning, s.Evening} {
		if v == "" {
			continue
		}
		var h, m int
		if _, err := fmt.Sscanf(v, "%d:%d", &h, &m); err != nil {
			return fmt.Errorf("schedule time %q must be HH:MM: %w", v, err)
		}
		if h < 0 || h > 23 || m < 0 || m > 59 {
			return fmt.Errorf("schedule time %q out of range", v)
		}
	}
	if _, err := time.LoadLocation(s.Location()); err != nil {
		return fmt.Errorf("schedule.timezone: %w", err)
	}
	return nil
}

func (s ScheduleConfig) Location() string {
	if s.Timezone == "" {
		return "UTC"
	}
	return s.Timezone
}

// SearchConfig selects a web search provider.
type SearchConfig struct {
	Provider string `mapstructure:"provider"` // brave or serper
	APIKey   string `mapstructure:"api_key"`
}

// TelegramConfig configures outbound delivery via the Bot API.
type TelegramConfig struct {
	BotToken string `mapstructure:"bot_token"`
}

// StorageConfig contains storage and persistence settings
type StorageConfig struct {
	Postgres PostgresConfig `mapstructure:"postgres"`
	Redis    RedisConfig    `mapstructure:"redis"`
}

// PostgresConfig contains Postgres connection settings
type PostgresConfig struct {
	URL      string        `mapstructure:"url"`
	Host     string        `mapstructure:"host"`
	Port     string        `mapstructure:"port"`
	User     string        `mapstructure:"user"`
	Password string        `mapstructure:"password"`
	DBName   string        `mapstructure:"dbname"`
	SSLMode  string        `mapstructure:"sslmode"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

func (p PostgresConfig) Validate() error {
	if p.URL != "" {
		return nil
	}
	if p.Host == "" || p.DBName == "" {
		return fmt.Errorf("storage.postgres needs url or host+dbname")
	}
	return nil
}

// ConnString builds a lib/pq connection string from the configured parts.
func (p PostgresConfig) ConnString() string {
	if p.URL != "" {
		return p.URL
	}
	sslmode := p.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.DBName, sslmode)
}

// RedisConfig contains Redis connection settings
type RedisConfig struct {
	Host     string        `mapstructure:"host"`
	Port     string        `mapstructure:"port"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

func (r RedisConfig) Addr() string {
	host := r.Host
	if host == "" {
		host = "localhost"
	}
	port := r.Port
	if port == "" {
		port = "6379"
	}
	return host + ":" + port
}

// TelemetryConfig contains metrics settings
type TelemetryConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

func setDefaults() {
	viper.SetDefault("general.log_level", "info")
	viper.SetDefault("general.default_timeout", 30*time.Second)
	viper.SetDefault("server.address", ":10010")
	viper.SetDefault("llm.base_url", "http://127.0.0.1:1234/v1")
	viper.SetDefault("llm.model", "llama-3.1-8b-instruct")
	viper.SetDefault("llm.max_tokens", 4096)
	viper.SetDefault("llm.timeout", 120*time.Second)
	viper.SetDefault("llm.system_prompt", "You are Herald, a helpful assistant. Be concise.")
	viper.SetDefault("feeds.provider", "newsapi")
	viper.SetDefault("feeds.endpoint", "https://newsapi.org/v2/everything")
	viper.SetDefault("digest.max_items", 50)
	viper.SetDefault("digest.max_chars_per_item", 300)
	viper.SetDefault("digest.window_hours", 24)
	viper.SetDefault("schedule.morning", "08:00")
	viper.SetDefault("schedule.evening", "20:00")
	viper.SetDefault("schedule.timezone", "UTC")
	viper.SetDefault("search.provider", "brave")
	viper.SetDefault("telemetry.enabled", true)
}

// LoadConfig reads the config file (herald.yaml in cfgPath or the working
// directory), applies HERALD_* environment overrides and validates every
// section. Configuration faults are fatal at startup.
func LoadConfig(cfgPath string) *Config {
	setDefaults()

	viper.SetConfigName("herald")
	viper.SetConfigType("yaml")
	if cfgPath != "" {
		viper.AddConfigPath(cfgPath)
	}
	viper.AddConfigPath(".")

	viper.SetEnvPrefix("HERALD")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			panic(fmt.Errorf("fatal error config file: %w", err))
		}
		// defaults + env only
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		panic(fmt.Errorf("fatal error config file: %w", err))
	}

	if err := config.Server.Validate(); err != nil {
		panic(err)
	}
	if err := config.LLM.Validate(); err != nil {
		panic(err)
	}
	if err := config.Feeds.Validate(); err != nil {
		panic(err)
	}
	if err := config.Schedule.Validate(); err != nil {
		panic(err)
	}
	return &config
}
