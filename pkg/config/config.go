package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Environment string `yaml:"environment"`
	Server      struct {
		Port            int           `yaml:"port"`
		ReadTimeout     time.Duration `yaml:"read_timeout"`
		WriteTimeout    time.Duration `yaml:"write_timeout"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	} `yaml:"server"`
	AI struct {
		BaseURL      string `yaml:"base_url"`
		APIKey       string `yaml:"api_key"`
		SettingsPath string `yaml:"settings_path"`
	} `yaml:"ai"`
	Feeds struct {
		RSSURLs         []string      `yaml:"rss_urls"`
		RefreshInterval time.Duration `yaml:"refresh_interval"`
		MaxItems        int           `yaml:"max_items"`
		Timeout         time.Duration `yaml:"timeout"`
	} `yaml:"feeds"`
	Quotes struct {
		FastForexKey    string        `yaml:"fastforex_key"`
		ExchangeRateKey string        `yaml:"exchangerate_key"`
		RefreshInterval time.Duration `yaml:"refresh_interval"`
		Timeout         time.Duration `yaml:"timeout"`
	} `yaml:"quotes"`
	Calendar struct {
		URLs    []string      `yaml:"urls"`
		Timeout time.Duration `yaml:"timeout"`
	} `yaml:"calendar"`
	Translate struct {
		Enabled  bool          `yaml:"enabled"`
		BaseURL  string        `yaml:"base_url"`
		Email    string        `yaml:"email"`
		Interval time.Duration `yaml:"interval"`
		CacheTTL time.Duration `yaml:"cache_ttl"`
	} `yaml:"translate"`
	Redis struct {
		Enabled  bool   `yaml:"enabled"`
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`
	Kafka struct {
		Enabled      bool     `yaml:"enabled"`
		Brokers      []string `yaml:"brokers"`
		Topic        string   `yaml:"topic"`
		RequiredAcks int      `yaml:"required_acks"`
		Compression  string   `yaml:"compression"`
		Producer     struct {
			MaxAttempts  int           `yaml:"max_attempts"`
			Linger       time.Duration `yaml:"linger"`
			BatchBytes   int           `yaml:"batch_bytes"`
			BatchSize    int           `yaml:"batch_size"`
			WriteTimeout time.Duration `yaml:"write_timeout"`
			ReadTimeout  time.Duration `yaml:"read_timeout"`
			Async        bool          `yaml:"async"`
		} `yaml:"producer"`
	} `yaml:"kafka"`
	Logs struct {
		BufferSize int `yaml:"buffer_size"`
	} `yaml:"logs"`
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

	c.applyDefaults()

	if err := c.Validate(); err != nil {
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

	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		c.AI.APIKey = v
	}
	if v := os.Getenv("OPENAI_BASE_URL"); v != "" {
		c.AI.BaseURL = v
	}
	if v := os.Getenv("FASTFOREX_API_KEY"); v != "" {
		c.Quotes.FastForexKey = v
	}
	if v := os.Getenv("EXCHANGERATE_API_KEY"); v != "" {
		c.Quotes.ExchangeRateKey = v
	}
	if v := os.Getenv("RSS_URLS"); v != "" {
		c.Feeds.RSSURLs = strings.Split(v, ",")
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Redis.Addr = v
		c.Redis.Enabled = true
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = strings.Split(v, ",")
		c.Kafka.Enabled = true
	}
	if v := os.Getenv("KAFKA_TOPIC"); v != "" {
		c.Kafka.Topic = v
	}

	return c, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 10 * time.Second
	}
	if c.AI.SettingsPath == "" {
		c.AI.SettingsPath = "data/settings.json"
	}
	if c.Feeds.RefreshInterval == 0 {
		c.Feeds.RefreshInterval = 5 * time.Minute
	}
	if c.Feeds.MaxItems == 0 {
		c.Feeds.MaxItems = 10
	}
	if c.Feeds.Timeout == 0 {
		c.Feeds.Timeout = 15 * time.Second
	}
	if c.Quotes.RefreshInterval == 0 {
		c.Quotes.RefreshInterval = time.Minute
	}
	if c.Quotes.Timeout == 0 {
		c.Quotes.Timeout = 10 * time.Second
	}
	if c.Calendar.Timeout == 0 {
		c.Calendar.Timeout = 15 * time.Second
	}
	if c.Translate.BaseURL == "" {
		c.Translate.BaseURL = "https://api.mymemory.translated.net"
	}
	if c.Translate.Interval == 0 {
		c.Translate.Interval = time.Second
	}
	if c.Translate.CacheTTL == 0 {
		c.Translate.CacheTTL = 24 * time.Hour
	}
	if c.Logs.BufferSize == 0 {
		c.Logs.BufferSize = 500
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if len(c.Feeds.RSSURLs) == 0 {
		return fmt.Errorf("feeds.rss_urls cannot be empty")
	}
	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("kafka.brokers is required when kafka is enabled")
	}
	if c.Redis.Enabled && c.Redis.Addr == "" {
		return fmt.Errorf("redis.addr is required when redis is enabled")
	}
	return nil
}
