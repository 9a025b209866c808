// Package config loads and validates engine configuration via Viper.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config captures all engine configuration knobs loaded via Viper.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Fetch    FetchConfig    `mapstructure:"fetch"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Crawl    CrawlConfig    `mapstructure:"crawl"`
	Sources  SourcesConfig  `mapstructure:"sources"`
	Features FeaturesConfig `mapstructure:"features"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// ServerConfig controls the protocol server.
type ServerConfig struct {
	Port int `mapstructure:"port"`
}

// FetchConfig configures the polite HTTP fetcher.
type FetchConfig struct {
	TimeoutSeconds int     `mapstructure:"timeout_seconds"`
	DelayMillis    int     `mapstructure:"delay_millis"`
	PerHostRPS     float64 `mapstructure:"per_host_rps"`
	PerHostBurst   int     `mapstructure:"per_host_burst"`
	UserAgent      string  `mapstructure:"user_agent"`
}

// CacheConfig bounds how long a source's crawl result stays fresh.
type CacheConfig struct {
	TTLSeconds int `mapstructure:"ttl_seconds"`
}

// CrawlConfig sets default crawl bounds; callers may override per query.
type CrawlConfig struct {
	MaxPages       int `mapstructure:"max_pages"`
	PerSourceLimit int `mapstructure:"per_source_limit"`
}

// SourcesConfig enables or disables individual source crawlers.
type SourcesConfig struct {
	HackerNews     bool `mapstructure:"hackernews"`
	HNJobs         bool `mapstructure:"hnjobs"`
	YCombinator    bool `mapstructure:"ycombinator"`
	WorkAtAStartup bool `mapstructure:"workatastartup"`
}

// FeaturesConfig gates which resources/tools the protocol server registers.
type FeaturesConfig struct {
	Jobs   bool `mapstructure:"jobs"`
	Stream bool `mapstructure:"stream"`
	Parse  bool `mapstructure:"parse"`
}

// LoggingConfig toggles zap development features.
type LoggingConfig struct {
	Development bool `mapstructure:"development"`
}

// Load builds a Config from disk/environment.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("JOBBOARD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8093)
	v.SetDefault("fetch.timeout_seconds", 30)
	v.SetDefault("fetch.delay_millis", 150)
	v.SetDefault("fetch.per_host_rps", 2.0)
	v.SetDefault("fetch.per_host_burst", 1)
	v.SetDefault("fetch.user_agent",
		"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0 Safari/537.36")
	v.SetDefault("cache.ttl_seconds", 3600)
	v.SetDefault("crawl.max_pages", 2)
	v.SetDefault("crawl.per_source_limit", 100)
	v.SetDefault("sources.hackernews", true)
	v.SetDefault("sources.hnjobs", true)
	v.SetDefault("sources.ycombinator", true)
	v.SetDefault("sources.workatastartup", true)
	v.SetDefault("features.jobs", true)
	v.SetDefault("features.stream", true)
	v.SetDefault("features.parse", true)
	v.SetDefault("logging.development", false)
}

// Validate enforces required values and reasonable limits.
func (c Config) Validate() error {
	if c.Server.Port <= 0 {
		return fmt.Errorf("server.port must be > 0")
	}
	if c.Fetch.TimeoutSeconds <= 0 {
		return fmt.Errorf("fetch.timeout_seconds must be > 0")
	}
	if c.Fetch.PerHostRPS <= 0 {
		return fmt.Errorf("fetch.per_host_rps must be > 0")
	}
	if c.Cache.TTLSeconds <= 0 {
		return fmt.Errorf("cache.ttl_seconds must be > 0")
	}
	if c.Crawl.MaxPages <= 0 {
		return fmt.Errorf("crawl.max_pages must be > 0")
	}
	if c.Crawl.PerSourceLimit <= 0 {
		return fmt.Errorf("crawl.per_source_limit must be > 0")
	}
	return nil
}

// FetchTimeout converts the configured timeout into a duration.
func (c Config) FetchTimeout() time.Duration {
	return time.Duration(c.Fetch.TimeoutSeconds) * time.Second
}

// FetchDelay is the advisory inter-request pause.
func (c Config) FetchDelay() time.Duration {
	return time.Duration(c.Fetch.DelayMillis) * time.Millisecond
}

// CacheTTL converts the configured TTL into a duration.
func (c Config) CacheTTL() time.Duration {
	return time.Duration(c.Cache.TTLSeconds) * time.Second
}
