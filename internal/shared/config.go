package shared

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Environment variables read by [Config.ApplyEnv].
const (
	EnvTwitchClientID     = "twitch_client_id"
	EnvTwitchClientSecret = "twitch_client_secret"
	EnvYouTubeAPIKey      = "youtube_api_key"
)

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Credentials CredentialsConfig `toml:"credentials"`
	Database    DatabaseConfig    `toml:"database"`
	Server      ServerConfig      `toml:"server"`
	Storage     StorageConfig     `toml:"storage"`
	Chat        ChatConfig        `toml:"chat"`
	Lookup      LookupConfig      `toml:"lookup"`
}

// CredentialsConfig contains service-specific credentials.
type CredentialsConfig struct {
	Twitch  TwitchConfig  `toml:"twitch"`
	YouTube YouTubeConfig `toml:"youtube"`
}

// TwitchConfig contains Twitch application credentials used for the client credentials grant.
type TwitchConfig struct {
	ClientID     string `toml:"client_id"`
	ClientSecret string `toml:"client_secret"`
}

// YouTubeConfig contains the YouTube Data API key.
type YouTubeConfig struct {
	APIKey string `toml:"api_key"`
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host        string   `toml:"host"`
	Port        int      `toml:"port"`
	CORSOrigins []string `toml:"cors_origins"`
}

// Addr returns the host:port listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// StorageConfig contains settings for the local and session key/value storage.
type StorageConfig struct {
	DisplayNameLimit int    `toml:"display_name_limit"`
	Session          string `toml:"session"`
}

// ChatConfig contains settings for embedded chat frames.
type ChatConfig struct {
	Host     string `toml:"host"`
	DarkMode bool   `toml:"dark_mode"`
}

// LookupConfig contains settings for the streamer lookup service.
type LookupConfig struct {
	CacheSize int           `toml:"cache_size"`
	CacheTTL  time.Duration `toml:"cache_ttl"`
	RateLimit float64       `toml:"rate_limit"`
	Burst     int           `toml:"burst"`
	Workers   int           `toml:"workers"`
	Timeout   time.Duration `toml:"timeout"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrMissingConfig, path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("%w: failed to parse config: %v", ErrInvalidConfig, err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// Validate reports values that would make the application misbehave.
func (c *Config) Validate() error {
	if c.Storage.DisplayNameLimit <= 0 {
		return fmt.Errorf("%w: storage.display_name_limit must be positive", ErrInvalidConfig)
	}
	if c.Lookup.CacheSize <= 0 {
		return fmt.Errorf("%w: lookup.cache_size must be positive", ErrInvalidConfig)
	}
	if c.Lookup.CacheTTL <= 0 {
		return fmt.Errorf("%w: lookup.cache_ttl must be positive", ErrInvalidConfig)
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("%w: server.port out of range", ErrInvalidConfig)
	}
	return nil
}

// ApplyEnv overrides credentials with the environment variables used by the hosted deployment.
//
// Unset variables leave the configured values untouched.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if getenv == nil {
		getenv = os.Getenv
	}
	if v := getenv(EnvTwitchClientID); v != "" {
		c.Credentials.Twitch.ClientID = v
	}
	if v := getenv(EnvTwitchClientSecret); v != "" {
		c.Credentials.Twitch.ClientSecret = v
	}
	if v := getenv(EnvYouTubeAPIKey); v != "" {
		c.Credentials.YouTube.APIKey = v
	}
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
