package adapter

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override (CINEDEX_TMDB_API_KEY, ...)
const EnvPrefix = "CINEDEX"

// Placeholder values shipped in example configs; treated as missing by Validate
const (
	PlaceholderTMDBKey    = "your_tmdb_api_key_here"
	PlaceholderOMDBKey    = "your_omdb_api_key_here"
	PlaceholderYouTubeKey = "your_youtube_api_key_here"
)

// Config holds all application configuration
type Config struct {
	TMDB    TMDBConfig    `mapstructure:"tmdb"`
	OMDB    OMDBConfig    `mapstructure:"omdb"`
	YouTube YouTubeConfig `mapstructure:"youtube"`
	HTTP    HTTPConfig    `mapstructure:"http"`
	Cache   CacheConfig   `mapstructure:"cache"`
	Storage StorageConfig `mapstructure:"storage"`
	Server  ServerConfig  `mapstructure:"server"`
	Player  PlayerConfig  `mapstructure:"player"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// TMDBConfig holds metadata provider settings
type TMDBConfig struct {
	BaseURL      string `mapstructure:"base_url"`
	APIKey       string `mapstructure:"api_key"`
	AccessToken  string `mapstructure:"access_token"` // v4 read token; sent as Bearer when set
	ImageBaseURL string `mapstructure:"image_base_url"`
	Language     string `mapstructure:"language"`
}

// OMDBConfig holds ratings provider settings
type OMDBConfig struct {
	BaseURL string `mapstructure:"base_url"`
	APIKey  string `mapstructure:"api_key"`
}

// YouTubeConfig holds video search provider settings
type YouTubeConfig struct {
	BaseURL string `mapstructure:"base_url"`
	APIKey  string `mapstructure:"api_key"`
}

// HTTPConfig holds settings shared by the provider clients
type HTTPConfig struct {
	Timeout           time.Duration `mapstructure:"timeout"`
	RequestsPerSecond float64       `mapstructure:"requests_per_second"` // 0 = unlimited
	UserAgent         string        `mapstructure:"user_agent"`
}

// CacheConfig holds response cache settings
type CacheConfig struct {
	TTL          time.Duration `mapstructure:"ttl"`
	MaxEntries   int           `mapstructure:"max_entries"`
	DiscardStale bool          `mapstructure:"discard_stale"` // drop responses older than the cached one
}

// StorageConfig holds watchlist persistence settings
type StorageConfig struct {
	Path string `mapstructure:"path"` // empty = memory only
	Slot string `mapstructure:"slot"`
}

// ServerConfig holds JSON API settings
type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

// PlayerConfig selects what opens trailer links
type PlayerConfig struct {
	Command string   `mapstructure:"command"` // empty = detect a player, then the system browser
	Args    []string `mapstructure:"args"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	File       string `mapstructure:"file"`
	Level      string `mapstructure:"level"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		TMDB: TMDBConfig{
			BaseURL:      "https://api.themoviedb.org/3",
			APIKey:       PlaceholderTMDBKey,
			ImageBaseURL: "https://image.tmdb.org/t/p",
			Language:     "en-US",
		},
		OMDB: OMDBConfig{
			BaseURL: "https://www.omdbapi.com",
			APIKey:  PlaceholderOMDBKey,
		},
		YouTube: YouTubeConfig{
			BaseURL: "https://www.googleapis.com/youtube/v3",
			APIKey:  PlaceholderYouTubeKey,
		},
		HTTP: HTTPConfig{
			Timeout:   10 * time.Second,
			UserAgent: "cinedex/1.0",
		},
		Cache: CacheConfig{
			TTL:        5 * time.Minute,
			MaxEntries: 100,
		},
		Storage: StorageConfig{
			Path: filepath.Join(defaultDataPath(), "cinedex.db"),
			Slot: "watchlist",
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
		Logging: LoggingConfig{
			File:       filepath.Join(defaultDataPath(), "cinedex.log"),
			Level:      "INFO",
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
	}
}

// defaultDataPath returns the directory for the database and logs on the current OS
func defaultDataPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("LOCALAPPDATA"), "cinedex")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "cinedex")
	}
}

// defaultConfigPath returns the default config directory for the current OS
func defaultConfigPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "cinedex")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "cinedex")
	}
}

// legacyEnv maps config keys to the bare provider variable names also accepted
// (TMDB_API_KEY etc.), checked after the prefixed name.
var legacyEnv = map[string]string{
	"tmdb.base_url":       "TMDB_BASE_URL",
	"tmdb.api_key":        "TMDB_API_KEY",
	"tmdb.access_token":   "TMDB_ACCESS_TOKEN",
	"tmdb.image_base_url": "TMDB_IMAGE_BASE_URL",
	"omdb.base_url":       "OMDB_BASE_URL",
	"omdb.api_key":        "OMDB_API_KEY",
	"youtube.api_key":     "YOUTUBE_API_KEY",
}

// LoadConfig loads configuration from .env files, the config file, and environment.
// configFile may be empty to search the default locations.
func LoadConfig(configFile string) (*Config, error) {
	// .env files never override variables already set in the environment
	_ = godotenv.Load(".env.local")
	_ = godotenv.Load(".env")

	v := viper.New()
	cfg := DefaultConfig()
	setDefaults(v, cfg)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(defaultConfigPath())
		v.AddConfigPath(".")
	}

	// Environment variable overrides
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, legacy := range legacyEnv {
		prefixed := EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if err := v.BindEnv(key, prefixed, legacy); err != nil {
			return nil, fmt.Errorf("error binding %s: %w", key, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, use defaults
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	cfg.Storage.Path = expandHome(cfg.Storage.Path)
	cfg.Logging.File = expandHome(cfg.Logging.File)

	return cfg, nil
}

// setDefaults registers every key so AutomaticEnv can override it during Unmarshal
func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("tmdb.base_url", cfg.TMDB.BaseURL)
	v.SetDefault("tmdb.api_key", cfg.TMDB.APIKey)
	v.SetDefault("tmdb.access_token", cfg.TMDB.AccessToken)
	v.SetDefault("tmdb.image_base_url", cfg.TMDB.ImageBaseURL)
	v.SetDefault("tmdb.language", cfg.TMDB.Language)

	v.SetDefault("omdb.base_url", cfg.OMDB.BaseURL)
	v.SetDefault("omdb.api_key", cfg.OMDB.APIKey)

	v.SetDefault("youtube.base_url", cfg.YouTube.BaseURL)
	v.SetDefault("youtube.api_key", cfg.YouTube.APIKey)

	v.SetDefault("http.timeout", cfg.HTTP.Timeout)
	v.SetDefault("http.requests_per_second", cfg.HTTP.RequestsPerSecond)
	v.SetDefault("http.user_agent", cfg.HTTP.UserAgent)

	v.SetDefault("cache.ttl", cfg.Cache.TTL)
	v.SetDefault("cache.max_entries", cfg.Cache.MaxEntries)
	v.SetDefault("cache.discard_stale", cfg.Cache.DiscardStale)

	v.SetDefault("storage.path", cfg.Storage.Path)
	v.SetDefault("storage.slot", cfg.Storage.Slot)

	v.SetDefault("server.addr", cfg.Server.Addr)

	v.SetDefault("player.command", cfg.Player.Command)
	v.SetDefault("player.args", cfg.Player.Args)

	v.SetDefault("logging.file", cfg.Logging.File)
	v.SetDefault("logging.level", cfg.Logging.Level)
	v.SetDefault("logging.max_size_mb", cfg.Logging.MaxSizeMB)
	v.SetDefault("logging.max_backups", cfg.Logging.MaxBackups)
	v.SetDefault("logging.max_age_days", cfg.Logging.MaxAgeDays)
}

// SaveConfig writes cfg to path, or to the default config location when path is empty.
// Returns the file written.
func SaveConfig(cfg *Config, path string) (string, error) {
	if path == "" {
		path = filepath.Join(defaultConfigPath(), "config.yaml")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	v := viper.New()
	v.Set("tmdb.base_url", cfg.TMDB.BaseURL)
	v.Set("tmdb.api_key", cfg.TMDB.APIKey)
	v.Set("tmdb.access_token", cfg.TMDB.AccessToken)
	v.Set("tmdb.image_base_url", cfg.TMDB.ImageBaseURL)
	v.Set("tmdb.language", cfg.TMDB.Language)

	v.Set("omdb.base_url", cfg.OMDB.BaseURL)
	v.Set("omdb.api_key", cfg.OMDB.APIKey)

	v.Set("youtube.base_url", cfg.YouTube.BaseURL)
	v.Set("youtube.api_key", cfg.YouTube.APIKey)

	v.Set("http.timeout", cfg.HTTP.Timeout.String())
	v.Set("http.requests_per_second", cfg.HTTP.RequestsPerSecond)
	v.Set("http.user_agent", cfg.HTTP.UserAgent)

	v.Set("cache.ttl", cfg.Cache.TTL.String())
	v.Set("cache.max_entries", cfg.Cache.MaxEntries)
	v.Set("cache.discard_stale", cfg.Cache.DiscardStale)

	v.Set("storage.path", cfg.Storage.Path)
	v.Set("storage.slot", cfg.Storage.Slot)

	v.Set("server.addr", cfg.Server.Addr)

	v.Set("player.command", cfg.Player.Command)
	v.Set("player.args", cfg.Player.Args)

	v.Set("logging.file", cfg.Logging.File)
	v.Set("logging.level", cfg.Logging.Level)
	v.Set("logging.max_size_mb", cfg.Logging.MaxSizeMB)
	v.Set("logging.max_backups", cfg.Logging.MaxBackups)
	v.Set("logging.max_age_days", cfg.Logging.MaxAgeDays)

	if err := v.WriteConfigAs(path); err != nil {
		return "", fmt.Errorf("failed to write config file: %w", err)
	}
	return path, nil
}

// Validate lists the provider settings that are missing or still set to a
// placeholder. It never fails; callers decide how to surface the list.
func (c *Config) Validate() []string {
	var problems []string

	if !usableKey(c.TMDB.APIKey, PlaceholderTMDBKey) && c.TMDB.AccessToken == "" {
		problems = append(problems, EnvPrefix+"_TMDB_API_KEY is missing or invalid")
	}
	if !usableKey(c.OMDB.APIKey, PlaceholderOMDBKey) {
		problems = append(problems, EnvPrefix+"_OMDB_API_KEY is missing or invalid")
	}
	if !usableKey(c.YouTube.APIKey, PlaceholderYouTubeKey) {
		problems = append(problems, EnvPrefix+"_YOUTUBE_API_KEY is missing or invalid")
	}
	for _, u := range []struct{ name, value string }{
		{EnvPrefix + "_TMDB_BASE_URL", c.TMDB.BaseURL},
		{EnvPrefix + "_OMDB_BASE_URL", c.OMDB.BaseURL},
		{EnvPrefix + "_YOUTUBE_BASE_URL", c.YouTube.BaseURL},
	} {
		if !strings.HasPrefix(u.value, "http://") && !strings.HasPrefix(u.value, "https://") {
			problems = append(problems, u.name+" is missing or invalid")
		}
	}

	return problems
}

// IsConfigured returns true if no provider setting needs attention
func (c *Config) IsConfigured() bool {
	return len(c.Validate()) == 0
}

func usableKey(key, placeholder string) bool {
	key = strings.TrimSpace(key)
	return key != "" && key != placeholder
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
