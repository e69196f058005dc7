package shared

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

//go:embed config.example.toml
var exampleConf []byte

// PlaceholderAPIKey is the value shipped in the example config. It is treated as a missing credential.
const PlaceholderAPIKey = "YOUR_TMDB_API_KEY_HERE"

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Credentials CredentialsConfig `toml:"credentials"`
	Storage     StorageConfig     `toml:"storage"`
	UI          UIConfig          `toml:"ui"`
}

// CredentialsConfig contains service-specific credentials.
type CredentialsConfig struct {
	TMDB TMDBConfig `toml:"tmdb"`
}

// TMDBConfig contains The Movie Database API credentials and endpoints.
//
// Either APIKey (v3, sent as the api_key query parameter) or AccessToken (v4 read access token, sent as a bearer token) must be set.
type TMDBConfig struct {
	APIKey       string `toml:"api_key"`
	AccessToken  string `toml:"access_token"`
	BaseURL      string `toml:"base_url"`
	ImageBaseURL string `toml:"image_base_url"`
	Language     string `toml:"language"` // used when no language preference is saved
}

// HasCredentials reports whether a usable credential is configured.
func (c TMDBConfig) HasCredentials() bool {
	if c.AccessToken != "" {
		return true
	}
	return c.APIKey != "" && c.APIKey != PlaceholderAPIKey
}

// StorageConfig contains key-value store settings.
type StorageConfig struct {
	Backend      string `toml:"backend"` // sqlite, badger or memory
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
	HistoryLimit int    `toml:"history_limit"`
}

// UIConfig contains terminal interface timings and limits.
type UIConfig struct {
	HeroInterval   Duration `toml:"hero_interval"`
	HeroSlides     int      `toml:"hero_slides"`
	SearchDebounce Duration `toml:"search_debounce"`
	SearchLimit    int      `toml:"search_limit"`
	LogFile        string   `toml:"log_file"`
}

// Duration wraps [time.Duration] so it can be written as "5s" in TOML.
type Duration struct {
	time.Duration
}

// UnmarshalText parses a duration string such as "300ms".
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	d.Duration = parsed
	return nil
}

// MarshalText renders the duration in [time.Duration.String] form.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Values missing from the file keep the embedded defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
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

// ApplyEnv loads an optional dotenv file and overrides credentials and storage settings from the environment.
//
// A missing dotenv file is not an error.
func (c *Config) ApplyEnv(dotenvPath string) error {
	if dotenvPath != "" {
		if err := godotenv.Load(dotenvPath); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to load %s: %w", dotenvPath, err)
		}
	}

	if v := os.Getenv("TMDB_API_KEY"); v != "" {
		c.Credentials.TMDB.APIKey = v
	}
	if v := os.Getenv("TMDB_ACCESS_TOKEN"); v != "" {
		c.Credentials.TMDB.AccessToken = v
	}
	if v := os.Getenv("FLIX_STORAGE_BACKEND"); v != "" {
		c.Storage.Backend = v
	}
	if v := os.Getenv("FLIX_STORAGE_PATH"); v != "" {
		c.Storage.Path = v
	}
	return nil
}
