package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the config file name used when no path is given
const DefaultConfigFile = "picfetch.yaml"

var (
	// ErrNoConfig indicates that no config file exists yet
	ErrNoConfig = errors.New("no config file found, you must create config first")

	// ErrNoKey indicates that the config file exists but no access key is filled in
	ErrNoKey = errors.New("no key is provided, please fill in your access key")
)

// Config holds all configuration options for the batch pipeline
type Config struct {
	// Unsplash API credentials
	Unsplash UnsplashConfig `yaml:"unsplash" json:"unsplash"`

	// Metadata fetch settings
	Fetch FetchConfig `yaml:"fetch" json:"fetch"`

	// Output directories
	Output OutputConfig `yaml:"output" json:"output"`

	// Image download settings
	Download DownloadConfig `yaml:"download" json:"download"`

	// Thumbnail settings
	Thumbnail ThumbnailConfig `yaml:"thumbnail" json:"thumbnail"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// UnsplashConfig holds the API credential pair
type UnsplashConfig struct {
	AccessKey string `yaml:"access_key" json:"access_key"`
	SecretKey string `yaml:"secret_key" json:"secret_key"`
}

// FetchConfig holds metadata fetch settings
type FetchConfig struct {
	// PageSize is the number of photos requested per API call
	PageSize int `yaml:"page_size" json:"page_size"`

	// TotalBudget is the maximum number of photos fetched per session
	TotalBudget int `yaml:"total_budget" json:"total_budget"`

	// BaseURL overrides the API base URL (used in tests)
	BaseURL string `yaml:"base_url" json:"base_url"`

	// AcceptVersion is the API version sent in the Accept-Version header
	AcceptVersion string `yaml:"accept_version" json:"accept_version"`
}

// OutputConfig holds the on-disk layout
type OutputConfig struct {
	// DataDir holds the data_<timestamp>.json batch files
	DataDir string `yaml:"data_dir" json:"data_dir"`

	// ImagesDir holds downloaded images and their thumbnails
	ImagesDir string `yaml:"images_dir" json:"images_dir"`
}

// DownloadConfig holds image download settings
type DownloadConfig struct {
	// Quality is the URL tier to download: raw | full | regular | small | thumb
	Quality string `yaml:"quality" json:"quality"`

	// Timeout bounds every HTTP request
	Timeout time.Duration `yaml:"timeout" json:"timeout"`
}

// ThumbnailConfig holds derivative image settings
type ThumbnailConfig struct {
	MaxWidth  int `yaml:"max_width" json:"max_width"`
	MaxHeight int `yaml:"max_height" json:"max_height"`

	// MaxPixels rejects images above this pixel count when > 0.
	// Zero means no limit; arbitrarily large images are processed.
	MaxPixels int64 `yaml:"max_pixels" json:"max_pixels"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string `yaml:"level" json:"level"`
	File  string `yaml:"file" json:"file"`
}

// DefaultConfig returns a Config instance with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Fetch: FetchConfig{
			PageSize:      30,
			TotalBudget:   1500,
			BaseURL:       "https://api.unsplash.com",
			AcceptVersion: "v1",
		},
		Output: OutputConfig{
			DataDir:   filepath.Join("data", "json"),
			ImagesDir: filepath.Join("data", "images"),
		},
		Download: DownloadConfig{
			Quality: "regular",
			Timeout: 60 * time.Second,
		},
		Thumbnail: ThumbnailConfig{
			MaxWidth:  128,
			MaxHeight: 128,
			MaxPixels: 0,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// LoadFromEnv loads configuration from environment variables
func (c *Config) LoadFromEnv() error {
	if accessKey := os.Getenv("PICFETCH_ACCESS_KEY"); accessKey != "" {
		c.Unsplash.AccessKey = accessKey
	}
	if secretKey := os.Getenv("PICFETCH_SECRET_KEY"); secretKey != "" {
		c.Unsplash.SecretKey = secretKey
	}
	if dataDir := os.Getenv("PICFETCH_DATA_DIR"); dataDir != "" {
		c.Output.DataDir = dataDir
	}
	if imagesDir := os.Getenv("PICFETCH_IMAGES_DIR"); imagesDir != "" {
		c.Output.ImagesDir = imagesDir
	}
	if quality := os.Getenv("PICFETCH_QUALITY"); quality != "" {
		c.Download.Quality = quality
	}
	if pageSize := os.Getenv("PICFETCH_PAGE_SIZE"); pageSize != "" {
		var val int
		fmt.Sscanf(pageSize, "%d", &val)
		if val > 0 {
			c.Fetch.PageSize = val
		}
	}
	if budget := os.Getenv("PICFETCH_TOTAL_BUDGET"); budget != "" {
		var val int
		fmt.Sscanf(budget, "%d", &val)
		if val > 0 {
			c.Fetch.TotalBudget = val
		}
	}
	if logLevel := os.Getenv("PICFETCH_LOG_LEVEL"); logLevel != "" {
		c.Logging.Level = logLevel
	}

	return nil
}

// LoadFromFile loads configuration from a YAML file
func (c *Config) LoadFromFile(path string) error {
	if path == "" {
		path = c.findConfigFile()
		if path == "" {
			return nil // No config file found, not an error
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	return nil
}

// findConfigFile searches for config file in standard locations
func (c *Config) findConfigFile() string {
	locations := []string{
		DefaultConfigFile,
		".picfetch.yaml",
		".picfetch.yml",
		filepath.Join(os.Getenv("HOME"), ".config", "picfetch", "config.yaml"),
		filepath.Join(os.Getenv("HOME"), ".picfetch.yaml"),
	}

	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}

	return ""
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	var errs []error

	if c.Fetch.PageSize <= 0 {
		errs = append(errs, errors.New("page size must be positive"))
	}
	if c.Fetch.TotalBudget < c.Fetch.PageSize {
		errs = append(errs, errors.New("total budget must be at least one page"))
	}
	if c.Fetch.BaseURL == "" {
		errs = append(errs, errors.New("API base URL is required"))
	}

	if c.Output.DataDir == "" {
		errs = append(errs, errors.New("data directory is required"))
	}
	if c.Output.ImagesDir == "" {
		errs = append(errs, errors.New("images directory is required"))
	}

	validQualities := map[string]bool{
		"raw": true, "full": true, "regular": true, "small": true, "thumb": true,
	}
	if !validQualities[strings.ToLower(c.Download.Quality)] {
		errs = append(errs, fmt.Errorf("invalid quality tier: %s", c.Download.Quality))
	}
	if c.Download.Timeout <= 0 {
		errs = append(errs, errors.New("download timeout must be positive"))
	}

	if c.Thumbnail.MaxWidth <= 0 || c.Thumbnail.MaxHeight <= 0 {
		errs = append(errs, errors.New("thumbnail dimensions must be positive"))
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, errors.New("invalid log level"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// Save saves the configuration to a file
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// AccessKey returns the stored access key, failing fast with a typed
// error when the config file is missing or the key is empty so that
// fetch operations never attempt an unauthenticated call.
func AccessKey(path string) (string, error) {
	if path == "" {
		path = DefaultConfigFile
	}
	if _, err := os.Stat(path); err != nil {
		return "", ErrNoConfig
	}

	cfg := DefaultConfig()
	if err := cfg.LoadFromFile(path); err != nil {
		return "", err
	}

	key := strings.TrimSpace(cfg.Unsplash.AccessKey)
	if key == "" || key == "no_key" {
		return "", ErrNoKey
	}

	return key, nil
}

// BootstrapState describes the outcome of an EnsureConfig call
type BootstrapState int

const (
	// BootstrapCreated means a fresh config file was written and needs filling in
	BootstrapCreated BootstrapState = iota

	// BootstrapMissingKey means the file exists but the access key is empty
	BootstrapMissingKey

	// BootstrapReady means the file exists and the access key is filled in
	BootstrapReady
)

// EnsureConfig creates a config file with the given credentials if none
// exists. An existing file is never overwritten; its access key is
// inspected instead and the state reported back.
func EnsureConfig(path, accessKey, secretKey string) (BootstrapState, error) {
	if path == "" {
		path = DefaultConfigFile
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		cfg := DefaultConfig()
		cfg.Unsplash.AccessKey = accessKey
		cfg.Unsplash.SecretKey = secretKey
		if err := cfg.Save(path); err != nil {
			return BootstrapCreated, err
		}
		return BootstrapCreated, nil
	}

	cfg := DefaultConfig()
	if err := cfg.LoadFromFile(path); err != nil {
		return BootstrapMissingKey, err
	}

	key := strings.TrimSpace(cfg.Unsplash.AccessKey)
	if key == "" || key == "no_key" {
		return BootstrapMissingKey, nil
	}

	return BootstrapReady, nil
}

// Load loads configuration from all sources with proper precedence
// Precedence order: Environment variables > .env file > Config file > Defaults
func Load(configPath string) (*Config, error) {
	// Try to load .env files (don't fail if they don't exist)
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join(os.Getenv("HOME"), ".picfetch.env"))

	config := DefaultConfig()

	if err := config.LoadFromFile(configPath); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	if err := config.LoadFromEnv(); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}
