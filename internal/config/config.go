package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	// EnvPrefix prefixes every environment override, e.g. EDITOR_PORT
	// or EDITOR_STORAGE__TYPE for nested keys.
	EnvPrefix = "EDITOR_"

	// ConfigFileEnv names the YAML file read by LoadFromEnv
	ConfigFileEnv = "EDITOR_CONFIG_FILE"
)

// StorageConfig selects where stored results go
type StorageConfig struct {
	Type             string `koanf:"type"` // none|azure
	AzureAccountName string `koanf:"azure_account_name"`
	AzureAccountKey  string `koanf:"azure_account_key"`
	AzureContainer   string `koanf:"azure_container"`
}

type Config struct {
	Host               string        `koanf:"host"`
	Port               string        `koanf:"port"`
	RequestTimeout     time.Duration `koanf:"request_timeout"`
	ImageFetchTimeout  time.Duration `koanf:"image_fetch_timeout"`
	TransformTimeout   time.Duration `koanf:"transform_timeout"`
	MaxRequestBodySize int64         `koanf:"max_request_body_size"`

	MaxImageDimension  int      `koanf:"max_image_dimension"`
	MaxSourcePixels    int64    `koanf:"max_source_pixels"`
	MaxKernelSize      int      `koanf:"max_kernel_size"`
	MaxAbsFactor       float64  `koanf:"max_abs_factor"`
	DefaultContrastMid float64  `koanf:"default_contrast_mid"`
	DefaultChannels    int      `koanf:"default_channels"`
	OutputFormat       string   `koanf:"output_format"`
	AllowedHosts       []string `koanf:"allowed_hosts"`

	Workers              int  `koanf:"workers"`
	ParallelThreshold    int  `koanf:"parallel_threshold"`
	NormalizeBlurBorders bool `koanf:"normalize_blur_borders"`

	LogLevel  string `koanf:"log_level"`
	LogFormat string `koanf:"log_format"`

	Storage StorageConfig `koanf:"storage"`
}

func (c *Config) ServerAddress() string {
	host := strings.TrimSpace(c.Host)
	port := strings.TrimSpace(c.Port)
	return net.JoinHostPort(host, port)
}

// Default returns the configuration used when nothing is overridden
func Default() *Config {
	return &Config{
		Host:               "0.0.0.0",
		Port:               "8080",
		RequestTimeout:     30 * time.Second,
		ImageFetchTimeout:  15 * time.Second,
		TransformTimeout:   20 * time.Second,
		MaxRequestBodySize: 1024 * 1024, // 1MB of JSON, kernels included

		MaxImageDimension:  2048,
		MaxSourcePixels:    25_000_000,
		MaxKernelSize:      31,
		MaxAbsFactor:       100,
		DefaultContrastMid: 0.5,
		DefaultChannels:    3,
		OutputFormat:       "png",

		Workers:           0,
		ParallelThreshold: 100000,

		LogLevel:  "info",
		LogFormat: "json",

		Storage: StorageConfig{Type: "none"},
	}
}

// LoadFromEnv loads the file named by EDITOR_CONFIG_FILE, if any, then
// applies environment overrides
func LoadFromEnv() (*Config, error) {
	return Load(os.Getenv(ConfigFileEnv))
}

// Load merges defaults, the YAML file at path (a missing file is not an
// error) and EDITOR_* environment variables, in that order of precedence.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil &&
			!errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}

	cfg := Default()
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	normalize(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// envKey maps EDITOR_STORAGE__TYPE to storage.type
func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(s, "__", ".")
}

func normalize(c *Config) {
	c.Host = strings.TrimSpace(c.Host)
	c.Port = strings.TrimSpace(c.Port)
	c.OutputFormat = strings.ToLower(strings.TrimSpace(c.OutputFormat))
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	c.LogFormat = strings.ToLower(strings.TrimSpace(c.LogFormat))
	c.Storage.Type = strings.ToLower(strings.TrimSpace(c.Storage.Type))
	if c.Storage.Type == "" {
		c.Storage.Type = "none"
	}
	hosts := c.AllowedHosts[:0]
	for _, h := range c.AllowedHosts {
		if h = strings.ToLower(strings.TrimSpace(h)); h != "" {
			hosts = append(hosts, h)
		}
	}
	c.AllowedHosts = hosts
}

// Validate checks ranges and cross-field requirements
func (c *Config) Validate() error {
	p, err := strconv.Atoi(c.Port)
	if err != nil || p < 1 || p > 65535 {
		return fmt.Errorf("invalid port: %q", c.Port)
	}
	if c.MaxRequestBodySize <= 0 {
		return fmt.Errorf("max_request_body_size must be > 0 (got %d)", c.MaxRequestBodySize)
	}
	if c.RequestTimeout <= 0 || c.ImageFetchTimeout <= 0 || c.TransformTimeout <= 0 {
		return fmt.Errorf("timeouts must be > 0 (got request=%s, fetch=%s, transform=%s)",
			c.RequestTimeout, c.ImageFetchTimeout, c.TransformTimeout)
	}
	if c.MaxImageDimension < 0 {
		return fmt.Errorf("max_image_dimension must be >= 0 (got %d)", c.MaxImageDimension)
	}
	if c.MaxSourcePixels <= 0 {
		return fmt.Errorf("max_source_pixels must be > 0 (got %d)", c.MaxSourcePixels)
	}
	if c.MaxKernelSize < 1 || c.MaxKernelSize%2 == 0 {
		return fmt.Errorf("max_kernel_size must be a positive odd integer (got %d)", c.MaxKernelSize)
	}
	if c.MaxAbsFactor <= 0 {
		return fmt.Errorf("max_abs_factor must be > 0 (got %g)", c.MaxAbsFactor)
	}
	switch c.DefaultChannels {
	case 1, 3, 4:
	default:
		return fmt.Errorf("default_channels must be 1, 3 or 4 (got %d)", c.DefaultChannels)
	}
	switch c.OutputFormat {
	case "png", "jpeg", "jpg", "bmp", "tiff", "tif":
	default:
		return fmt.Errorf("unsupported output_format %q", c.OutputFormat)
	}
	if c.ParallelThreshold < 0 {
		return fmt.Errorf("parallel_threshold must be >= 0 (got %d)", c.ParallelThreshold)
	}
	switch c.LogFormat {
	case "json", "text":
	default:
		return fmt.Errorf("log_format must be json or text (got %q)", c.LogFormat)
	}

	switch c.Storage.Type {
	case "none":
	case "azure":
		if c.Storage.AzureAccountName == "" || c.Storage.AzureAccountKey == "" || c.Storage.AzureContainer == "" {
			return errors.New("azure storage requires azure_account_name, azure_account_key and azure_container")
		}
	default:
		return fmt.Errorf("unsupported storage type %q", c.Storage.Type)
	}
	return nil
}
