package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	def := Default()
	if cfg.Port != def.Port || cfg.Host != def.Host {
		t.Errorf("Expected %s, got %s", def.ServerAddress(), cfg.ServerAddress())
	}
	if cfg.RequestTimeout != 30*time.Second {
		t.Errorf("Expected RequestTimeout 30s, got %s", cfg.RequestTimeout)
	}
	if cfg.DefaultContrastMid != 0.5 {
		t.Errorf("Expected DefaultContrastMid 0.5, got %v", cfg.DefaultContrastMid)
	}
	if cfg.ParallelThreshold != 100000 {
		t.Errorf("Expected ParallelThreshold 100000, got %d", cfg.ParallelThreshold)
	}
	if cfg.Storage.Type != "none" {
		t.Errorf("Expected storage type none, got %q", cfg.Storage.Type)
	}
	if cfg.NormalizeBlurBorders {
		t.Error("Expected nominal blur divisor by default")
	}
	if cfg.MaxSourcePixels != 25_000_000 {
		t.Errorf("Expected MaxSourcePixels 25000000, got %d", cfg.MaxSourcePixels)
	}
}

func TestLoad_MissingFileIsIgnored(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "8080" {
		t.Errorf("Expected default port, got %s", cfg.Port)
	}
}

func TestLoad_FileValues(t *testing.T) {
	path := writeConfigFile(t, `
port: 9090
request_timeout: 10s
workers: 4
parallel_threshold: 5000
normalize_blur_borders: true
output_format: JPEG
allowed_hosts:
  - Example.com
  - cdn.example.com
storage:
  type: azure
  azure_account_name: account
  azure_account_key: a2V5
  azure_container: results
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Port != "9090" {
		t.Errorf("Expected port 9090, got %s", cfg.Port)
	}
	if cfg.RequestTimeout != 10*time.Second {
		t.Errorf("Expected RequestTimeout 10s, got %s", cfg.RequestTimeout)
	}
	if cfg.ImageFetchTimeout != 15*time.Second {
		t.Errorf("Expected default ImageFetchTimeout to survive, got %s", cfg.ImageFetchTimeout)
	}
	if cfg.Workers != 4 || cfg.ParallelThreshold != 5000 || !cfg.NormalizeBlurBorders {
		t.Errorf("Unexpected engine settings: workers=%d threshold=%d normalize=%v",
			cfg.Workers, cfg.ParallelThreshold, cfg.NormalizeBlurBorders)
	}
	if cfg.OutputFormat != "jpeg" {
		t.Errorf("Expected normalized output format, got %q", cfg.OutputFormat)
	}
	if len(cfg.AllowedHosts) != 2 || cfg.AllowedHosts[0] != "example.com" {
		t.Errorf("Unexpected allowed hosts: %v", cfg.AllowedHosts)
	}
	if cfg.Storage.Type != "azure" || cfg.Storage.AzureContainer != "results" {
		t.Errorf("Unexpected storage config: %+v", cfg.Storage)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfigFile(t, `
port: 9090
max_kernel_size: 15
storage:
  type: azure
  azure_account_name: account
  azure_account_key: a2V5
  azure_container: results
`)
	t.Setenv("EDITOR_PORT", "7070")
	t.Setenv("EDITOR_TRANSFORM_TIMEOUT", "5s")
	t.Setenv("EDITOR_DEFAULT_CONTRAST_MID", "0.25")
	t.Setenv("EDITOR_STORAGE__AZURE_CONTAINER", "override")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Port != "7070" {
		t.Errorf("Expected env port 7070, got %s", cfg.Port)
	}
	if cfg.MaxKernelSize != 15 {
		t.Errorf("Expected file MaxKernelSize 15, got %d", cfg.MaxKernelSize)
	}
	if cfg.TransformTimeout != 5*time.Second {
		t.Errorf("Expected TransformTimeout 5s, got %s", cfg.TransformTimeout)
	}
	if cfg.DefaultContrastMid != 0.25 {
		t.Errorf("Expected DefaultContrastMid 0.25, got %v", cfg.DefaultContrastMid)
	}
	if cfg.Storage.AzureContainer != "override" || cfg.Storage.AzureAccountName != "account" {
		t.Errorf("Expected nested env override to merge with file, got %+v", cfg.Storage)
	}
}

func TestLoadFromEnv_ReadsConfigFile(t *testing.T) {
	path := writeConfigFile(t, "port: 6060\n")
	t.Setenv(ConfigFileEnv, path)

	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv: %v", err)
	}
	if cfg.Port != "6060" {
		t.Errorf("Expected port 6060, got %s", cfg.Port)
	}
}

func TestLoad_Invalid(t *testing.T) {
	testCases := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"Non-numeric port", map[string]string{"EDITOR_PORT": "http"}, "invalid port"},
		{"Port out of range", map[string]string{"EDITOR_PORT": "70000"}, "invalid port"},
		{"Zero timeout", map[string]string{"EDITOR_REQUEST_TIMEOUT": "0s"}, "timeouts must be > 0"},
		{"Zero source pixels", map[string]string{"EDITOR_MAX_SOURCE_PIXELS": "0"}, "max_source_pixels"},
		{"Even kernel limit", map[string]string{"EDITOR_MAX_KERNEL_SIZE": "8"}, "max_kernel_size"},
		{"Bad channels", map[string]string{"EDITOR_DEFAULT_CHANNELS": "2"}, "default_channels"},
		{"Bad format", map[string]string{"EDITOR_OUTPUT_FORMAT": "webp"}, "output_format"},
		{"Bad log format", map[string]string{"EDITOR_LOG_FORMAT": "xml"}, "log_format"},
		{"Unknown storage", map[string]string{"EDITOR_STORAGE__TYPE": "s3"}, "unsupported storage type"},
		{"Azure without credentials", map[string]string{"EDITOR_STORAGE__TYPE": "azure"}, "azure storage requires"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			_, err := Load("")
			if err == nil {
				t.Fatal("Expected error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Errorf("Expected error containing %q, got %v", tc.want, err)
			}
		})
	}
}

func TestLoad_MalformedFile(t *testing.T) {
	path := writeConfigFile(t, "port: [unterminated\n")
	if _, err := Load(path); err == nil {
		t.Error("Expected error for malformed YAML")
	}
}

func TestServerAddress(t *testing.T) {
	cfg := &Config{Host: " 127.0.0.1 ", Port: "8080 "}
	if got := cfg.ServerAddress(); got != "127.0.0.1:8080" {
		t.Errorf("Expected 127.0.0.1:8080, got %s", got)
	}

	cfg = &Config{Host: "::1", Port: "9000"}
	if got := cfg.ServerAddress(); got != "[::1]:9000" {
		t.Errorf("Expected [::1]:9000, got %s", got)
	}
}
