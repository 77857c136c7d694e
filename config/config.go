// Package config 读取服务配置（YAML），并支持环境变量覆盖。
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/ByLCY/diploma/issuance"
	"github.com/ByLCY/diploma/layout"
)

// Config holds all configuration for the application.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Storage   StorageConfig   `yaml:"storage"`
	Registry  RegistryConfig  `yaml:"registry"`
	Output    OutputConfig    `yaml:"output"`
	Render    RenderConfig    `yaml:"render"`
	Logging   LoggingConfig   `yaml:"logging"`
	Templates TemplatesConfig `yaml:"templates"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Port            int           `yaml:"port"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	MaxUploadMB     int           `yaml:"max_upload_mb"`
}

// Addr returns the listen address.
func (s ServerConfig) Addr() string { return fmt.Sprintf(":%d", s.Port) }

// StorageConfig 描述本地目录布局。
type StorageConfig struct {
	TemplatesDir string `yaml:"templates_dir"`
	OutputDir    string `yaml:"output_dir"`
	LogCSV       string `yaml:"log_csv"`
	LogJSONL     string `yaml:"log_jsonl"`
}

// RegistryConfig 选择模板注册表后端：json 或 sqlite。
type RegistryConfig struct {
	Driver string `yaml:"driver"`
	Path   string `yaml:"path"`
}

// OutputConfig 选择证书输出后端：local 或 minio。
type OutputConfig struct {
	Driver string               `yaml:"driver"`
	MinIO  issuance.MinIOConfig `yaml:"minio"`
}

// RenderConfig 配置文字颜色、字体文件与默认字段框。
type RenderConfig struct {
	Color    string                     `yaml:"color"`
	Fonts    map[string]string          `yaml:"fonts"`
	Defaults map[string]layout.FieldBox `yaml:"defaults"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	Level     string `yaml:"level"`
	File      string `yaml:"file"`
	MaxSizeMB int    `yaml:"max_size_mb"`
}

// TemplatesConfig 限定允许上传的模板文件名。
type TemplatesConfig struct {
	UploadPatterns []string `yaml:"upload_patterns"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            3000,
			ShutdownTimeout: 10 * time.Second,
			MaxUploadMB:     20,
		},
		Storage: StorageConfig{
			TemplatesDir: "templates",
			OutputDir:    "out",
			LogCSV:       "logs/certificates.csv",
			LogJSONL:     "logs/certificates.jsonl",
		},
		Registry: RegistryConfig{Driver: "json", Path: "templates/templates.json"},
		Output:   OutputConfig{Driver: "local"},
		Render:   RenderConfig{Color: "#ffffffff"},
		Logging:  LoggingConfig{Level: "info", MaxSizeMB: 10},
		Templates: TemplatesConfig{
			UploadPatterns: append([]string(nil), issuance.DefaultUploadPatterns...),
		},
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range: %d", c.Server.Port)
	}
	if c.Storage.TemplatesDir == "" {
		return fmt.Errorf("storage.templates_dir is required")
	}
	if c.Storage.LogCSV == "" || c.Storage.LogJSONL == "" {
		return fmt.Errorf("storage.log_csv and storage.log_jsonl are required")
	}

	switch strings.ToLower(c.Registry.Driver) {
	case "json", "sqlite":
	default:
		return fmt.Errorf("registry.driver must be json or sqlite, got %q", c.Registry.Driver)
	}
	if c.Registry.Path == "" {
		return fmt.Errorf("registry.path is required")
	}

	switch strings.ToLower(c.Output.Driver) {
	case "local":
		if c.Storage.OutputDir == "" {
			return fmt.Errorf("storage.output_dir is required for local output")
		}
	case "minio":
		if err := c.Output.MinIO.Validate(); err != nil {
			return fmt.Errorf("output.minio: %w", err)
		}
	default:
		return fmt.Errorf("output.driver must be local or minio, got %q", c.Output.Driver)
	}

	if c.Render.Color != "" {
		if _, err := layout.ParseColor(c.Render.Color); err != nil {
			return fmt.Errorf("render.color: %w", err)
		}
	}
	return nil
}

// TextColor returns the parsed render colour, white when unset.
func (c *Config) TextColor() layout.Color {
	if col, err := layout.ParseColor(c.Render.Color); err == nil {
		return col
	}
	return layout.White
}

// DefaultBoxes merges configured default boxes over the built-in table.
func (c *Config) DefaultBoxes() layout.DefaultBoxes {
	return layout.StandardDefaults().Merge(c.Render.Defaults)
}
