package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Load 读取 YAML 配置文件；path 为空时使用默认配置。
// 文件中未出现的字段保留默认值。
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// LoadWithEnv loads configuration and applies environment variable overrides.
func LoadWithEnv(path string) (*Config, error) {
	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}
	if err := applyEnv(cfg, os.Getenv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration after env overrides: %w", err)
	}
	return cfg, nil
}

func applyEnv(cfg *Config, getenv func(string) string) error {
	if v := getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("PORT: %w", err)
		}
		cfg.Server.Port = port
	}

	strs := map[string]*string{
		"DIPLOMA_TEMPLATES_DIR":    &cfg.Storage.TemplatesDir,
		"DIPLOMA_OUTPUT_DIR":       &cfg.Storage.OutputDir,
		"DIPLOMA_LOG_CSV":          &cfg.Storage.LogCSV,
		"DIPLOMA_LOG_JSONL":        &cfg.Storage.LogJSONL,
		"DIPLOMA_REGISTRY_DRIVER":  &cfg.Registry.Driver,
		"DIPLOMA_REGISTRY_PATH":    &cfg.Registry.Path,
		"DIPLOMA_OUTPUT_DRIVER":    &cfg.Output.Driver,
		"DIPLOMA_MINIO_ENDPOINT":   &cfg.Output.MinIO.Endpoint,
		"DIPLOMA_MINIO_ACCESS_KEY": &cfg.Output.MinIO.AccessKey,
		"DIPLOMA_MINIO_SECRET_KEY": &cfg.Output.MinIO.SecretKey,
		"DIPLOMA_MINIO_BUCKET":     &cfg.Output.MinIO.Bucket,
		"DIPLOMA_MINIO_REGION":     &cfg.Output.MinIO.Region,
		"DIPLOMA_MINIO_PREFIX":     &cfg.Output.MinIO.Prefix,
		"DIPLOMA_LOG_LEVEL":        &cfg.Logging.Level,
		"DIPLOMA_LOG_FILE":         &cfg.Logging.File,
		"DIPLOMA_TEXT_COLOR":       &cfg.Render.Color,
	}
	for key, dst := range strs {
		if v := getenv(key); v != "" {
			*dst = v
		}
	}
	if v := getenv("DIPLOMA_MINIO_USE_SSL"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("DIPLOMA_MINIO_USE_SSL: %w", err)
		}
		cfg.Output.MinIO.UseSSL = b
	}
	if v := getenv("DIPLOMA_UPLOAD_PATTERNS"); v != "" {
		var patterns []string
		for _, p := range strings.Split(v, ",") {
			if p = strings.TrimSpace(p); p != "" {
				patterns = append(patterns, p)
			}
		}
		cfg.Templates.UploadPatterns = patterns
	}
	return nil
}
