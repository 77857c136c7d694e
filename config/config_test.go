package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ByLCY/diploma/layout"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Server.Port != 3000 || cfg.Server.Addr() != ":3000" {
		t.Fatalf("default port = %d", cfg.Server.Port)
	}
	if cfg.Registry.Driver != "json" || cfg.Output.Driver != "local" {
		t.Fatalf("unexpected drivers %+v %+v", cfg.Registry, cfg.Output)
	}
	if cfg.TextColor() != layout.White {
		t.Fatalf("default color = %+v", cfg.TextColor())
	}
	if len(cfg.Templates.UploadPatterns) == 0 {
		t.Fatalf("default upload patterns missing")
	}
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 8080
  shutdown_timeout: 3s
registry:
  driver: sqlite
  path: data/registry.db
render:
  color: "#102030"
  fonts:
    Playfair Display: fonts/Playfair.ttf
  defaults:
    name:
      x: 40
      y: 200
      w: 0
      h: 90
      align: center
      font: bold 40px serif
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Server.Port != 8080 || cfg.Server.ShutdownTimeout != 3*time.Second {
		t.Fatalf("server = %+v", cfg.Server)
	}
	if cfg.Storage.OutputDir != "out" {
		t.Fatalf("unset fields should keep defaults, got %q", cfg.Storage.OutputDir)
	}
	if cfg.TextColor() != (layout.Color{R: 0x10, G: 0x20, B: 0x30, A: 255}) {
		t.Fatalf("color = %+v", cfg.TextColor())
	}
	boxes := cfg.DefaultBoxes()
	if boxes[layout.FieldName].Font != "bold 40px serif" || boxes[layout.FieldName].X != 40 {
		t.Fatalf("name default not overridden: %+v", boxes[layout.FieldName])
	}
	if boxes[layout.FieldID].Font != "20px monospace" {
		t.Fatalf("id default should remain built-in: %+v", boxes[layout.FieldID])
	}
	if cfg.Render.Fonts["Playfair Display"] != "fonts/Playfair.ttf" {
		t.Fatalf("fonts = %+v", cfg.Render.Fonts)
	}
}

func TestValidate(t *testing.T) {
	cases := map[string]func(*Config){
		"port":          func(c *Config) { c.Server.Port = 0 },
		"registry":      func(c *Config) { c.Registry.Driver = "postgres" },
		"registry path": func(c *Config) { c.Registry.Path = "" },
		"output":        func(c *Config) { c.Output.Driver = "ftp" },
		"minio":         func(c *Config) { c.Output.Driver = "minio" },
		"color":         func(c *Config) { c.Render.Color = "blue" },
		"logs":          func(c *Config) { c.Storage.LogCSV = "" },
	}
	for name, mutate := range cases {
		cfg := Default()
		mutate(cfg)
		if err := cfg.Validate(); err == nil {
			t.Fatalf("%s: expected validation error", name)
		}
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"PORT":                    "4000",
		"DIPLOMA_OUTPUT_DIR":      "/srv/out",
		"DIPLOMA_MINIO_USE_SSL":   "true",
		"DIPLOMA_UPLOAD_PATTERNS": "*.png, *.svg ,",
	}
	cfg := Default()
	if err := applyEnv(cfg, func(k string) string { return env[k] }); err != nil {
		t.Fatalf("applyEnv error: %v", err)
	}
	if cfg.Server.Port != 4000 || cfg.Storage.OutputDir != "/srv/out" || !cfg.Output.MinIO.UseSSL {
		t.Fatalf("env not applied: %+v", cfg)
	}
	if strings.Join(cfg.Templates.UploadPatterns, "|") != "*.png|*.svg" {
		t.Fatalf("patterns = %q", cfg.Templates.UploadPatterns)
	}

	bad := Default()
	if err := applyEnv(bad, func(k string) string {
		if k == "PORT" {
			return "http"
		}
		return ""
	}); err == nil {
		t.Fatalf("expected error for non-numeric PORT")
	}
}

func TestLoadWithEnv(t *testing.T) {
	t.Setenv("PORT", "5055")
	t.Setenv("DIPLOMA_REGISTRY_DRIVER", "sqlite")
	cfg, err := LoadWithEnv(writeConfig(t, "logging:\n  level: debug\n"))
	if err != nil {
		t.Fatalf("LoadWithEnv error: %v", err)
	}
	if cfg.Server.Port != 5055 || cfg.Registry.Driver != "sqlite" || cfg.Logging.Level != "debug" {
		t.Fatalf("unexpected config %+v", cfg)
	}

	t.Setenv("DIPLOMA_OUTPUT_DRIVER", "minio")
	if _, err := LoadWithEnv(""); err == nil {
		t.Fatalf("expected validation error for minio without settings")
	}
}
