package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ByLCY/diploma/layout"
)

func TestRenderCommand(t *testing.T) {
	root := t.TempDir()
	tplDir := filepath.Join(root, "templates")
	if err := os.MkdirAll(tplDir, 0o755); err != nil {
		t.Fatal(err)
	}
	var img bytes.Buffer
	if err := png.Encode(&img, image.NewRGBA(image.Rect(0, 0, 900, 600))); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(tplDir, "classic.png"), img.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
	registry := `{"templates":{"classic.png":{"version":"20240101000000","hash":"v1","fields":{}}}}`
	if err := os.WriteFile(filepath.Join(tplDir, "templates.json"), []byte(registry), 0o644); err != nil {
		t.Fatal(err)
	}

	cfgPath := filepath.Join(root, "config.yaml")
	cfg := fmt.Sprintf(`storage:
  templates_dir: %[1]s/templates
  output_dir: %[1]s/out
  log_csv: %[1]s/logs/certificates.csv
  log_jsonl: %[1]s/logs/certificates.jsonl
registry:
  driver: json
  path: %[1]s/templates/templates.json
logging:
  level: error
`, root)
	if err := os.WriteFile(cfgPath, []byte(cfg), 0o644); err != nil {
		t.Fatal(err)
	}

	debugPath := filepath.Join(root, "debug", "layout.json")
	var stdout bytes.Buffer
	err := render([]string{
		"-config", cfgPath,
		"-template", "classic.png",
		"-name", "Ada Lovelace",
		"-course", "Go 101",
		"-course", "Go 201",
		"-debug", debugPath,
	}, &stdout)
	if err != nil {
		t.Fatalf("render error: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(stdout.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 output lines, got %q", stdout.String())
	}
	for _, line := range lines {
		parts := strings.Split(line, "\t")
		if len(parts) != 2 || !strings.HasPrefix(parts[0], "CERT-") {
			t.Fatalf("unexpected line %q", line)
		}
		if _, err := os.Stat(parts[1]); err != nil {
			t.Fatalf("certificate missing: %v", err)
		}
	}

	data, err := os.ReadFile(debugPath)
	if err != nil {
		t.Fatalf("debug JSON missing: %v", err)
	}
	var res layout.Result
	if err := json.Unmarshal(data, &res); err != nil {
		t.Fatalf("invalid debug JSON: %v", err)
	}
	if res.Width != 900 || len(res.Texts) != 3 {
		t.Fatalf("unexpected layout %+v", res)
	}
}

func TestRenderCommandUnknownTemplate(t *testing.T) {
	root := t.TempDir()
	cfgPath := filepath.Join(root, "config.yaml")
	cfg := fmt.Sprintf("storage:\n  templates_dir: %[1]s/templates\n  output_dir: %[1]s/out\n  log_csv: %[1]s/a.csv\n  log_jsonl: %[1]s/a.jsonl\nregistry:\n  path: %[1]s/templates.json\n", root)
	if err := os.WriteFile(cfgPath, []byte(cfg), 0o644); err != nil {
		t.Fatal(err)
	}
	var stdout bytes.Buffer
	err := render([]string{"-config", cfgPath, "-template", "none.png", "-name", "A", "-course", "B"}, &stdout)
	if err == nil || !strings.Contains(err.Error(), "template not found") {
		t.Fatalf("expected template not found, got %v", err)
	}
}
