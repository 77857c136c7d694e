package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ByLCY/diploma/layout"
)

func exerciseStore(t *testing.T, s TemplateStore) {
	t.Helper()
	ctx := context.Background()

	if _, err := s.Get(ctx, "missing.png"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	entry := NewEntry(time.Date(2024, 3, 5, 14, 7, 9, 0, time.UTC))
	if entry.Version != "20240305140709" || entry.Hash != "v1" || len(entry.Fields) != 0 {
		t.Fatalf("unexpected new entry: %+v", entry)
	}
	if err := s.Put(ctx, "classic.png", entry); err != nil {
		t.Fatalf("Put error: %v", err)
	}
	got, err := s.Get(ctx, "classic.png")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if got.Version != entry.Version || got.Hash != entry.Hash || len(got.Fields) != 0 {
		t.Fatalf("round trip mismatch: %+v", got)
	}

	// 重新上传整体替换条目。
	replaced := Entry{
		Version: "20240306000000",
		Hash:    "v2",
		Fields: map[string]layout.FieldBox{
			layout.FieldName: {X: 1, Y: 2, W: 300, H: 40, Align: "center", Font: "32px serif", Color: "#000"},
		},
	}
	if err := s.Put(ctx, "classic.png", replaced); err != nil {
		t.Fatalf("Put error: %v", err)
	}
	got, err = s.Get(ctx, "classic.png")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if got.Hash != "v2" || got.Fields[layout.FieldName] != replaced.Fields[layout.FieldName] {
		t.Fatalf("entry not replaced: %+v", got)
	}

	if err := s.Put(ctx, "modern.png", entry); err != nil {
		t.Fatalf("Put error: %v", err)
	}
	all, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 templates, got %d", len(all))
	}
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemoryStore())
}

func TestJSONStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "templates.json")
	exerciseStore(t, NewJSONStore(path))
}

func TestSQLiteStore(t *testing.T) {
	s, err := OpenSQLite(filepath.Join(t.TempDir(), "registry.db"))
	if err != nil {
		t.Fatalf("OpenSQLite error: %v", err)
	}
	defer s.Close()
	exerciseStore(t, s)
}

func TestSQLiteStoreReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "registry.db")
	s, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("OpenSQLite error: %v", err)
	}
	if err := s.Put(context.Background(), "a.png", NewEntry(time.Now())); err != nil {
		t.Fatalf("Put error: %v", err)
	}
	s.Close()

	s, err = OpenSQLite(path)
	if err != nil {
		t.Fatalf("reopen error: %v", err)
	}
	defer s.Close()
	if _, err := s.Get(context.Background(), "a.png"); err != nil {
		t.Fatalf("entry lost after reopen: %v", err)
	}
}

func TestJSONStoreReadsExternalEdits(t *testing.T) {
	path := filepath.Join(t.TempDir(), "templates.json")
	raw := `{"templates":{"gold.png":{"version":"20240101000000","hash":"v1","fields":{"course":{"x":10,"y":20,"w":500,"h":90,"align":"right","font":"bold 40px serif"}}}}}`
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatal(err)
	}
	s := NewJSONStore(path)
	e, err := s.Get(context.Background(), "gold.png")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	course := e.Fields[layout.FieldCourse]
	if course.W != 500 || course.Align != "right" || course.Font != "bold 40px serif" {
		t.Fatalf("fields not decoded: %+v", course)
	}

	if err := os.WriteFile(path, []byte(`{"templates":{}}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Get(context.Background(), "gold.png"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected fresh read to miss, got %v", err)
	}
}

func TestJSONStoreCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "templates.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := NewJSONStore(path).Get(context.Background(), "x"); err == nil || errors.Is(err, ErrNotFound) {
		t.Fatalf("expected parse error, got %v", err)
	}
}
