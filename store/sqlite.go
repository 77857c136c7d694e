package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/ByLCY/diploma/layout"
)

const schemaVersion = 1

const schemaVersionTable = `
CREATE TABLE IF NOT EXISTS schema_version (
	version    INTEGER NOT NULL,
	applied_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
)`

const templatesTable = `
CREATE TABLE IF NOT EXISTS templates (
	name       TEXT PRIMARY KEY,
	version    TEXT NOT NULL,
	hash       TEXT NOT NULL,
	fields     TEXT NOT NULL DEFAULT '{}',
	updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
)`

// SQLiteStore 将注册表保存在 SQLite 数据库的 templates 表中，字段框以 JSON 文本存储。
type SQLiteStore struct {
	db *sql.DB
}

var _ TemplateStore = (*SQLiteStore)(nil)

// OpenSQLite 打开（必要时创建）数据库并执行迁移。
func OpenSQLite(path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("创建数据库目录失败: %w", err)
		}
	}
	dsn := fmt.Sprintf("%s?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000&_foreign_keys=ON", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("打开数据库失败: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("连接数据库失败: %w", err)
	}
	// SQLite 单写者
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	s := &SQLiteStore{db: db}
	if err := s.migrate(context.Background()); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error { return s.db.Close() }

func (s *SQLiteStore) migrate(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("开始迁移事务失败: %w", err)
	}
	defer tx.Rollback()

	for _, stmt := range []string{schemaVersionTable, templatesTable} {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("执行迁移失败: %w", err)
		}
	}
	var current sql.NullInt64
	if err := tx.QueryRowContext(ctx, `SELECT MAX(version) FROM schema_version`).Scan(&current); err != nil {
		return fmt.Errorf("读取 schema 版本失败: %w", err)
	}
	switch {
	case !current.Valid:
		if _, err := tx.ExecContext(ctx, `INSERT INTO schema_version (version) VALUES (?)`, schemaVersion); err != nil {
			return fmt.Errorf("记录 schema 版本失败: %w", err)
		}
	case current.Int64 > schemaVersion:
		return fmt.Errorf("数据库 schema 版本 %d 高于程序支持的 %d", current.Int64, schemaVersion)
	}
	return tx.Commit()
}

func (s *SQLiteStore) Get(ctx context.Context, name string) (Entry, error) {
	var (
		e      Entry
		fields string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT version, hash, fields FROM templates WHERE name = ?`, name,
	).Scan(&e.Version, &e.Hash, &fields)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, fmt.Errorf("%s: %w", name, ErrNotFound)
	}
	if err != nil {
		return Entry{}, fmt.Errorf("查询模板 %s 失败: %w", name, err)
	}
	if e.Fields, err = decodeFields(fields); err != nil {
		return Entry{}, fmt.Errorf("模板 %s: %w", name, err)
	}
	return e, nil
}

func (s *SQLiteStore) Put(ctx context.Context, name string, entry Entry) error {
	fields := entry.Fields
	if fields == nil {
		fields = map[string]layout.FieldBox{}
	}
	data, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("序列化字段失败: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO templates (name, version, hash, fields, updated_at)
		VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(name) DO UPDATE SET
			version = excluded.version,
			hash = excluded.hash,
			fields = excluded.fields,
			updated_at = excluded.updated_at`,
		name, entry.Version, entry.Hash, string(data))
	if err != nil {
		return fmt.Errorf("保存模板 %s 失败: %w", name, err)
	}
	return nil
}

func (s *SQLiteStore) List(ctx context.Context) (map[string]Entry, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name, version, hash, fields FROM templates ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("查询模板列表失败: %w", err)
	}
	defer rows.Close()

	out := map[string]Entry{}
	for rows.Next() {
		var (
			name, fields string
			e            Entry
		)
		if err := rows.Scan(&name, &e.Version, &e.Hash, &fields); err != nil {
			return nil, fmt.Errorf("读取模板行失败: %w", err)
		}
		if e.Fields, err = decodeFields(fields); err != nil {
			return nil, fmt.Errorf("模板 %s: %w", name, err)
		}
		out[name] = e
	}
	return out, rows.Err()
}

func decodeFields(raw string) (map[string]layout.FieldBox, error) {
	fields := map[string]layout.FieldBox{}
	if raw == "" {
		return fields, nil
	}
	if err := json.Unmarshal([]byte(raw), &fields); err != nil {
		return nil, fmt.Errorf("解析字段 JSON 失败: %w", err)
	}
	return fields, nil
}
