package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"

	"github.com/ByLCY/diploma/atomicfile"
)

// registryFile 是 templates.json 的结构。
type registryFile struct {
	Templates map[string]Entry `json:"templates"`
}

// JSONStore 将注册表保存为单个 JSON 文件 {"templates": {...}}。
// 每次 Get/List 都重新读取文件，外部修改立即可见。
type JSONStore struct {
	path string
	// mu 串行化同一进程内的读改写
	mu sync.Mutex
}

var _ TemplateStore = (*JSONStore)(nil)

// NewJSONStore 创建基于 path 的注册表；文件不存在时视为空表。
func NewJSONStore(path string) *JSONStore {
	return &JSONStore{path: path}
}

func (s *JSONStore) Get(ctx context.Context, name string) (Entry, error) {
	reg, err := s.load()
	if err != nil {
		return Entry{}, err
	}
	e, ok := reg.Templates[name]
	if !ok {
		return Entry{}, fmt.Errorf("%s: %w", name, ErrNotFound)
	}
	return e, nil
}

func (s *JSONStore) Put(ctx context.Context, name string, entry Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	reg, err := s.load()
	if err != nil {
		return err
	}
	reg.Templates[name] = entry
	data, err := json.MarshalIndent(reg, "", "  ")
	if err != nil {
		return fmt.Errorf("序列化模板注册表失败: %w", err)
	}
	if err := atomicfile.Write(s.path, data, 0o644); err != nil {
		return fmt.Errorf("写入模板注册表失败: %w", err)
	}
	return nil
}

func (s *JSONStore) List(ctx context.Context) (map[string]Entry, error) {
	reg, err := s.load()
	if err != nil {
		return nil, err
	}
	return reg.Templates, nil
}

func (s *JSONStore) load() (registryFile, error) {
	reg := registryFile{Templates: map[string]Entry{}}
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return reg, nil
	}
	if err != nil {
		return reg, fmt.Errorf("读取模板注册表失败: %w", err)
	}
	if len(data) == 0 {
		return reg, nil
	}
	if err := json.Unmarshal(data, &reg); err != nil {
		return reg, fmt.Errorf("解析模板注册表 %s 失败: %w", s.path, err)
	}
	if reg.Templates == nil {
		reg.Templates = map[string]Entry{}
	}
	return reg, nil
}
