// Package store 保存模板注册表：模板文件名到版本、哈希与字段框的映射。
package store

import (
	"context"
	"errors"
	"time"

	"github.com/ByLCY/diploma/layout"
)

// ErrNotFound 表示模板未注册。
var ErrNotFound = errors.New("template not found")

// Entry 是一个已注册模板的元数据。
type Entry struct {
	Version string                     `json:"version"`
	Hash    string                     `json:"hash"`
	Fields  map[string]layout.FieldBox `json:"fields"`
}

// TemplateStore 是模板注册表的抽象，每次调用都读取最新状态。
type TemplateStore interface {
	Get(ctx context.Context, name string) (Entry, error)
	Put(ctx context.Context, name string, entry Entry) error
	List(ctx context.Context) (map[string]Entry, error)
}

// DefaultHash is the tag stored for freshly uploaded templates.
const DefaultHash = "v1"

// NewEntry 返回上传时登记的条目：版本为上传时间，字段为空。
func NewEntry(now time.Time) Entry {
	return Entry{
		Version: now.Format("20060102150405"),
		Hash:    DefaultHash,
		Fields:  map[string]layout.FieldBox{},
	}
}
