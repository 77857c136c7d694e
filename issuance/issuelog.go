package issuance

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// TimestampLayout 是日志中的时间格式（UTC，毫秒精度）。
const TimestampLayout = "2006-01-02T15:04:05.000Z"

// Record 是一条签发记录。
type Record struct {
	Datetime     string `json:"datetime"`
	ID           string `json:"id"`
	Name         string `json:"name"`
	Course       string `json:"course"`
	Filename     string `json:"filename"`
	TemplateHash string `json:"template_hash"`
}

// IssueLog 同时追加 CSV 与 JSONL 两份签发日志。
// 每条记录各是一次 O_APPEND 写入，不做跨进程加锁。
type IssueLog struct {
	CSVPath   string
	JSONLPath string
}

// Append 先写 CSV 再写 JSONL。
func (l IssueLog) Append(rec Record) error {
	if err := appendLine(l.CSVPath, []byte(csvLine(rec))); err != nil {
		return fmt.Errorf("写入 CSV 日志失败: %w", err)
	}
	line, err := jsonLine(rec)
	if err != nil {
		return err
	}
	if err := appendLine(l.JSONLPath, line); err != nil {
		return fmt.Errorf("写入 JSONL 日志失败: %w", err)
	}
	return nil
}

// csvLine 总是为 name 与 course 加引号，内部的 " 转义为 ""。
func csvLine(rec Record) string {
	return fmt.Sprintf("%s,%s,%s,%s,%s,%s\n",
		rec.Datetime, rec.ID, quote(rec.Name), quote(rec.Course), rec.Filename, rec.TemplateHash)
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

func jsonLine(rec Record) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(rec); err != nil {
		return nil, fmt.Errorf("序列化签发记录失败: %w", err)
	}
	return buf.Bytes(), nil
}

func appendLine(path string, line []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	if _, err := f.Write(line); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
