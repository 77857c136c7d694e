package issuance

import (
	"errors"
	"fmt"
)

// 客户端错误，消息文本直接返回给调用方。
var (
	ErrInvalidRequest    = errors.New("template, name and courses[] required")
	ErrTemplateNotFound  = errors.New("template not found")
	ErrMissingUpload     = errors.New("No file")
	ErrUnsupportedUpload = errors.New("unsupported template file")
	ErrInvalidIDPrefix   = errors.New("idPrefix must not contain path separators")
)

var clientErrors = []error{
	ErrInvalidRequest,
	ErrTemplateNotFound,
	ErrMissingUpload,
	ErrUnsupportedUpload,
	ErrInvalidIDPrefix,
}

// RenderError 表示模板图片无法解码或证书绘制失败。
type RenderError struct {
	Template string
	Err      error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("渲染模板 %s 失败: %v", e.Template, e.Err)
}

func (e *RenderError) Unwrap() error { return e.Err }

// ClientMessage 返回应以 400 回应的错误文本；err 不是客户端错误时 ok 为 false。
func ClientMessage(err error) (msg string, ok bool) {
	for _, sentinel := range clientErrors {
		if errors.Is(err, sentinel) {
			return sentinel.Error(), true
		}
	}
	return "", false
}
