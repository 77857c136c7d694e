package fonts

import (
	"fmt"
	"strings"

	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/gomonobolditalic"
	"golang.org/x/image/font/gofont/gomonoitalic"
	"golang.org/x/image/font/gofont/goregular"
)

// 内置字体按 "<family>/<style>" 索引，family 为 sans 或 mono。
var builtin = map[string][]byte{
	"sans/regular":     goregular.TTF,
	"sans/bold":        gobold.TTF,
	"sans/italic":      goitalic.TTF,
	"sans/bold-italic": gobolditalic.TTF,
	"mono/regular":     gomono.TTF,
	"mono/bold":        gomonobold.TTF,
	"mono/italic":      gomonoitalic.TTF,
	"mono/bold-italic": gomonobolditalic.TTF,
}

// Generic 将 CSS 通用字体族映射为内置字体族（sans 或 mono）。
// 未知字体族一律归为 sans，serif 没有内置对应字体。
func Generic(family string) string {
	switch strings.ToLower(strings.TrimSpace(family)) {
	case "monospace", "mono", "courier", "courier new", "go mono", "ui-monospace":
		return "mono"
	default:
		return "sans"
	}
}

// Load 返回内置字体的字节数据，path 可写为 "embed:sans/bold" 或直接 "sans/bold"。
// style 缺省时按 regular 处理。
func Load(path string) ([]byte, error) {
	path = strings.TrimPrefix(path, "embed:")
	family, style, ok := strings.Cut(path, "/")
	if !ok || style == "" {
		style = "regular"
	}
	target := family + "/" + style
	data, ok := builtin[target]
	if !ok {
		return nil, fmt.Errorf("读取内置字体 %s 失败: 不存在", target)
	}
	return data, nil
}
