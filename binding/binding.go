package binding

import (
	"fmt"
	"regexp"
	"strings"
)

var exprPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// Values 是证书字段模板可引用的数据，键支持点号路径（例如 template.hash）。
type Values map[string]any

// Interpolate 将文本中的 ${path.to.value} 替换为 data 中的值。
// 路径不存在时保留原占位符，便于在渲染结果中发现拼写错误。
func Interpolate(text string, data Values) string {
	if len(data) == 0 || !strings.Contains(text, "${") {
		return text
	}
	return exprPattern.ReplaceAllStringFunc(text, func(match string) string {
		groups := exprPattern.FindStringSubmatch(match)
		if len(groups) < 2 {
			return match
		}
		path := strings.TrimSpace(groups[1])
		if path == "" {
			return match
		}
		if val, ok := resolvePath(data, path); ok {
			return fmt.Sprint(val)
		}
		return match
	})
}

func resolvePath(data Values, path string) (any, bool) {
	if v, ok := data[path]; ok {
		return v, true
	}
	var current any = map[string]any(data)
	for _, segment := range strings.Split(path, ".") {
		m, ok := asMap(current)
		if !ok {
			return nil, false
		}
		current, ok = m[segment]
		if !ok {
			return nil, false
		}
	}
	return current, true
}

func asMap(v any) (map[string]any, bool) {
	switch c := v.(type) {
	case Values:
		return c, true
	case map[string]any:
		return c, true
	case map[string]string:
		out := make(map[string]any, len(c))
		for k, s := range c {
			out[k] = s
		}
		return out, true
	default:
		return nil, false
	}
}
