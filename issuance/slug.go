package issuance

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const slugLimit = 50

// Slugify 转为小写、去除变音符号、只保留 [a-z0-9]，
// 空白与连字符的连续序列折叠为单个 "-"。结果再次 Slugify 不变。
func Slugify(text string) string {
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)))
	folded, _, err := transform.String(t, strings.ToLower(text))
	if err != nil {
		folded = strings.ToLower(text)
	}

	var b strings.Builder
	pendingSep := false
	for _, r := range folded {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			if pendingSep && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingSep = false
			b.WriteRune(r)
		case r == '-' || unicode.IsSpace(r):
			pendingSep = true
		}
	}
	return b.String()
}

// Filename 生成输出文件名 <id>-<course>-<name>.png，去除所有空白。
func Filename(id, course, name string) string {
	s := id + "-" + truncate(Slugify(course), slugLimit) + "-" + truncate(Slugify(name), slugLimit) + ".png"
	return strings.Join(strings.Fields(s), "")
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
