package layout

import (
	"fmt"
	"math"
	"strings"

	"github.com/ByLCY/diploma/fontspec"
)

const fallbackFont = "48px sans-serif"

// Field 是一个待排版的文本字段。
type Field struct {
	Name string
	Text string
	Box  FieldBox
	// Fixed 为 true 时按单行绘制，不折行也不缩小字号（证书编号使用）。
	Fixed bool
}

// Build 计算所有字段的字号、折行与锚点，生成可直接渲染的结果。
func Build(width, height int, fields []Field, opts BuildOptions) (*Result, error) {
	if opts.Measurer == nil {
		return nil, fmt.Errorf("layout: 缺少文本测量后端 Measurer")
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("layout: 无效的画布尺寸 %dx%d", width, height)
	}
	base := opts.Color
	if base == (Color{}) {
		base = White
	}

	res := &Result{Width: width, Height: height}
	for _, f := range fields {
		tb, err := composeTextBox(f, base, opts)
		if err != nil {
			return nil, fmt.Errorf("排版字段 %s 失败: %w", f.Name, err)
		}
		res.Texts = append(res.Texts, tb)
	}
	return res, nil
}

func composeTextBox(f Field, base Color, opts BuildOptions) (TextBox, error) {
	font := ResolveFont(fieldFont(f), opts.Defaults[f.Name].Font)
	align := fieldAlign(f, opts.Defaults)
	col := base
	if f.Box.Color != "" {
		if c, err := ParseColor(f.Box.Color); err == nil {
			col = c
		}
	}
	tb := TextBox{
		Field: f.Name,
		Box:   f.Box.Rect(),
		Font:  font,
		Align: align,
		Color: col,
	}

	if f.Fixed {
		tb.Fit = fixedLine(f.Text, tb.Box, font, align)
		return tb, nil
	}
	fit, err := FitText(f.Text, tb.Box, font, align, opts.Measurer)
	if err != nil {
		return TextBox{}, err
	}
	tb.Fit = fit
	return tb, nil
}

// fieldFont 返回字段的字体描述。未填写 font 的折行字段使用 48px sans-serif；
// 固定单行字段交给 ResolveFont 回退到默认表。
func fieldFont(f Field) string {
	if strings.TrimSpace(f.Box.Font) == "" && !f.Fixed {
		return fallbackFont
	}
	return f.Box.Font
}

// fieldAlign 返回字段的对齐方式。未填写 align 时取默认表中同名字段的值，
// 默认表也没有时折行字段居中、固定单行字段左对齐。
func fieldAlign(f Field, defaults DefaultBoxes) Align {
	if strings.TrimSpace(f.Box.Align) != "" {
		return ParseAlign(f.Box.Align)
	}
	if def := defaults[f.Name].Align; strings.TrimSpace(def) != "" {
		return ParseAlign(def)
	}
	if f.Fixed {
		return AlignLeft
	}
	return AlignCenter
}

// fixedLine 在 box 顶部按对齐锚点放置单行文本。
func fixedLine(text string, box Box, font FontSpec, align Align) Fit {
	if text == "" {
		return Fit{FontSize: font.Size, LineHeight: LineHeight(font.Size)}
	}
	return Fit{
		FontSize:    font.Size,
		Lines:       []string{text},
		LineAnchors: []Point{{X: AnchorX(box, align), Y: box.Y}},
		LineHeight:  LineHeight(font.Size),
	}
}

// ResolveFont 解析字段的字体描述；失败时依次尝试 fallback 与内置的 48px sans-serif。
func ResolveFont(spec, fallback string) FontSpec {
	for _, candidate := range []string{spec, fallback, fallbackFont} {
		if candidate == "" {
			continue
		}
		f, err := fontspec.Parse(candidate)
		if err != nil {
			continue
		}
		return FontSpec{
			Size:   max(int(math.Round(f.Size)), 1),
			Family: f.Family(),
			Style:  f.Style(),
		}
	}
	return FontSpec{Size: 48, Family: "sans-serif", Style: "regular"}
}
