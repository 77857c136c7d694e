package layout

import (
	"fmt"
	"strings"
)

// FitText 将文本折行并缩小字号，使其尽量放入 box。
//
// 从 font.Size 开始按空白贪心折行；若 行数×字号×1.15 超过 box.H 且字号大于 8，
// 则字号减 2（不低于 8）后重新折行。到达下限仍放不下时允许向下溢出。
// 文本块矮于 box.H 时垂直居中，否则从 box.Y 开始。所有行共用同一个水平锚点，
// 锚点含义由 align 决定（左边缘、中点、右边缘）。
func FitText(text string, box Box, font FontSpec, align Align, m Measurer) (Fit, error) {
	if m == nil {
		return Fit{}, fmt.Errorf("layout: 缺少文本测量后端 Measurer")
	}
	size := font.Size
	current := font
	lines, err := Wrap(text, box.W, current, m)
	if err != nil {
		return Fit{}, err
	}
	for float64(len(lines))*LineHeight(size) > box.H && size > MinFontSize {
		size = max(size-FontSizeStep, MinFontSize)
		current.Size = size
		if lines, err = Wrap(text, box.W, current, m); err != nil {
			return Fit{}, err
		}
	}

	lineHeight := LineHeight(size)
	block := float64(len(lines)) * lineHeight
	startY := box.Y
	if block < box.H {
		startY = box.Y + (box.H-block)/2
	}
	x := AnchorX(box, align)

	anchors := make([]Point, len(lines))
	for i := range lines {
		anchors[i] = Point{X: x, Y: startY + float64(i)*lineHeight}
	}
	return Fit{
		FontSize:    size,
		Lines:       lines,
		LineAnchors: anchors,
		LineHeight:  lineHeight,
	}, nil
}

// Wrap 按空白拆词并贪心组行：只要 "当前行 + 空格 + 词" 的宽度不超过 width 就继续追加。
// 单个超宽的词独占一行，不在词内断开。空文本返回零行。
func Wrap(text string, width float64, font FontSpec, m Measurer) ([]string, error) {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil, nil
	}
	var lines []string
	line := ""
	for _, w := range words {
		candidate := w
		if line != "" {
			candidate = line + " " + w
		}
		lw, err := m.MeasureText(candidate, font)
		if err != nil {
			return nil, fmt.Errorf("测量文本 %q 失败: %w", candidate, err)
		}
		if lw > width && line != "" {
			lines = append(lines, line)
			line = w
			continue
		}
		line = candidate
	}
	if line != "" {
		lines = append(lines, line)
	}
	return lines, nil
}

// AnchorX 根据对齐方式返回水平锚点：left→x，center→x+w/2，right→x+w。
func AnchorX(box Box, align Align) float64 {
	switch align {
	case AlignCenter:
		return box.X + box.W/2
	case AlignRight:
		return box.X + box.W
	default:
		return box.X
	}
}
