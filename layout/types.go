package layout

import "strings"

// 该文件定义字段框、排版结果等类型，供排版、渲染与调试 JSON 共用。
// 坐标与尺寸统一以模板图片的像素为单位，原点为左上角。

// Align 表示文本水平对齐方式。
type Align string

const (
	AlignLeft   Align = "left"
	AlignCenter Align = "center"
	AlignRight  Align = "right"
)

// ParseAlign 规范化对齐方式，未知值按 left 处理。
func ParseAlign(v string) Align {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "center", "middle":
		return AlignCenter
	case "right", "end":
		return AlignRight
	default:
		return AlignLeft
	}
}

// Box 是一个矩形区域。
type Box struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// FontSpec 描述字号（像素）与字体族。
type FontSpec struct {
	Size   int    `json:"size"`
	Family string `json:"family"`
	Style  string `json:"style,omitempty"` // regular/bold/italic/bold-italic
}

// FieldBox 描述模板上一个文本字段的位置与样式，对应模板元数据中的 fields 条目。
type FieldBox struct {
	X     float64 `json:"x" yaml:"x"`
	Y     float64 `json:"y" yaml:"y"`
	W     float64 `json:"w" yaml:"w"`
	H     float64 `json:"h" yaml:"h"`
	Align string  `json:"align,omitempty" yaml:"align"`
	Font  string  `json:"font,omitempty" yaml:"font"`
	Color string  `json:"color,omitempty" yaml:"color"`
	Text  string  `json:"text,omitempty" yaml:"text"` // 可选文本模板，支持 ${name} 等占位符
}

// Rect 返回字段框的矩形区域。
func (f FieldBox) Rect() Box { return Box{X: f.X, Y: f.Y, W: f.W, H: f.H} }

// Point 是一行文本的锚点，Y 指向字形框顶部而非基线。
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Fit 是 FitText 的结果。
type Fit struct {
	FontSize    int      `json:"fontSize"`
	Lines       []string `json:"lines"`
	LineAnchors []Point  `json:"lineAnchors"`
	LineHeight  float64  `json:"lineHeight"`
}

// Color 采用 0-255 的 RGBA 数值。
type Color struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
	A uint8 `json:"a"`
}

// White 是证书文字的默认颜色。
var White = Color{R: 255, G: 255, B: 255, A: 255}

// TextBox 表示一个已经排好坐标、可直接绘制的文本字段。
type TextBox struct {
	Field string   `json:"field"`
	Box   Box      `json:"box"`
	Font  FontSpec `json:"font"`
	Align Align    `json:"align"`
	Color Color    `json:"color"`
	Fit   Fit      `json:"fit"`
}

// Result 保存一张证书的排版结果。
type Result struct {
	Width  int       `json:"width"`
	Height int       `json:"height"`
	Texts  []TextBox `json:"texts"`
}
