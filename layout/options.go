package layout

// Measurer 负责测量文本在给定字体下的像素宽度，由渲染后端实现。
type Measurer interface {
	MeasureText(text string, font FontSpec) (float64, error)
}

// BuildOptions 配置排版阶段所需的依赖。
type BuildOptions struct {
	Measurer Measurer
	Defaults DefaultBoxes
	Color    Color // 字段未指定颜色时使用
}
