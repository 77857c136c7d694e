package renderer

import (
	"image"

	"github.com/ByLCY/diploma/layout"
)

// Renderer 将排版结果绘制到模板背景上，返回与背景同尺寸的新图像，背景本身不被修改。
type Renderer interface {
	Render(background image.Image, result *layout.Result) (image.Image, error)
}
