package canvasrenderer

import (
	"fmt"
	"image"
	"image/color"
	"os"
	"strings"
	"sync"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/rasterizer"
	"golang.org/x/image/draw"

	"github.com/ByLCY/diploma/fonts"
	"github.com/ByLCY/diploma/layout"
	"github.com/ByLCY/diploma/renderer"
)

// Renderer draws layout results via github.com/tdewolff/canvas.
//
// One template pixel maps to one canvas millimetre; the text layer is
// rasterized at one dot per millimetre and composited over the template.
type Renderer struct {
	// injected font files by lower-cased family name
	fontBlobs map[string]Resource

	fontMu       sync.Mutex
	fontFamilies map[string]*fontFamilyEntry
}

var (
	_ renderer.Renderer = (*Renderer)(nil)
	_ layout.Measurer   = (*Renderer)(nil)
)

type fontFamilyEntry struct {
	family *canvas.FontFamily
	style  canvas.FontStyle
}

// Options configures the canvas renderer.
type Options struct {
	// Fonts maps a family name used in field font shorthands (e.g. "Playfair Display")
	// to a TTF/OTF file. Unknown families fall back to the embedded Go fonts.
	Fonts map[string]Resource
}

// Resource can be provided either by Bytes or by Path.
type Resource struct {
	Bytes []byte
	Path  string
}

// NewRenderer creates a renderer that only uses the embedded fonts.
func NewRenderer() *Renderer { return NewRendererWithOptions(Options{}) }

// NewRendererWithOptions creates a renderer with injected font resources.
func NewRendererWithOptions(opts Options) *Renderer {
	r := &Renderer{
		fontBlobs:    map[string]Resource{},
		fontFamilies: map[string]*fontFamilyEntry{},
	}
	for name, res := range opts.Fonts {
		key := normalizeFamily(name)
		if key == "" {
			continue
		}
		r.fontBlobs[key] = res
	}
	return r
}

// MeasureText 实现 layout.Measurer，返回文本在给定字体下的像素宽度。
func (r *Renderer) MeasureText(text string, font layout.FontSpec) (float64, error) {
	face, err := r.fontFace(font, layout.White)
	if err != nil {
		return 0, err
	}
	return face.TextWidth(text), nil
}

// Render composites the laid out text onto a copy of background.
func (r *Renderer) Render(background image.Image, result *layout.Result) (image.Image, error) {
	if background == nil {
		return nil, fmt.Errorf("模板图片为空")
	}
	if result == nil {
		return nil, fmt.Errorf("排版结果为空")
	}
	bounds := background.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("模板图片尺寸无效: %dx%d", width, height)
	}

	c := canvas.New(float64(width), float64(height))
	ctx := canvas.NewContext(c)
	ctx.SetCoordSystem(canvas.CartesianIV) // 使坐标与排版保持左上角为原点
	for _, tb := range result.Texts {
		if err := r.drawTextBox(ctx, tb); err != nil {
			return nil, err
		}
	}
	layer := rasterizer.Draw(c, canvas.DPMM(1.0), canvas.DefaultColorSpace)

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(dst, dst.Bounds(), background, bounds.Min, draw.Src)
	draw.Draw(dst, dst.Bounds(), layer, layer.Bounds().Min, draw.Over)
	return dst, nil
}

func (r *Renderer) drawTextBox(ctx *canvas.Context, tb layout.TextBox) error {
	if len(tb.Fit.Lines) == 0 {
		return nil
	}
	size := tb.Fit.FontSize
	if size <= 0 {
		size = tb.Font.Size
	}
	font := tb.Font
	font.Size = size
	face, err := r.fontFace(font, tb.Color)
	if err != nil {
		return err
	}

	var textAlign canvas.TextAlign
	switch tb.Align {
	case layout.AlignCenter:
		textAlign = canvas.Center
	case layout.AlignRight:
		textAlign = canvas.Right
	default:
		textAlign = canvas.Left
	}

	// 锚点 Y 为字形框顶部，基线 = 顶部 + 上升部（Ascent）
	ascent := face.Metrics().Ascent
	for i, line := range tb.Fit.Lines {
		if i >= len(tb.Fit.LineAnchors) {
			break
		}
		anchor := tb.Fit.LineAnchors[i]
		ctx.DrawText(anchor.X, anchor.Y+ascent, canvas.NewTextLine(face, line, textAlign))
	}
	return nil
}

func (r *Renderer) fontFace(font layout.FontSpec, col layout.Color) (*canvas.FontFace, error) {
	if font.Size <= 0 {
		return nil, fmt.Errorf("字号必须为正数: %d", font.Size)
	}
	family, style, err := r.ensureFontFamily(font)
	if err != nil {
		return nil, err
	}
	return family.Face(layout.PxToPt(float64(font.Size)), colorFromLayout(col), style, canvas.FontNormal), nil
}

func (r *Renderer) ensureFontFamily(font layout.FontSpec) (*canvas.FontFamily, canvas.FontStyle, error) {
	key := fontCacheKey(font)
	r.fontMu.Lock()
	defer r.fontMu.Unlock()

	if entry, ok := r.fontFamilies[key]; ok {
		return entry.family, entry.style, nil
	}

	style := parseFontStyle(font.Style)
	family := canvas.NewFontFamily(font.Family)
	if err := r.loadFontIntoFamily(family, font, style); err != nil {
		return nil, canvas.FontRegular, err
	}
	r.fontFamilies[key] = &fontFamilyEntry{family: family, style: style}
	return family, style, nil
}

// loadFontIntoFamily 优先使用注入的字体文件，否则退回内置 Go 字体。
// 注入字体只有一个字重时，粗体/斜体由 canvas 合成。
func (r *Renderer) loadFontIntoFamily(family *canvas.FontFamily, font layout.FontSpec, style canvas.FontStyle) error {
	if res, ok := r.fontBlobs[normalizeFamily(font.Family)]; ok {
		data, err := loadResource(res)
		if err != nil {
			return fmt.Errorf("读取字体 %s 失败: %w", font.Family, err)
		}
		if err := family.LoadFont(data, 0, style); err != nil {
			return fmt.Errorf("加载字体 %s 失败: %w", font.Family, err)
		}
		return nil
	}
	data, err := fonts.Load(fonts.Generic(font.Family) + "/" + styleName(font.Style))
	if err != nil {
		return err
	}
	if err := family.LoadFont(data, 0, style); err != nil {
		return fmt.Errorf("加载内置字体 %s 失败: %w", font.Family, err)
	}
	return nil
}

func loadResource(res Resource) ([]byte, error) {
	if len(res.Bytes) > 0 {
		return res.Bytes, nil
	}
	if res.Path == "" {
		return nil, fmt.Errorf("字体资源缺少 bytes 或 path")
	}
	if strings.HasPrefix(res.Path, "embed:") {
		return fonts.Load(res.Path)
	}
	return os.ReadFile(res.Path)
}

func styleName(style string) string {
	switch style {
	case "bold", "italic", "bold-italic":
		return style
	default:
		return "regular"
	}
}

func parseFontStyle(style string) canvas.FontStyle {
	switch style {
	case "bold":
		return canvas.FontBold
	case "italic":
		return canvas.FontRegular | canvas.FontItalic
	case "bold-italic":
		return canvas.FontBold | canvas.FontItalic
	default:
		return canvas.FontRegular
	}
}

func normalizeFamily(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func fontCacheKey(font layout.FontSpec) string {
	return fmt.Sprintf("%s|%s", normalizeFamily(font.Family), styleName(font.Style))
}

func colorFromLayout(c layout.Color) color.Color {
	return canvas.RGBA(float64(c.R)/255.0, float64(c.G)/255.0, float64(c.B)/255.0, float64(c.A)/255.0)
}
