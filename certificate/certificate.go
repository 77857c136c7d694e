// Package certificate 将姓名、课程与证书编号绘制到模板图片上。
package certificate

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"sort"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"github.com/ByLCY/diploma/binding"
	"github.com/ByLCY/diploma/layout"
	"github.com/ByLCY/diploma/renderer"
	canvasrenderer "github.com/ByLCY/diploma/renderer/canvas"
)

// Backend 同时提供文本测量与绘制能力。
type Backend interface {
	layout.Measurer
	renderer.Renderer
}

// Options configures a Renderer. Zero values select the canvas backend,
// the standard default boxes and white text.
type Options struct {
	Backend  Backend
	Defaults layout.DefaultBoxes
	Color    layout.Color
}

// Renderer 负责证书版面：字段框解析、排版与 PNG 编码。
type Renderer struct {
	backend  Backend
	defaults layout.DefaultBoxes
	color    layout.Color
}

// New creates a Renderer.
func New(opts Options) *Renderer {
	r := &Renderer{backend: opts.Backend, defaults: opts.Defaults, color: opts.Color}
	if r.backend == nil {
		r.backend = canvasrenderer.NewRenderer()
	}
	if r.defaults == nil {
		r.defaults = layout.StandardDefaults()
	}
	if r.color == (layout.Color{}) {
		r.color = layout.White
	}
	return r
}

// Decode 解码模板图片，支持 png/jpeg/gif/webp/bmp。
func Decode(data []byte) (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("解码模板图片失败: %w", err)
	}
	return img, nil
}

// Layout 计算一张证书的排版结果而不绘制，供调试输出使用。
//
// values 至少应包含 name、course 与 id；其余键可被额外字段的 text 模板引用。
func (r *Renderer) Layout(width, height int, fields map[string]layout.FieldBox, values binding.Values) (*layout.Result, error) {
	return layout.Build(width, height, r.resolveFields(width, height, fields, values), layout.BuildOptions{
		Measurer: r.backend,
		Defaults: r.defaults,
		Color:    r.color,
	})
}

// Render 在模板副本上绘制证书并编码为 PNG。
func (r *Renderer) Render(tpl image.Image, fields map[string]layout.FieldBox, values binding.Values) ([]byte, error) {
	if tpl == nil {
		return nil, fmt.Errorf("模板图片为空")
	}
	b := tpl.Bounds()
	res, err := r.Layout(b.Dx(), b.Dy(), fields, values)
	if err != nil {
		return nil, err
	}
	out, err := r.backend.Render(tpl, res)
	if err != nil {
		return nil, fmt.Errorf("绘制证书失败: %w", err)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, out); err != nil {
		return nil, fmt.Errorf("编码 PNG 失败: %w", err)
	}
	return buf.Bytes(), nil
}

// resolveFields 按 name、course、id 的顺序生成待排版字段，
// 之后是模板中带 text 模板的额外字段（按名称排序）。
func (r *Renderer) resolveFields(width, height int, fields map[string]layout.FieldBox, values binding.Values) []layout.Field {
	var out []layout.Field
	for _, name := range []string{layout.FieldName, layout.FieldCourse, layout.FieldID} {
		box, ok := r.defaults.Resolve(name, fields, width, height)
		if !ok {
			continue
		}
		var text string
		if v, ok := values[name]; ok && v != nil {
			text = fmt.Sprint(v)
		}
		if box.Text != "" {
			text = binding.Interpolate(box.Text, values)
		}
		out = append(out, layout.Field{Name: name, Text: text, Box: box, Fixed: name == layout.FieldID})
	}

	extra := make([]string, 0, len(fields))
	for name, box := range fields {
		if isStandard(name) || box.Text == "" {
			continue
		}
		extra = append(extra, name)
	}
	sort.Strings(extra)
	for _, name := range extra {
		box := fields[name]
		out = append(out, layout.Field{Name: name, Text: binding.Interpolate(box.Text, values), Box: box})
	}
	return out
}

func isStandard(name string) bool {
	return name == layout.FieldName || name == layout.FieldCourse || name == layout.FieldID
}
