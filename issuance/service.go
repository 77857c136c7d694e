// Package issuance 实现证书签发流程：校验请求、渲染图片、保存输出并记录日志。
package issuance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/ByLCY/diploma/atomicfile"
	"github.com/ByLCY/diploma/binding"
	"github.com/ByLCY/diploma/certificate"
	"github.com/ByLCY/diploma/store"
)

// DefaultUploadPatterns 是允许上传的模板文件名模式。
var DefaultUploadPatterns = []string{"*.png", "*.jpg", "*.jpeg", "*.gif", "*.webp", "*.bmp"}

// 同一请求内编号冲突时的最大重抽次数。
const maxIDAttempts = 16

// Request 是一次签发请求。
type Request struct {
	Template string   `json:"template"`
	Name     string   `json:"name"`
	Courses  []string `json:"courses"`
	IDPrefix string   `json:"idPrefix,omitempty"`
}

// File 描述一张已生成的证书。
type File struct {
	ID       string `json:"id"`
	Filename string `json:"filename"`
	Path     string `json:"path"`
}

// Options 汇集 Service 的依赖。Templates、Output 与 Renderer 为必填。
type Options struct {
	Templates      store.TemplateStore
	TemplateDir    string
	Renderer       *certificate.Renderer
	Output         OutputStore
	Log            IssueLog
	IDs            IDGenerator
	UploadPatterns []string
	Logger         *slog.Logger
	Now            func() time.Time
}

// Service 串联模板注册表、渲染器、输出存储与签发日志。
type Service struct {
	templates   store.TemplateStore
	templateDir string
	renderer    *certificate.Renderer
	output      OutputStore
	log         IssueLog
	ids         IDGenerator
	patterns    []string
	logger      *slog.Logger
	now         func() time.Time
}

func NewService(opts Options) (*Service, error) {
	if opts.Templates == nil {
		return nil, errors.New("issuance: template store is required")
	}
	if opts.Renderer == nil {
		return nil, errors.New("issuance: renderer is required")
	}
	if opts.Output == nil {
		return nil, errors.New("issuance: output store is required")
	}
	if opts.Log.CSVPath == "" || opts.Log.JSONLPath == "" {
		return nil, errors.New("issuance: issue log CSV and JSONL paths are required")
	}
	s := &Service{
		templates:   opts.Templates,
		templateDir: opts.TemplateDir,
		renderer:    opts.Renderer,
		output:      opts.Output,
		log:         opts.Log,
		ids:         opts.IDs,
		patterns:    opts.UploadPatterns,
		logger:      opts.Logger,
		now:         opts.Now,
	}
	if s.ids == nil {
		s.ids = RandomIDs{}
	}
	if len(s.patterns) == 0 {
		s.patterns = DefaultUploadPatterns
	}
	for _, p := range s.patterns {
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("issuance: invalid upload pattern %q", p)
		}
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s, nil
}

// Renderer exposes the certificate renderer, e.g. for layout debugging.
func (s *Service) Renderer() *certificate.Renderer { return s.renderer }

// Templates exposes the registry.
func (s *Service) Templates() store.TemplateStore { return s.templates }

// Generate 为 req.Courses 中的每门课程生成一张证书。
//
// 模板查找与图片解码在处理任何课程之前完成，失败时不产生文件与日志。
// 之后按课程顺序依次渲染、保存、记日志；中途失败时已生成的证书不回滚。
func (s *Service) Generate(ctx context.Context, req Request) ([]File, error) {
	if req.Template == "" || req.Name == "" || len(req.Courses) == 0 {
		return nil, ErrInvalidRequest
	}
	if strings.ContainsAny(req.IDPrefix, `/\`) {
		return nil, ErrInvalidIDPrefix
	}
	if filepath.Base(req.Template) != req.Template {
		return nil, fmt.Errorf("%s: %w", req.Template, ErrTemplateNotFound)
	}
	entry, err := s.templates.Get(ctx, req.Template)
	if errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("%s: %w", req.Template, ErrTemplateNotFound)
	}
	if err != nil {
		return nil, err
	}

	raw, err := os.ReadFile(filepath.Join(s.templateDir, req.Template))
	if err != nil {
		return nil, fmt.Errorf("读取模板图片 %s 失败: %w", req.Template, err)
	}
	img, err := certificate.Decode(raw)
	if err != nil {
		return nil, &RenderError{Template: req.Template, Err: err}
	}

	issued := make(map[string]struct{}, len(req.Courses))
	files := make([]File, 0, len(req.Courses))
	for _, course := range req.Courses {
		if err := ctx.Err(); err != nil {
			return files, err
		}
		id := s.uniqueID(req.IDPrefix, issued)

		data, err := s.renderer.Render(img, entry.Fields, binding.Values{
			"name":     req.Name,
			"course":   course,
			"id":       id,
			"template": map[string]any{"name": req.Template, "hash": entry.Hash, "version": entry.Version},
		})
		if err != nil {
			return files, &RenderError{Template: req.Template, Err: err}
		}

		filename := Filename(id, course, req.Name)
		path, err := s.output.Save(ctx, filename, data)
		if err != nil {
			return files, err
		}

		rec := Record{
			Datetime:     s.now().UTC().Format(TimestampLayout),
			ID:           id,
			Name:         req.Name,
			Course:       course,
			Filename:     filename,
			TemplateHash: entry.Hash,
		}
		if err := s.log.Append(rec); err != nil {
			return files, err
		}
		s.logger.Info("certificate issued", "id", id, "template", req.Template, "path", path)
		files = append(files, File{ID: id, Filename: filename, Path: path})
	}
	return files, nil
}

func (s *Service) uniqueID(prefix string, issued map[string]struct{}) string {
	var id string
	for range maxIDAttempts {
		id = s.ids.NewID(prefix, s.now())
		if _, dup := issued[id]; !dup {
			break
		}
		s.logger.Warn("certificate id collision, redrawing", "id", id)
	}
	issued[id] = struct{}{}
	return id
}

// RegisterTemplate 保存上传的模板图片并在注册表中登记（同名整体替换）。
// 返回登记用的文件名（去除目录部分）。
func (s *Service) RegisterTemplate(ctx context.Context, filename string, data []byte) (string, error) {
	name := filepath.Base(strings.TrimSpace(filename))
	if name == "" || name == "." || name == ".." || name == string(filepath.Separator) {
		return "", ErrMissingUpload
	}
	if !s.allowed(name) {
		return "", fmt.Errorf("%s: %w", name, ErrUnsupportedUpload)
	}
	if err := atomicfile.Write(filepath.Join(s.templateDir, name), data, 0o644); err != nil {
		return "", fmt.Errorf("保存模板 %s 失败: %w", name, err)
	}
	if err := s.templates.Put(ctx, name, store.NewEntry(s.now())); err != nil {
		return "", err
	}
	s.logger.Info("template registered", "filename", name, "bytes", len(data))
	return name, nil
}

func (s *Service) allowed(name string) bool {
	lower := strings.ToLower(name)
	for _, p := range s.patterns {
		if ok, err := doublestar.Match(p, lower); err == nil && ok {
			return true
		}
	}
	return false
}
