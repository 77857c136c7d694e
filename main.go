package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/ByLCY/diploma/api"
	"github.com/ByLCY/diploma/binding"
	"github.com/ByLCY/diploma/certificate"
	"github.com/ByLCY/diploma/config"
	"github.com/ByLCY/diploma/issuance"
	"github.com/ByLCY/diploma/layout"
	"github.com/ByLCY/diploma/logger"
	canvasrenderer "github.com/ByLCY/diploma/renderer/canvas"
	"github.com/ByLCY/diploma/store"
)

const usage = `用法:
  diploma [serve] [-config config.yaml]
  diploma render -template classic.png -name "Ada Lovelace" -course "Go 101" [-course ...] [-debug layout.json]
`

func main() {
	args := os.Args[1:]
	cmd := "serve"
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		cmd, args = args[0], args[1:]
	}

	var err error
	switch cmd {
	case "serve":
		err = serve(args)
	case "render":
		err = render(args, os.Stdout)
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	if err != nil {
		log.Fatalf("%s 失败: %v", cmd, err)
	}
}

func serve(args []string) error {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	configPath := fs.String("config", "", "YAML 配置文件路径")
	fs.Parse(args)

	cfg, err := config.LoadWithEnv(*configPath)
	if err != nil {
		return err
	}
	lg, closer := logger.New(logger.Options{Level: cfg.Logging.Level, File: cfg.Logging.File, MaxSizeMB: cfg.Logging.MaxSizeMB})
	defer closer.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	svc, cleanup, err := buildService(ctx, cfg, lg)
	if err != nil {
		return err
	}
	defer cleanup()

	srv := api.NewServer(api.Options{
		Service:        svc,
		Logger:         lg,
		MaxUploadBytes: int64(cfg.Server.MaxUploadMB) << 20,
		Debug:          logger.ParseLevel(cfg.Logging.Level) <= logger.LevelDebug,
	})
	return api.Run(ctx, lg, api.RunConfig{
		Addr:            cfg.Server.Addr(),
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	}, srv.Handler())
}

type courseList []string

func (c *courseList) String() string     { return strings.Join(*c, ",") }
func (c *courseList) Set(v string) error { *c = append(*c, v); return nil }

// render 不启动 HTTP 服务，直接签发一批证书并打印结果。
func render(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("render", flag.ContinueOnError)
	configPath := fs.String("config", "", "YAML 配置文件路径")
	template := fs.String("template", "", "已登记的模板文件名")
	name := fs.String("name", "", "证书姓名")
	idPrefix := fs.String("id-prefix", "", "证书编号前缀，默认 CERT-")
	debug := fs.String("debug", "", "布局调试 JSON 输出路径（第一门课程）")
	var courses courseList
	fs.Var(&courses, "course", "课程名称，可重复")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.LoadWithEnv(*configPath)
	if err != nil {
		return err
	}
	lg, closer := logger.New(logger.Options{Level: cfg.Logging.Level, File: cfg.Logging.File, MaxSizeMB: cfg.Logging.MaxSizeMB})
	defer closer.Close()

	ctx := context.Background()
	svc, cleanup, err := buildService(ctx, cfg, lg)
	if err != nil {
		return err
	}
	defer cleanup()

	req := issuance.Request{Template: *template, Name: *name, Courses: courses, IDPrefix: *idPrefix}
	if *debug != "" && len(courses) > 0 {
		if err := writeDebug(ctx, svc, cfg.Storage.TemplatesDir, req, *debug); err != nil {
			return err
		}
	}

	files, err := svc.Generate(ctx, req)
	for _, f := range files {
		fmt.Fprintf(stdout, "%s\t%s\n", f.ID, f.Path)
	}
	return err
}

// buildService 按配置组装注册表、渲染器与输出存储。
func buildService(ctx context.Context, cfg *config.Config, lg *slog.Logger) (*issuance.Service, func(), error) {
	cleanup := func() {}

	var templates store.TemplateStore
	switch strings.ToLower(cfg.Registry.Driver) {
	case "sqlite":
		db, err := store.OpenSQLite(cfg.Registry.Path)
		if err != nil {
			return nil, nil, err
		}
		templates = db
		cleanup = func() { db.Close() }
	default:
		templates = store.NewJSONStore(cfg.Registry.Path)
	}

	var output issuance.OutputStore
	switch strings.ToLower(cfg.Output.Driver) {
	case "minio":
		ms, err := issuance.NewMinIOStore(cfg.Output.MinIO)
		if err != nil {
			cleanup()
			return nil, nil, err
		}
		if err := ms.EnsureBucket(ctx); err != nil {
			cleanup()
			return nil, nil, err
		}
		output = ms
	default:
		output = issuance.LocalStore{Dir: cfg.Storage.OutputDir}
	}

	fonts := make(map[string]canvasrenderer.Resource, len(cfg.Render.Fonts))
	for family, path := range cfg.Render.Fonts {
		fonts[family] = canvasrenderer.Resource{Path: path}
	}
	renderer := certificate.New(certificate.Options{
		Backend:  canvasrenderer.NewRendererWithOptions(canvasrenderer.Options{Fonts: fonts}),
		Defaults: cfg.DefaultBoxes(),
		Color:    cfg.TextColor(),
	})

	svc, err := issuance.NewService(issuance.Options{
		Templates:      templates,
		TemplateDir:    cfg.Storage.TemplatesDir,
		Renderer:       renderer,
		Output:         output,
		Log:            issuance.IssueLog{CSVPath: cfg.Storage.LogCSV, JSONLPath: cfg.Storage.LogJSONL},
		UploadPatterns: cfg.Templates.UploadPatterns,
		Logger:         lg,
	})
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	return svc, cleanup, nil
}

// writeDebug 输出第一门课程的排版结果，编号以占位符代替。
func writeDebug(ctx context.Context, svc *issuance.Service, templatesDir string, req issuance.Request, debugPath string) error {
	entry, err := svc.Templates().Get(ctx, req.Template)
	if errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("%s: %w", req.Template, issuance.ErrTemplateNotFound)
	}
	if err != nil {
		return err
	}
	raw, err := os.ReadFile(filepath.Join(templatesDir, filepath.Base(req.Template)))
	if err != nil {
		return fmt.Errorf("读取模板图片失败: %w", err)
	}
	img, err := certificate.Decode(raw)
	if err != nil {
		return err
	}
	b := img.Bounds()
	result, err := svc.Renderer().Layout(b.Dx(), b.Dy(), entry.Fields, binding.Values{
		"name":   req.Name,
		"course": req.Courses[0],
		"id":     issuance.FormatID(req.IDPrefix, time.Now(), "xxxx"),
	})
	if err != nil {
		return fmt.Errorf("布局计算失败: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(debugPath), 0o755); err != nil {
		return fmt.Errorf("创建调试目录失败: %w", err)
	}
	if err := layout.WriteDebugJSON(result, debugPath); err != nil {
		return fmt.Errorf("输出调试 JSON 失败: %w", err)
	}
	return nil
}
