// Package api 暴露证书签发的 HTTP 接口。
package api

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/ByLCY/diploma/issuance"
)

// Options configures the HTTP server.
type Options struct {
	Service *issuance.Service
	Logger  *slog.Logger
	// MaxUploadBytes 限制模板上传大小，<= 0 表示 20 MiB。
	MaxUploadBytes int64
	Debug          bool
}

// Server represents the HTTP server.
type Server struct {
	router *gin.Engine
}

// NewServer 注册全部路由。
func NewServer(opts Options) *Server {
	if opts.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	maxUpload := opts.MaxUploadBytes
	if maxUpload <= 0 {
		maxUpload = 20 << 20
	}

	router := gin.New()
	router.MaxMultipartMemory = maxUpload
	router.Use(RequestID())
	router.Use(Logger(logger))
	router.Use(Recovery(logger))

	h := &handler{svc: opts.Service, logger: logger, maxUpload: maxUpload}
	router.POST("/upload-template", h.uploadTemplate)
	router.POST("/generate", h.generate)

	templates := router.Group("/templates")
	{
		templates.GET("", h.listTemplates)
		templates.GET("/:name", h.getTemplate)
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return &Server{router: router}
}

// Handler returns the underlying gin engine.
func (s *Server) Handler() *gin.Engine { return s.router }
