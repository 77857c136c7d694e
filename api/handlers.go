package api

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ByLCY/diploma/issuance"
	"github.com/ByLCY/diploma/store"
)

const internalErrorMessage = "internal error"

type handler struct {
	svc       *issuance.Service
	logger    *slog.Logger
	maxUpload int64
}

// uploadTemplate 保存 multipart 字段 template 中的模板图片。
// POST /upload-template
func (h *handler) uploadTemplate(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUpload)
	fh, err := c.FormFile("template")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.String(http.StatusRequestEntityTooLarge, "file too large")
			return
		}
		c.String(http.StatusBadRequest, issuance.ErrMissingUpload.Error())
		return
	}
	f, err := fh.Open()
	if err != nil {
		h.fail(c, err)
		return
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		h.fail(c, err)
		return
	}

	name, err := h.svc.RegisterTemplate(c.Request.Context(), fh.Filename, data)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "filename": name})
}

// generate 为请求中的每门课程签发证书。
// POST /generate
func (h *handler) generate(c *gin.Context) {
	var req issuance.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		c.String(http.StatusBadRequest, issuance.ErrInvalidRequest.Error())
		return
	}
	files, err := h.svc.Generate(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "files": files})
}

// GET /templates
func (h *handler) listTemplates(c *gin.Context) {
	all, err := h.svc.Templates().List(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"templates": all})
}

// GET /templates/:name
func (h *handler) getTemplate(c *gin.Context) {
	entry, err := h.svc.Templates().Get(c.Request.Context(), c.Param("name"))
	if errors.Is(err, store.ErrNotFound) {
		c.String(http.StatusNotFound, issuance.ErrTemplateNotFound.Error())
		return
	}
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, entry)
}

// fail 将客户端错误映射为 400 纯文本，其余记录日志后返回 500。
func (h *handler) fail(c *gin.Context, err error) {
	if msg, ok := issuance.ClientMessage(err); ok {
		c.String(http.StatusBadRequest, msg)
		return
	}
	_ = c.Error(err)
	c.String(http.StatusInternalServerError, internalErrorMessage)
}
