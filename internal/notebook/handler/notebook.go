// Package handler provides the HTTP handlers of the notebook service.
package handler

import (
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/kart-io/logger"

	"github.com/infinita-io/notebookd/internal/model"
	"github.com/infinita-io/notebookd/internal/notebook/biz"
	"github.com/infinita-io/notebookd/pkg/errors"
)

// NotebookHandler handles notebook HTTP requests.
type NotebookHandler struct {
	service biz.Service
}

// NewNotebookHandler creates a new NotebookHandler.
func NewNotebookHandler(service biz.Service) *NotebookHandler {
	return &NotebookHandler{service: service}
}

// respondError maps a pipeline error to its HTTP status and the
// {error: message} wire shape.
func respondError(c *gin.Context, err error) {
	en := errors.FromError(err)

	msg := en.Message("en")
	if cause := en.Unwrap(); cause != nil {
		msg = msg + ": " + cause.Error()
	}

	c.JSON(en.HTTPStatus(), gin.H{"error": msg})
}

// Ingest handles POST /notebooks: a multipart body carrying PDF uploads,
// YouTube URLs, and raw text snippets.
func (h *NotebookHandler) Ingest(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		respondError(c, errors.ErrBadRequest.WithCause(err))
		return
	}

	input := &biz.IngestInput{}
	var warnings []string

	for field, files := range form.File {
		for _, fh := range files {
			if !isPDF(fh) {
				warnings = append(warnings, "skipped non-PDF file: "+fh.Filename)
				logger.Warnw("skipped non-PDF upload", "field", field, "filename", fh.Filename, "content_type", fh.Header.Get("Content-Type"))
				continue
			}

			data, err := readUpload(fh)
			if err != nil {
				respondError(c, errors.ErrBadRequest.WithCause(err))
				return
			}
			input.PDFs = append(input.PDFs, biz.PDFInput{Name: fh.Filename, Data: data})
		}
	}

	input.YouTubeURLs = formValues(form, "youtube_url", "youtube_urls", "youtube_urls[]")
	input.RawTexts = formValues(form, "text", "raw_text", "raw_texts", "raw_texts[]")

	upserted, err := h.service.Ingest(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, model.IngestResult{
		OK:       true,
		Upserted: upserted,
		Warnings: warnings,
	})
}

// Query handles GET /notebooks/query?q=&mode=&k=.
func (h *NotebookHandler) Query(c *gin.Context) {
	q := c.Query("q")
	if strings.TrimSpace(q) == "" {
		respondError(c, errors.ErrMissingParam.WithMessage("query parameter q is required"))
		return
	}

	mode := c.Query("mode")

	k := 0
	if raw := c.Query("k"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			respondError(c, errors.ErrInvalidParam.WithMessage("query parameter k must be an integer"))
			return
		}
		// Clamp an explicit k to the supported retrieval breadth.
		if parsed < 1 {
			parsed = 1
		}
		if parsed > 100 {
			parsed = 100
		}
		k = parsed
	}

	result, err := h.service.Query(c.Request.Context(), q, mode, k)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// Stats handles GET /notebooks.
func (h *NotebookHandler) Stats(c *gin.Context) {
	stats, err := h.service.Stats(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// Clear handles DELETE /notebooks.
func (h *NotebookHandler) Clear(c *gin.Context) {
	if err := h.service.Clear(c.Request.Context()); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// Healthz handles GET /healthz.
func (h *NotebookHandler) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Hello handles GET /.
func (h *NotebookHandler) Hello(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"service": "notebookd", "status": "ok"})
}

// isPDF accepts a file by extension or declared content type.
func isPDF(fh *multipart.FileHeader) bool {
	if strings.EqualFold(filepath.Ext(fh.Filename), ".pdf") {
		return true
	}
	ct := fh.Header.Get("Content-Type")
	return strings.EqualFold(strings.TrimSpace(strings.SplitN(ct, ";", 2)[0]), "application/pdf")
}

func readUpload(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	return io.ReadAll(f)
}

// formValues gathers the non-empty values of the given field names.
func formValues(form *multipart.Form, names ...string) []string {
	var out []string
	for _, name := range names {
		for _, v := range form.Value[name] {
			if strings.TrimSpace(v) != "" {
				out = append(out, v)
			}
		}
	}
	return out
}
