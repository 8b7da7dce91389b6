package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/ByLCY/oshirase/announce"
	"github.com/ByLCY/oshirase/layout"
	"github.com/ByLCY/oshirase/renderer"
	"github.com/ByLCY/oshirase/theme"
)

type layoutResponse struct {
	Appearance theme.Appearance `json:"appearance"`
	Layout     *layout.Result   `json:"layout"`
	Files      []string         `json:"files"`
}

// handleLayout 对草稿排版并返回逐页几何信息，供前端预览。
func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	sheet, ok := s.compose(w, r, s.deps.Measurer)
	if !ok {
		return
	}
	files := make([]string, sheet.PageCount())
	for i := range files {
		files[i] = sheet.FileName(i)
	}
	writeJSON(w, http.StatusOK, layoutResponse{
		Appearance: sheet.Appearance,
		Layout:     sheet.Layout,
		Files:      files,
	})
}

// handleExport 导出单页。page 从 1 开始，format 为 png 或 html。
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	format := q.Get("format")
	if format == "" {
		format = "png"
	}
	rend, ok := s.deps.Renderers[format]
	if !ok {
		jsonError(w, fmt.Sprintf("unsupported format %q", format), http.StatusBadRequest)
		return
	}
	page := 1
	if v := q.Get("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			jsonError(w, "page must be a positive integer", http.StatusBadRequest)
			return
		}
		page = n
	}

	m := s.deps.ExportMeasurer
	if m == nil {
		m = s.deps.Measurer
	}
	sheet, ok := s.compose(w, r, m)
	if !ok {
		return
	}
	if page > sheet.PageCount() {
		jsonError(w, fmt.Sprintf("page %d out of range (1-%d)", page, sheet.PageCount()), http.StatusNotFound)
		return
	}

	img, err := renderer.RenderPage(r.Context(), rend, sheet, page-1)
	if err != nil {
		s.log.Error("render failed", "format", format, "page", page, "error", err)
		jsonError(w, "render failed: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", img.ContentType)
	w.Header().Set("Content-Disposition", "attachment; filename*=UTF-8''"+url.PathEscape(img.Name))
	w.Header().Set("X-Page-Count", strconv.Itoa(sheet.PageCount()))
	w.Write(img.Data)
}

// compose 解码请求体中的草稿并排版；失败时已写出错误响应。
func (s *Server) compose(w http.ResponseWriter, r *http.Request, m layout.Measurer) (*announce.Sheet, bool) {
	var d announce.Draft
	if err := s.decode(w, r, &d); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return nil, false
	}
	sheet, err := announce.Compose(r.Context(), d, announce.Options{
		Catalog:  s.deps.Catalog,
		Measurer: m,
		Metrics:  s.cfg.Layout,
		MaxRunes: s.cfg.MaxTextRunes,
	})
	switch {
	case err == nil:
		return sheet, true
	case errors.Is(err, announce.ErrInvalidDraft):
		jsonError(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, layout.ErrMeasurementUnavailable):
		s.log.Error("measurement unavailable", "error", err)
		jsonError(w, "layout temporarily unavailable", http.StatusServiceUnavailable)
	default:
		s.log.Error("layout failed", "error", err)
		jsonError(w, "layout failed: "+err.Error(), http.StatusInternalServerError)
	}
	return nil, false
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) error {
	body := http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)
	return json.NewDecoder(body).Decode(v)
}
