package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/ByLCY/oshirase/revise"
	"github.com/ByLCY/oshirase/store"
)

type generateRequest struct {
	Text string `json:"text"`
	Mode string `json:"mode"`
}

// handleGenerate 对正文做 AI 校对，返回纯文本。只有成功的调用才计入当日配额。
func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := s.decode(w, r, &req); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		jsonError(w, "Text is required", http.StatusBadRequest)
		return
	}
	if !utf8.ValidString(req.Text) || utf8.RuneCountInString(req.Text) > s.cfg.MaxTextRunes {
		jsonError(w, "text is too long or not valid UTF-8", http.StatusBadRequest)
		return
	}
	mode, err := revise.ParseMode(req.Mode)
	if err != nil {
		jsonError(w, "Invalid mode", http.StatusBadRequest)
		return
	}
	if s.deps.Reviser == nil {
		jsonError(w, "AI proofreading is not configured", http.StatusServiceUnavailable)
		return
	}

	clientID := clientIDFrom(r.Context())
	if _, err := s.quota.Check(clientID); err != nil {
		if errors.Is(err, store.ErrQuotaExceeded) {
			jsonError(w, "本日の利用上限に達しました。明日またご利用ください。", http.StatusTooManyRequests)
			return
		}
		jsonError(w, "usage lookup failed: "+err.Error(), http.StatusInternalServerError)
		return
	}

	out, err := s.deps.Reviser.Revise(r.Context(), mode, req.Text)
	if err != nil {
		s.log.Error("revise failed", "mode", mode, "client", clientID, "error", err)
		jsonError(w, "AI generation failed: "+err.Error(), http.StatusBadGateway)
		return
	}

	if usage, err := s.quota.Record(clientID); err != nil {
		s.log.Error("record usage failed", "client", clientID, "error", err)
	} else {
		w.Header().Set("X-AI-Remaining", strconv.Itoa(usage.Remaining))
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte(out))
}
