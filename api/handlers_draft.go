package api

import (
	"errors"
	"net/http"

	"github.com/ByLCY/oshirase/announce"
	"github.com/ByLCY/oshirase/store"
	"github.com/ByLCY/oshirase/theme"
)

// defaultDraft 是从未保存过草稿的客户端看到的初始状态。
func defaultDraft() announce.Draft {
	return announce.Draft{Theme: theme.Formal, Font: theme.Mincho, Background: theme.White}
}

func (s *Server) handleGetDraft(w http.ResponseWriter, r *http.Request) {
	d, err := s.deps.Store.LoadDraft(clientIDFrom(r.Context()))
	switch {
	case errors.Is(err, store.ErrNotFound):
		d = defaultDraft()
	case err != nil:
		jsonError(w, "failed to load draft: "+err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (s *Server) handlePutDraft(w http.ResponseWriter, r *http.Request) {
	var d announce.Draft
	if err := s.decode(w, r, &d); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	d = d.Normalized()
	if err := d.Validate(s.deps.Catalog, s.cfg.MaxTextRunes); err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := s.deps.Store.SaveDraft(clientIDFrom(r.Context()), d); err != nil {
		s.log.Error("save draft failed", "error", err)
		jsonError(w, "failed to save draft: "+err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (s *Server) handleUsage(w http.ResponseWriter, r *http.Request) {
	u, err := s.quota.Usage(clientIDFrom(r.Context()))
	if err != nil {
		jsonError(w, "usage lookup failed: "+err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, u)
}
