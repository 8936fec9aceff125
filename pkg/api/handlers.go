package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/tickergrid/pkg/buildinfo"
	apperr "github.com/matzehuels/tickergrid/pkg/errors"
	"github.com/matzehuels/tickergrid/pkg/layout"
	"github.com/matzehuels/tickergrid/pkg/state"
	"github.com/matzehuels/tickergrid/pkg/workspace"
)

type okResponse struct {
	OK bool `json:"ok"`
}

type healthResponse struct {
	OK bool `json:"ok"`
	buildinfo.Info
}

type sessionResponse struct {
	SessionID string `json:"sessionId"`
}

// layoutResponse reports the canonical layout after a read or a change.
// Reset and Reason are set when a proposed layout was replaced by the
// defaults.
type layoutResponse struct {
	Layouts layout.Layout `json:"layouts"`
	Version int           `json:"version"`
	Reset   bool          `json:"reset,omitempty"`
	Reason  string        `json:"reason,omitempty"`
}

type layoutRequest struct {
	Layouts layout.Layout `json:"layouts"`
}

type stateResponse struct {
	OK    bool `json:"ok"`
	Reset bool `json:"reset,omitempty"`
}

type settingsRequest struct {
	SelectedTicker *string `json:"selectedTicker"`
	TimeRange      *string `json:"timeRange"`
	Theme          *string `json:"theme"`
}

type tickerRequest struct {
	Ticker string `json:"ticker"`
}

func newLayoutResponse(l layout.Layout, res layout.Result) layoutResponse {
	resp := layoutResponse{Layouts: l, Version: layout.SchemaVersion, Reset: res.Reset}
	if res.Reason != nil {
		resp.Reason = res.Reason.Error()
	}
	return resp
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{OK: true, Info: buildinfo.Get()})
}

func (s *Server) handleNewSession(w http.ResponseWriter, r *http.Request) {
	id := state.NewSessionID()
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    id,
		Path:     "/",
		MaxAge:   sessionMaxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusCreated, sessionResponse{SessionID: id})
}

func (s *Server) handleGetState(w http.ResponseWriter, r *http.Request) {
	ws, ok := s.session(w, r)
	if !ok {
		return
	}
	snap := ws.Snapshot()
	tag := etag(state.Hash(snap))
	w.Header().Set("ETag", tag)
	if r.Header.Get("If-None-Match") == tag {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handlePutState(w http.ResponseWriter, r *http.Request) {
	ws, ok := s.session(w, r)
	if !ok {
		return
	}
	var body state.State
	if err := decode(w, r, &body); err != nil {
		s.writeError(w, r, err)
		return
	}
	res := ws.ReplaceState(r.Context(), &body)
	writeJSON(w, http.StatusOK, stateResponse{OK: true, Reset: res.Reset})
}

func (s *Server) handlePatchSettings(w http.ResponseWriter, r *http.Request) {
	ws, ok := s.session(w, r)
	if !ok {
		return
	}
	var body settingsRequest
	if err := decode(w, r, &body); err != nil {
		s.writeError(w, r, err)
		return
	}
	if body.SelectedTicker != nil {
		if err := ws.SetSelectedTicker(*body.SelectedTicker); err != nil {
			s.writeError(w, r, err)
			return
		}
	}
	if body.TimeRange != nil {
		if err := ws.SetTimeRange(*body.TimeRange); err != nil {
			s.writeError(w, r, err)
			return
		}
	}
	if body.Theme != nil {
		if err := ws.SetTheme(*body.Theme); err != nil {
			s.writeError(w, r, err)
			return
		}
	}
	writeJSON(w, http.StatusOK, ws.Settings())
}

func (s *Server) handleAddTicker(w http.ResponseWriter, r *http.Request) {
	ws, ok := s.session(w, r)
	if !ok {
		return
	}
	var body tickerRequest
	if err := decode(w, r, &body); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := ws.AddTicker(body.Ticker); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ws.Settings())
}

func (s *Server) handleRemoveTicker(w http.ResponseWriter, r *http.Request) {
	ws, ok := s.session(w, r)
	if !ok {
		return
	}
	if err := ws.RemoveTicker(chi.URLParam(r, "ticker")); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ws.Settings())
}

func (s *Server) handleGetLayout(w http.ResponseWriter, r *http.Request) {
	ws, ok := s.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, newLayoutResponse(ws.Layouts(), layout.Result{}))
}

func (s *Server) handlePutLayout(w http.ResponseWriter, r *http.Request) {
	ws, ok := s.session(w, r)
	if !ok {
		return
	}
	var body layoutRequest
	if err := decode(w, r, &body); err != nil {
		s.writeError(w, r, err)
		return
	}
	res := ws.SetLayouts(r.Context(), body.Layouts)
	writeJSON(w, http.StatusOK, newLayoutResponse(ws.Layouts(), res))
}

func (s *Server) handleResetLayout(w http.ResponseWriter, r *http.Request) {
	ws, ok := s.session(w, r)
	if !ok {
		return
	}
	ws.ResetLayouts()
	writeJSON(w, http.StatusOK, newLayoutResponse(ws.Layouts(), layout.Result{}))
}

func (s *Server) handleListSections(w http.ResponseWriter, r *http.Request) {
	ws, ok := s.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, ws.Sections())
}

func (s *Server) handleGetSection(w http.ResponseWriter, r *http.Request) {
	ws, ok := s.session(w, r)
	if !ok {
		return
	}
	sec, err := workspace.ParseSection(chi.URLParam(r, "section"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	view, err := ws.SectionView(sec)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if bp := r.URL.Query().Get("breakpoint"); bp != "" {
		b, err := workspace.ParseBreakpoint(bp)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, breakpointView(view, b))
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// sectionBreakpointResponse is one breakpoint variant of a section.
type sectionBreakpointResponse struct {
	Section    string        `json:"section"`
	Breakpoint string        `json:"breakpoint"`
	Cols       int           `json:"cols"`
	Layout     layout.Layout `json:"layout"`
}

func breakpointView(v workspace.View, b layout.Breakpoint) sectionBreakpointResponse {
	return sectionBreakpointResponse{
		Section:    string(v.Section),
		Breakpoint: b.String(),
		Cols:       b.Cols(),
		Layout:     v.Layouts.For(b),
	}
}

// handlePutSection accepts the changed lg layout of one section, either as
// a bare array or as {"layouts": [...]}, and returns the updated section.
func (s *Server) handlePutSection(w http.ResponseWriter, r *http.Request) {
	ws, ok := s.session(w, r)
	if !ok {
		return
	}
	sec, err := workspace.ParseSection(chi.URLParam(r, "section"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	patch, err := decodeLayout(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	res, err := ws.PersistSection(r.Context(), sec, patch)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	view, err := ws.SectionView(sec)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		workspace.View
		Reset bool `json:"reset,omitempty"`
	}{view, res.Reset})
}

func decodeLayout(w http.ResponseWriter, r *http.Request) (layout.Layout, error) {
	var raw json.RawMessage
	if err := decode(w, r, &raw); err != nil {
		return nil, err
	}
	trimmed := strings.TrimSpace(string(raw))
	var l layout.Layout
	if strings.HasPrefix(trimmed, "[") {
		if err := json.Unmarshal(raw, &l); err != nil {
			return nil, apperr.Wrap(apperr.ErrCodeInvalidInput, err, "invalid layout")
		}
		return l, nil
	}
	var body layoutRequest
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, apperr.Wrap(apperr.ErrCodeInvalidInput, err, "invalid layout")
	}
	return body.Layouts, nil
}
