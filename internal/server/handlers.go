package server

import (
	"encoding/json"
	"io"
	"net/http"

	"go.uber.org/zap"

	"pingcheck/internal/apperr"
)

const maxPanelBody = 1 << 10

func (s *Server) handleState(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.checker.Snapshot())
}

func (s *Server) handleSummary(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.checker.Snapshot().Summary)
}

func (s *Server) handlePing(w http.ResponseWriter, r *http.Request) {
	if err := s.checker.Start(r.Context()); err != nil {
		s.logger.Debug("ping rejected", zap.Error(err))
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, s.checker.Snapshot())
}

type panelRequest struct {
	Open *bool `json:"open"`
}

// handlePanel sets the panel visibility from {"open": bool}, or toggles it
// when the body is empty.
func (s *Server) handlePanel(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxPanelBody))
	if err != nil {
		writeError(w, apperr.Wrap(err, apperr.CodeServerRequestInvalid, "read body"))
		return
	}

	if len(body) == 0 {
		s.checker.TogglePanel()
		writeJSON(w, http.StatusOK, s.checker.Snapshot())
		return
	}

	var req panelRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, apperr.Wrap(err, apperr.CodeServerRequestInvalid, "decode panel request"))
		return
	}
	if req.Open == nil {
		writeError(w, apperr.New(apperr.CodeServerRequestInvalid, "open is required"))
		return
	}
	s.checker.SetPanelOpen(*req.Open)
	writeJSON(w, http.StatusOK, s.checker.Snapshot())
}
