package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/FileLanderScaner/ANALYZER/internal/driven"
	"github.com/FileLanderScaner/ANALYZER/internal/llm"
	"github.com/FileLanderScaner/ANALYZER/internal/models"
	"github.com/FileLanderScaner/ANALYZER/internal/storage"
	"github.com/FileLanderScaner/ANALYZER/internal/websocket"
)

// userIDHeader carries the authenticated user id set by the fronting auth proxy.
const userIDHeader = websocket.UserIDHeader

type errorResponse struct {
	Error string `json:"error"`
}

type exportRequest struct {
	Findings []models.Finding `json:"findings"`
	Locale   models.Locale    `json:"locale,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body: "+err.Error())
		return false
	}
	return true
}

func (s *Server) locale(raw models.Locale) models.Locale {
	return models.ParseLocale(string(raw), models.ParseLocale(s.config.Pipeline.Locale, models.LocaleEN))
}

// caller resolves identity from the header and entitlement from storage.
// A failed entitlement lookup degrades to a non-entitled caller.
func (s *Server) caller(r *http.Request) driven.Caller {
	c := driven.Caller{UserID: strings.TrimSpace(r.Header.Get(userIDHeader))}
	if c.UserID == "" || s.storage == nil {
		return c
	}

	entitled, err := s.storage.IsEntitled(r.Context(), c.UserID)
	if err != nil {
		s.log.WithError(err).WithField("user_id", c.UserID).Warn("⚠️ Entitlement lookup failed, treating caller as not entitled")
		return c
	}
	c.Entitled = entitled
	return c
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var sub models.Submission
	if !s.decode(w, r, &sub) {
		return
	}

	res := s.pipeline.RunAll(r.Context(), &sub, s.caller(r))
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleAssistant(w http.ResponseWriter, r *http.Request) {
	var req llm.AssistantRequest
	if !s.decode(w, r, &req) {
		return
	}
	locale := s.locale(req.Locale)

	resp, err := s.pipeline.AskAssistant(r.Context(), &req)
	switch {
	case errors.Is(err, driven.ErrEmptyMessage):
		writeError(w, http.StatusBadRequest, err.Error())
	case err != nil:
		writeError(w, http.StatusBadGateway, driven.UserFacingError(err, locale))
	default:
		writeJSON(w, http.StatusOK, resp)
	}
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	var req exportRequest
	if !s.decode(w, r, &req) {
		return
	}

	body, err := driven.ExportFindings(req.Findings, s.locale(req.Locale))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if len(req.Findings) > 0 {
		w.Header().Set("Content-Disposition", `attachment; filename="findings.json"`)
	}
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}

func (s *Server) handleListAnalyses(w http.ResponseWriter, r *http.Request) {
	userID := strings.TrimSpace(r.Header.Get(userIDHeader))
	if userID == "" {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	records, err := s.storage.ListRecords(r.Context(), userID, limit)
	if err != nil {
		s.log.WithError(err).Error("❌ Failed to list analysis records")
		writeError(w, http.StatusInternalServerError, "Failed to list analyses")
		return
	}
	writeJSON(w, http.StatusOK, records)
}

func (s *Server) handleGetAnalysis(w http.ResponseWriter, r *http.Request) {
	userID := strings.TrimSpace(r.Header.Get(userIDHeader))
	if userID == "" {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	rec, err := s.storage.GetRecord(r.Context(), userID, r.PathValue("id"))
	switch {
	case errors.Is(err, storage.ErrNotFound):
		writeError(w, http.StatusNotFound, "Analysis not found")
	case err != nil:
		s.log.WithError(err).Error("❌ Failed to load analysis record")
		writeError(w, http.StatusInternalServerError, "Failed to load analysis")
	default:
		writeJSON(w, http.StatusOK, rec)
	}
}
