// internal/server/server.go

// Package server exposes the assistant over HTTP. The query endpoint
// never returns a 5xx for interpretation or snapshot problems; it
// degrades to a response carrying warnings instead.
package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	qerrors "carwash-assistant/internal/common/errors"
	"carwash-assistant/internal/common/logger"
	"carwash-assistant/internal/engine"
	"carwash-assistant/internal/memory"
	"carwash-assistant/internal/models"
)

// RecordSource supplies the record snapshot a query is answered
// against.
type RecordSource interface {
	Snapshot(ctx context.Context) ([]models.ServiceRecord, []qerrors.QueryWarning, error)
}

type Server struct {
	engine *engine.Engine
	source RecordSource
	mem    *memory.Memory
	log    logger.Logger

	timeout time.Duration
	delay   time.Duration
}

func New(eng *engine.Engine, source RecordSource, mem *memory.Memory, log logger.Logger, timeout, delay time.Duration) *Server {
	return &Server{
		engine:  eng,
		source:  source,
		mem:     mem,
		log:     log,
		timeout: timeout,
		delay:   delay,
	}
}

// Routes registers the assistant endpoints on the given mux.
func (s *Server) Routes(mux *http.ServeMux) {
	mux.HandleFunc("/api/assistant/query", s.handleQuery)
	mux.HandleFunc("/api/assistant/history", s.handleHistory)
	mux.HandleFunc("/health", s.handleHealth)
}

type queryRequest struct {
	Message string `json:"message"`
}

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	// An empty body is treated as an empty message, which the engine
	// answers with the dashboard prompt.
	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err != io.EOF {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.timeout)
	defer cancel()

	var warnings []qerrors.QueryWarning
	records, snapWarnings, err := s.source.Snapshot(ctx)
	warnings = append(warnings, snapWarnings...)
	if err != nil {
		s.log.Error("snapshot load failed", map[string]interface{}{"error": err.Error()})
		records = nil
		warnings = append(warnings, qerrors.NewSnapshotWarning(err))
	}

	resp := s.engine.Process(ctx, req.Message, records, warnings...)

	if s.mem != nil && strings.TrimSpace(req.Message) != "" {
		err := s.mem.Add(ctx, memory.Entry{
			Query:      req.Message,
			Intent:     resp.NLPContext.Intent,
			Confidence: resp.NLPContext.Confidence,
			Timestamp:  time.Now(),
		})
		if err != nil {
			s.log.Warn("conversation memory write failed", map[string]interface{}{"error": err.Error()})
			resp.NLPContext.Warnings = append(resp.NLPContext.Warnings, qerrors.NewMemoryWarning(err).String())
		}
	}

	// The dashboard asked for a small artificial delay so replies feel
	// typed rather than instant.
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

// handleHistory serves the recent conversation log, newest first, for
// the kiosk display.
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	entries := []memory.Entry{}
	if s.mem != nil {
		limit := s.mem.Len()
		if raw := r.URL.Query().Get("limit"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n < 0 {
				http.Error(w, "invalid limit", http.StatusBadRequest)
				return
			}
			limit = n
		}
		entries = s.mem.Recent(limit)
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"total":   len(entries),
		"entries": entries,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
		"time":   time.Now().Format(time.RFC3339),
	})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
