package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/meltforce/gymcoach/internal/playback"
)

type sessionResponse struct {
	ID     string         `json:"id"`
	PlanID string         `json:"planId"`
	State  playback.State `json:"state"`
}

func (s *Server) handleOpenSession(w http.ResponseWriter, r *http.Request) {
	plan, ok := s.lookupPlan(w, r)
	if !ok {
		return
	}
	id, d, err := s.sessions.Open(plan)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	s.metrics.sessionsOpened.Inc()
	writeJSON(w, http.StatusCreated, sessionResponse{ID: id, PlanID: plan.ID, State: d.State()})
}

// driver resolves the sid URL parameter, writing a 404 when the session is gone.
func (s *Server) driver(w http.ResponseWriter, r *http.Request) (*playback.Driver, bool) {
	d, err := s.sessions.Get(chi.URLParam(r, "sid"))
	if errors.Is(err, playback.ErrSessionNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
		return nil, false
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return nil, false
	}
	return d, true
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	if d, ok := s.driver(w, r); ok {
		writeJSON(w, http.StatusOK, d.State())
	}
}

func (s *Server) handleCloseSession(w http.ResponseWriter, r *http.Request) {
	if err := s.sessions.Close(chi.URLParam(r, "sid")); err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSessionStart(w http.ResponseWriter, r *http.Request) {
	if d, ok := s.driver(w, r); ok {
		writeJSON(w, http.StatusOK, d.Start())
	}
}

func (s *Server) handleSessionPause(w http.ResponseWriter, r *http.Request) {
	if d, ok := s.driver(w, r); ok {
		writeJSON(w, http.StatusOK, d.Pause())
	}
}

func (s *Server) handleSessionReset(w http.ResponseWriter, r *http.Request) {
	if d, ok := s.driver(w, r); ok {
		writeJSON(w, http.StatusOK, d.Reset())
	}
}

type selectRequest struct {
	Index *int `json:"index"`
}

func (s *Server) handleSessionSelect(w http.ResponseWriter, r *http.Request) {
	d, ok := s.driver(w, r)
	if !ok {
		return
	}
	var req selectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if req.Index == nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "index is required"})
		return
	}
	st, err := d.Select(*req.Index)
	if errors.Is(err, playback.ErrIndexOutOfRange) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// handleSessionEvents streams a snapshot after every tick or event until the
// client disconnects or the session is closed.
func (s *Server) handleSessionEvents(w http.ResponseWriter, r *http.Request) {
	d, ok := s.driver(w, r)
	if !ok {
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "streaming not supported"})
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch := d.Subscribe()
	defer d.Unsubscribe(ch)

	// Send current state immediately
	fmt.Fprintf(w, "event: state\ndata: %s\n\n", mustJSON(d.State()))
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case st, ok := <-ch:
			if !ok {
				fmt.Fprint(w, "event: closed\ndata: {}\n\n")
				flusher.Flush()
				return
			}
			fmt.Fprintf(w, "event: state\ndata: %s\n\n", mustJSON(st))
			flusher.Flush()
		}
	}
}
