package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/meltforce/gymcoach/internal/builder"
	"github.com/meltforce/gymcoach/internal/catalog"
	"github.com/meltforce/gymcoach/internal/i18n"
	"github.com/meltforce/gymcoach/internal/models"
	"github.com/meltforce/gymcoach/internal/share"
	"github.com/meltforce/gymcoach/internal/storage"
)

// viewLabels are the display keys the client-facing workout view renders.
var viewLabels = []string{
	"Workout Plan", "For", "Notes", "Exercise", "of", "Complete", "Time Left",
	"Start", "Pause", "Reset", "Instructions", "Exercise List",
	"Sets", "Reps", "sets", "reps",
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleListPlans(w http.ResponseWriter, r *http.Request) {
	plans, err := s.plans.List(r.Context())
	if err != nil {
		s.log.Error("list plans", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, plans)
}

func (s *Server) handleCreatePlan(w http.ResponseWriter, r *http.Request) {
	var req builder.Draft
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}

	// Rebuild through AddExercise so repeated ids collapse to one entry.
	draft := builder.Draft{Name: req.Name, ClientName: req.ClientName, Notes: req.Notes}
	for _, ex := range req.Exercises {
		if draft.AddExercise(ex) {
			draft.UpdateExercise(ex.ID, ex.SetCount(), ex.RepCount())
		}
	}

	plan, err := draft.Save(r.Context(), s.plans, time.Now())
	switch {
	case errors.Is(err, builder.ErrEmptyName), errors.Is(err, builder.ErrNoExercises):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	case err != nil:
		s.log.Error("save plan", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	s.metrics.plansSaved.Inc()
	s.log.Info("plan saved", "id", plan.ID, "exercises", len(plan.Exercises))
	writeJSON(w, http.StatusCreated, plan)
}

func (s *Server) handleGetPlan(w http.ResponseWriter, r *http.Request) {
	plan, ok := s.lookupPlan(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, plan)
}

type workoutView struct {
	Locale i18n.Locale       `json:"locale"`
	Dir    string            `json:"dir"`
	Labels map[string]string `json:"labels"`
	Plan   models.Plan       `json:"plan"`
}

func (s *Server) handleWorkoutView(w http.ResponseWriter, r *http.Request) {
	plan, ok := s.lookupPlan(w, r)
	if !ok {
		return
	}
	loc := i18n.FromContext(r.Context())
	labels := make(map[string]string, len(viewLabels))
	for _, key := range viewLabels {
		labels[key] = i18n.Resolve(key, loc)
	}
	writeJSON(w, http.StatusOK, workoutView{Locale: loc, Dir: loc.Dir(), Labels: labels, Plan: plan})
}

func (s *Server) handleSharePlan(w http.ResponseWriter, r *http.Request) {
	plan, ok := s.lookupPlan(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, share.NewInvite(s.origin, plan.ID, i18n.FromContext(r.Context())))
}

func (s *Server) handleExportPlan(w http.ResponseWriter, r *http.Request) {
	plan, ok := s.lookupPlan(w, r)
	if !ok {
		return
	}
	data, err := share.Export(plan)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", share.ExportFilename(plan.Name)))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.plans.Stats(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleExercises(w http.ResponseWriter, r *http.Request) {
	bodyPart := r.URL.Query().Get("bodyPart")
	if bodyPart != "" && !catalog.ValidBodyPart(bodyPart) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unknown body part: " + bodyPart})
		return
	}
	writeJSON(w, http.StatusOK, s.catalog.Search(r.Context(), bodyPart, r.URL.Query().Get("q")))
}

func (s *Server) handleBodyParts(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, catalog.BodyParts)
}

type localeResponse struct {
	Locale i18n.Locale       `json:"locale"`
	Dir    string            `json:"dir"`
	Table  map[string]string `json:"table"`
}

func newLocaleResponse(loc i18n.Locale) localeResponse {
	return localeResponse{Locale: loc, Dir: loc.Dir(), Table: i18n.Table(loc)}
}

func (s *Server) handleLocaleTable(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, newLocaleResponse(i18n.FromContext(r.Context())))
}

// handleToggleLocale returns the table of the locale opposite to the request's.
func (s *Server) handleToggleLocale(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, newLocaleResponse(i18n.FromContext(r.Context()).Toggle()))
}

// lookupPlan loads the plan named by the id URL parameter, writing the
// localized not-found body when it does not exist.
func (s *Server) lookupPlan(w http.ResponseWriter, r *http.Request) (models.Plan, bool) {
	plan, err := s.plans.Get(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, storage.ErrPlanNotFound) {
		writePlanNotFound(w, r)
		return models.Plan{}, false
	}
	if err != nil {
		s.log.Error("get plan", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return models.Plan{}, false
	}
	return plan, true
}

func writePlanNotFound(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	writeJSON(w, http.StatusNotFound, map[string]string{
		"error":   i18n.T(ctx, "Workout Not Found"),
		"message": i18n.T(ctx, "The requested workout plan could not be found."),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func mustJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return `{}`
	}
	return string(b)
}
