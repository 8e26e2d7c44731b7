package server

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/meltforce/gymcoach/internal/models"
	"github.com/meltforce/gymcoach/internal/playback"
	"github.com/meltforce/gymcoach/internal/storage"
)

// PlanStore is the plan persistence the handlers need. *storage.PlanStore satisfies it.
type PlanStore interface {
	List(ctx context.Context) ([]models.Plan, error)
	Get(ctx context.Context, id string) (models.Plan, error)
	Append(ctx context.Context, plan models.Plan) error
	Stats(ctx context.Context) (storage.Stats, error)
}

// ExerciseSearcher serves catalog listings. *catalog.Searcher satisfies it.
type ExerciseSearcher interface {
	Search(ctx context.Context, bodyPart, query string) []models.Exercise
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	plans    PlanStore
	catalog  ExerciseSearcher
	sessions *playback.Registry
	origin   string
	metrics  *Metrics
	log      *slog.Logger
	router   chi.Router
}

// New creates a new Server with all routes configured. origin is the public
// base URL used in share links.
func New(plans PlanStore, searcher ExerciseSearcher, sessions *playback.Registry, origin string, log *slog.Logger) *Server {
	s := &Server{
		plans:    plans,
		catalog:  searcher,
		sessions: sessions,
		origin:   origin,
		metrics:  NewMetrics(sessions.Len),
		log:      log,
		router:   chi.NewRouter(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(RequestLogging(s.log))
	s.router.Use(CORS)
	s.router.Use(Locale)
	s.router.Use(s.metrics.Instrument)

	s.router.Get("/api/v1/health", s.handleHealth)
	s.router.Method(http.MethodGet, "/metrics", s.metrics.Handler())

	s.router.Route("/api/v1/plans", func(r chi.Router) {
		r.Get("/", s.handleListPlans)
		r.Post("/", s.handleCreatePlan)
		r.Get("/{id}", s.handleGetPlan)
		r.Get("/{id}/share", s.handleSharePlan)
		r.Get("/{id}/export", s.handleExportPlan)
		r.Post("/{id}/sessions", s.handleOpenSession)
	})
	s.router.Get("/workout/{id}", s.handleWorkoutView)

	s.router.Get("/api/v1/stats", s.handleStats)
	s.router.Get("/api/v1/exercises", s.handleExercises)
	s.router.Get("/api/v1/bodyparts", s.handleBodyParts)
	s.router.Get("/api/v1/i18n", s.handleLocaleTable)
	s.router.Post("/api/v1/i18n/toggle", s.handleToggleLocale)

	s.router.Route("/api/v1/sessions/{sid}", func(r chi.Router) {
		r.Get("/", s.handleGetSession)
		r.Delete("/", s.handleCloseSession)
		r.Get("/events", s.handleSessionEvents)
		r.Post("/start", s.handleSessionStart)
		r.Post("/pause", s.handleSessionPause)
		r.Post("/reset", s.handleSessionReset)
		r.Post("/select", s.handleSessionSelect)
	})
}

// MountMCP serves an MCP transport handler at /mcp.
func (s *Server) MountMCP(h http.Handler) {
	s.router.Handle("/mcp", h)
}
