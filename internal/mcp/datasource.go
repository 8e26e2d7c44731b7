package mcp

import (
	"context"

	"github.com/meltforce/gymcoach/internal/catalog"
	"github.com/meltforce/gymcoach/internal/i18n"
	"github.com/meltforce/gymcoach/internal/models"
	"github.com/meltforce/gymcoach/internal/share"
	"github.com/meltforce/gymcoach/internal/storage"
)

// DataSource abstracts the data layer for MCP tools. Both LocalSource and
// HTTPClient (remote via REST API) satisfy this interface.
type DataSource interface {
	ListPlans(ctx context.Context) ([]models.Plan, error)
	GetPlan(ctx context.Context, id string) (models.Plan, error)
	SearchExercises(ctx context.Context, bodyPart, query string) ([]models.Exercise, error)
	GetStats(ctx context.Context) (storage.Stats, error)
	SharePlan(ctx context.Context, id string, loc i18n.Locale) (share.Invite, error)
}

// LocalSource serves MCP tools from the in-process store and catalog.
type LocalSource struct {
	plans   *storage.PlanStore
	catalog *catalog.Searcher
	origin  string
}

// Compile-time check: LocalSource satisfies DataSource.
var _ DataSource = (*LocalSource)(nil)

// NewLocalSource creates a LocalSource. origin is the public base URL of share links.
func NewLocalSource(plans *storage.PlanStore, searcher *catalog.Searcher, origin string) *LocalSource {
	return &LocalSource{plans: plans, catalog: searcher, origin: origin}
}

func (l *LocalSource) ListPlans(ctx context.Context) ([]models.Plan, error) {
	return l.plans.List(ctx)
}

func (l *LocalSource) GetPlan(ctx context.Context, id string) (models.Plan, error) {
	return l.plans.Get(ctx, id)
}

func (l *LocalSource) SearchExercises(ctx context.Context, bodyPart, query string) ([]models.Exercise, error) {
	return l.catalog.Search(ctx, bodyPart, query), nil
}

func (l *LocalSource) GetStats(ctx context.Context) (storage.Stats, error) {
	return l.plans.Stats(ctx)
}

func (l *LocalSource) SharePlan(ctx context.Context, id string, loc i18n.Locale) (share.Invite, error) {
	if _, err := l.plans.Get(ctx, id); err != nil {
		return share.Invite{}, err
	}
	return share.NewInvite(l.origin, id, loc), nil
}
