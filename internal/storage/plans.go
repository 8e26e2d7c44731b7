package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/meltforce/gymcoach/internal/models"
)

// PlansKey is the collection key the plans are stored under.
const PlansKey = "workoutPlans"

var (
	ErrConflict     = errors.New("collection was modified concurrently")
	ErrPlanNotFound = errors.New("plan not found")
	ErrDuplicateID  = errors.New("plan id already exists")
	ErrInvalidPlan  = errors.New("plan must have an id, a name and at least one exercise")
)

// KV is a versioned key-value store. Put with expect == 0 creates the key.
// A version mismatch yields ErrConflict.
type KV interface {
	Get(ctx context.Context, key string) (value []byte, version int64, err error)
	Put(ctx context.Context, key string, value []byte, expect int64) (version int64, err error)
	Close() error
}

// PlanStore keeps the ordered plan collection as one JSON document under
// PlansKey. Every mutation reads the whole collection and rewrites it.
type PlanStore struct {
	kv  KV
	key string
	mu  sync.Mutex
}

// NewPlanStore creates a PlanStore over kv.
func NewPlanStore(kv KV) *PlanStore {
	return &PlanStore{kv: kv, key: PlansKey}
}

// Close closes the underlying KV.
func (s *PlanStore) Close() error {
	return s.kv.Close()
}

// List returns every plan in insertion order.
func (s *PlanStore) List(ctx context.Context) ([]models.Plan, error) {
	plans, _, err := s.load(ctx)
	return plans, err
}

// Get returns the plan with the given id.
func (s *PlanStore) Get(ctx context.Context, id string) (models.Plan, error) {
	plans, _, err := s.load(ctx)
	if err != nil {
		return models.Plan{}, err
	}
	for _, p := range plans {
		if p.ID == id {
			return p, nil
		}
	}
	return models.Plan{}, fmt.Errorf("%w: %s", ErrPlanNotFound, id)
}

// Append adds plan to the end of the collection. The id must not already be present.
func (s *PlanStore) Append(ctx context.Context, plan models.Plan) error {
	if plan.ID == "" || plan.Name == "" || len(plan.Exercises) == 0 {
		return ErrInvalidPlan
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// The lock serializes writers in this process; the version check covers
	// another process sharing the database. One reload is enough to recover.
	var err error
	for range 2 {
		if err = s.appendOnce(ctx, plan); !errors.Is(err, ErrConflict) {
			return err
		}
	}
	return err
}

func (s *PlanStore) appendOnce(ctx context.Context, plan models.Plan) error {
	plans, version, err := s.load(ctx)
	if err != nil {
		return err
	}
	for _, p := range plans {
		if p.ID == plan.ID {
			return fmt.Errorf("%w: %s", ErrDuplicateID, plan.ID)
		}
	}

	data, err := json.Marshal(append(plans, plan))
	if err != nil {
		return fmt.Errorf("encoding plans: %w", err)
	}
	if _, err := s.kv.Put(ctx, s.key, data, version); err != nil {
		return err
	}
	return nil
}

func (s *PlanStore) load(ctx context.Context) ([]models.Plan, int64, error) {
	data, version, err := s.kv.Get(ctx, s.key)
	if err != nil {
		return nil, 0, fmt.Errorf("reading plans: %w", err)
	}
	plans := []models.Plan{}
	if len(data) == 0 {
		return plans, version, nil
	}
	if err := json.Unmarshal(data, &plans); err != nil {
		return nil, 0, fmt.Errorf("decoding plans: %w", err)
	}
	return plans, version, nil
}

// Stats summarizes the collection for the dashboard.
type Stats struct {
	TotalWorkouts int `json:"totalWorkouts"`
	ActiveClients int `json:"activeClients"`
	PlansShared   int `json:"plansShared"`
}

// Stats counts plans and distinct client names. Every saved plan has a
// share link, so PlansShared equals TotalWorkouts.
func (s *PlanStore) Stats(ctx context.Context) (Stats, error) {
	plans, err := s.List(ctx)
	if err != nil {
		return Stats{}, err
	}
	clients := map[string]bool{}
	for _, p := range plans {
		if p.ClientName != "" {
			clients[p.ClientName] = true
		}
	}
	return Stats{
		TotalWorkouts: len(plans),
		ActiveClients: len(clients),
		PlansShared:   len(plans),
	}, nil
}
