// Package builder composes new workout plans.
package builder

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/meltforce/gymcoach/internal/models"
)

// Domain errors
var (
	ErrEmptyName   = errors.New("workout name cannot be empty")
	ErrNoExercises = errors.New("workout needs at least one exercise")
)

// Appender persists a finished plan.
type Appender interface {
	Append(ctx context.Context, plan models.Plan) error
}

// Draft is a plan being composed. The zero value is an empty draft.
type Draft struct {
	Name       string            `json:"name"`
	ClientName string            `json:"clientName,omitempty"`
	Notes      string            `json:"notes,omitempty"`
	Exercises  []models.Exercise `json:"exercises"`
}

// AddExercise appends ex with the default set/rep targets. An exercise whose
// id is already in the draft is ignored. Reports whether ex was added.
func (d *Draft) AddExercise(ex models.Exercise) bool {
	if d.Contains(ex.ID) {
		return false
	}
	d.Exercises = append(d.Exercises, ex.WithTargets(models.DefaultSets, models.DefaultReps))
	return true
}

// UpdateExercise sets the targets of the exercise with the given id.
// A count below one falls back to its default. Unknown ids are ignored.
func (d *Draft) UpdateExercise(id string, sets, reps int) {
	if sets < 1 {
		sets = models.DefaultSets
	}
	if reps < 1 {
		reps = models.DefaultReps
	}
	for i := range d.Exercises {
		if d.Exercises[i].ID == id {
			d.Exercises[i] = d.Exercises[i].WithTargets(sets, reps)
			return
		}
	}
}

// RemoveExercise drops the exercise with the given id. Unknown ids are ignored.
func (d *Draft) RemoveExercise(id string) {
	for i := range d.Exercises {
		if d.Exercises[i].ID == id {
			d.Exercises = append(d.Exercises[:i:i], d.Exercises[i+1:]...)
			return
		}
	}
}

// Contains reports whether an exercise with id is in the draft.
func (d *Draft) Contains(id string) bool {
	for _, ex := range d.Exercises {
		if ex.ID == id {
			return true
		}
	}
	return false
}

// Validate checks the draft can be saved.
// PRE: Draft is populated
// POST: Returns nil if valid, error otherwise
func (d *Draft) Validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return ErrEmptyName
	}
	if len(d.Exercises) == 0 {
		return ErrNoExercises
	}
	return nil
}

// Save finalizes the draft into a Plan stamped with a fresh time-ordered id
// and now, and appends it to store. Nothing is written when validation fails.
func (d *Draft) Save(ctx context.Context, store Appender, now time.Time) (models.Plan, error) {
	if err := d.Validate(); err != nil {
		return models.Plan{}, err
	}

	id, err := uuid.NewV7()
	if err != nil {
		return models.Plan{}, fmt.Errorf("generating plan id: %w", err)
	}

	exercises := make([]models.Exercise, len(d.Exercises))
	for i, ex := range d.Exercises {
		exercises[i] = ex.WithTargets(ex.SetCount(), ex.RepCount())
	}

	plan := models.Plan{
		ID:         id.String(),
		Name:       d.Name,
		Exercises:  exercises,
		CreatedAt:  now.UTC(),
		ClientName: strings.TrimSpace(d.ClientName),
		Notes:      strings.TrimSpace(d.Notes),
	}
	if err := store.Append(ctx, plan); err != nil {
		return models.Plan{}, fmt.Errorf("saving plan: %w", err)
	}
	return plan, nil
}
