package builder_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/meltforce/gymcoach/internal/builder"
	"github.com/meltforce/gymcoach/internal/models"
	"github.com/meltforce/gymcoach/internal/storage"
)

var (
	situp = models.Exercise{ID: "0001", Name: "3/4 sit-up", Target: "abs", Equipment: "body weight"}
	bench = models.Exercise{ID: "0025", Name: "barbell bench press", Target: "pectorals", Equipment: "barbell"}
	squat = models.Exercise{ID: "0043", Name: "barbell full squat", Target: "glutes", Equipment: "barbell"}
)

func openStore(t *testing.T) *storage.PlanStore {
	t.Helper()
	kv, err := storage.OpenSQLite(filepath.Join(t.TempDir(), "gymcoach.db"))
	if err != nil {
		t.Fatal(err)
	}
	s := storage.NewPlanStore(kv)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestAddExerciseDefaultsAndDuplicates(t *testing.T) {
	var d builder.Draft
	if !d.AddExercise(situp) {
		t.Fatal("first add rejected")
	}
	if d.AddExercise(situp) {
		t.Error("duplicate add accepted")
	}
	if len(d.Exercises) != 1 {
		t.Fatalf("got %d exercises, want 1", len(d.Exercises))
	}
	ex := d.Exercises[0]
	if ex.Sets == nil || *ex.Sets != 3 || ex.Reps == nil || *ex.Reps != 12 {
		t.Errorf("defaults = %v/%v, want 3/12", ex.Sets, ex.Reps)
	}
}

func TestUpdateExercise(t *testing.T) {
	var d builder.Draft
	d.AddExercise(situp)
	d.AddExercise(bench)

	d.UpdateExercise(bench.ID, 5, 5)
	d.UpdateExercise("missing", 9, 9)

	if got := d.Exercises[1]; got.SetCount() != 5 || got.RepCount() != 5 {
		t.Errorf("bench = %d/%d, want 5/5", got.SetCount(), got.RepCount())
	}
	if got := d.Exercises[0]; got.SetCount() != 3 || got.RepCount() != 12 {
		t.Errorf("situp changed to %d/%d", got.SetCount(), got.RepCount())
	}

	d.UpdateExercise(bench.ID, 0, -5)
	if got := d.Exercises[1]; got.SetCount() != 3 || got.RepCount() != 12 {
		t.Errorf("non-positive targets kept as %d/%d, want 3/12", got.SetCount(), got.RepCount())
	}
}

func TestRemoveExercise(t *testing.T) {
	var d builder.Draft
	d.AddExercise(situp)
	d.AddExercise(bench)
	d.AddExercise(squat)

	d.RemoveExercise(bench.ID)
	d.RemoveExercise("missing")

	if len(d.Exercises) != 2 || d.Exercises[0].ID != situp.ID || d.Exercises[1].ID != squat.ID {
		t.Errorf("exercises after remove = %+v", d.Exercises)
	}
	if d.Contains(bench.ID) {
		t.Error("removed exercise still present")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		draft   builder.Draft
		wantErr error
	}{
		{"valid", builder.Draft{Name: "Push day", Exercises: []models.Exercise{bench}}, nil},
		{"empty name", builder.Draft{Name: "", Exercises: []models.Exercise{bench}}, builder.ErrEmptyName},
		{"whitespace name", builder.Draft{Name: "  ", Exercises: []models.Exercise{bench, squat}}, builder.ErrEmptyName},
		{"no exercises", builder.Draft{Name: "Push day"}, builder.ErrNoExercises},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.draft.Validate()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

// TestSaveRefusedLeavesStoreUntouched covers empty-name, whitespace-name and
// empty-selection drafts.
func TestSaveRefusedLeavesStoreUntouched(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	existing := builder.Draft{Name: "Existing"}
	existing.AddExercise(situp)
	if _, err := existing.Save(ctx, store, time.Now()); err != nil {
		t.Fatal(err)
	}

	drafts := []builder.Draft{
		{Name: "", Exercises: []models.Exercise{bench}},
		{Name: "  ", Exercises: []models.Exercise{bench, squat}},
		{Name: "No exercises"},
	}
	for _, d := range drafts {
		if _, err := d.Save(ctx, store, time.Now()); err == nil {
			t.Errorf("Save(%q) succeeded", d.Name)
		}
	}

	plans, err := store.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(plans) != 1 {
		t.Errorf("collection length = %d, want 1", len(plans))
	}
}

func TestSave(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()
	now := time.Date(2026, 5, 4, 7, 30, 0, 0, time.UTC)

	d := builder.Draft{Name: "Leg day", ClientName: "  Noor ", Notes: "   "}
	d.AddExercise(squat)
	d.AddExercise(situp)
	d.UpdateExercise(squat.ID, 5, 5)

	plan, err := d.Save(ctx, store, now)
	if err != nil {
		t.Fatal(err)
	}

	id, err := uuid.Parse(plan.ID)
	if err != nil {
		t.Fatalf("plan id %q is not a uuid: %v", plan.ID, err)
	}
	if id.Version() != 7 {
		t.Errorf("uuid version = %d, want 7", id.Version())
	}
	if !plan.CreatedAt.Equal(now) {
		t.Errorf("createdAt = %v, want %v", plan.CreatedAt, now)
	}
	if plan.ClientName != "Noor" || plan.Notes != "" {
		t.Errorf("client/notes = %q/%q", plan.ClientName, plan.Notes)
	}
	if plan.Exercises[0].ID != squat.ID || plan.Exercises[0].SetCount() != 5 {
		t.Errorf("exercise order or targets lost: %+v", plan.Exercises)
	}

	stored, err := store.Get(ctx, plan.ID)
	if err != nil {
		t.Fatal(err)
	}
	if stored.Name != "Leg day" || len(stored.Exercises) != 2 {
		t.Errorf("stored plan = %+v", stored)
	}

	// Editing the draft afterwards does not reach the saved plan.
	d.UpdateExercise(squat.ID, 1, 1)
	if plan.Exercises[0].SetCount() != 5 {
		t.Error("saved plan shares exercise storage with the draft")
	}
}

func TestSaveGeneratesUniqueIDs(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()
	seen := map[string]bool{}
	for i := 0; i < 5; i++ {
		d := builder.Draft{Name: "Plan"}
		d.AddExercise(bench)
		p, err := d.Save(ctx, store, time.Now())
		if err != nil {
			t.Fatal(err)
		}
		if seen[p.ID] {
			t.Fatalf("duplicate id %s", p.ID)
		}
		seen[p.ID] = true
	}
}
