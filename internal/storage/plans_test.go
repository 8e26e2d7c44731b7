package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/meltforce/gymcoach/internal/models"
)

func openTestStore(t *testing.T) *PlanStore {
	t.Helper()
	kv, err := OpenSQLite(filepath.Join(t.TempDir(), "gymcoach.db"))
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	s := NewPlanStore(kv)
	t.Cleanup(func() { s.Close() })
	return s
}

func samplePlan(id, name, client string) models.Plan {
	return models.Plan{
		ID:         id,
		Name:       name,
		ClientName: client,
		CreatedAt:  time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
		Exercises: []models.Exercise{
			models.Exercise{ID: "0001", Name: "3/4 sit-up", Target: "abs", Equipment: "body weight"}.WithTargets(3, 12),
			models.Exercise{ID: "0025", Name: "barbell bench press", Target: "pectorals", Equipment: "barbell"}.WithTargets(4, 8),
		},
	}
}

func TestListEmpty(t *testing.T) {
	s := openTestStore(t)
	plans, err := s.List(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if plans == nil || len(plans) != 0 {
		t.Errorf("List = %#v, want empty non-nil slice", plans)
	}
}

func TestAppendPreservesOrder(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	for _, id := range []string{"a", "b", "c"} {
		if err := s.Append(ctx, samplePlan(id, "Plan "+id, "")); err != nil {
			t.Fatalf("Append(%s): %v", id, err)
		}
	}

	plans, err := s.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(plans) != 3 {
		t.Fatalf("got %d plans, want 3", len(plans))
	}
	for i, id := range []string{"a", "b", "c"} {
		if plans[i].ID != id {
			t.Errorf("plans[%d].ID = %q, want %q", i, plans[i].ID, id)
		}
	}
	if got := plans[1].Exercises[1].RepCount(); got != 8 {
		t.Errorf("reps = %d, want 8", got)
	}
}

func TestGet(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	if err := s.Append(ctx, samplePlan("p1", "Legs", "Sam")); err != nil {
		t.Fatal(err)
	}

	p, err := s.Get(ctx, "p1")
	if err != nil {
		t.Fatal(err)
	}
	if p.Name != "Legs" || p.ClientName != "Sam" || len(p.Exercises) != 2 {
		t.Errorf("Get = %+v", p)
	}
	if !p.CreatedAt.Equal(time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)) {
		t.Errorf("createdAt = %v", p.CreatedAt)
	}

	if _, err := s.Get(ctx, "missing"); !errors.Is(err, ErrPlanNotFound) {
		t.Errorf("Get(missing) err = %v, want ErrPlanNotFound", err)
	}
}

func TestAppendRejectsDuplicateID(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	if err := s.Append(ctx, samplePlan("p1", "One", "")); err != nil {
		t.Fatal(err)
	}
	if err := s.Append(ctx, samplePlan("p1", "Two", "")); !errors.Is(err, ErrDuplicateID) {
		t.Errorf("err = %v, want ErrDuplicateID", err)
	}
	plans, _ := s.List(ctx)
	if len(plans) != 1 || plans[0].Name != "One" {
		t.Errorf("collection changed: %+v", plans)
	}
}

func TestAppendRejectsInvalidPlan(t *testing.T) {
	s := openTestStore(t)
	p := samplePlan("p1", "One", "")
	p.Exercises = nil
	if err := s.Append(context.Background(), p); !errors.Is(err, ErrInvalidPlan) {
		t.Errorf("err = %v, want ErrInvalidPlan", err)
	}
}

// TestPersistsAcrossReopen verifies the collection survives closing the database.
func TestPersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gymcoach.db")
	kv, err := OpenSQLite(path)
	if err != nil {
		t.Fatal(err)
	}
	s := NewPlanStore(kv)
	if err := s.Append(context.Background(), samplePlan("p1", "Pull", "")); err != nil {
		t.Fatal(err)
	}
	s.Close()

	kv, err = OpenSQLite(path)
	if err != nil {
		t.Fatal(err)
	}
	s = NewPlanStore(kv)
	defer s.Close()
	if _, err := s.Get(context.Background(), "p1"); err != nil {
		t.Errorf("Get after reopen: %v", err)
	}
}

func TestSQLiteVersionCheck(t *testing.T) {
	kv, err := OpenSQLite(filepath.Join(t.TempDir(), "kv.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer kv.Close()
	ctx := context.Background()

	v, err := kv.Put(ctx, "k", []byte(`[]`), 0)
	if err != nil || v != 1 {
		t.Fatalf("create: v=%d err=%v", v, err)
	}
	if _, err := kv.Put(ctx, "k", []byte(`[1]`), 0); !errors.Is(err, ErrConflict) {
		t.Errorf("second create err = %v, want ErrConflict", err)
	}
	if _, err := kv.Put(ctx, "k", []byte(`[1]`), 7); !errors.Is(err, ErrConflict) {
		t.Errorf("stale update err = %v, want ErrConflict", err)
	}
	v, err = kv.Put(ctx, "k", []byte(`[1]`), 1)
	if err != nil || v != 2 {
		t.Fatalf("update: v=%d err=%v", v, err)
	}
	data, version, err := kv.Get(ctx, "k")
	if err != nil || string(data) != `[1]` || version != 2 {
		t.Errorf("Get = %q, %d, %v", data, version, err)
	}
}

// conflictKV fails the first Put with ErrConflict, as if another process wrote first.
type conflictKV struct {
	KV
	failures int
}

func (c *conflictKV) Put(ctx context.Context, key string, value []byte, expect int64) (int64, error) {
	if c.failures > 0 {
		c.failures--
		return 0, ErrConflict
	}
	return c.KV.Put(ctx, key, value, expect)
}

func TestAppendRetriesOnceOnConflict(t *testing.T) {
	kv, err := OpenSQLite(filepath.Join(t.TempDir(), "kv.db"))
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	s := NewPlanStore(&conflictKV{KV: kv, failures: 1})
	defer s.Close()
	if err := s.Append(ctx, samplePlan("p1", "One", "")); err != nil {
		t.Fatalf("Append with one conflict: %v", err)
	}

	s2 := NewPlanStore(&conflictKV{KV: kv, failures: 2})
	if err := s2.Append(ctx, samplePlan("p2", "Two", "")); !errors.Is(err, ErrConflict) {
		t.Errorf("err = %v, want ErrConflict", err)
	}
	plans, _ := s.List(ctx)
	if len(plans) != 1 {
		t.Errorf("got %d plans, want 1", len(plans))
	}
}

func TestStats(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	for i, client := range []string{"Sam", "", "Sam", "Noor"} {
		if err := s.Append(ctx, samplePlan(string(rune('a'+i)), "Plan", client)); err != nil {
			t.Fatal(err)
		}
	}
	st, err := s.Stats(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if st.TotalWorkouts != 4 || st.ActiveClients != 2 || st.PlansShared != 4 {
		t.Errorf("Stats = %+v", st)
	}
}

// TestPostgres runs the store against a real database when
// GYMCOACH_TEST_POSTGRES_DSN is set.
func TestPostgres(t *testing.T) {
	dsn := os.Getenv("GYMCOACH_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("GYMCOACH_TEST_POSTGRES_DSN not set")
	}
	if err := RunMigrations("postgres", dsn); err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	kv, err := NewPostgres(ctx, dsn)
	if err != nil {
		t.Fatal(err)
	}
	defer kv.Close()
	if _, err := kv.Pool.Exec(ctx, `DELETE FROM kv WHERE key = $1`, PlansKey); err != nil {
		t.Fatal(err)
	}

	s := NewPlanStore(kv)
	if err := s.Append(ctx, samplePlan("pg1", "Postgres", "")); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Get(ctx, "pg1"); err != nil {
		t.Fatal(err)
	}
}

func TestOpenDrivers(t *testing.T) {
	ctx := context.Background()
	kv, err := Open(ctx, "sqlite", filepath.Join(t.TempDir(), "nested", "gymcoach.db"), "")
	if err != nil {
		t.Fatalf("Open(sqlite): %v", err)
	}
	kv.Close()

	if _, err := Open(ctx, "redis", "", ""); err == nil {
		t.Error("Open with an unknown driver should fail")
	}
}
