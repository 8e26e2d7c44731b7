package catalog

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/meltforce/gymcoach/internal/models"
)

var sampleExercises = []models.Exercise{
	{ID: "0001", Name: "3/4 sit-up", BodyPart: "waist", Target: "abs", Equipment: "body weight",
		GifURL: "https://example.com/0001.gif", Instructions: []string{"Lie flat.", "Curl up."}},
	{ID: "0025", Name: "barbell bench press", BodyPart: "chest", Target: "pectorals", Equipment: "barbell"},
	{ID: "0043", Name: "barbell full squat", BodyPart: "upper legs", Target: "glutes", Equipment: "barbell"},
}

func writeTestJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		t.Fatal(err)
	}
}

// TestExercisesAll verifies the unfiltered endpoint, limit, and credential headers.
func TestExercisesAll(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/exercises" {
			t.Errorf("path = %q, want /exercises", r.URL.Path)
		}
		if got := r.URL.Query().Get("limit"); got != "1300" {
			t.Errorf("limit = %q, want 1300", got)
		}
		if got := r.Header.Get("X-RapidAPI-Key"); got != "key-123" {
			t.Errorf("X-RapidAPI-Key = %q", got)
		}
		if got := r.Header.Get("X-RapidAPI-Host"); got != "exercisedb.p.rapidapi.com" {
			t.Errorf("X-RapidAPI-Host = %q", got)
		}
		writeTestJSON(t, w, sampleExercises)
	}))
	defer ts.Close()

	c := NewClient(ts.URL+"/", "key-123", "exercisedb.p.rapidapi.com", 5*time.Second)
	got, err := c.Exercises(context.Background(), "all")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d exercises, want 3", len(got))
	}
	if got[0].GifURL != "https://example.com/0001.gif" || len(got[0].Instructions) != 2 {
		t.Errorf("exercise decoded as %+v", got[0])
	}
	if got[0].Sets != nil {
		t.Error("catalog records should carry no set target")
	}
}

func TestExercisesByBodyPart(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/exercises/bodyPart/upper legs" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if got := r.URL.Query().Get("limit"); got != "50" {
			t.Errorf("limit = %q, want 50", got)
		}
		writeTestJSON(t, w, sampleExercises[2:])
	}))
	defer ts.Close()

	c := NewClient(ts.URL, "k", "h", 5*time.Second)
	got, err := c.Exercises(context.Background(), "upper legs")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].ID != "0043" {
		t.Errorf("got %+v", got)
	}
}

func TestExercisesNonOK(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer ts.Close()

	c := NewClient(ts.URL, "k", "h", 5*time.Second)
	if _, err := c.Exercises(context.Background(), "chest"); err == nil {
		t.Error("expected error for 429")
	}
}

func TestValidBodyPart(t *testing.T) {
	if !ValidBodyPart("lower arms") || !ValidBodyPart("all") {
		t.Error("known body parts rejected")
	}
	if ValidBodyPart("elbows") {
		t.Error("unknown body part accepted")
	}
}
