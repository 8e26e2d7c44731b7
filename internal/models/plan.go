package models

import (
	"time"
)

// Default set/rep targets assigned when an exercise is added to a plan.
const (
	DefaultSets = 3
	DefaultReps = 12
)

// Exercise is one catalog record, optionally carrying the coach's set/rep targets.
// Field names match the ExerciseDB payload so catalog responses decode directly.
type Exercise struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	BodyPart     string   `json:"bodyPart,omitempty"`
	Target       string   `json:"target"`
	Equipment    string   `json:"equipment"`
	GifURL       string   `json:"gifUrl,omitempty"`
	Instructions []string `json:"instructions"`
	Sets         *int     `json:"sets,omitempty"`
	Reps         *int     `json:"reps,omitempty"`
}

// SetCount returns the set target, falling back to DefaultSets.
func (e Exercise) SetCount() int {
	if e.Sets == nil {
		return DefaultSets
	}
	return *e.Sets
}

// RepCount returns the rep target, falling back to DefaultReps.
func (e Exercise) RepCount() int {
	if e.Reps == nil {
		return DefaultReps
	}
	return *e.Reps
}

// WithTargets returns a copy of e with explicit set and rep targets.
func (e Exercise) WithTargets(sets, reps int) Exercise {
	e.Sets = &sets
	e.Reps = &reps
	if e.Instructions != nil {
		e.Instructions = append([]string(nil), e.Instructions...)
	}
	return e
}

// Plan is a saved workout: an ordered, non-empty list of exercises.
type Plan struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Exercises  []Exercise `json:"exercises"`
	CreatedAt  time.Time  `json:"createdAt"`
	ClientName string     `json:"clientName,omitempty"`
	Notes      string     `json:"notes,omitempty"`
}
