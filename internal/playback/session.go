package playback

import (
	"errors"
	"fmt"
	"math"

	"github.com/meltforce/gymcoach/internal/models"
)

// DefaultExerciseSeconds is the countdown length of every exercise.
const DefaultExerciseSeconds = 45

var (
	ErrEmptyPlan       = errors.New("plan has no exercises")
	ErrIndexOutOfRange = errors.New("exercise index out of range")
	ErrInvalidDuration = errors.New("exercise duration must be positive")
)

// Session is the playback state of one plan. It is not safe for concurrent
// use; Driver serializes access when ticks come from a timer.
type Session struct {
	exercises []models.Exercise
	duration  int

	current   int
	remaining int
	elapsed   int
	running   bool
}

// NewSession creates a session at its initial state for the given plan.
func NewSession(plan models.Plan, duration int) (*Session, error) {
	if len(plan.Exercises) == 0 {
		return nil, ErrEmptyPlan
	}
	if duration <= 0 {
		return nil, ErrInvalidDuration
	}
	s := &Session{
		exercises: plan.Exercises,
		duration:  duration,
	}
	s.Reset()
	return s, nil
}

// Start sets the session running. Starting a running or finished session does nothing.
func (s *Session) Start() {
	if s.running || s.finished() {
		return
	}
	s.running = true
}

// Pause stops the countdown.
func (s *Session) Pause() {
	s.running = false
}

// Tick advances the countdown by one second. It does nothing while paused.
// A running session found at zero (after a manual jump away from a finished
// exercise) advances without consuming a second.
func (s *Session) Tick() {
	if !s.running {
		return
	}
	if s.remaining > 0 {
		s.remaining--
		s.elapsed++
	}
	if s.remaining > 0 {
		return
	}
	if s.current < len(s.exercises)-1 {
		s.current++
		s.remaining = s.duration
		return
	}
	s.running = false
}

// Reset returns the session to the first exercise with a full countdown.
func (s *Session) Reset() {
	s.running = false
	s.elapsed = 0
	s.remaining = s.duration
	s.current = 0
}

// SelectExercise jumps to exercise i. The countdown keeps its current value.
func (s *Session) SelectExercise(i int) error {
	if i < 0 || i >= len(s.exercises) {
		return fmt.Errorf("%w: %d not in [0, %d)", ErrIndexOutOfRange, i, len(s.exercises))
	}
	s.current = i
	return nil
}

// ProgressPercent is the share of exercises reached, rounded to a whole percent.
func (s *Session) ProgressPercent() int {
	return int(math.Round(float64(s.current+1) / float64(len(s.exercises)) * 100))
}

// Complete reports whether the last exercise's countdown ran out.
func (s *Session) Complete() bool {
	return s.finished() && !s.running
}

func (s *Session) finished() bool {
	return s.current == len(s.exercises)-1 && s.remaining == 0
}

func (s *Session) CurrentIndex() int { return s.current }
func (s *Session) Remaining() int    { return s.remaining }
func (s *Session) Elapsed() int      { return s.elapsed }
func (s *Session) Running() bool     { return s.running }
func (s *Session) Len() int          { return len(s.exercises) }
func (s *Session) Duration() int     { return s.duration }

// Current returns the exercise at the current index.
func (s *Session) Current() models.Exercise {
	return s.exercises[s.current]
}

// State is a point-in-time copy of a session, safe to hand to other goroutines.
type State struct {
	CurrentIndex   int             `json:"currentIndex"`
	Total          int             `json:"total"`
	Remaining      int             `json:"remaining"`
	RemainingClock string          `json:"remainingClock"`
	Elapsed        int             `json:"elapsed"`
	Running        bool            `json:"running"`
	Complete       bool            `json:"complete"`
	Progress       int             `json:"progress"`
	Exercise       models.Exercise `json:"exercise"`
}

// Snapshot copies the session's observable state.
func (s *Session) Snapshot() State {
	return State{
		CurrentIndex:   s.current,
		Total:          len(s.exercises),
		Remaining:      s.remaining,
		RemainingClock: Clock(s.remaining),
		Elapsed:        s.elapsed,
		Running:        s.running,
		Complete:       s.Complete(),
		Progress:       s.ProgressPercent(),
		Exercise:       s.Current(),
	}
}

// Clock formats seconds as m:ss.
func Clock(seconds int) string {
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}
