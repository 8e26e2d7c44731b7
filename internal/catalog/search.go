package catalog

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/meltforce/gymcoach/internal/models"
)

// Searcher fronts a Provider for the plan builder. Fetch failures are logged
// and surface as an empty list. Responses are cached per body part for ttl.
//
// Each fetch is stamped with an increasing token; only the response of the
// most recent fetch replaces the current listing, so a slow earlier request
// cannot overwrite a later one.
type Searcher struct {
	provider Provider
	ttl      time.Duration
	log      *slog.Logger
	now      func() time.Time

	mu      sync.Mutex
	token   uint64
	current Listing
	cache   map[string]cacheEntry
}

// Listing is the exercise list of one body part filter.
type Listing struct {
	BodyPart  string            `json:"bodyPart"`
	Exercises []models.Exercise `json:"exercises"`
}

type cacheEntry struct {
	exercises []models.Exercise
	expires   time.Time
}

// NewSearcher creates a Searcher. A ttl of zero disables caching.
func NewSearcher(provider Provider, ttl time.Duration, log *slog.Logger) *Searcher {
	return &Searcher{
		provider: provider,
		ttl:      ttl,
		log:      log,
		now:      time.Now,
		cache:    make(map[string]cacheEntry),
	}
}

// Search fetches bodyPart and filters it by query. The returned list always
// belongs to this call's filter.
func (s *Searcher) Search(ctx context.Context, bodyPart, query string) []models.Exercise {
	listing, _ := s.Refresh(ctx, bodyPart)
	return Filter(listing.Exercises, query)
}

// Refresh fetches bodyPart and publishes it as the current listing if no newer
// fetch started meanwhile. It returns the fetched listing and whether it was
// published.
func (s *Searcher) Refresh(ctx context.Context, bodyPart string) (Listing, bool) {
	bodyPart = normalizeBodyPart(bodyPart)

	s.mu.Lock()
	s.token++
	token := s.token
	cached, ok := s.cache[bodyPart]
	s.mu.Unlock()

	var exercises []models.Exercise
	if ok && s.now().Before(cached.expires) {
		exercises = cached.exercises
	} else {
		var err error
		exercises, err = s.provider.Exercises(ctx, bodyPart)
		if err != nil {
			s.log.Warn("exercise catalog fetch failed", "body_part", bodyPart, "error", err)
			exercises = nil
		}
	}
	if exercises == nil {
		exercises = []models.Exercise{}
	}

	listing := Listing{BodyPart: bodyPart, Exercises: exercises}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ttl > 0 && len(exercises) > 0 {
		s.cache[bodyPart] = cacheEntry{exercises: exercises, expires: s.now().Add(s.ttl)}
	}
	if token != s.token {
		s.log.Debug("discarding stale catalog response", "body_part", bodyPart)
		return listing, false
	}
	s.current = listing
	return listing, true
}

// Current returns the most recently published listing.
func (s *Searcher) Current() Listing {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Filter keeps exercises whose name or target contains query, ignoring case.
// An empty query keeps everything.
func Filter(exercises []models.Exercise, query string) []models.Exercise {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return exercises
	}
	out := []models.Exercise{}
	for _, ex := range exercises {
		if strings.Contains(strings.ToLower(ex.Name), q) || strings.Contains(strings.ToLower(ex.Target), q) {
			out = append(out, ex)
		}
	}
	return out
}

func normalizeBodyPart(part string) string {
	part = strings.ToLower(strings.TrimSpace(part))
	if part == "" {
		return "all"
	}
	return part
}
