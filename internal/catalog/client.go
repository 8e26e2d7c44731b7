package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/meltforce/gymcoach/internal/models"
)

// Default request limits of the ExerciseDB endpoints.
const (
	AllLimit      = 1300
	BodyPartLimit = 50
)

// BodyParts lists the filters the catalog accepts. "all" means unfiltered.
var BodyParts = []string{
	"all",
	"back",
	"cardio",
	"chest",
	"lower arms",
	"lower legs",
	"neck",
	"shoulders",
	"upper arms",
	"upper legs",
	"waist",
}

// ValidBodyPart reports whether part is one of BodyParts.
func ValidBodyPart(part string) bool {
	for _, p := range BodyParts {
		if p == part {
			return true
		}
	}
	return false
}

// Provider fetches exercises for a body part filter.
type Provider interface {
	Exercises(ctx context.Context, bodyPart string) ([]models.Exercise, error)
}

// Client calls the ExerciseDB REST API through RapidAPI.
type Client struct {
	baseURL    string
	apiKey     string
	apiHost    string
	httpClient *http.Client
}

var _ Provider = (*Client)(nil)

// NewClient creates a Client. apiHost is sent as X-RapidAPI-Host.
func NewClient(baseURL, apiKey, apiHost string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		apiHost:    apiHost,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Exercises lists exercises for bodyPart. An empty part or "all" fetches the
// whole catalog.
func (c *Client) Exercises(ctx context.Context, bodyPart string) ([]models.Exercise, error) {
	path := "/exercises"
	limit := AllLimit
	if bodyPart != "" && bodyPart != "all" {
		path = "/exercises/bodyPart/" + url.PathEscape(bodyPart)
		limit = BodyPartLimit
	}

	params := url.Values{}
	params.Set("limit", strconv.Itoa(limit))

	body, err := c.get(ctx, path, params)
	if err != nil {
		return nil, err
	}

	var exercises []models.Exercise
	if err := json.Unmarshal(body, &exercises); err != nil {
		return nil, fmt.Errorf("catalog: decode exercises: %w", err)
	}
	return exercises, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("catalog: create request: %w", err)
	}
	req.Header.Set("X-RapidAPI-Key", c.apiKey)
	req.Header.Set("X-RapidAPI-Host", c.apiHost)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("catalog: %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("catalog: read body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("catalog: %s returned %d: %s", path, resp.StatusCode, body)
	}

	return body, nil
}
