package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/meltforce/gymcoach/internal/i18n"
	"github.com/meltforce/gymcoach/internal/models"
	"github.com/meltforce/gymcoach/internal/share"
	"github.com/meltforce/gymcoach/internal/storage"
)

// HTTPClient implements DataSource by calling the GymCoach REST API.
// Used for remote MCP mode where the binary runs locally (stdio) but
// plans live on the remote server (accessed over Tailscale).
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

// Compile-time check: HTTPClient satisfies DataSource.
var _ DataSource = (*HTTPClient)(nil)

// NewHTTPClient creates an HTTPClient targeting the given base URL.
func NewHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// get returns the body of a 200 response. Every plan route of the API
// answers 404 only for an unknown plan, so that status maps to
// storage.ErrPlanNotFound.
func (c *HTTPClient) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("httpclient: create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("httpclient: %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("httpclient: read body: %w", err)
	}

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("httpclient: %s: %w", path, storage.ErrPlanNotFound)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("httpclient: %s returned %d: %s", path, resp.StatusCode, body)
	}

	return body, nil
}

func (c *HTTPClient) ListPlans(ctx context.Context) ([]models.Plan, error) {
	body, err := c.get(ctx, "/api/v1/plans", nil)
	if err != nil {
		return nil, err
	}

	var plans []models.Plan
	if err := json.Unmarshal(body, &plans); err != nil {
		return nil, fmt.Errorf("httpclient: decode plans: %w", err)
	}
	return plans, nil
}

func (c *HTTPClient) GetPlan(ctx context.Context, id string) (models.Plan, error) {
	body, err := c.get(ctx, "/api/v1/plans/"+url.PathEscape(id), nil)
	if err != nil {
		return models.Plan{}, err
	}

	var plan models.Plan
	if err := json.Unmarshal(body, &plan); err != nil {
		return models.Plan{}, fmt.Errorf("httpclient: decode plan: %w", err)
	}
	return plan, nil
}

func (c *HTTPClient) SearchExercises(ctx context.Context, bodyPart, query string) ([]models.Exercise, error) {
	params := url.Values{}
	if bodyPart != "" {
		params.Set("bodyPart", bodyPart)
	}
	if query != "" {
		params.Set("q", query)
	}

	body, err := c.get(ctx, "/api/v1/exercises", params)
	if err != nil {
		return nil, err
	}

	var exercises []models.Exercise
	if err := json.Unmarshal(body, &exercises); err != nil {
		return nil, fmt.Errorf("httpclient: decode exercises: %w", err)
	}
	return exercises, nil
}

func (c *HTTPClient) GetStats(ctx context.Context) (storage.Stats, error) {
	body, err := c.get(ctx, "/api/v1/stats", nil)
	if err != nil {
		return storage.Stats{}, err
	}

	var stats storage.Stats
	if err := json.Unmarshal(body, &stats); err != nil {
		return storage.Stats{}, fmt.Errorf("httpclient: decode stats: %w", err)
	}
	return stats, nil
}

func (c *HTTPClient) SharePlan(ctx context.Context, id string, loc i18n.Locale) (share.Invite, error) {
	params := url.Values{}
	params.Set("lang", string(loc))

	body, err := c.get(ctx, "/api/v1/plans/"+url.PathEscape(id)+"/share", params)
	if err != nil {
		return share.Invite{}, err
	}

	var invite share.Invite
	if err := json.Unmarshal(body, &invite); err != nil {
		return share.Invite{}, fmt.Errorf("httpclient: decode share: %w", err)
	}
	return invite, nil
}
