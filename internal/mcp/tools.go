package mcp

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/meltforce/gymcoach/internal/catalog"
	"github.com/meltforce/gymcoach/internal/i18n"
	"github.com/meltforce/gymcoach/internal/models"
	"github.com/meltforce/gymcoach/internal/share"
	"github.com/meltforce/gymcoach/internal/storage"
)

// planSummary is the list_plans row: enough to pick a plan without its exercises.
type planSummary struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	ClientName string    `json:"clientName,omitempty"`
	Exercises  int       `json:"exercises"`
	CreatedAt  time.Time `json:"createdAt"`
}

func summarize(plans []models.Plan, client string) []planSummary {
	client = strings.ToLower(strings.TrimSpace(client))
	out := []planSummary{}
	for _, p := range plans {
		if client != "" && !strings.Contains(strings.ToLower(p.ClientName), client) {
			continue
		}
		out = append(out, planSummary{
			ID:         p.ID,
			Name:       p.Name,
			ClientName: p.ClientName,
			Exercises:  len(p.Exercises),
			CreatedAt:  p.CreatedAt,
		})
	}
	return out
}

// --- Tool definitions ---

var toolListPlans = mcp.NewTool("list_plans",
	mcp.WithDescription("List saved workout plans with their client and exercise count, oldest first."),
	mcp.WithString("client", mcp.Description("Only plans whose client name contains this text (case-insensitive)")),
)

var toolGetPlan = mcp.NewTool("get_plan",
	mcp.WithDescription("Get one workout plan with every exercise, its sets/reps targets and instructions."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Plan ID")),
)

var toolSearchExercises = mcp.NewTool("search_exercises",
	mcp.WithDescription("Search the exercise catalog by body part and free text. The text matches exercise name or target muscle."),
	mcp.WithString("body_part", mcp.Description("Body part filter. Defaults to 'all'."), mcp.Enum(catalog.BodyParts...)),
	mcp.WithString("query", mcp.Description("Case-insensitive text matched against name and target (e.g. 'squat', 'glutes')")),
)

var toolExportPlan = mcp.NewTool("export_plan",
	mcp.WithDescription("Render a plan as the JSON document a client downloads. Sets, reps and media are left out."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Plan ID")),
)

var toolSharePlan = mcp.NewTool("share_plan",
	mcp.WithDescription("Build the client link, invitation message and WhatsApp link for a plan."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Plan ID")),
	mcp.WithString("lang", mcp.Description("Message language. Defaults to 'en'."), mcp.Enum(string(i18n.English), string(i18n.Arabic))),
)

var toolGetStats = mcp.NewTool("get_stats",
	mcp.WithDescription("Dashboard totals: workouts, distinct clients and shared plans."),
)

// --- Tool handlers ---

func (h *handlers) listPlans(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	plans, err := h.ds.ListPlans(ctx)
	if err != nil {
		h.log.Error("mcp list_plans", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(summarize(plans, req.GetString("client", "")))
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getPlan(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	plan, errResult := h.plan(ctx, req, "get_plan")
	if errResult != nil {
		return errResult, nil
	}

	result, err := mcp.NewToolResultJSON(plan)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) searchExercises(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	bodyPart := req.GetString("body_part", "all")
	if !catalog.ValidBodyPart(bodyPart) {
		return mcp.NewToolResultError("unknown body part: " + bodyPart), nil
	}

	exercises, err := h.ds.SearchExercises(ctx, bodyPart, req.GetString("query", ""))
	if err != nil {
		h.log.Error("mcp search_exercises", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(exercises)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) exportPlan(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	plan, errResult := h.plan(ctx, req, "export_plan")
	if errResult != nil {
		return errResult, nil
	}

	data, err := share.Export(plan)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func (h *handlers) sharePlan(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError("id parameter is required"), nil
	}
	loc := i18n.Parse(req.GetString("lang", string(i18n.Default)))

	invite, err := h.ds.SharePlan(ctx, id, loc)
	if errors.Is(err, storage.ErrPlanNotFound) {
		return mcp.NewToolResultError("plan not found: " + id), nil
	}
	if err != nil {
		h.log.Error("mcp share_plan", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(invite)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getStats(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	stats, err := h.ds.GetStats(ctx)
	if err != nil {
		h.log.Error("mcp get_stats", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(stats)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

// plan loads the plan named by the id argument. A non-nil result is the
// error to hand back to the caller.
func (h *handlers) plan(ctx context.Context, req mcp.CallToolRequest, tool string) (models.Plan, *mcp.CallToolResult) {
	id, err := req.RequireString("id")
	if err != nil {
		return models.Plan{}, mcp.NewToolResultError("id parameter is required")
	}

	plan, err := h.ds.GetPlan(ctx, id)
	if errors.Is(err, storage.ErrPlanNotFound) {
		return models.Plan{}, mcp.NewToolResultError("plan not found: " + id)
	}
	if err != nil {
		h.log.Error("mcp "+tool, "error", err)
		return models.Plan{}, mcp.NewToolResultError("query failed: " + err.Error())
	}
	return plan, nil
}
