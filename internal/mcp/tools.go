package mcp

import (
	"context"
	"time"

	"github.com/2beens/liftlog/internal/auth"
	"github.com/2beens/liftlog/internal/history"

	"github.com/mark3labs/mcp-go/mcp"
	log "github.com/sirupsen/logrus"
)

const (
	dateLayout         = "2006-01-02"
	defaultPageSize    = 10
	defaultStatsWindow = 90 * 24 * time.Hour
)

var toolGetWorkoutHistory = mcp.NewTool("get_workout_history",
	mcp.WithDescription("Returns finished workouts, newest first, with total sets, reps and volume (kg). Paged: page starts at 1."),
	mcp.WithNumber("page", mcp.Description("Page number, starting at 1. Defaults to 1.")),
	mcp.WithNumber("size", mcp.Description("Page size, max 100. Defaults to 10.")),
)

var toolGetExerciseStats = mcp.NewTool("get_exercise_stats",
	mcp.WithDescription("Returns per-day stats (sets, avg/max weight, avg reps, avg RPE, volume) for one exercise. Use to see progression over time."),
	mcp.WithString("exercise_id", mcp.Required(), mcp.Description("Exercise id, e.g. bench")),
	mcp.WithString("from_date", mcp.Description("Start date (YYYY-MM-DD). Defaults to 90 days before to_date.")),
	mcp.WithString("to_date", mcp.Description("End date (YYYY-MM-DD), inclusive. Defaults to today.")),
)

func (h *handlers) getWorkoutHistory(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	userID := auth.UserIDFrom(ctx)
	if userID == "" {
		return toolError("not authenticated"), nil
	}

	page := req.GetInt("page", 1)
	size := req.GetInt("size", defaultPageSize)

	sessionsPage, err := h.history.ListSessions(ctx, userID, page, size)
	if err != nil {
		log.Errorf("mcp get_workout_history [%s]: %s", userID, err)
		return toolError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(sessionsPage)
	if err != nil {
		return toolError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getExerciseStats(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	userID := auth.UserIDFrom(ctx)
	if userID == "" {
		return toolError("not authenticated"), nil
	}

	exerciseID, err := req.RequireString("exercise_id")
	if err != nil || exerciseID == "" {
		return toolError("exercise_id parameter is required"), nil
	}

	from, to, err := dateRange(req.GetString("from_date", ""), req.GetString("to_date", ""), time.Now())
	if err != nil {
		return toolError("invalid date format (expected YYYY-MM-DD): " + err.Error()), nil
	}

	exerciseHistory, err := h.history.ExerciseHistory(ctx, history.SetParams{
		UserID:     userID,
		ExerciseID: exerciseID,
		From:       &from,
		To:         &to,
	})
	if err != nil {
		log.Errorf("mcp get_exercise_stats [%s/%s]: %s", userID, exerciseID, err)
		return toolError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(exerciseHistory)
	if err != nil {
		return toolError("serialization failed"), nil
	}
	return result, nil
}

// dateRange resolves an inclusive day range; to covers the whole end day.
func dateRange(fromStr, toStr string, now time.Time) (time.Time, time.Time, error) {
	to := now.UTC().Truncate(24 * time.Hour)
	if toStr != "" {
		parsed, err := time.Parse(dateLayout, toStr)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		to = parsed
	}

	from := to.Add(-defaultStatsWindow)
	if fromStr != "" {
		parsed, err := time.Parse(dateLayout, fromStr)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		from = parsed
	}

	return from, to.Add(24*time.Hour - time.Nanosecond), nil
}
