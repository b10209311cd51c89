package mcp

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/claude/musclememo/internal/export"
	"github.com/claude/musclememo/internal/ingest"
	"github.com/claude/musclememo/internal/journal"
	"github.com/claude/musclememo/internal/storage"
)

// timeRange parses optional start/end bounds. Empty bounds stay zero
// (unbounded). A date-only end includes that whole day.
func timeRange(startStr, endStr string, loc *time.Location) (time.Time, time.Time, error) {
	var start, end time.Time
	var err error

	if startStr != "" {
		start, _, err = parseFlexTime(startStr, loc)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
	}
	if endStr != "" {
		var dateOnly bool
		end, dateOnly, err = parseFlexTime(endStr, loc)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		if dateOnly {
			end = end.AddDate(0, 0, 1)
		}
	}

	return start, end, nil
}

// parseFlexTime accepts RFC 3339 or YYYY-MM-DD, the latter as midnight in loc.
func parseFlexTime(s string, loc *time.Location) (time.Time, bool, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err == nil {
		return t, false, nil
	}
	t, err = time.ParseInLocation("2006-01-02", s, loc)
	if err == nil {
		return t, true, nil
	}
	return time.Time{}, false, err
}

// --- Tool definitions ---

var toolListSessions = mcp.NewTool("list_sessions",
	mcp.WithDescription("List workout sessions newest first, each with its exercises and sets (weight in kg, reps, memo)."),
	mcp.WithString("start", mcp.Description("Start date (ISO 8601 or YYYY-MM-DD). Unbounded when omitted.")),
	mcp.WithString("end", mcp.Description("End date, inclusive for YYYY-MM-DD. Unbounded when omitted.")),
	mcp.WithNumber("limit", mcp.Description("Maximum sessions to return. Defaults to 20.")),
)

var toolExportCSV = mcp.NewTool("export_csv",
	mcp.WithDescription("Render a CSV report over all sessions. 'workouts' is the flat workout log that import_csv accepts; 'daily' and 'body-parts' are rollups."),
	mcp.WithString("kind", mcp.Required(), mcp.Description("Report kind"), mcp.Enum("workouts", "daily", "body-parts")),
)

var toolGetDailyRollup = mcp.NewTool("get_daily_rollup",
	mcp.WithDescription("Per-day totals: volume, sets, exercises, trained body parts, duration and joined session notes. Newest day first."),
	mcp.WithString("start", mcp.Description("Start date. Unbounded when omitted.")),
	mcp.WithString("end", mcp.Description("End date. Unbounded when omitted.")),
)

var toolGetBodyPartRollup = mcp.NewTool("get_body_part_rollup",
	mcp.WithDescription("Per-body-part totals for every body part, including untrained ones: exercise count, volume, sets, average sets and last trained date."),
)

var toolGetTrainingStats = mcp.NewTool("get_training_stats",
	mcp.WithDescription("Current streak, personal records, suggested next body part and stored data counts."),
)

var toolImportCSV = mcp.NewTool("import_csv",
	mcp.WithDescription("Import a workout log CSV (the 'workouts' export format). Sessions landing on a day that already has a session are merged into it. Bad rows are skipped and reported."),
	mcp.WithString("content", mcp.Required(), mcp.Description("Full CSV text including the header row")),
	mcp.WithString("source", mcp.Description("Name recorded in the import log. Defaults to 'mcp'.")),
	mcp.WithBoolean("dry_run", mcp.Description("Parse and reconcile without saving.")),
)

var toolMergeDuplicates = mcp.NewTool("merge_duplicates",
	mcp.WithDescription("Merge every group of sessions sharing a calendar day into the first of them and delete the rest."),
)

// --- Tool handlers ---

func (h *handlers) listSessions(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	start, end, err := timeRange(req.GetString("start", ""), req.GetString("end", ""), h.j.Location())
	if err != nil {
		return mcp.NewToolResultError("invalid date format: " + err.Error()), nil
	}

	sessions, err := h.j.Sessions(ctx, storage.SessionQuery{From: start, To: end, Limit: req.GetInt("limit", 20)})
	if err != nil {
		h.log.Error("mcp list_sessions", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	return jsonResult(sessions)
}

func (h *handlers) exportCSV(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	kindStr, err := req.RequireString("kind")
	if err != nil {
		return mcp.NewToolResultError("kind parameter is required"), nil
	}
	kind, err := export.ParseKind(kindStr)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	f, err := h.j.Export(ctx, kind, h.now())
	if err != nil {
		h.log.Error("mcp export_csv", "error", err)
		return mcp.NewToolResultError("export failed: " + err.Error()), nil
	}

	return jsonResult(map[string]string{
		"file_name": f.Name,
		"content":   f.Content,
	})
}

func (h *handlers) getDailyRollup(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	start, end, err := timeRange(req.GetString("start", ""), req.GetString("end", ""), h.j.Location())
	if err != nil {
		return mcp.NewToolResultError("invalid date format: " + err.Error()), nil
	}

	days, err := h.j.DailyRollup(ctx)
	if err != nil {
		h.log.Error("mcp get_daily_rollup", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	filtered := make([]export.DailySummary, 0, len(days))
	for _, d := range days {
		if !start.IsZero() && d.Day.Before(start) {
			continue
		}
		if !end.IsZero() && !d.Day.Before(end) {
			continue
		}
		filtered = append(filtered, d)
	}
	return jsonResult(filtered)
}

func (h *handlers) getBodyPartRollup(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	parts, err := h.j.BodyPartRollup(ctx)
	if err != nil {
		h.log.Error("mcp get_body_part_rollup", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	type row struct {
		export.BodyPartSummary
		Label       string  `json:"label"`
		AverageSets float64 `json:"average_sets"`
	}
	rows := make([]row, 0, len(parts))
	for _, p := range parts {
		rows = append(rows, row{BodyPartSummary: p, Label: p.BodyPart.Label(), AverageSets: p.AverageSets()})
	}
	return jsonResult(rows)
}

func (h *handlers) getTrainingStats(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	overview, err := h.j.Stats(ctx, h.now())
	if err != nil {
		h.log.Error("mcp get_training_stats", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	data, err := h.j.DataStats(ctx)
	if err != nil {
		h.log.Warn("get_training_stats: data stats failed", "error", err)
	}

	return jsonResult(map[string]any{
		"overview": overview,
		"data":     data,
	})
}

func (h *handlers) importCSV(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	content, err := req.RequireString("content")
	if err != nil {
		return mcp.NewToolResultError("content parameter is required"), nil
	}

	outcome, err := h.j.Import(ctx, strings.NewReader(content), journal.ImportOptions{
		Source: req.GetString("source", "mcp"),
		DryRun: req.GetBool("dry_run", false),
	})
	var ierr *ingest.ImportError
	if errors.As(err, &ierr) {
		return mcp.NewToolResultError("import rejected: " + err.Error()), nil
	}
	if err != nil {
		h.log.Error("mcp import_csv", "error", err)
		return mcp.NewToolResultError("import failed: " + err.Error()), nil
	}

	return jsonResult(map[string]any{
		"summary":   outcome.Summary(),
		"processed": outcome.Result.ProcessedCount,
		"skipped":   outcome.Result.SkippedCount,
		"errors":    outcome.Result.Errors,
		"inserted":  outcome.Inserted,
		"merged":    outcome.Merged,
		"dry_run":   outcome.DryRun,
	})
}

func (h *handlers) mergeDuplicates(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	b, err := h.j.MergeDuplicates(ctx)
	if err != nil {
		h.log.Error("mcp merge_duplicates", "error", err)
		return mcp.NewToolResultError("merge failed: " + err.Error()), nil
	}

	return jsonResult(map[string]int{
		"kept":    len(b.Update),
		"removed": len(b.Delete),
	})
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	result, err := mcp.NewToolResultJSON(v)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}
