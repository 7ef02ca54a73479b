package handlers

import (
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

// runSummary is one row in the pricing run listing.
type runSummary struct {
	ID          string  `json:"id"`
	QuoteNumber string  `json:"quote_number"`
	Status      string  `json:"status"`
	PriceExTax  float64 `json:"price_ex_tax"`
	TotalIncTax float64 `json:"total_inc_tax"`
	Created     string  `json:"created"`
}

// HandleQuoteList returns a handler listing a project's pricing runs,
// newest first.
func HandleQuoteList(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		projectID := e.Request.PathValue("projectId")
		if _, err := app.FindRecordById("projects", projectID); err != nil {
			return ErrorJSON(e, http.StatusNotFound, "Project not found")
		}

		records, err := app.FindRecordsByFilter(
			"pricing_runs",
			"project = {:projectId}",
			"-created",
			0,
			0,
			map[string]any{"projectId": projectID},
		)
		if err != nil {
			records = nil
		}

		runs := make([]runSummary, 0, len(records))
		for _, rec := range records {
			runs = append(runs, runSummary{
				ID:          rec.Id,
				QuoteNumber: rec.GetString("quote_number"),
				Status:      rec.GetString("status"),
				PriceExTax:  rec.GetFloat("price_ex_tax"),
				TotalIncTax: rec.GetFloat("total_inc_tax"),
				Created:     rec.GetDateTime("created").String(),
			})
		}

		return e.JSON(http.StatusOK, map[string]any{"runs": runs})
	}
}

// HandleQuoteView returns a handler that serves one stored pricing run
// with its full breakdown and client summary.
func HandleQuoteView(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		runID := e.Request.PathValue("id")
		rec, err := app.FindRecordById("pricing_runs", runID)
		if err != nil {
			return ErrorJSON(e, http.StatusNotFound, "Pricing run not found")
		}

		return e.JSON(http.StatusOK, map[string]any{
			"id":             rec.Id,
			"project":        rec.GetString("project"),
			"quote_number":   rec.GetString("quote_number"),
			"status":         rec.GetString("status"),
			"breakdown":      rec.Get("breakdown"),
			"client_summary": rec.Get("client_summary"),
		})
	}
}

// HandleQuoteIssue returns a handler that marks a draft run as issued
// and supersedes any previously issued run for the same project.
func HandleQuoteIssue(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		runID := e.Request.PathValue("id")
		rec, err := app.FindRecordById("pricing_runs", runID)
		if err != nil {
			return ErrorJSON(e, http.StatusNotFound, "Pricing run not found")
		}
		if rec.GetString("status") != "draft" {
			return ErrorJSON(e, http.StatusConflict, "Only draft runs can be issued")
		}

		issued, err := app.FindRecordsByFilter(
			"pricing_runs",
			"project = {:projectId} && status = 'issued'",
			"",
			0,
			0,
			map[string]any{"projectId": rec.GetString("project")},
		)
		if err == nil {
			for _, prev := range issued {
				prev.Set("status", "superseded")
				if err := app.Save(prev); err != nil {
					return ErrorJSON(e, http.StatusInternalServerError, "Could not supersede previous run")
				}
			}
		}

		rec.Set("status", "issued")
		if err := app.Save(rec); err != nil {
			return ErrorJSON(e, http.StatusInternalServerError, "Could not issue run")
		}

		return e.JSON(http.StatusOK, map[string]any{
			"id":     rec.Id,
			"status": "issued",
		})
	}
}
