package services

import (
	"fmt"
	"time"

	"github.com/pocketbase/pocketbase"
)

// GetFiscalYear returns the Australian fiscal year string for a given
// date. The fiscal year runs July to June.
// Jan 2026 → "25-26", Aug 2026 → "26-27"
func GetFiscalYear(t time.Time) string {
	year := t.Year()
	month := t.Month()

	var startYear int
	if month >= time.July {
		startYear = year
	} else {
		startYear = year - 1
	}
	endYear := startYear + 1

	return fmt.Sprintf("%02d-%02d", startYear%100, endYear%100)
}

// formatQuoteNumber constructs the quote number string from components.
// Uses "-" as separator so references containing "/" can't collide.
func formatQuoteNumber(projectRef, fiscalYear string, sequence int) string {
	return fmt.Sprintf("QE-%s-%s-%03d", projectRef, fiscalYear, sequence)
}

// GenerateQuoteNumber creates the next quote number for a project.
// Format: QE-{project_ref}-{fiscal_year}-{sequence}
// - project_ref: project's reference_number (falls back to project ID if empty)
// - fiscal_year: Australian fiscal year (Jul-Jun), e.g., "25-26"
// - sequence: 3-digit zero-padded, per project per fiscal year
func GenerateQuoteNumber(app *pocketbase.PocketBase, projectId string, now time.Time) (string, error) {
	project, err := app.FindRecordById("projects", projectId)
	if err != nil {
		return "", fmt.Errorf("project not found: %w", err)
	}

	projectRef := project.GetString("reference_number")
	if projectRef == "" {
		projectRef = projectId
	}

	fiscalYear := GetFiscalYear(now)

	prefix := fmt.Sprintf("QE-%s-%s-", projectRef, fiscalYear)

	existing, err := app.FindRecordsByFilter(
		"pricing_runs",
		"project = {:projectId} && quote_number ~ {:prefix}",
		"",
		0,
		0,
		map[string]any{
			"projectId": projectId,
			"prefix":    prefix + "%",
		},
	)
	if err != nil {
		// No runs yet, start at 1.
		existing = nil
	}

	nextSeq := len(existing) + 1

	return formatQuoteNumber(projectRef, fiscalYear, nextSeq), nil
}
