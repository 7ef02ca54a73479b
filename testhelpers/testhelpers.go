// Package testhelpers provides utilities for testing PocketBase-based applications.
package testhelpers

import (
	"strings"
	"testing"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"quoteengine/collections"
)

// NewTestApp creates a PocketBase instance backed by a temporary directory.
// It bootstraps the app and runs collections.Setup to create all tables.
// The temporary directory is cleaned up automatically when the test finishes.
func NewTestApp(t *testing.T) *pocketbase.PocketBase {
	t.Helper()

	tmpDir := t.TempDir()
	app := pocketbase.NewWithConfig(pocketbase.Config{
		DefaultDataDir: tmpDir,
	})

	if err := app.Bootstrap(); err != nil {
		t.Fatalf("failed to bootstrap test app: %v", err)
	}

	collections.Setup(app)

	return app
}

// CreateTestProject creates a project record with the given name and returns it.
func CreateTestProject(t *testing.T, app *pocketbase.PocketBase, name string) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("projects")
	if err != nil {
		t.Fatalf("failed to find projects collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("name", name)
	record.Set("status", "active")

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test project: %v", err)
	}

	return record
}

// CreateTestPricingRun creates a pricing run record linked to a project.
func CreateTestPricingRun(t *testing.T, app *pocketbase.PocketBase, projectID, quoteNumber string) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("pricing_runs")
	if err != nil {
		t.Fatalf("failed to find pricing_runs collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("project", projectID)
	record.Set("quote_number", quoteNumber)
	record.Set("status", "draft")
	record.Set("breakdown", map[string]any{"project": quoteNumber})
	record.Set("client_summary", map[string]any{"project": quoteNumber})

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test pricing run: %v", err)
	}

	return record
}

// CreateTestJobActuals creates a job actuals record linked to a project.
func CreateTestJobActuals(t *testing.T, app *pocketbase.PocketBase, projectID string, cncHours, assemblyHours float64) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("job_actuals")
	if err != nil {
		t.Fatalf("failed to find job_actuals collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("project", projectID)
	record.Set("cnc_hours", cncHours)
	record.Set("assembly_hours", assemblyHours)
	record.Set("sheets", 10)
	record.Set("parts", 150)
	record.Set("perimeter_m", 300.0)
	record.Set("area_hours_at_scale_1", 20.0)
	record.Set("feature_adder_hours", 4.0)

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test job actuals: %v", err)
	}

	return record
}

// AssertBodyContains checks that body contains all specified fragments.
func AssertBodyContains(t *testing.T, body string, fragments ...string) {
	t.Helper()

	for _, frag := range fragments {
		if !strings.Contains(body, frag) {
			t.Errorf("expected body to contain %q, but it was not found\nbody (first 500 chars): %s",
				frag, truncate(body, 500))
		}
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
