package collections_test

import (
	"testing"

	"quoteengine/collections"
	"quoteengine/testhelpers"

	"github.com/pocketbase/pocketbase/core"
)

// expectedCollections is the full list of collections that Setup() must create.
var expectedCollections = []string{
	"projects",
	"pricing_runs",
	"job_actuals",
}

func TestSetup_AllCollectionsExist(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	for _, name := range expectedCollections {
		col, err := app.FindCollectionByNameOrId(name)
		if err != nil {
			t.Errorf("collection %q not found after Setup(): %v", name, err)
			continue
		}
		if col.Name != name {
			t.Errorf("expected collection name %q, got %q", name, col.Name)
		}
	}
}

func TestSetup_Idempotent(t *testing.T) {
	app := testhelpers.NewTestApp(t) // Setup() already called once via NewTestApp

	// Collect IDs from first run
	ids := make(map[string]string)
	for _, name := range expectedCollections {
		col, _ := app.FindCollectionByNameOrId(name)
		ids[name] = col.Id
	}

	// Run Setup() again
	collections.Setup(app)

	// IDs should not change
	for _, name := range expectedCollections {
		col, err := app.FindCollectionByNameOrId(name)
		if err != nil {
			t.Errorf("collection %q missing after second Setup(): %v", name, err)
			continue
		}
		if col.Id != ids[name] {
			t.Errorf("collection %q id changed after second Setup(): %s -> %s", name, ids[name], col.Id)
		}
	}
}

func TestSetup_ProjectsFields(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	col, _ := app.FindCollectionByNameOrId("projects")

	fields := []string{"name", "client_name", "reference_number", "status", "created", "updated"}
	for _, f := range fields {
		if col.Fields.GetByName(f) == nil {
			t.Errorf("projects: missing field %q", f)
		}
	}

	// Verify status is a select field with expected values
	statusField := col.Fields.GetByName("status")
	if sf, ok := statusField.(*core.SelectField); ok {
		expected := map[string]bool{"active": true, "archived": true}
		for _, v := range sf.Values {
			if !expected[v] {
				t.Errorf("unexpected status value: %q", v)
			}
			delete(expected, v)
		}
		for v := range expected {
			t.Errorf("missing status value: %q", v)
		}
	} else {
		t.Errorf("status field is not a SelectField")
	}
}

func TestSetup_PricingRunsFields(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	col, _ := app.FindCollectionByNameOrId("pricing_runs")

	fields := []string{
		"project", "quote_number", "status", "breakdown", "client_summary",
		"subtotal_ex_tax", "price_ex_tax", "tax", "total_inc_tax",
		"created", "updated",
	}
	for _, f := range fields {
		if col.Fields.GetByName(f) == nil {
			t.Errorf("pricing_runs: missing field %q", f)
		}
	}

	// status select field
	statusField := col.Fields.GetByName("status")
	if sf, ok := statusField.(*core.SelectField); ok {
		expected := []string{"draft", "issued", "superseded"}
		if len(sf.Values) != len(expected) {
			t.Errorf("pricing_runs.status: expected %d values, got %d", len(expected), len(sf.Values))
		}
	} else {
		t.Errorf("status field is not a SelectField")
	}

	// project relation with cascade delete
	projectField := col.Fields.GetByName("project")
	if rf, ok := projectField.(*core.RelationField); ok {
		if !rf.CascadeDelete {
			t.Error("pricing_runs.project: expected CascadeDelete=true")
		}
		if rf.MaxSelect != 1 {
			t.Errorf("pricing_runs.project: expected MaxSelect=1, got %d", rf.MaxSelect)
		}
	} else {
		t.Errorf("pricing_runs.project is not a RelationField")
	}
}

func TestSetup_JobActualsFields(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	col, _ := app.FindCollectionByNameOrId("job_actuals")

	fields := []string{
		"project", "cnc_hours", "assembly_hours", "sheets", "parts",
		"perimeter_m", "area_hours_at_scale_1", "feature_adder_hours",
		"notes", "created",
	}
	for _, f := range fields {
		if col.Fields.GetByName(f) == nil {
			t.Errorf("job_actuals: missing field %q", f)
		}
	}

	projectField := col.Fields.GetByName("project")
	if rf, ok := projectField.(*core.RelationField); ok {
		if !rf.CascadeDelete {
			t.Error("job_actuals.project: expected CascadeDelete=true")
		}
	}
}

func TestSetup_CascadeDeleteOnProject(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	proj := testhelpers.CreateTestProject(t, app, "Cascade Test")
	run := testhelpers.CreateTestPricingRun(t, app, proj.Id, "QE-CASC-25-26-001")
	actuals := testhelpers.CreateTestJobActuals(t, app, proj.Id, 9.5, 31.0)

	if err := app.Delete(proj); err != nil {
		t.Fatalf("failed to delete project: %v", err)
	}

	_, err := app.FindRecordById("pricing_runs", run.Id)
	if err == nil {
		t.Error("pricing run should have been cascade-deleted with project")
	}
	_, err = app.FindRecordById("job_actuals", actuals.Id)
	if err == nil {
		t.Error("job actuals should have been cascade-deleted with project")
	}
}
