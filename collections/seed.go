package collections

import (
	"fmt"
	"log"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

type projectDef struct {
	name            string
	clientName      string
	referenceNumber string
	status          string
}

type actualsDef struct {
	cncHours          float64
	assemblyHours     float64
	sheets            float64
	parts             float64
	perimeterM        float64
	areaHoursAtScale1 float64
	featureAdderHours float64
	notes             string
}

// Seed populates the collections with a pair of realistic joinery
// projects and one set of job actuals. It is safe to call on every
// startup because it returns early if any project records already
// exist.
func Seed(app *pocketbase.PocketBase) error {
	projectsCol, err := app.FindCollectionByNameOrId("projects")
	if err != nil {
		return fmt.Errorf("seed: could not find projects collection: %w", err)
	}
	existing, err := app.FindAllRecords(projectsCol)
	if err != nil {
		return fmt.Errorf("seed: could not query projects: %w", err)
	}
	if len(existing) > 0 {
		return nil // already seeded
	}

	log.Println("seed: projects collection is empty – inserting seed data …")

	actualsCol, err := app.FindCollectionByNameOrId("job_actuals")
	if err != nil {
		return fmt.Errorf("seed: could not find job_actuals collection: %w", err)
	}

	createProject := func(d projectDef) (*core.Record, error) {
		r := core.NewRecord(projectsCol)
		r.Set("name", d.name)
		r.Set("client_name", d.clientName)
		r.Set("reference_number", d.referenceNumber)
		r.Set("status", d.status)
		if err := app.Save(r); err != nil {
			return nil, fmt.Errorf("seed: save project %q: %w", d.name, err)
		}
		return r, nil
	}

	p1, err := createProject(projectDef{
		name:            "Hartley St Residence — Kitchen & Butler's Pantry",
		clientName:      "Coastline Building Group",
		referenceNumber: "HART-2026-014",
		status:          "active",
	})
	if err != nil {
		return err
	}

	if _, err := createProject(projectDef{
		name:            "Norwood Dental Fitout — Reception Joinery",
		clientName:      "Meridian Commercial Interiors",
		referenceNumber: "NORW-2026-021",
		status:          "active",
	}); err != nil {
		return err
	}

	// A completed-job observation for the first project so the
	// calibration loop has something to work from.
	act := actualsDef{
		cncHours:          9.5,
		assemblyHours:     31.0,
		sheets:            14,
		parts:             212,
		perimeterM:        389.4,
		areaHoursAtScale1: 26.2,
		featureAdderHours: 5.5,
		notes:             "Shop floor timesheets, week 22",
	}
	r := core.NewRecord(actualsCol)
	r.Set("project", p1.Id)
	r.Set("cnc_hours", act.cncHours)
	r.Set("assembly_hours", act.assemblyHours)
	r.Set("sheets", act.sheets)
	r.Set("parts", act.parts)
	r.Set("perimeter_m", act.perimeterM)
	r.Set("area_hours_at_scale_1", act.areaHoursAtScale1)
	r.Set("feature_adder_hours", act.featureAdderHours)
	r.Set("notes", act.notes)
	if err := app.Save(r); err != nil {
		return fmt.Errorf("seed: save job actuals: %w", err)
	}

	log.Println("seed: all seed data inserted successfully (2 projects, 1 job actuals)")
	return nil
}
