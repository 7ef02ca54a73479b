package collections

import (
	"fmt"
	"log"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

// MigrateOrphanRunsToProjects finds pricing runs that have no project
// assigned and creates a project for each one, linking them together.
// Older builds stored runs before the projects collection existed.
// Safe to call on every startup -- returns early if nothing to migrate.
func MigrateOrphanRunsToProjects(app *pocketbase.PocketBase) error {
	runsCol, err := app.FindCollectionByNameOrId("pricing_runs")
	if err != nil {
		return fmt.Errorf("migrate: could not find pricing_runs collection: %w", err)
	}

	projectsCol, err := app.FindCollectionByNameOrId("projects")
	if err != nil {
		return fmt.Errorf("migrate: could not find projects collection: %w", err)
	}

	orphanRuns, err := app.FindRecordsByFilter(
		runsCol,
		"project = ''",
		"",
		0,
		0,
		nil,
	)
	if err != nil {
		return fmt.Errorf("migrate: could not query orphan pricing runs: %w", err)
	}

	if len(orphanRuns) == 0 {
		return nil
	}

	log.Printf("migrate: found %d orphan pricing run(s) without a project -- creating projects...\n", len(orphanRuns))

	for _, run := range orphanRuns {
		quoteNumber := run.GetString("quote_number")
		name := quoteNumber
		if name == "" {
			name = "Recovered run " + run.Id
		}

		projectRecord := core.NewRecord(projectsCol)
		projectRecord.Set("name", name)
		projectRecord.Set("client_name", "")
		projectRecord.Set("reference_number", quoteNumber)
		projectRecord.Set("status", "active")

		if err := app.Save(projectRecord); err != nil {
			log.Printf("migrate: failed to create project for run %s: %v\n", run.Id, err)
			continue
		}

		// Legacy orphans can predate required fields (empty breakdown,
		// client_summary), so the relink must skip validation.
		run.Set("project", projectRecord.Id)
		if err := app.SaveNoValidate(run); err != nil {
			log.Printf("migrate: failed to link run %s to project %s: %v\n", run.Id, projectRecord.Id, err)
			continue
		}

		log.Printf("migrate: run %s -> Project %q (%s)\n", run.Id, projectRecord.Get("name"), projectRecord.Id)
	}

	log.Println("migrate: orphan pricing run migration complete.")
	return nil
}
