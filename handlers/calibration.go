package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"quoteengine/services"
)

// HandleActualsSubmit returns a handler that records job actuals for a
// project and folds them into the tuning state. The updated tuning is
// written back to the catalog directory so the next pricing run picks
// it up; the run that is already stored is never touched.
func HandleActualsSubmit(app *pocketbase.PocketBase, configDir string) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		projectID := e.Request.PathValue("projectId")
		project, err := app.FindRecordById("projects", projectID)
		if err != nil {
			return ErrorJSON(e, http.StatusNotFound, "Project not found")
		}

		var act services.Actuals
		if err := json.NewDecoder(e.Request.Body).Decode(&act); err != nil {
			return ErrorJSON(e, http.StatusBadRequest, "Invalid JSON body")
		}
		if act.Project == "" {
			act.Project = project.GetString("name")
		}

		actualsCol, err := app.FindCollectionByNameOrId("job_actuals")
		if err != nil {
			log.Printf("calibration: could not find job_actuals collection: %v", err)
			return ErrorJSON(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		record := core.NewRecord(actualsCol)
		record.Set("project", projectID)
		record.Set("cnc_hours", act.CNCHours)
		record.Set("assembly_hours", act.AssemblyHours)
		record.Set("sheets", act.Sheets)
		record.Set("parts", act.Parts)
		record.Set("perimeter_m", act.PerimeterM)
		record.Set("area_hours_at_scale_1", act.AreaHoursAtScaleOne)
		record.Set("feature_adder_hours", act.FeatureAdderHours)
		if err := app.Save(record); err != nil {
			log.Printf("calibration: could not save actuals: %v", err)
			return ErrorJSON(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		snap, err := services.LoadSnapshot(configDir)
		if err != nil {
			log.Printf("calibration: load snapshot: %v", err)
			return ErrorJSON(e, http.StatusInternalServerError, "Catalog configuration could not be loaded")
		}

		next, updates, err := services.Calibrate(snap.Tuning, snap.Rates.Calibration, act, time.Now())
		if err != nil {
			log.Printf("calibration: %v", err)
			return ErrorJSON(e, http.StatusUnprocessableEntity, err.Error())
		}

		if err := services.SaveTuning(configDir, next); err != nil {
			log.Printf("calibration: save tuning: %v", err)
			return ErrorJSON(e, http.StatusInternalServerError, "Could not persist tuning update")
		}

		return e.JSON(http.StatusOK, map[string]any{
			"actuals_id": record.Id,
			"updates":    updates,
			"tuning": map[string]any{
				"cnc":      next.CNC,
				"assembly": next.Assembly,
			},
		})
	}
}

// HandleTuningHistory returns a handler that serves the persisted
// calibration history.
func HandleTuningHistory(configDir string) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		snap, err := services.LoadSnapshot(configDir)
		if err != nil {
			log.Printf("calibration: load snapshot: %v", err)
			return ErrorJSON(e, http.StatusInternalServerError, "Catalog configuration could not be loaded")
		}

		history := snap.Tuning.History
		if history == nil {
			history = []services.TuningUpdate{}
		}
		return e.JSON(http.StatusOK, map[string]any{
			"cnc":      snap.Tuning.CNC,
			"assembly": snap.Tuning.Assembly,
			"history":  history,
		})
	}
}
