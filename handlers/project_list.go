package handlers

import (
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

type projectSummary struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	ClientName      string `json:"client_name"`
	ReferenceNumber string `json:"reference_number"`
	Status          string `json:"status"`
}

// HandleProjectList returns a handler listing all projects, newest
// first.
func HandleProjectList(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		records, err := app.FindRecordsByFilter("projects", "id != ''", "-created", 0, 0, nil)
		if err != nil {
			records = nil
		}

		projects := make([]projectSummary, 0, len(records))
		for _, rec := range records {
			projects = append(projects, projectSummary{
				ID:              rec.Id,
				Name:            rec.GetString("name"),
				ClientName:      rec.GetString("client_name"),
				ReferenceNumber: rec.GetString("reference_number"),
				Status:          rec.GetString("status"),
			})
		}

		return e.JSON(http.StatusOK, map[string]any{"projects": projects})
	}
}

// HandleProjectView returns a handler serving one project record.
func HandleProjectView(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		projectID := e.Request.PathValue("projectId")
		rec, err := app.FindRecordById("projects", projectID)
		if err != nil {
			return ErrorJSON(e, http.StatusNotFound, "Project not found")
		}

		return e.JSON(http.StatusOK, projectSummary{
			ID:              rec.Id,
			Name:            rec.GetString("name"),
			ClientName:      rec.GetString("client_name"),
			ReferenceNumber: rec.GetString("reference_number"),
			Status:          rec.GetString("status"),
		})
	}
}

// HandleProjectDelete returns a handler that deletes a project and its
// cascaded runs and actuals.
func HandleProjectDelete(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		projectID := e.Request.PathValue("projectId")
		rec, err := app.FindRecordById("projects", projectID)
		if err != nil {
			return ErrorJSON(e, http.StatusNotFound, "Project not found")
		}

		if err := app.Delete(rec); err != nil {
			return ErrorJSON(e, http.StatusInternalServerError, "Could not delete project")
		}

		return e.JSON(http.StatusOK, map[string]any{"deleted": projectID})
	}
}
