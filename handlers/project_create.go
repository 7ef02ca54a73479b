package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

var ProjectStatusOptions = []string{"active", "archived"}

type projectCreateRequest struct {
	Name            string `json:"name"`
	ClientName      string `json:"client_name"`
	ReferenceNumber string `json:"reference_number"`
	Status          string `json:"status"`
}

// HandleProjectCreate returns a handler that creates a project record.
func HandleProjectCreate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var req projectCreateRequest
		if err := json.NewDecoder(e.Request.Body).Decode(&req); err != nil {
			return ErrorJSON(e, http.StatusBadRequest, "Invalid JSON body")
		}

		name := strings.TrimSpace(req.Name)
		if name == "" {
			return ErrorJSON(e, http.StatusBadRequest, "Project name is required")
		}

		status := strings.TrimSpace(req.Status)
		validStatus := false
		for _, s := range ProjectStatusOptions {
			if status == s {
				validStatus = true
				break
			}
		}
		if !validStatus {
			status = "active"
		}

		existing, _ := app.FindRecordsByFilter(
			"projects",
			"name = {:name}",
			"", 1, 0,
			map[string]any{"name": name},
		)
		if len(existing) > 0 {
			return ErrorJSON(e, http.StatusConflict, "A project with this name already exists")
		}

		projectsCol, err := app.FindCollectionByNameOrId("projects")
		if err != nil {
			log.Printf("project_create: could not find projects collection: %v", err)
			return ErrorJSON(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		record := core.NewRecord(projectsCol)
		record.Set("name", name)
		record.Set("client_name", strings.TrimSpace(req.ClientName))
		record.Set("reference_number", strings.TrimSpace(req.ReferenceNumber))
		record.Set("status", status)

		if err := app.Save(record); err != nil {
			log.Printf("project_create: could not save project: %v", err)
			return ErrorJSON(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		return e.JSON(http.StatusCreated, map[string]any{
			"id":               record.Id,
			"name":             name,
			"client_name":      record.GetString("client_name"),
			"reference_number": record.GetString("reference_number"),
			"status":           status,
		})
	}
}
