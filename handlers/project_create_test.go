package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"quoteengine/testhelpers"
)

func TestHandleProjectCreate_ValidData(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	handler := HandleProjectCreate(app)

	body := `{"name":"Hartley St Residence","client_name":"Coastline Building Group","reference_number":"HART-2026-014","status":"active"}`
	req := httptest.NewRequest(http.MethodPost, "/api/projects", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	e := newTestRequestEvent(app, req, rec)
	if err := handler(e); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}

	if rec.Code != http.StatusCreated {
		t.Errorf("expected status 201, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp["name"] != "Hartley St Residence" || resp["reference_number"] != "HART-2026-014" {
		t.Errorf("response = %v", resp)
	}

	// Verify project was created in the database
	records, err := app.FindRecordsByFilter("projects", "name = {:name}", "", 1, 0,
		map[string]any{"name": "Hartley St Residence"})
	if err != nil || len(records) == 0 {
		t.Error("expected project to be created in database")
	}
}

func TestHandleProjectCreate_InvalidJSON(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	handler := HandleProjectCreate(app)

	req := httptest.NewRequest(http.MethodPost, "/api/projects", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()

	e := newTestRequestEvent(app, req, rec)
	if err := handler(e); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", rec.Code)
	}
}

func TestHandleProjectCreate_MissingName(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	handler := HandleProjectCreate(app)

	req := httptest.NewRequest(http.MethodPost, "/api/projects", strings.NewReader(`{"name":"  "}`))
	rec := httptest.NewRecorder()

	e := newTestRequestEvent(app, req, rec)
	if err := handler(e); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", rec.Code)
	}
}

func TestHandleProjectCreate_DuplicateName(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	testhelpers.CreateTestProject(t, app, "Existing Project")
	handler := HandleProjectCreate(app)

	req := httptest.NewRequest(http.MethodPost, "/api/projects",
		strings.NewReader(`{"name":"Existing Project"}`))
	rec := httptest.NewRecorder()

	e := newTestRequestEvent(app, req, rec)
	if err := handler(e); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusConflict {
		t.Errorf("expected status 409, got %d", rec.Code)
	}
}

func TestHandleProjectCreate_InvalidStatusFallsBack(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	handler := HandleProjectCreate(app)

	req := httptest.NewRequest(http.MethodPost, "/api/projects",
		strings.NewReader(`{"name":"Status Test","status":"bogus"}`))
	rec := httptest.NewRecorder()

	e := newTestRequestEvent(app, req, rec)
	if err := handler(e); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", rec.Code)
	}

	records, _ := app.FindRecordsByFilter("projects", "name = {:name}", "", 1, 0,
		map[string]any{"name": "Status Test"})
	if len(records) == 0 {
		t.Fatal("project not created")
	}
	if got := records[0].GetString("status"); got != "active" {
		t.Errorf("status = %q, want active fallback", got)
	}
}
