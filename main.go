package main

import (
	"log"
	"os"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"quoteengine/collections"
	"quoteengine/handlers"
)

func main() {
	app := pocketbase.New()

	configDir := os.Getenv("QUOTE_CONFIG_DIR")
	if configDir == "" {
		configDir = "./configs"
	}
	companyName := os.Getenv("QUOTE_COMPANY_NAME")
	if companyName == "" {
		companyName = "Quote Engine"
	}
	companyEmail := os.Getenv("QUOTE_COMPANY_EMAIL")

	// Create collections and seed data on startup
	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		collections.Setup(app)
		if err := collections.Seed(app); err != nil {
			log.Printf("Warning: seed data failed: %v", err)
		}
		if err := collections.MigrateOrphanRunsToProjects(app); err != nil {
			log.Printf("Warning: pricing run migration failed: %v", err)
		}
		return se.Next()
	})

	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		// ── Project CRUD ─────────────────────────────────────────
		se.Router.GET("/api/projects", handlers.HandleProjectList(app))
		se.Router.POST("/api/projects", handlers.HandleProjectCreate(app))
		se.Router.GET("/api/projects/{projectId}", handlers.HandleProjectView(app))
		se.Router.DELETE("/api/projects/{projectId}", handlers.HandleProjectDelete(app))

		// ── Pricing runs ─────────────────────────────────────────
		se.Router.POST("/api/projects/{projectId}/quotes", handlers.HandleQuoteRun(app, configDir))
		se.Router.GET("/api/projects/{projectId}/quotes", handlers.HandleQuoteList(app))
		se.Router.GET("/api/quotes/{id}", handlers.HandleQuoteView(app))
		se.Router.POST("/api/quotes/{id}/issue", handlers.HandleQuoteIssue(app))

		// ── Exports ──────────────────────────────────────────────
		se.Router.GET("/api/quotes/{id}/export/excel", handlers.HandleQuoteExportExcel(app, configDir))
		se.Router.GET("/api/quotes/{id}/export/pdf", handlers.HandleQuoteExportPDF(app, configDir, companyName, companyEmail))

		// ── Calibration ──────────────────────────────────────────
		se.Router.POST("/api/projects/{projectId}/actuals", handlers.HandleActualsSubmit(app, configDir))
		se.Router.GET("/api/tuning", handlers.HandleTuningHistory(configDir))

		return se.Next()
	})

	if err := app.Start(); err != nil {
		log.Fatal(err)
	}
}
