package handlers

import (
	"fmt"
	"log"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"quoteengine/services"
)

// maxUploadBytes caps the combined size of the uploaded reports.
const maxUploadBytes = 64 << 20

// HandleQuoteRun returns a handler that accepts the exported shop
// reports as a multipart upload, prices the job against the current
// catalog snapshot and stores the run. Form file fields: "wos"
// (required), "parts", "products", "buyout".
func HandleQuoteRun(app *pocketbase.PocketBase, configDir string) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		projectID := e.Request.PathValue("projectId")
		project, err := app.FindRecordById("projects", projectID)
		if err != nil {
			return ErrorJSON(e, http.StatusNotFound, "Project not found")
		}

		if err := e.Request.ParseMultipartForm(maxUploadBytes); err != nil {
			return ErrorJSON(e, http.StatusBadRequest, "Invalid multipart form")
		}

		reports, err := parseUploadedReports(e.Request)
		if err != nil {
			log.Printf("quote_run: %v", err)
			return ErrorJSON(e, http.StatusUnprocessableEntity, err.Error())
		}

		snap, err := services.LoadSnapshot(configDir)
		if err != nil {
			log.Printf("quote_run: load snapshot: %v", err)
			return ErrorJSON(e, http.StatusInternalServerError, "Catalog configuration could not be loaded")
		}

		result, err := services.PriceQuote(project.GetString("name"), reports, snap)
		if err != nil {
			log.Printf("quote_run: price quote: %v", err)
			return ErrorJSON(e, http.StatusUnprocessableEntity, err.Error())
		}

		quoteNumber, err := services.GenerateQuoteNumber(app, projectID, time.Now())
		if err != nil {
			log.Printf("quote_run: quote number: %v", err)
			return ErrorJSON(e, http.StatusInternalServerError, "Could not generate quote number")
		}
		result.Client.QuoteNumber = quoteNumber

		runsCol, err := app.FindCollectionByNameOrId("pricing_runs")
		if err != nil {
			log.Printf("quote_run: could not find pricing_runs collection: %v", err)
			return ErrorJSON(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		record := core.NewRecord(runsCol)
		record.Set("project", projectID)
		record.Set("quote_number", quoteNumber)
		record.Set("status", "draft")
		record.Set("breakdown", result.Breakdown)
		record.Set("client_summary", result.Client)
		record.Set("subtotal_ex_tax", result.Breakdown.Price.SubtotalExTax)
		record.Set("price_ex_tax", result.Breakdown.Price.PriceExTax)
		record.Set("tax", result.Breakdown.Price.Tax)
		record.Set("total_inc_tax", result.Breakdown.Price.TotalIncTax)

		if err := app.Save(record); err != nil {
			log.Printf("quote_run: could not save pricing run: %v", err)
			return ErrorJSON(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		return e.JSON(http.StatusOK, map[string]any{
			"id":           record.Id,
			"quote_number": quoteNumber,
			"breakdown":    result.Breakdown,
			"client":       result.Client,
		})
	}
}

// parseUploadedReports parses each uploaded report file. The work
// order summary is mandatory; the other three degrade gracefully.
func parseUploadedReports(r *http.Request) (services.ReportSet, error) {
	var reports services.ReportSet

	wosFile, err := openFormFile(r, "wos")
	if err != nil {
		return reports, fmt.Errorf("work order summary upload is required")
	}
	defer wosFile.Close()
	wos, err := services.ParseWOS(wosFile)
	if err != nil {
		return reports, fmt.Errorf("work order summary: %w", err)
	}
	reports.WOS = wos

	if f, err := openFormFile(r, "parts"); err == nil {
		defer f.Close()
		parts, err := services.ParseParts(f)
		if err != nil {
			return reports, fmt.Errorf("parts list: %w", err)
		}
		reports.Parts = parts
	}

	if f, err := openFormFile(r, "products"); err == nil {
		defer f.Close()
		products, err := services.ParseProducts(f)
		if err != nil {
			return reports, fmt.Errorf("product list: %w", err)
		}
		reports.Products = products
	}

	if f, err := openFormFile(r, "buyout"); err == nil {
		defer f.Close()
		buyout, err := services.ParseBuyout(f)
		if err != nil {
			return reports, fmt.Errorf("buyout list: %w", err)
		}
		reports.Buyout = buyout
	}

	return reports, nil
}

func openFormFile(r *http.Request, field string) (multipart.File, error) {
	f, _, err := r.FormFile(field)
	if err != nil {
		return nil, err
	}
	return f, nil
}
