package handlers

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"quoteengine/services"
)

// loadRunBreakdown fetches a stored pricing run and decodes its
// breakdown and client summary back into service types.
func loadRunBreakdown(app *pocketbase.PocketBase, runID string) (*services.Breakdown, *services.ClientSummary, error) {
	rec, err := app.FindRecordById("pricing_runs", runID)
	if err != nil {
		return nil, nil, fmt.Errorf("pricing run not found: %w", err)
	}

	var bd services.Breakdown
	if err := json.Unmarshal([]byte(rec.GetString("breakdown")), &bd); err != nil {
		return nil, nil, fmt.Errorf("decode breakdown: %w", err)
	}
	var cs services.ClientSummary
	if err := json.Unmarshal([]byte(rec.GetString("client_summary")), &cs); err != nil {
		return nil, nil, fmt.Errorf("decode client summary: %w", err)
	}
	if cs.QuoteNumber == "" {
		cs.QuoteNumber = rec.GetString("quote_number")
	}
	return &bd, &cs, nil
}

// sanitizeFilename removes characters that are unsafe for filenames.
func sanitizeFilename(s string) string {
	s = strings.ReplaceAll(s, " ", "-")
	s = strings.ReplaceAll(s, "/", "-")
	s = strings.ReplaceAll(s, "\\", "-")
	s = strings.ReplaceAll(s, ":", "-")
	return s
}

// HandleQuoteExportExcel returns a handler that generates and
// downloads the internal breakdown workbook for a pricing run.
func HandleQuoteExportExcel(app *pocketbase.PocketBase, configDir string) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		runID := e.Request.PathValue("id")
		if runID == "" {
			return ErrorJSON(e, http.StatusBadRequest, "Missing run ID")
		}

		bd, _, err := loadRunBreakdown(app, runID)
		if err != nil {
			log.Printf("export_excel: %v", err)
			return ErrorJSON(e, http.StatusNotFound, "Pricing run not found")
		}

		snap, err := services.LoadSnapshot(configDir)
		if err != nil {
			log.Printf("export_excel: load snapshot: %v", err)
			return ErrorJSON(e, http.StatusInternalServerError, "Catalog configuration could not be loaded")
		}

		xlsxBytes, err := services.GenerateBreakdownExcel(bd, snap.Policy)
		if err != nil {
			log.Printf("export_excel: failed to generate: %v", err)
			return ErrorJSON(e, http.StatusInternalServerError, "Failed to generate Excel file")
		}

		filename := fmt.Sprintf("Breakdown_%s_%d.xlsx", sanitizeFilename(bd.Project), time.Now().Year())

		e.Response.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		e.Response.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
		e.Response.Write(xlsxBytes)
		return nil
	}
}

// HandleQuoteExportPDF returns a handler that generates and downloads
// the client quote document for a pricing run.
func HandleQuoteExportPDF(app *pocketbase.PocketBase, configDir, companyName, companyEmail string) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		runID := e.Request.PathValue("id")
		if runID == "" {
			return ErrorJSON(e, http.StatusBadRequest, "Missing run ID")
		}

		_, cs, err := loadRunBreakdown(app, runID)
		if err != nil {
			log.Printf("export_pdf: %v", err)
			return ErrorJSON(e, http.StatusNotFound, "Pricing run not found")
		}

		snap, err := services.LoadSnapshot(configDir)
		if err != nil {
			log.Printf("export_pdf: load snapshot: %v", err)
			return ErrorJSON(e, http.StatusInternalServerError, "Catalog configuration could not be loaded")
		}

		pdfBytes, err := services.GenerateQuotePDF(&services.QuotePDFData{
			Summary:      cs,
			Symbol:       snap.Policy.CurrencySymbol,
			CompanyName:  companyName,
			CompanyEmail: companyEmail,
			IssueDate:    time.Now(),
			ValidityDays: snap.Policy.ValidityDays,
		})
		if err != nil {
			log.Printf("export_pdf: failed to generate: %v", err)
			return ErrorJSON(e, http.StatusInternalServerError, "Failed to generate PDF file")
		}

		filename := fmt.Sprintf("Quote_%s_%d.pdf", sanitizeFilename(cs.QuoteNumber), time.Now().Year())

		e.Response.Header().Set("Content-Type", "application/pdf")
		e.Response.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
		e.Response.Write(pdfBytes)
		return nil
	}
}
