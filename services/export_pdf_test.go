package services

import (
	"bytes"
	"testing"
	"time"
)

func testQuotePDFData() *QuotePDFData {
	return &QuotePDFData{
		Summary: &ClientSummary{
			Project:     "Hartley St",
			QuoteNumber: "QE-HART-2026-014-25-26-001",
			Currency:    "AUD",
			Categories: []ClientLine{
				{Label: CategoryMaterials, Amount: 1101.60},
				{Label: CategoryHardware, Amount: 70},
			},
			PriceExTax:  1670,
			Tax:         167,
			TotalIncTax: 1837,
			Assumptions: []string{"Site access available during business hours"},
			ToBeQuoted:  []string{"Stone Benchtop"},
		},
		Symbol:       "$",
		CompanyName:  "Quote Engine",
		CompanyEmail: "quotes@example.com",
		IssueDate:    time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC),
		ValidityDays: 30,
	}
}

func TestGenerateQuotePDF(t *testing.T) {
	data, err := GenerateQuotePDF(testQuotePDFData())
	if err != nil {
		t.Fatalf("GenerateQuotePDF: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("generated PDF is empty")
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Errorf("output does not start with a PDF header: %q", data[:8])
	}
}

func TestGenerateQuotePDFMinimalSummary(t *testing.T) {
	// No assumptions, no gaps, no validity: optional sections skipped.
	pdfData := testQuotePDFData()
	pdfData.Summary.Assumptions = nil
	pdfData.Summary.ToBeQuoted = nil
	pdfData.ValidityDays = 0

	data, err := GenerateQuotePDF(pdfData)
	if err != nil {
		t.Fatalf("GenerateQuotePDF: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("generated PDF is empty")
	}
}
