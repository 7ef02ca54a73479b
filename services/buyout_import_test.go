package services

import "testing"

func TestParseBuyout(t *testing.T) {
	rows := [][]any{
		{"Buyout Report"},
		{"Job: Hartley St"},
		{},
		{"Description", "Qty", "Length", "Width", "Height", "Material"},
		{"Stone Benchtop", "1", "2400", "600", "40", "Caesarstone"},
		{"Glass Splashback", "2", "900", "600", "", ""},
	}
	report, err := ParseBuyout(buildWorkbook(t, rows))
	if err != nil {
		t.Fatalf("ParseBuyout: %v", err)
	}
	if len(report.Items) != 2 {
		t.Fatalf("got %d items, want 2", len(report.Items))
	}

	// Sorted by description.
	glass := report.Items[0]
	if glass.Description != "Glass Splashback" || glass.Qty != 2 {
		t.Errorf("first item = %+v", glass)
	}
	stone := report.Items[1]
	if stone.LengthMM != 2400 || stone.Material != "Caesarstone" {
		t.Errorf("stone item = %+v", stone)
	}
	for _, item := range report.Items {
		if item.Status != BuyoutTBQ {
			t.Errorf("item %q status = %q, want %q", item.Description, item.Status, BuyoutTBQ)
		}
	}
}

func TestParseBuyoutBadQty(t *testing.T) {
	rows := [][]any{
		{"Description", "Qty", "Length"},
		{"Stone Benchtop", "one", "2400"},
		{"Glass Splashback", "2", "900"},
	}
	report, err := ParseBuyout(buildWorkbook(t, rows))
	if err != nil {
		t.Fatalf("ParseBuyout: %v", err)
	}
	if len(report.RowErrors) != 1 || report.RowErrors[0].Field != "qty" {
		t.Fatalf("row errors = %+v, want one qty error", report.RowErrors)
	}
	if len(report.Items) != 1 {
		t.Errorf("items = %+v, want only the good row", report.Items)
	}
}

func TestParseBuyoutNoTable(t *testing.T) {
	rows := [][]any{
		{"Buyout Report"},
		{"nothing here"},
	}
	report, err := ParseBuyout(buildWorkbook(t, rows))
	if err != nil {
		t.Fatalf("ParseBuyout: %v", err)
	}
	if len(report.Items) != 0 {
		t.Errorf("items = %+v, want none", report.Items)
	}
}
