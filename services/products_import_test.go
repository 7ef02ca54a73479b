package services

import (
	"strings"
	"testing"
)

func TestParseProductsPlainExport(t *testing.T) {
	csv := `Item Number,Room Name,Description,Qty,Width,Height,Depth
#12,Kitchen,Base Cabinet 600,1,600,720,560
#13,Kitchen,Tall Unit 450,2,450,2100,560
#14,Laundry,Base Cabinet 900,1,900,720,560
`
	report, err := ParseProducts(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("ParseProducts: %v", err)
	}
	if len(report.Products) != 3 {
		t.Fatalf("got %d products, want 3", len(report.Products))
	}

	first := report.Products[0]
	if first.Item != "12" || first.Room != "Kitchen" || first.Type != "Base Cabinet 600" {
		t.Errorf("first product = %+v", first)
	}
	if got := first.AreaM2(); got != 0.432 {
		t.Errorf("area = %v, want 0.432", got)
	}

	tall := report.Products[1]
	if tall.Qty != 2 || tall.HeightMM != 2100 {
		t.Errorf("tall unit = %+v", tall)
	}
}

func TestParseProductsDeliveryChecklist(t *testing.T) {
	csv := `Delivery Check List
Job: Hartley St

Item,Product Name,Qty,Width,Height,Depth
Room Name: Kitchen
#1,Base Cabinet 600,1,600,720,560
#2,Wall Cabinet 900,2,900,720,300
Room Name: Pantry
#3,Tall Unit 450,1,450,2100,560
`
	report, err := ParseProducts(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("ParseProducts: %v", err)
	}
	if len(report.Products) != 3 {
		t.Fatalf("got %d products, want 3: %+v", len(report.Products), report.Products)
	}

	rooms := map[string]string{}
	for _, p := range report.Products {
		rooms[p.Type] = p.Room
	}
	if rooms["Base Cabinet 600"] != "Kitchen" || rooms["Tall Unit 450"] != "Pantry" {
		t.Errorf("room context not applied: %v", rooms)
	}
}

func TestParseProductsMissingHeader(t *testing.T) {
	_, err := ParseProducts(strings.NewReader("just,a,random,file\n1,2,3,4\n"))
	if err == nil {
		t.Fatal("expected error when no product table header is present")
	}
	if _, ok := err.(*MissingSectionError); !ok {
		t.Errorf("error type = %T, want *MissingSectionError", err)
	}
}

func TestParseProductsSkipsPlaceholderRows(t *testing.T) {
	csv := `Item,Product Name,Qty,Width,Height,Depth
#1,Base Cabinet 600,1,600,720,560
#2,Delivery Note,1,,,
`
	report, err := ParseProducts(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("ParseProducts: %v", err)
	}
	if len(report.Products) != 1 {
		t.Errorf("got %d products, want 1 (placeholder skipped)", len(report.Products))
	}
}

func TestParseProductsBadQty(t *testing.T) {
	csv := `Item,Product Name,Qty,Width,Height,Depth
#1,Base Cabinet 600,lots,600,720,560
`
	report, err := ParseProducts(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("ParseProducts: %v", err)
	}
	if len(report.RowErrors) != 1 || report.RowErrors[0].Field != "Qty" {
		t.Errorf("row errors = %+v, want one Qty error", report.RowErrors)
	}
	if len(report.Products) != 0 {
		t.Errorf("products = %+v, want none", report.Products)
	}
}
