package services

import "testing"

func TestRoundHalfUp(t *testing.T) {
	tests := []struct {
		v, inc, want float64
	}{
		{5714.29, 10, 5710},
		{5715, 10, 5720},
		{5714.99, 10, 5710},
		{123.4, 0, 123.4},
		{95, 50, 100},
		{74.99, 50, 50},
	}
	for _, tt := range tests {
		if got := roundHalfUp(tt.v, tt.inc); got != tt.want {
			t.Errorf("roundHalfUp(%v, %v) = %v, want %v", tt.v, tt.inc, got, tt.want)
		}
	}
}

func TestPriceFromSubtotal(t *testing.T) {
	pol := testSnapshot().Policy

	// 4000 / 0.70 = 5714.29 -> rounds to 5710, GST on the rounded figure.
	got := PriceFromSubtotal(4000, pol)
	want := PriceSummary{
		SubtotalExTax: 4000,
		PriceExTax:    5710,
		Tax:           571,
		TotalIncTax:   6281,
	}
	if got != want {
		t.Errorf("PriceFromSubtotal(4000) = %+v, want %+v", got, want)
	}
}

func TestPriceFromSubtotalNoRounding(t *testing.T) {
	pol := testSnapshot().Policy
	pol.Rounding = 0

	got := PriceFromSubtotal(700, pol)
	if got.PriceExTax != 1000 {
		t.Errorf("price = %v, want 1000", got.PriceExTax)
	}
	if got.Tax != 100 || got.TotalIncTax != 1100 {
		t.Errorf("summary = %+v", got)
	}
}

func TestAggregate(t *testing.T) {
	pol := testSnapshot().Policy
	categories := []CategoryResult{
		{Category: CategoryMaterials, Cost: 2500},
		{Category: CategoryHardware, Cost: 1500},
	}
	diags := []Diagnostic{
		{Kind: "unmapped", Section: "materials", Label: "Mystery Board 25mm"},
		{Kind: "tbq", Section: "hardware", Label: "Custom Bracket"},
		{Kind: "tbq", Section: "hardware", Label: "Custom Bracket"}, // duplicate
	}
	buyout := &BuyoutReport{Items: []BuyoutFact{
		{Description: "Stone Benchtop", Status: BuyoutTBQ},
		{Description: "Custom Bracket", Status: BuyoutTBQ}, // dupe across sources
	}}

	bd, client := Aggregate("Hartley St", categories, buyout, diags, nil, pol)

	if bd.Price.SubtotalExTax != 4000 || bd.Price.PriceExTax != 5710 {
		t.Errorf("price = %+v", bd.Price)
	}
	if len(bd.Buyout) != 2 {
		t.Errorf("buyout items = %d, want 2", len(bd.Buyout))
	}

	if client.Project != "Hartley St" || client.Currency != "AUD" {
		t.Errorf("client header = %+v", client)
	}
	if len(client.Categories) != 2 || client.Categories[0].Label != CategoryMaterials {
		t.Errorf("client categories = %+v", client.Categories)
	}
	if client.TotalIncTax != 6281 {
		t.Errorf("total = %v, want 6281", client.TotalIncTax)
	}

	want := []string{"Mystery Board 25mm", "Custom Bracket", "Stone Benchtop"}
	if len(client.ToBeQuoted) != len(want) {
		t.Fatalf("to be quoted = %v, want %v", client.ToBeQuoted, want)
	}
	for i, label := range want {
		if client.ToBeQuoted[i] != label {
			t.Errorf("to be quoted[%d] = %q, want %q", i, client.ToBeQuoted[i], label)
		}
	}
}

func TestAggregateNoLeakIntoClientSummary(t *testing.T) {
	pol := testSnapshot().Policy
	categories := []CategoryResult{{
		Category: CategoryCNC,
		Cost:     800,
		Drivers:  map[string]float64{"total_sheets": 12},
		Items:    []LineItem{{Label: "CNC machining", Rate: 80}},
	}}

	_, client := Aggregate("Job", categories, nil, nil, nil, pol)

	// Client lines carry a label and amount only.
	if len(client.Categories) != 1 {
		t.Fatalf("categories = %+v", client.Categories)
	}
	line := client.Categories[0]
	if line.Label != CategoryCNC || line.Amount != 800 {
		t.Errorf("client line = %+v", line)
	}
	if len(client.Assumptions) != 1 {
		t.Errorf("assumptions = %v, want policy assumptions carried through", client.Assumptions)
	}
}
