package services

import "testing"

func TestCalcEdgeband(t *testing.T) {
	snap := testSnapshot()
	usages := []BandUsage{
		{Key: Key{Raw: "ABS 1MM WHITE", Canonical: "ABS 1mm White"}, LinearM: 42.5, Setups: 3},
	}

	res, diags := CalcEdgeband(usages, snap)

	// 42.5 lm x $1.20 + 3 setups x $5.
	if res.Cost != 66.00 {
		t.Errorf("cost = %v, want 66.00", res.Cost)
	}
	if len(diags) != 0 {
		t.Errorf("diagnostics = %v, want none", diags)
	}
	// (42.5 x 0.5 min + 3 x 5 min) / 60.
	if res.Hours != 0.60 {
		t.Errorf("hours = %v, want 0.60", res.Hours)
	}
	if res.Drivers["linear_m"] != 42.5 || res.Drivers["setups"] != 3 {
		t.Errorf("drivers = %v", res.Drivers)
	}
}

func TestCalcEdgebandUnmapped(t *testing.T) {
	snap := testSnapshot()
	usages := []BandUsage{
		{Key: Key{Raw: "PVC 2MM OAK"}, LinearM: 10, Setups: 1},
	}
	res, _ := CalcEdgeband(usages, snap)
	if res.Cost != 0 {
		t.Errorf("cost = %v, want 0", res.Cost)
	}
	if res.Items[0].Status != StatusUnmapped {
		t.Errorf("status = %q, want %q", res.Items[0].Status, StatusUnmapped)
	}
	// Unmapped meters still take machine time: the bander runs them
	// regardless of what the band ends up costing.
	if res.Drivers["linear_m"] != 10 {
		t.Errorf("linear_m = %v, want 10", res.Drivers["linear_m"])
	}
	// (10 x 0.5 min + 1 x 5 min) / 60.
	if res.Hours != 0.17 {
		t.Errorf("hours = %v, want 0.17", res.Hours)
	}
}

func TestCalcEdgebandCanonicalWithoutCatalogEntry(t *testing.T) {
	snap := testSnapshot()
	usages := []BandUsage{
		{Key: Key{Raw: "VENEER 2MM OAK", Canonical: "Oak Veneer 2mm"}, LinearM: 8, Setups: 1},
	}
	res, diags := CalcEdgeband(usages, snap)
	if res.Cost != 0 {
		t.Errorf("cost = %v, want 0 for spec missing from catalog", res.Cost)
	}
	if res.Items[0].Status != StatusTBQ {
		t.Errorf("status = %q, want %q", res.Items[0].Status, StatusTBQ)
	}
	if len(diags) != 1 {
		t.Fatalf("got %d diagnostics, want 1", len(diags))
	}
	if diags[0].Kind != "tbq" || diags[0].Section != "edgeband" || diags[0].Label != "Oak Veneer 2mm" {
		t.Errorf("diagnostic = %+v", diags[0])
	}
}
