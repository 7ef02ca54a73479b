package services

import "testing"

func TestCalcCNC(t *testing.T) {
	snap := testSnapshot()
	d := CNCDrivers{Sheets: 12, Parts: 150, PerimeterM: 300}

	res := CalcCNC(d, snap)

	// 0.12*12 + 0.03*150 + 0.01*300 = 8.94 h at $80/h.
	if res.Hours != 8.94 {
		t.Errorf("hours = %v, want 8.94", res.Hours)
	}
	if res.Cost != 715.20 {
		t.Errorf("cost = %v, want 715.20", res.Cost)
	}
	if res.Drivers["total_sheets"] != 12 || res.Drivers["total_parts"] != 150 || res.Drivers["total_perimeter_m"] != 300 {
		t.Errorf("drivers = %v", res.Drivers)
	}
	if len(res.Items) != 1 || res.Items[0].Label != "CNC machining (machine)" {
		t.Errorf("items = %+v", res.Items)
	}
}

func TestCalcCNCSubcontract(t *testing.T) {
	snap := testSnapshot()
	snap.Rates.Machine.UseSubcontract = true
	res := CalcCNC(CNCDrivers{Sheets: 10}, snap)

	// 0.12*10 = 1.2 h at the $95 subcontract rate.
	if res.Cost != 114.00 {
		t.Errorf("cost = %v, want 114.00", res.Cost)
	}
	if res.Items[0].Label != "CNC machining (subcontract)" {
		t.Errorf("item label = %q", res.Items[0].Label)
	}
}

func TestDriversFromReports(t *testing.T) {
	usage := &NormalizedUsage{
		Materials: []MaterialUsage{{Sheets: 8}, {Sheets: 4}},
	}
	parts := &PartsReport{TotalParts: 150, PerimeterM: 300}

	d := driversFromReports(usage, parts)
	if d.Sheets != 12 || d.Parts != 150 || d.PerimeterM != 300 {
		t.Errorf("drivers = %+v", d)
	}

	// Without a parts report the model degrades to sheets only.
	d = driversFromReports(usage, nil)
	if d.Sheets != 12 || d.Parts != 0 || d.PerimeterM != 0 {
		t.Errorf("drivers without parts = %+v", d)
	}
}
