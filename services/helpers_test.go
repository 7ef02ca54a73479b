package services

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/xuri/excelize/v2"
)

// testSnapshot returns a small but complete catalog fixture shared by
// the calculator tests.
func testSnapshot() *Snapshot {
	return &Snapshot{
		Materials: map[string]MaterialEntry{
			"White Melamine 16mm": {UnitCost: 85, SheetSizeMM: []float64{1810, 3620}, PricePerM2: 10},
			"Black Laminate 18mm": {UnitCost: 140},
		},
		Bands: map[string]BandEntry{
			"ABS 1mm White": {PricePerM: 1.20, SetupCost: 5},
		},
		Hardware: map[string]HardwareEntry{
			"Hinge Soft Close": {UnitPrice: 3.50, PackSize: 10},
			"Shelf Pin":        {UnitPrice: 0.15},
			"Custom Bracket":   {PackSize: 4}, // no price: to be quoted
		},
		Assembly: AssemblyRules{
			DefaultAreaFactor: 0.9,
			TypeAreaFactors:   map[string]float64{"base cabinet": 1.0, "tall unit": 1.3},
			Adders:            FeatureAdders{DrawerH: 0.4, DoorH: 0.25, AdjShelfH: 0.1, FixedShelfH: 0.08},
			Complexity:        map[string]float64{"curved": 1.5},
		},
		Install: InstallRules{
			DefaultAreaFactor: 0.5,
			TypeAreaFactors:   map[string]float64{"tall unit": 0.7},
			Complexity:        map[string]float64{"curved": 1.4},
		},
		Rates: Rates{
			Labor: map[string]float64{"shop": 50, "installer": 55},
			Machine: MachineRates{
				CNC:         80,
				Subcontract: 95,
			},
			InstallTeam: InstallTeam{
				TwoPersonFraction: 0.8,
				OnePersonFraction: 0.2,
				TwoPersonRate:     110,
				RoleSubstitutions: []string{"installer"},
			},
			Overhead: OverheadConfig{Monthly: 40000, InternalHoursLow: 400, InternalHoursHigh: 600},
			Edgeband: EdgebandTime{MinutesPerM: 0.5, SetupMinutes: 5},
			Defaults: RateDefaults{DraftingHours: 4, PMHours: 6},
			Calibration: CalibrationConfig{
				Alpha:          0.3,
				CNCUpdate:      "dominant",
				UpdateAssembly: true,
			},
		},
		Policy: Policy{
			Currency:        "AUD",
			CurrencySymbol:  "$",
			TaxRate:         0.10,
			MarginTarget:    0.30,
			Rounding:        10,
			ExtraSheetWaste: 0.08,
			ValidityDays:    30,
			Assumptions:     []string{"Site access available during business hours"},
		},
		NameMaps: NameMaps{
			Materials: map[string]string{
				"MELAMINE WHITE 16MM": "White Melamine 16mm",
				"Black Laminate 18mm": "Black Laminate 18mm",
			},
			Bands: map[string]string{
				"ABS 1MM WHITE": "ABS 1mm White",
			},
			Hardware: map[string]string{
				"HINGE SOFT CLOSE": "Hinge Soft Close",
				"SHELF PIN":        "Shelf Pin",
				"CUSTOM BRACKET":   "Custom Bracket",
			},
		},
		Tuning: Tuning{
			CNC:      CNCCoefficients{A: 0.12, B: 0.03, C: 0.01},
			Assembly: AssemblyTuning{FactorScale: 1.0},
		},
	}
}

// buildWorkbook writes rows into an in-memory xlsx and returns a
// reader for the parser under test.
func buildWorkbook(t *testing.T, rows [][]any) *bytes.Reader {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell := fmt.Sprintf("A%d", i+1)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			t.Fatalf("set sheet row %d: %v", i+1, err)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatalf("write workbook: %v", err)
	}
	return bytes.NewReader(buf.Bytes())
}
