package services

import (
	"strings"
)

// CalcMaterials prices sheet stock. Sheet counts come straight from
// the work order summary and are never re-derived from area; the
// area-based estimate below is a diagnostic driver only and must not
// feed the billed cost. Mapped keys missing from the catalog become
// to-be-quoted diagnostics, not silent zero-cost lines.
func CalcMaterials(usages []MaterialUsage, snap *Snapshot) (CategoryResult, []Diagnostic) {
	res := CategoryResult{
		Category: CategoryMaterials,
		Drivers:  map[string]float64{},
	}
	var diags []Diagnostic
	waste := snap.Policy.ExtraSheetWaste
	totalSheets := 0
	areaEstimate := 0.0

	for _, u := range usages {
		totalSheets += u.Sheets
		item := LineItem{
			Label:  u.Key.Label(),
			Qty:    float64(u.Sheets),
			Unit:   "sheets",
			Status: StatusIncluded,
		}
		if u.Key.Unmapped() {
			item.Status = StatusUnmapped
			res.Items = append(res.Items, item)
			continue
		}
		entry, ok := snap.Materials[u.Key.Canonical]
		if !ok {
			item.Status = StatusTBQ
			diags = append(diags, Diagnostic{
				Kind:    "tbq",
				Section: "materials",
				Label:   u.Key.Label(),
				Detail:  "material has no catalog entry",
			})
			res.Items = append(res.Items, item)
			continue
		}
		item.Rate = entry.UnitCost
		item.Cost = round2(float64(u.Sheets) * entry.UnitCost * (1 + waste))
		res.Cost += item.Cost
		res.Items = append(res.Items, item)

		if area := sheetAreaM2(u.SheetSize, entry); area > 0 && entry.PricePerM2 > 0 {
			areaEstimate += float64(u.Sheets) * area * entry.PricePerM2 * (1 + waste)
		}
	}

	res.Cost = round2(res.Cost)
	res.Drivers["total_sheets"] = float64(totalSheets)
	res.Drivers["extra_waste"] = waste
	if areaEstimate > 0 {
		res.Drivers["area_cost_estimate"] = round2(areaEstimate)
	}
	return res, diags
}

// sheetAreaM2 resolves a sheet's area, preferring the size printed on
// the report over the catalog default.
func sheetAreaM2(reportSize string, entry MaterialEntry) float64 {
	if w, h, ok := parseSheetSize(reportSize); ok {
		return w * h / 1_000_000
	}
	if len(entry.SheetSizeMM) == 2 {
		return entry.SheetSizeMM[0] * entry.SheetSizeMM[1] / 1_000_000
	}
	return 0
}

// parseSheetSize reads sizes like "1810 x 3620" or "2400x1200mm".
func parseSheetSize(s string) (w, h float64, ok bool) {
	t := strings.ToLower(strings.TrimSpace(s))
	t = strings.ReplaceAll(t, "mm", "")
	t = strings.ReplaceAll(t, "×", "x")
	parts := strings.SplitN(t, "x", 2)
	if len(parts) != 2 {
		return 0, 0, false
	}
	w, errW := parseNumber(parts[0])
	h, errH := parseNumber(parts[1])
	if errW != nil || errH != nil || w <= 0 || h <= 0 {
		return 0, 0, false
	}
	return w, h, true
}
