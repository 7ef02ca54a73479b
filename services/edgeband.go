package services

// CalcEdgeband prices edgebanding: linear meters at the band's
// per-meter price plus a setup charge per machine setup. Time uses the
// global per-meter and per-setup minute constants. Mapped specs
// missing from the catalog become to-be-quoted diagnostics.
func CalcEdgeband(usages []BandUsage, snap *Snapshot) (CategoryResult, []Diagnostic) {
	res := CategoryResult{
		Category: CategoryEdgeband,
		Drivers:  map[string]float64{},
	}
	var diags []Diagnostic
	totalLM := 0.0
	totalSetups := 0

	for _, u := range usages {
		// Unpriced specs still accrue meters and setups: the bander
		// runs them regardless of what the band ends up costing.
		totalLM += u.LinearM
		totalSetups += u.Setups
		item := LineItem{
			Label:  u.Key.Label(),
			Qty:    u.LinearM,
			Unit:   "lm",
			Status: StatusIncluded,
		}
		if u.Key.Unmapped() {
			item.Status = StatusUnmapped
			res.Items = append(res.Items, item)
			continue
		}
		entry, ok := snap.Bands[u.Key.Canonical]
		if !ok {
			item.Status = StatusTBQ
			diags = append(diags, Diagnostic{
				Kind:    "tbq",
				Section: "edgeband",
				Label:   u.Key.Label(),
				Detail:  "band spec has no catalog entry",
			})
			res.Items = append(res.Items, item)
			continue
		}
		item.Rate = entry.PricePerM
		item.Cost = round2(u.LinearM*entry.PricePerM + float64(u.Setups)*entry.SetupCost)
		res.Cost += item.Cost
		res.Items = append(res.Items, item)
	}

	minutes := totalLM*snap.Rates.Edgeband.MinutesPerM + float64(totalSetups)*snap.Rates.Edgeband.SetupMinutes
	res.Hours = round2(minutes / 60)
	res.Cost = round2(res.Cost)
	res.Drivers["linear_m"] = round2(totalLM)
	res.Drivers["setups"] = float64(totalSetups)
	return res, diags
}
