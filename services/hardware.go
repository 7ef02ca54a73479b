package services

// CalcHardware prices hardware lines. Quantities round up to whole
// packs when the catalog entry has a pack size above one. Items
// without a catalog price are marked to-be-quoted: excluded from the
// summed cost, retained in the breakdown.
func CalcHardware(usages []HardwareUsage, snap *Snapshot) (CategoryResult, []Diagnostic) {
	res := CategoryResult{
		Category: CategoryHardware,
		Drivers:  map[string]float64{},
	}
	var diags []Diagnostic
	totalQty := 0
	tbqCount := 0

	for _, u := range usages {
		totalQty += u.Qty
		item := LineItem{
			Label:  u.Key.Label(),
			Qty:    float64(u.Qty),
			Unit:   "ea",
			Status: StatusIncluded,
		}
		entry, priced := snap.Hardware[u.Key.Canonical]
		if u.Key.Unmapped() || !priced || entry.UnitPrice <= 0 {
			item.Status = StatusTBQ
			if u.Key.Unmapped() {
				item.Status = StatusUnmapped
			} else {
				diags = append(diags, Diagnostic{
					Kind:    "tbq",
					Section: "hardware",
					Label:   u.Key.Label(),
					Detail:  "hardware item has no catalog price",
				})
			}
			tbqCount++
			res.Items = append(res.Items, item)
			continue
		}

		item.Rate = entry.UnitPrice
		item.Cost = round2(packQty(u.Qty, entry.PackSize) * entry.UnitPrice)
		res.Cost += item.Cost
		res.Items = append(res.Items, item)
	}

	res.Cost = round2(res.Cost)
	res.Drivers["total_qty"] = float64(totalQty)
	res.Drivers["unpriced_lines"] = float64(tbqCount)
	return res, diags
}

// packQty rounds a quantity up to whole packs. Pack sizes of zero or
// one bill per unit.
func packQty(qty, packSize int) float64 {
	if packSize <= 1 {
		return float64(qty)
	}
	packs := (qty + packSize - 1) / packSize
	return float64(packs * packSize)
}
