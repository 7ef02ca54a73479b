package services

// CNCDrivers are the machine-time drivers the linear model runs on.
type CNCDrivers struct {
	Sheets     int
	Parts      int
	PerimeterM float64
}

// driversFromReports collects CNC drivers from the parsed reports.
func driversFromReports(usage *NormalizedUsage, parts *PartsReport) CNCDrivers {
	d := CNCDrivers{}
	for _, m := range usage.Materials {
		d.Sheets += m.Sheets
	}
	if parts != nil {
		d.Parts = parts.TotalParts
		d.PerimeterM = parts.PerimeterM
	}
	return d
}

// CalcCNC estimates machine time with the tuned linear model
// hours = a*sheets + b*parts + c*perimeter and bills it at the CNC or
// subcontract rate.
func CalcCNC(d CNCDrivers, snap *Snapshot) CategoryResult {
	c := snap.Tuning.CNC
	hours := c.A*float64(d.Sheets) + c.B*float64(d.Parts) + c.C*d.PerimeterM

	rate := snap.Rates.Machine.CNC
	rateLabel := "machine"
	if snap.Rates.Machine.UseSubcontract {
		rate = snap.Rates.Machine.Subcontract
		rateLabel = "subcontract"
	}

	res := CategoryResult{
		Category: CategoryCNC,
		Hours:    round2(hours),
		Cost:     round2(hours * rate),
		Drivers: map[string]float64{
			"total_sheets":      float64(d.Sheets),
			"total_parts":       float64(d.Parts),
			"total_perimeter_m": round2(d.PerimeterM),
		},
		Items: []LineItem{{
			Label:  "CNC machining (" + rateLabel + ")",
			Qty:    round2(hours),
			Unit:   "h",
			Rate:   rate,
			Hours:  round2(hours),
			Cost:   round2(hours * rate),
			Status: StatusIncluded,
		}},
	}
	return res
}
