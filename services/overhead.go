package services

// InternalHours are the hours overhead is allocated across.
type InternalHours struct {
	Drafting float64
	PM       float64
	Assembly float64
	Install  float64
}

// CalcOverhead allocates monthly overhead at a per-hour rate derived
// from the midpoint of the configured internal-hours range. Install
// hours are excluded unless policy opts them in. Zero internal hours
// is invalid configuration and fails the run.
func CalcOverhead(hours InternalHours, snap *Snapshot) (CategoryResult, error) {
	mid := snap.Rates.Overhead.internalHoursMidpoint()
	if mid <= 0 {
		return CategoryResult{}, &PolicyError{
			Field:  "overhead.internal_hours",
			Reason: "range midpoint must be positive",
		}
	}

	perHour := snap.Rates.Overhead.Monthly / mid
	allocated := hours.Drafting + hours.PM + hours.Assembly
	if snap.Policy.OverheadIncludesInstall {
		allocated += hours.Install
	}

	res := CategoryResult{
		Category: CategoryOverhead,
		Hours:    round2(allocated),
		Cost:     round2(perHour * allocated),
		Drivers: map[string]float64{
			"drafting_hours": round2(hours.Drafting),
			"pm_hours":       round2(hours.PM),
			"assembly_hours": round2(hours.Assembly),
			"overhead_per_h": round2(perHour),
		},
		Items: []LineItem{{
			Label:  "Overhead allocation",
			Qty:    round2(allocated),
			Unit:   "h",
			Rate:   round2(perHour),
			Hours:  round2(allocated),
			Cost:   round2(perHour * allocated),
			Status: StatusIncluded,
		}},
	}
	if snap.Policy.OverheadIncludesInstall {
		res.Drivers["install_hours"] = round2(hours.Install)
	}
	return res, nil
}
