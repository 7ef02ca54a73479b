package services

import (
	"fmt"
	"time"
)

// Actuals are the observed figures for a completed job. The assembly
// fields come from the job's stored breakdown drivers
// (area_hours_at_scale_1, feature_adder_hours), so the scale update
// can isolate the single unknown.
type Actuals struct {
	Project             string  `json:"project"`
	CNCHours            float64 `json:"cnc_hours"`
	AssemblyHours       float64 `json:"assembly_hours"`
	Sheets              int     `json:"sheets"`
	Parts               int     `json:"parts"`
	PerimeterM          float64 `json:"perimeter_m"`
	AreaHoursAtScaleOne float64 `json:"area_hours_at_scale_1"`
	FeatureAdderHours   float64 `json:"feature_adder_hours"`
}

// Calibrate produces a new tuning state from job actuals using
// exponential smoothing: new = alpha*observed + (1-alpha)*old.
//
// A single job under-determines all three CNC coefficients, so only
// one moves per job. The target comes from the configured policy:
// "a", "b", "c", or "dominant" (the term contributing the most
// predicted hours for this job's drivers). Every step is appended to
// the history before any coefficient changes, so updates can be
// audited and replayed.
func Calibrate(t Tuning, cfg CalibrationConfig, act Actuals, now time.Time) (Tuning, []TuningUpdate, error) {
	alpha := cfg.Alpha
	if alpha <= 0 || alpha >= 1 {
		return t, nil, &PolicyError{Field: "calibration.alpha", Reason: "must be configured in (0, 1)"}
	}

	var updates []TuningUpdate
	date := now.UTC().Format("2006-01-02")

	if act.CNCHours > 0 {
		upd, err := cncUpdate(t.CNC, cfg.CNCUpdate, act, alpha, date)
		if err != nil {
			return t, nil, err
		}
		updates = append(updates, upd)
	}

	if cfg.UpdateAssembly && act.AssemblyHours > 0 {
		if act.AreaHoursAtScaleOne <= 0 {
			return t, nil, fmt.Errorf("calibrate assembly: actuals carry no area-model hours for %q", act.Project)
		}
		observed := (act.AssemblyHours - act.FeatureAdderHours) / act.AreaHoursAtScaleOne
		if observed < 0 {
			return t, nil, fmt.Errorf("calibrate assembly: actual hours below the fixed adder contribution for %q", act.Project)
		}
		old := t.Assembly.FactorScale
		updates = append(updates, TuningUpdate{
			Project:  act.Project,
			Date:     date,
			Target:   "assembly.factor_scale",
			Old:      old,
			Observed: observed,
			New:      alpha*observed + (1-alpha)*old,
			Alpha:    alpha,
		})
	}

	if len(updates) == 0 {
		return t, nil, fmt.Errorf("calibrate: actuals for %q contain no usable observations", act.Project)
	}

	// History first, then the live coefficients.
	next := t
	next.History = append(append([]TuningUpdate{}, t.History...), updates...)
	for _, u := range updates {
		switch u.Target {
		case "cnc.a":
			next.CNC.A = u.New
		case "cnc.b":
			next.CNC.B = u.New
		case "cnc.c":
			next.CNC.C = u.New
		case "assembly.factor_scale":
			next.Assembly.FactorScale = u.New
		}
	}
	return next, updates, nil
}

// cncUpdate isolates one CNC coefficient, holding the other two at
// their current values.
func cncUpdate(c CNCCoefficients, target string, act Actuals, alpha float64, date string) (TuningUpdate, error) {
	sheets := float64(act.Sheets)
	parts := float64(act.Parts)

	if target == "" || target == "dominant" {
		target = dominantTerm(c, act)
	}

	var old, driver, held float64
	switch target {
	case "a":
		old, driver, held = c.A, sheets, c.B*parts+c.C*act.PerimeterM
	case "b":
		old, driver, held = c.B, parts, c.A*sheets+c.C*act.PerimeterM
	case "c":
		old, driver, held = c.C, act.PerimeterM, c.A*sheets+c.B*parts
	default:
		return TuningUpdate{}, &PolicyError{Field: "calibration.cnc_update", Reason: fmt.Sprintf("unknown target %q", target)}
	}
	if driver <= 0 {
		return TuningUpdate{}, fmt.Errorf("calibrate cnc: driver for coefficient %q is zero in actuals for %q", target, act.Project)
	}
	observed := (act.CNCHours - held) / driver
	if observed < 0 {
		return TuningUpdate{}, fmt.Errorf("calibrate cnc: actual hours below the held contributions for %q", act.Project)
	}

	return TuningUpdate{
		Project:  act.Project,
		Date:     date,
		Target:   "cnc." + target,
		Old:      old,
		Observed: observed,
		New:      alpha*observed + (1-alpha)*old,
		Alpha:    alpha,
	}, nil
}

// dominantTerm picks the coefficient whose term predicts the most
// hours for this job's drivers.
func dominantTerm(c CNCCoefficients, act Actuals) string {
	a := c.A * float64(act.Sheets)
	b := c.B * float64(act.Parts)
	cc := c.C * act.PerimeterM
	switch {
	case a >= b && a >= cc:
		return "a"
	case b >= cc:
		return "b"
	default:
		return "c"
	}
}
