package services

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// MaterialEntry is one priced sheet material in the catalog.
// UnitCost is the per-sheet cost ex tax and is what billing uses;
// PricePerM2 only feeds the diagnostic area cross-check.
type MaterialEntry struct {
	UnitCost    float64   `yaml:"unit_cost"`
	SheetSizeMM []float64 `yaml:"sheet_size_mm,omitempty"`
	PricePerM2  float64   `yaml:"price_per_m2,omitempty"`
}

// BandEntry is one priced edgeband spec.
type BandEntry struct {
	PricePerM float64 `yaml:"price_per_m"`
	SetupCost float64 `yaml:"setup_cost"`
}

// HardwareEntry is one priced hardware SKU. PackSize 0 or 1 means the
// item is sold per unit; larger values force whole-pack purchasing.
type HardwareEntry struct {
	UnitPrice float64 `yaml:"unit_price"`
	PackSize  int     `yaml:"pack_size"`
}

// FeatureAdders are per-feature assembly hour adders.
type FeatureAdders struct {
	DrawerH     float64 `yaml:"drawer_h"`
	DoorH       float64 `yaml:"door_h"`
	AdjShelfH   float64 `yaml:"adj_shelf_h"`
	FixedShelfH float64 `yaml:"fixed_shelf_h"`
}

// AssemblyRules drive the per-product assembly hour model.
type AssemblyRules struct {
	DefaultAreaFactor float64            `yaml:"default_area_factor_h_per_m2"`
	TypeAreaFactors   map[string]float64 `yaml:"type_area_factors"`
	Adders            FeatureAdders      `yaml:"adders"`
	Complexity        map[string]float64 `yaml:"complexity"`
}

// InstallRules drive the per-product install person-hour model.
type InstallRules struct {
	DefaultAreaFactor float64            `yaml:"default_area_factor_h_per_m2"`
	TypeAreaFactors   map[string]float64 `yaml:"type_area_factors"`
	Complexity        map[string]float64 `yaml:"complexity"`
}

// InstallTeam describes how site hours are split between crew sizes
// and what each configuration bills at. RoleSubstitutions lists labor
// roles (keys of Rates.Labor) that may be billed as install crew when
// no explicit one-person rate is configured.
type InstallTeam struct {
	TwoPersonFraction float64  `yaml:"two_person_fraction"`
	OnePersonFraction float64  `yaml:"one_person_fraction"`
	TwoPersonRate     float64  `yaml:"two_person_rate"`
	OnePersonRate     float64  `yaml:"one_person_rate"`
	RoleSubstitutions []string `yaml:"role_substitutions"`
}

// MachineRates holds machine-time billing rates.
type MachineRates struct {
	CNC            float64 `yaml:"cnc"`
	Subcontract    float64 `yaml:"subcontract"`
	UseSubcontract bool    `yaml:"use_subcontract"`
}

// OverheadConfig allocates monthly overhead across internal hours.
// The per-hour rate divides Monthly by the midpoint of the configured
// internal-hours range.
type OverheadConfig struct {
	Monthly           float64 `yaml:"monthly"`
	InternalHoursLow  float64 `yaml:"internal_hours_low"`
	InternalHoursHigh float64 `yaml:"internal_hours_high"`
}

// EdgebandTime holds the edgeband machine time constants.
type EdgebandTime struct {
	MinutesPerM  float64 `yaml:"minutes_per_m"`
	SetupMinutes float64 `yaml:"setup_minutes"`
}

// RateDefaults are per-job hour assumptions an estimator can override.
// InstallHours, when positive, replaces the auto-estimated site hours.
type RateDefaults struct {
	DraftingHours float64 `yaml:"drafting_hours"`
	PMHours       float64 `yaml:"pm_hours"`
	InstallHours  float64 `yaml:"install_hours"`
}

// CalibrationConfig controls the post-job coefficient update.
// CNCUpdate selects which CNC coefficient a single job may move:
// "a", "b", "c", or "dominant" (the term contributing the most
// predicted hours for that job's drivers).
type CalibrationConfig struct {
	Alpha          float64 `yaml:"alpha"`
	CNCUpdate      string  `yaml:"cnc_update"`
	UpdateAssembly bool    `yaml:"update_assembly"`
}

// Rates is the versioned labor/machine/overhead rate table.
type Rates struct {
	Labor       map[string]float64 `yaml:"labor"`
	Machine     MachineRates       `yaml:"machine"`
	InstallTeam InstallTeam        `yaml:"install_team"`
	Overhead    OverheadConfig     `yaml:"overhead"`
	Edgeband    EdgebandTime       `yaml:"edgeband"`
	Defaults    RateDefaults       `yaml:"defaults"`
	Calibration CalibrationConfig  `yaml:"calibration"`
}

// Policy is the commercial policy applied by the pricing aggregator.
type Policy struct {
	Currency                string   `yaml:"currency"`
	CurrencySymbol          string   `yaml:"currency_symbol"`
	TaxRate                 float64  `yaml:"tax_rate"`
	MarginTarget            float64  `yaml:"margin_target"`
	Rounding                float64  `yaml:"rounding"`
	ExtraSheetWaste         float64  `yaml:"extra_sheet_waste"`
	OverheadIncludesInstall bool     `yaml:"overhead_includes_install"`
	ValidityDays            int      `yaml:"validity_days"`
	Assumptions             []string `yaml:"assumptions"`
}

// NameMaps translate raw report labels to canonical catalog keys.
type NameMaps struct {
	Materials map[string]string `yaml:"materials"`
	Bands     map[string]string `yaml:"bands"`
	Hardware  map[string]string `yaml:"hardware"`
}

// CNCCoefficients is the tunable linear CNC time model:
// hours = A*sheets + B*parts + C*perimeter_m.
type CNCCoefficients struct {
	A float64 `yaml:"a"`
	B float64 `yaml:"b"`
	C float64 `yaml:"c"`
}

// AssemblyTuning scales the assembly area factors. FactorScale 1.0
// leaves the configured rules untouched.
type AssemblyTuning struct {
	FactorScale float64 `yaml:"factor_scale"`
}

// TuningUpdate is one audited calibration step.
type TuningUpdate struct {
	Project  string  `yaml:"project"`
	Date     string  `yaml:"date"`
	Target   string  `yaml:"target"`
	Old      float64 `yaml:"old"`
	Observed float64 `yaml:"observed"`
	New      float64 `yaml:"new"`
	Alpha    float64 `yaml:"alpha"`
}

// Tuning is the calibration-owned section of the store. History is
// append-only: every update is recorded before coefficients move.
type Tuning struct {
	CNC      CNCCoefficients `yaml:"cnc"`
	Assembly AssemblyTuning  `yaml:"assembly"`
	History  []TuningUpdate  `yaml:"history,omitempty"`
}

// Snapshot is the full catalog/policy state a pricing run consumes.
// A run takes one Snapshot at start and never mutates it; calibration
// writes a new tuning file instead of editing a loaded value.
type Snapshot struct {
	Materials map[string]MaterialEntry
	Bands     map[string]BandEntry
	Hardware  map[string]HardwareEntry
	Assembly  AssemblyRules
	Install   InstallRules
	Rates     Rates
	Policy    Policy
	NameMaps  NameMaps
	Tuning    Tuning
}

// PolicyError marks invalid configuration. It is fatal for the run:
// bad config is an operator problem, not bad input data.
type PolicyError struct {
	Field  string
	Reason string
}

func (e *PolicyError) Error() string {
	return fmt.Sprintf("invalid policy: %s %s", e.Field, e.Reason)
}

// catalog file names inside a config directory.
const (
	materialsFile = "materials.yaml"
	edgebandFile  = "edgeband.yaml"
	hardwareFile  = "hardware.yaml"
	assemblyFile  = "assembly_rules.yaml"
	installFile   = "install_rules.yaml"
	ratesFile     = "rates.yaml"
	policyFile    = "policy.yaml"
	nameMapsFile  = "name_maps.yaml"
	tuningFile    = "tuning.yaml"
)

// LoadSnapshot reads all catalog/policy/tuning files from dir into an
// immutable Snapshot. Required files must exist; name_maps.yaml and
// tuning.yaml fall back to empty maps and default coefficients.
func LoadSnapshot(dir string) (*Snapshot, error) {
	snap := &Snapshot{}

	if err := readYAML(filepath.Join(dir, materialsFile), &snap.Materials); err != nil {
		return nil, fmt.Errorf("load materials catalog: %w", err)
	}
	if err := readYAML(filepath.Join(dir, edgebandFile), &snap.Bands); err != nil {
		return nil, fmt.Errorf("load edgeband catalog: %w", err)
	}
	if err := readYAML(filepath.Join(dir, hardwareFile), &snap.Hardware); err != nil {
		return nil, fmt.Errorf("load hardware catalog: %w", err)
	}
	if err := readYAML(filepath.Join(dir, assemblyFile), &snap.Assembly); err != nil {
		return nil, fmt.Errorf("load assembly rules: %w", err)
	}
	if err := readYAML(filepath.Join(dir, installFile), &snap.Install); err != nil {
		return nil, fmt.Errorf("load install rules: %w", err)
	}
	if err := readYAML(filepath.Join(dir, ratesFile), &snap.Rates); err != nil {
		return nil, fmt.Errorf("load rates: %w", err)
	}
	if err := readYAML(filepath.Join(dir, policyFile), &snap.Policy); err != nil {
		return nil, fmt.Errorf("load policy: %w", err)
	}

	// Optional files.
	if err := readOptionalYAML(filepath.Join(dir, nameMapsFile), &snap.NameMaps); err != nil {
		return nil, fmt.Errorf("load name maps: %w", err)
	}
	if err := readOptionalYAML(filepath.Join(dir, tuningFile), &snap.Tuning); err != nil {
		return nil, fmt.Errorf("load tuning: %w", err)
	}
	if snap.Tuning.Assembly.FactorScale == 0 {
		snap.Tuning.Assembly.FactorScale = 1.0
	}

	if err := snap.Validate(); err != nil {
		return nil, err
	}
	return snap, nil
}

// Validate rejects configuration a calculator could not safely use.
func (s *Snapshot) Validate() error {
	mid := s.Rates.Overhead.internalHoursMidpoint()
	if mid <= 0 {
		return &PolicyError{Field: "overhead.internal_hours", Reason: "range midpoint must be positive"}
	}
	if s.Policy.MarginTarget < 0 || s.Policy.MarginTarget >= 1 {
		return &PolicyError{Field: "margin_target", Reason: "must be in [0, 1)"}
	}
	if s.Policy.TaxRate < 0 {
		return &PolicyError{Field: "tax_rate", Reason: "must not be negative"}
	}
	if s.Policy.Rounding < 0 {
		return &PolicyError{Field: "rounding", Reason: "must not be negative"}
	}
	if a := s.Rates.Calibration.Alpha; a != 0 && (a <= 0 || a >= 1) {
		return &PolicyError{Field: "calibration.alpha", Reason: "must be in (0, 1)"}
	}
	return nil
}

func (o OverheadConfig) internalHoursMidpoint() float64 {
	return (o.InternalHoursLow + o.InternalHoursHigh) / 2
}

// SaveTuning writes tuning state to a fresh file in dir. Loaded
// snapshots keep whatever tuning they were created with.
func SaveTuning(dir string, t Tuning) error {
	data, err := yaml.Marshal(t)
	if err != nil {
		return fmt.Errorf("marshal tuning: %w", err)
	}
	tmp := filepath.Join(dir, tuningFile+".tmp")
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write tuning: %w", err)
	}
	if err := os.Rename(tmp, filepath.Join(dir, tuningFile)); err != nil {
		return fmt.Errorf("replace tuning: %w", err)
	}
	return nil
}

func readYAML(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return nil
}

func readOptionalYAML(path string, out any) error {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return nil
}
