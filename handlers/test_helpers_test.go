package handlers

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

// newTestRequestEvent creates a RequestEvent suitable for handler tests.
func newTestRequestEvent(app *pocketbase.PocketBase, req *http.Request, rec *httptest.ResponseRecorder) *core.RequestEvent {
	e := &core.RequestEvent{}
	e.App = app
	e.Request = req
	e.Response = rec
	return e
}

// testConfigFiles is a minimal but valid catalog directory for handlers
// that price or calibrate against a snapshot.
var testConfigFiles = map[string]string{
	"materials.yaml": `
White Melamine 16mm:
  unit_cost: 85
  sheet_size_mm: [1810, 3620]
`,
	"edgeband.yaml": `
ABS 1mm White:
  price_per_m: 1.20
  setup_cost: 5
`,
	"hardware.yaml": `
Hinge Soft Close:
  unit_price: 3.50
  pack_size: 10
`,
	"assembly_rules.yaml": `
default_area_factor_h_per_m2: 0.9
adders:
  drawer_h: 0.4
  door_h: 0.25
  adj_shelf_h: 0.1
  fixed_shelf_h: 0.08
`,
	"install_rules.yaml": `
default_area_factor_h_per_m2: 0.5
`,
	"rates.yaml": `
labor:
  shop: 50
  installer: 55
machine:
  cnc: 80
  subcontract: 95
install_team:
  two_person_fraction: 0.8
  one_person_fraction: 0.2
  two_person_rate: 110
  role_substitutions: [installer]
overhead:
  monthly: 40000
  internal_hours_low: 400
  internal_hours_high: 600
edgeband:
  minutes_per_m: 0.5
  setup_minutes: 5
defaults:
  drafting_hours: 4
  pm_hours: 6
calibration:
  alpha: 0.3
  cnc_update: dominant
  update_assembly: true
`,
	"policy.yaml": `
currency: AUD
currency_symbol: "$"
tax_rate: 0.10
margin_target: 0.30
rounding: 10
extra_sheet_waste: 0.08
validity_days: 30
`,
	"name_maps.yaml": `
materials:
  MELAMINE WHITE 16MM: White Melamine 16mm
bands:
  ABS 1MM WHITE: ABS 1mm White
hardware:
  HINGE SOFT CLOSE: Hinge Soft Close
`,
	"tuning.yaml": `
cnc:
  a: 0.12
  b: 0.03
  c: 0.01
assembly:
  factor_scale: 1.0
`,
}

// writeTestConfigs writes a full catalog directory and returns its path.
func writeTestConfigs(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	for name, body := range testConfigFiles {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
			t.Fatalf("write config %s: %v", name, err)
		}
	}
	return dir
}
