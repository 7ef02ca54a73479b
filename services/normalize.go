package services

import "fmt"

// Key is the tagged outcome of normalizing a raw report label. A zero
// Canonical means the label has no catalog mapping: the fact is kept,
// surfaced in diagnostics, and excluded from summed costs. The single
// type keeps the data-quality signal and the billing exclusion from
// drifting apart.
type Key struct {
	Raw       string `json:"raw"`
	Canonical string `json:"canonical,omitempty"`
}

// Unmapped reports whether the label failed catalog mapping.
func (k Key) Unmapped() bool { return k.Canonical == "" }

// Label returns the best display name: canonical when mapped, raw
// otherwise.
func (k Key) Label() string {
	if k.Canonical != "" {
		return k.Canonical
	}
	return k.Raw
}

// Diagnostic is one accumulated data-quality finding for a run.
type Diagnostic struct {
	Kind    string `json:"kind"` // "unmapped" or "tbq"
	Section string `json:"section"`
	Label   string `json:"label"`
	Detail  string `json:"detail,omitempty"`
}

// MaterialUsage is a normalized sheet-stock fact.
type MaterialUsage struct {
	Key       Key    `json:"key"`
	SheetSize string `json:"sheet_size,omitempty"`
	Sheets    int    `json:"sheets"`
}

// BandUsage is a normalized edgeband fact.
type BandUsage struct {
	Key     Key     `json:"key"`
	LinearM float64 `json:"linear_m"`
	Setups  int     `json:"setups"`
}

// HardwareUsage is a normalized hardware fact.
type HardwareUsage struct {
	Key Key `json:"key"`
	Qty int `json:"qty"`
}

// NormalizedUsage is the parser output after catalog-key resolution,
// ready for the calculators.
type NormalizedUsage struct {
	Materials   []MaterialUsage `json:"materials"`
	Bands       []BandUsage     `json:"bands"`
	Hardware    []HardwareUsage `json:"hardware"`
	Diagnostics []Diagnostic    `json:"diagnostics,omitempty"`
}

// lookupTable folds a name map's keys once so lookups are
// case/whitespace-insensitive but otherwise exact. No fuzzy matching:
// a near-miss stays unmapped and forces a mapping-table update.
type lookupTable map[string]string

func newLookupTable(m map[string]string) lookupTable {
	t := make(lookupTable, len(m))
	for raw, canonical := range m {
		t[foldLabel(raw)] = canonical
	}
	return t
}

func (t lookupTable) resolve(raw string) Key {
	if canonical, ok := t[foldLabel(raw)]; ok {
		return Key{Raw: raw, Canonical: canonical}
	}
	return Key{Raw: raw}
}

// NormalizeUsage maps every raw label in a WOS report to its canonical
// catalog key. Unmapped labels pass through tagged, never dropped or
// guessed.
func NormalizeUsage(wos *WOSReport, maps NameMaps) *NormalizedUsage {
	materials := newLookupTable(maps.Materials)
	bands := newLookupTable(maps.Bands)
	hardware := newLookupTable(maps.Hardware)

	out := &NormalizedUsage{}

	for _, s := range wos.Sheets {
		key := materials.resolve(s.Material)
		if key.Unmapped() {
			out.diagnose("unmapped", "materials", s.Material, "no catalog mapping for material")
		}
		out.Materials = append(out.Materials, MaterialUsage{
			Key:       key,
			SheetSize: s.SheetSize,
			Sheets:    s.Qty,
		})
	}
	for _, b := range wos.Bands {
		key := bands.resolve(b.Spec)
		if key.Unmapped() {
			out.diagnose("unmapped", "edgeband", b.Spec, "no catalog mapping for band spec")
		}
		out.Bands = append(out.Bands, BandUsage{Key: key, LinearM: b.LinearM, Setups: b.Setups})
	}
	for _, h := range wos.Hardware {
		key := hardware.resolve(h.Description)
		if key.Unmapped() {
			out.diagnose("unmapped", "hardware", h.Description, "no catalog mapping for hardware item")
		}
		out.Hardware = append(out.Hardware, HardwareUsage{Key: key, Qty: h.Qty})
	}
	return out
}

func (u *NormalizedUsage) diagnose(kind, section, label, detail string) {
	u.Diagnostics = append(u.Diagnostics, Diagnostic{
		Kind:    kind,
		Section: section,
		Label:   label,
		Detail:  fmt.Sprintf("%s %q", detail, label),
	})
}
