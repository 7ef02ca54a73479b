package services

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/xuri/excelize/v2"
)

// SheetFact is one sheet-stock line from the work order summary. Qty
// is the authoritative sheet count for billing.
type SheetFact struct {
	Material  string `json:"material"`
	Thickness string `json:"thickness,omitempty"`
	SheetSize string `json:"sheet_size,omitempty"`
	Qty       int    `json:"qty"`
}

// BandFact is one edgeband line: total linear meters per spec plus
// the machine setup count (one per spec unless the report states it).
type BandFact struct {
	Spec    string  `json:"spec"`
	LinearM float64 `json:"linear_m"`
	Setups  int     `json:"setups"`
}

// HardwareFact is one hardware line from the summary.
type HardwareFact struct {
	Description string `json:"description"`
	Qty         int    `json:"qty"`
}

// WOSReport holds everything extracted from a work order summary
// workbook, independent of downstream normalization.
type WOSReport struct {
	Sheets    []SheetFact    `json:"sheets"`
	Bands     []BandFact     `json:"bands"`
	Hardware  []HardwareFact `json:"hardware"`
	RowErrors []RowError     `json:"row_errors,omitempty"`
}

type wosParser struct {
	rows   [][]string
	report *WOSReport
}

// wosSections is the declarative layout of a work order summary. Each
// entry locates its own anchor(s) and parses rows up to the next
// recognized label.
var wosSections = []sectionSpec{
	{Name: "sheet stock", Label: anchorSheetStock, Required: true, parse: (*wosParser).parseSheetRows},
	{Name: "edgeband", Label: anchorEdgeband, Required: true, parse: (*wosParser).parseBandRows},
	{Name: "hardware", Label: anchorHardware, Required: true, parse: (*wosParser).parseHardwareRows},
}

// ParseWOS extracts sheet, edgeband and hardware facts from a work
// order summary workbook. A missing required section is fatal and
// names the section; individual malformed rows become RowErrors and
// parsing continues.
func ParseWOS(r io.Reader) (*WOSReport, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open work order summary: %w", err)
	}
	defer f.Close()

	raw, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, fmt.Errorf("read work order summary: %w", err)
	}

	rows := make([][]string, len(raw))
	for i, cells := range raw {
		trimmed := make([]string, len(cells))
		for j, c := range cells {
			trimmed[j] = strings.TrimSpace(c)
		}
		rows[i] = trimmed
	}

	p := &wosParser{rows: rows, report: &WOSReport{}}
	for _, spec := range wosSections {
		anchors := findAnchors(rows, spec.Label)
		if len(anchors) == 0 {
			if spec.Required {
				return nil, &MissingSectionError{Section: spec.Name}
			}
			continue
		}
		for _, a := range anchors {
			spec.parse(p, a+1, sectionEnd(rows, a))
		}
	}

	p.report.Sheets = mergeSheets(p.report.Sheets)
	p.report.Bands = mergeBands(p.report.Bands)
	p.report.Hardware = mergeHardware(p.report.Hardware)
	return p.report, nil
}

// findAnchors returns every row index containing label. Hardware
// totals in particular can appear once per processing station.
func findAnchors(rows [][]string, label string) []int {
	var out []int
	for i, cells := range rows {
		if strings.Contains(foldLabel(rowText(cells)), label) {
			out = append(out, i)
		}
	}
	return out
}

func (p *wosParser) parseSheetRows(start, end int) {
	for i := start; i < end; i++ {
		cells := p.rows[i]
		text := rowText(cells)
		if text == "" {
			continue
		}
		if !strings.Contains(strings.ToLower(text), "qty -") {
			continue
		}
		qty, ok := extractQty(text)
		if !ok {
			p.fail("sheet stock", i, "qty", "could not parse quantity from %q", text)
			continue
		}

		fact := SheetFact{Qty: qty}
		var material string
		for _, c := range cells {
			if c == "" {
				continue
			}
			lc := strings.ToLower(c)
			switch {
			case strings.Contains(lc, "qty -"), strings.Contains(lc, "total qty"):
			case strings.HasPrefix(lc, "thick -"):
				if m := thickPattern.FindStringSubmatch(c); m != nil {
					fact.Thickness = m[1]
				}
			case strings.HasPrefix(lc, "sheet size -"):
				if m := sizePattern.FindStringSubmatch(c); m != nil {
					fact.SheetSize = strings.TrimSpace(m[1])
				}
			default:
				// The longest remaining cell is the material name.
				if len(c) > len(material) {
					material = c
				}
			}
		}
		if material == "" {
			p.fail("sheet stock", i, "material", "no material name on row %q", text)
			continue
		}
		fact.Material = material
		p.report.Sheets = append(p.report.Sheets, fact)
	}
}

func (p *wosParser) parseBandRows(start, end int) {
	pendingSpec := ""
	for i := start; i < end; i++ {
		cells := p.rows[i]
		text := rowText(cells)
		if text == "" {
			continue
		}
		lm, hasMeters := extractMeters(text)
		if !hasMeters {
			if metersPattern.MatchString(text) {
				p.fail("edgeband", i, "linear meters", "could not parse meters from %q", text)
				continue
			}
			// Spec rows carry the band description; remember the
			// longest candidate for the meters row that follows.
			if strings.Contains(strings.ToLower(text), "mm") {
				for _, c := range cells {
					if len(c) > len(pendingSpec) {
						pendingSpec = c
					}
				}
			}
			continue
		}

		spec := ""
		for _, c := range cells {
			if c == "" || metersPattern.MatchString(c) || setupsPattern.MatchString(c) {
				continue
			}
			if len(c) > len(spec) {
				spec = c
			}
		}
		if spec == "" {
			spec = pendingSpec
		}
		if spec == "" {
			p.fail("edgeband", i, "spec", "no band spec for meters row %q", text)
			continue
		}
		setups := 1
		if n, ok := extractSetups(text); ok {
			setups = n
		}
		p.report.Bands = append(p.report.Bands, BandFact{Spec: spec, LinearM: lm, Setups: setups})
		pendingSpec = ""
	}
}

func (p *wosParser) parseHardwareRows(start, end int) {
	for i := start; i < end; i++ {
		cells := p.rows[i]
		text := rowText(cells)
		if text == "" {
			continue
		}
		if !strings.Contains(strings.ToLower(text), "qty -") {
			continue
		}
		qty, ok := extractQty(text)
		if !ok {
			p.fail("hardware", i, "qty", "could not parse quantity from %q", text)
			continue
		}
		desc := ""
		for _, c := range cells {
			if c == "" || strings.Contains(strings.ToLower(c), "qty -") {
				continue
			}
			if len(c) > len(desc) {
				desc = c
			}
		}
		if desc == "" {
			p.fail("hardware", i, "description", "no item description on row %q", text)
			continue
		}
		p.report.Hardware = append(p.report.Hardware, HardwareFact{Description: desc, Qty: qty})
	}
}

func (p *wosParser) fail(section string, row int, field, format string, args ...any) {
	p.report.RowErrors = append(p.report.RowErrors, RowError{
		Section: section,
		Row:     row + 1, // 1-indexed like the spreadsheet UI
		Field:   field,
		Message: fmt.Sprintf(format, args...),
	})
}

// mergeSheets sums duplicate (material, sheet size) lines and orders
// the result by canonical identity so source position never matters.
func mergeSheets(in []SheetFact) []SheetFact {
	type key struct{ material, size string }
	merged := make(map[key]SheetFact)
	for _, s := range in {
		k := key{s.Material, s.SheetSize}
		if prev, ok := merged[k]; ok {
			prev.Qty += s.Qty
			merged[k] = prev
			continue
		}
		merged[k] = s
	}
	out := make([]SheetFact, 0, len(merged))
	for _, s := range merged {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Material != out[j].Material {
			return out[i].Material < out[j].Material
		}
		return out[i].SheetSize < out[j].SheetSize
	})
	return out
}

func mergeBands(in []BandFact) []BandFact {
	merged := make(map[string]BandFact)
	for _, b := range in {
		if prev, ok := merged[b.Spec]; ok {
			prev.LinearM += b.LinearM
			prev.Setups += b.Setups
			merged[b.Spec] = prev
			continue
		}
		merged[b.Spec] = b
	}
	out := make([]BandFact, 0, len(merged))
	for _, b := range merged {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Spec < out[j].Spec })
	return out
}

func mergeHardware(in []HardwareFact) []HardwareFact {
	merged := make(map[string]HardwareFact)
	for _, h := range in {
		if prev, ok := merged[h.Description]; ok {
			prev.Qty += h.Qty
			merged[h.Description] = prev
			continue
		}
		merged[h.Description] = h
	}
	out := make([]HardwareFact, 0, len(merged))
	for _, h := range merged {
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Description < out[j].Description })
	return out
}
