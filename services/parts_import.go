package services

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strings"
)

// PartFact is one row of the processing-station parts export.
type PartFact struct {
	Room     string          `json:"room"`
	Product  string          `json:"product"`
	Part     string          `json:"part"`
	Qty      int             `json:"qty"`
	WidthMM  float64         `json:"width_mm"`
	LengthMM float64         `json:"length_mm"`
	Material string          `json:"material"`
	EBFlags  map[string]bool `json:"eb_flags,omitempty"`
	Machine  map[string]bool `json:"machine_flags,omitempty"`
}

// PerimeterM returns the part's total edge length in meters across
// its quantity.
func (p PartFact) PerimeterM() float64 {
	return float64(p.Qty) * 2 * (p.WidthMM + p.LengthMM) / 1000
}

// EdgedEdges counts the banded edges across the part's quantity.
func (p PartFact) EdgedEdges() int {
	n := 0
	for _, set := range p.EBFlags {
		if set {
			n++
		}
	}
	return n * p.Qty
}

// PartsReport aggregates the parts table plus the derived totals the
// CNC model consumes.
type PartsReport struct {
	Parts      []PartFact `json:"parts"`
	TotalParts int        `json:"total_parts"`
	PerimeterM float64    `json:"total_perimeter_m"`
	EdgedParts int        `json:"total_edged_parts"`
	RowErrors  []RowError `json:"row_errors,omitempty"`
}

var ebFlagColumns = []string{"EB Width 1", "EB Length 1", "EB Width 2", "EB Length 2"}

var machineFlagColumns = []string{"Weeke", "Weeke Single Part"}

// ParseParts reads the processing-station parts CSV. Rows missing a
// coercible quantity or dimension are excluded with a RowError;
// parsing always continues.
func ParseParts(r io.Reader) (*PartsReport, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.LazyQuotes = true

	all, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse parts csv: %w", err)
	}
	if len(all) < 2 {
		return nil, fmt.Errorf("parts file must contain a header row and at least one data row")
	}

	col := headerIndex(all[0])
	report := &PartsReport{}

	for idx, row := range all[1:] {
		rowNum := idx + 2
		get := func(name string) string {
			i, ok := col[foldLabel(name)]
			if !ok || i >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[i])
		}
		if get("Part Name") == "" && get("Product Name") == "" {
			continue
		}

		qty, err := parseNumber(get("Quantity"))
		if err != nil || qty < 0 {
			report.RowErrors = append(report.RowErrors, RowError{
				Section: "parts", Row: rowNum, Field: "Quantity",
				Message: fmt.Sprintf("could not parse quantity %q", get("Quantity")),
			})
			continue
		}
		width, werr := parseNumber(get("Width"))
		length, lerr := parseNumber(get("Length"))
		if werr != nil || lerr != nil || width < 0 || length < 0 {
			report.RowErrors = append(report.RowErrors, RowError{
				Section: "parts", Row: rowNum, Field: "Width/Length",
				Message: fmt.Sprintf("could not parse dimensions %q x %q", get("Width"), get("Length")),
			})
			continue
		}

		fact := PartFact{
			Room:     get("Room Name"),
			Product:  get("Product Name"),
			Part:     get("Part Name"),
			Qty:      int(qty),
			WidthMM:  width,
			LengthMM: length,
			Material: get("Material Name"),
			EBFlags:  map[string]bool{},
			Machine:  map[string]bool{},
		}
		for _, c := range ebFlagColumns {
			if get(c) != "" {
				fact.EBFlags[c] = true
			}
		}
		for _, c := range machineFlagColumns {
			if get(c) != "" {
				fact.Machine[c] = true
			}
		}
		report.Parts = append(report.Parts, fact)
	}

	sort.Slice(report.Parts, func(i, j int) bool {
		a, b := report.Parts[i], report.Parts[j]
		if a.Room != b.Room {
			return a.Room < b.Room
		}
		if a.Product != b.Product {
			return a.Product < b.Product
		}
		return a.Part < b.Part
	})

	for _, p := range report.Parts {
		report.TotalParts += p.Qty
		report.PerimeterM += p.PerimeterM()
		if p.EdgedEdges() > 0 {
			report.EdgedParts += p.Qty
		}
	}
	return report, nil
}

// headerIndex maps folded header labels to column positions.
func headerIndex(header []string) map[string]int {
	out := make(map[string]int, len(header))
	for i, h := range header {
		out[foldLabel(h)] = i
	}
	return out
}
