package services

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strings"
)

// ProductFact is one cabinet/product line from the product list.
type ProductFact struct {
	Item     string  `json:"item"`
	Room     string  `json:"room"`
	Type     string  `json:"type"`
	Qty      int     `json:"qty"`
	WidthMM  float64 `json:"width_mm"`
	HeightMM float64 `json:"height_mm"`
	DepthMM  float64 `json:"depth_mm"`
}

// AreaM2 is the product's front face area used by the assembly and
// install hour models.
func (p ProductFact) AreaM2() float64 {
	return p.WidthMM * p.HeightMM / 1_000_000
}

// ProductsReport aggregates the product table.
type ProductsReport struct {
	Products  []ProductFact `json:"products"`
	RowErrors []RowError    `json:"row_errors,omitempty"`
}

// productColumns maps the fields we need to the header labels they may
// appear under across the plain product list and the delivery
// check-list export.
var productColumns = map[string][]string{
	"item":   {"Item Number", "Item", "Product Code", "Code"},
	"room":   {"Room Name", "Room"},
	"type":   {"Description", "Product Name", "Product", "Name"},
	"qty":    {"Qty", "Quantity"},
	"width":  {"Width", "W"},
	"height": {"Height", "H"},
	"depth":  {"Depth", "D"},
}

// ParseProducts reads a product list CSV. It accepts both the plain
// export (single header row) and the delivery check-list layout where
// "Room Name:" context lines precede each room's products.
func ParseProducts(r io.Reader) (*ProductsReport, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	all, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse products csv: %w", err)
	}

	headerRow := -1
	var col map[string]int
	for i, row := range all {
		joined := foldLabel(rowText(row))
		if strings.Contains(joined, "product name") || strings.Contains(joined, "description") {
			if strings.Contains(joined, "width") {
				headerRow = i
				col = headerIndex(row)
				break
			}
		}
	}
	if headerRow < 0 {
		return nil, &MissingSectionError{Section: "product table header"}
	}

	report := &ProductsReport{}
	currentRoom := ""

	lookup := func(row []string, field string) string {
		for _, label := range productColumns[field] {
			if i, ok := col[foldLabel(label)]; ok && i < len(row) {
				if v := strings.TrimSpace(row[i]); v != "" {
					return v
				}
			}
		}
		return ""
	}

	for idx, row := range all[headerRow+1:] {
		rowNum := headerRow + idx + 2
		if len(row) == 0 || rowText(row) == "" {
			continue
		}
		// Delivery check-list exports interleave room context lines.
		if strings.HasPrefix(strings.TrimSpace(row[0]), "Room Name:") {
			currentRoom = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(row[0]), "Room Name:"))
			continue
		}

		name := lookup(row, "type")
		if name == "" {
			continue
		}
		qty, err := parseNumber(lookup(row, "qty"))
		if err != nil || qty < 0 {
			report.RowErrors = append(report.RowErrors, RowError{
				Section: "products", Row: rowNum, Field: "Qty",
				Message: fmt.Sprintf("could not parse quantity %q for %q", lookup(row, "qty"), name),
			})
			continue
		}
		if qty == 0 {
			qty = 1
		}
		width, _ := parseNumber(lookup(row, "width"))
		height, _ := parseNumber(lookup(row, "height"))
		depth, _ := parseNumber(lookup(row, "depth"))
		if width == 0 && height == 0 && depth == 0 {
			// Placeholder summary lines carry no dimensions.
			continue
		}

		room := lookup(row, "room")
		if room == "" {
			room = currentRoom
		}
		report.Products = append(report.Products, ProductFact{
			Item:     strings.TrimPrefix(lookup(row, "item"), "#"),
			Room:     room,
			Type:     name,
			Qty:      int(qty),
			WidthMM:  width,
			HeightMM: height,
			DepthMM:  depth,
		})
	}

	sort.Slice(report.Products, func(i, j int) bool {
		a, b := report.Products[i], report.Products[j]
		if a.Room != b.Room {
			return a.Room < b.Room
		}
		if a.Item != b.Item {
			return a.Item < b.Item
		}
		return a.Type < b.Type
	})
	return report, nil
}
