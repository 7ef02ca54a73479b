package services

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Buyout line status values.
const (
	BuyoutIncluded = "included"
	BuyoutTBQ      = "tbq"
	BuyoutExcluded = "excluded"
)

// BuyoutFact is one outsourced line item from the buyout report.
// Items without a rate stay visible as to-be-quoted.
type BuyoutFact struct {
	Description string  `json:"description"`
	Qty         int     `json:"qty"`
	LengthMM    float64 `json:"length_mm,omitempty"`
	WidthMM     float64 `json:"width_mm,omitempty"`
	HeightMM    float64 `json:"height_mm,omitempty"`
	Material    string  `json:"material,omitempty"`
	Status      string  `json:"status"`
}

// BuyoutReport aggregates the optional buyout workbook.
type BuyoutReport struct {
	Items     []BuyoutFact `json:"items"`
	RowErrors []RowError   `json:"row_errors,omitempty"`
}

// ParseBuyout reads the optional buyout workbook. The header row is
// detected as the densest row near the top of the sheet, since these
// exports carry variable title blocks above the table.
func ParseBuyout(r io.Reader) (*BuyoutReport, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open buyout report: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, fmt.Errorf("read buyout report: %w", err)
	}

	headerRow := densestRow(rows, 30)
	if headerRow < 0 {
		return &BuyoutReport{}, nil
	}

	col := map[string]int{}
	for i, h := range rows[headerRow] {
		lh := foldLabel(h)
		switch {
		case strings.Contains(lh, "qty") && !strings.Contains(lh, "unit"):
			col["qty"] = i
		case strings.Contains(lh, "desc"):
			col["description"] = i
		case strings.Contains(lh, "length"):
			col["length"] = i
		case strings.Contains(lh, "width"):
			col["width"] = i
		case strings.Contains(lh, "height"):
			col["height"] = i
		case strings.Contains(lh, "material"):
			col["material"] = i
		}
	}

	report := &BuyoutReport{}
	get := func(row []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	for idx, row := range rows[headerRow+1:] {
		rowNum := headerRow + idx + 2
		desc := get(row, "description")
		if desc == "" {
			continue
		}
		qty := 0
		if raw := get(row, "qty"); raw != "" {
			v, err := parseNumber(raw)
			if err != nil || v < 0 {
				report.RowErrors = append(report.RowErrors, RowError{
					Section: "buyout", Row: rowNum, Field: "qty",
					Message: fmt.Sprintf("could not parse quantity %q for %q", raw, desc),
				})
				continue
			}
			qty = int(v)
		}
		length, _ := parseNumber(get(row, "length"))
		width, _ := parseNumber(get(row, "width"))
		height, _ := parseNumber(get(row, "height"))

		report.Items = append(report.Items, BuyoutFact{
			Description: desc,
			Qty:         qty,
			LengthMM:    length,
			WidthMM:     width,
			HeightMM:    height,
			Material:    get(row, "material"),
			Status:      BuyoutTBQ,
		})
	}

	sort.Slice(report.Items, func(i, j int) bool {
		return report.Items[i].Description < report.Items[j].Description
	})
	return report, nil
}

// densestRow picks the row with the most non-empty cells among the
// first limit rows.
func densestRow(rows [][]string, limit int) int {
	best, bestCount := -1, 0
	for i, row := range rows {
		if i >= limit {
			break
		}
		count := 0
		for _, c := range row {
			if strings.TrimSpace(c) != "" {
				count++
			}
		}
		if count > bestCount {
			best, bestCount = i, count
		}
	}
	if bestCount < 2 {
		return -1
	}
	return best
}
