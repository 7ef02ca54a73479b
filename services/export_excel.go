package services

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/xuri/excelize/v2"
)

// GenerateBreakdownExcel creates the internal estimator workbook for a
// pricing run and returns the file contents as a byte slice. One sheet
// carries the per-category line items, a second carries the drivers
// and diagnostics that explain how each figure was reached.
func GenerateBreakdownExcel(bd *Breakdown, pol Policy) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Breakdown"
	defaultSheet := f.GetSheetName(0)
	if err := f.SetSheetName(defaultSheet, sheetName); err != nil {
		return nil, fmt.Errorf("set sheet name: %w", err)
	}

	columns := []string{"A", "B", "C", "D", "E", "F", "G"}
	lastCol := columns[len(columns)-1]

	widths := []float64{24, 44, 10, 8, 14, 10, 16}
	for i, col := range columns {
		if err := f.SetColWidth(sheetName, col, col, widths[i]); err != nil {
			return nil, fmt.Errorf("set col width %s: %w", col, err)
		}
	}

	// ── Styles ──────────────────────────────────────────────────────────

	titleStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Bold: true,
			Size: 16,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create title style: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Bold:  true,
			Color: "#FFFFFF",
			Size:  11,
		},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#333333"},
			Pattern: 1,
		},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
		Border: thinBorders(),
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}

	categoryStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Bold: true,
			Size: 10,
		},
		Border: thinBorders(),
	})
	if err != nil {
		return nil, fmt.Errorf("create category style: %w", err)
	}

	itemStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Size: 10,
		},
		Border: thinBorders(),
	})
	if err != nil {
		return nil, fmt.Errorf("create item style: %w", err)
	}

	summaryLabelStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Bold: true,
			Size: 11,
		},
		Alignment: &excelize.Alignment{
			Horizontal: "right",
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create summary label style: %w", err)
	}

	summaryValueStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Bold: true,
			Size: 11,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create summary value style: %w", err)
	}

	// ── Header rows ─────────────────────────────────────────────────────

	if err := f.MergeCell(sheetName, "A1", lastCol+"1"); err != nil {
		return nil, fmt.Errorf("merge title: %w", err)
	}
	f.SetCellValue(sheetName, "A1", sanitizeExcelCell(bd.Project+" — Internal Breakdown"))
	f.SetCellStyle(sheetName, "A1", lastCol+"1", titleStyle)

	headers := []string{"Category", "Line Item", "Qty", "Unit", "Rate", "Hours", "Cost"}
	for i, h := range headers {
		f.SetCellValue(sheetName, fmt.Sprintf("%s3", columns[i]), h)
	}
	f.SetCellStyle(sheetName, "A3", lastCol+"3", headerStyle)

	// ── Category and item rows ──────────────────────────────────────────

	sym := pol.CurrencySymbol
	row := 4
	for _, cat := range bd.Categories {
		rowStr := fmt.Sprintf("%d", row)
		f.SetCellValue(sheetName, "A"+rowStr, sanitizeExcelCell(cat.Category))
		f.SetCellValue(sheetName, "F"+rowStr, cat.Hours)
		f.SetCellValue(sheetName, "G"+rowStr, FormatMoney(sym, cat.Cost))
		f.SetCellStyle(sheetName, "A"+rowStr, lastCol+rowStr, categoryStyle)
		row++

		for _, item := range cat.Items {
			rowStr = fmt.Sprintf("%d", row)
			label := item.Label
			if item.Status != StatusIncluded {
				label = label + " [" + item.Status + "]"
			}
			f.SetCellValue(sheetName, "B"+rowStr, sanitizeExcelCell("  "+label))
			f.SetCellValue(sheetName, "C"+rowStr, item.Qty)
			f.SetCellValue(sheetName, "D"+rowStr, sanitizeExcelCell(item.Unit))
			if item.Rate != 0 {
				f.SetCellValue(sheetName, "E"+rowStr, FormatMoney(sym, item.Rate))
			}
			if item.Hours != 0 {
				f.SetCellValue(sheetName, "F"+rowStr, item.Hours)
			}
			f.SetCellValue(sheetName, "G"+rowStr, FormatMoney(sym, item.Cost))
			f.SetCellStyle(sheetName, "A"+rowStr, lastCol+rowStr, itemStyle)
			row++
		}
	}

	// ── Summary rows ────────────────────────────────────────────────────

	row++
	summaries := []struct {
		label string
		value float64
	}{
		{"Subtotal (cost):", bd.Price.SubtotalExTax},
		{fmt.Sprintf("Price ex %s:", taxName(pol)), bd.Price.PriceExTax},
		{taxName(pol) + ":", bd.Price.Tax},
		{"Total inc " + taxName(pol) + ":", bd.Price.TotalIncTax},
	}
	for _, s := range summaries {
		rowStr := fmt.Sprintf("%d", row)
		f.SetCellValue(sheetName, "F"+rowStr, s.label)
		f.SetCellStyle(sheetName, "F"+rowStr, "F"+rowStr, summaryLabelStyle)
		f.SetCellValue(sheetName, "G"+rowStr, FormatMoney(sym, s.value))
		f.SetCellStyle(sheetName, "G"+rowStr, "G"+rowStr, summaryValueStyle)
		row++
	}

	if err := addDriversSheet(f, bd, headerStyle, itemStyle); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write excel: %w", err)
	}
	return buf.Bytes(), nil
}

// addDriversSheet writes the per-category drivers plus the run's
// diagnostics and row errors to a second sheet.
func addDriversSheet(f *excelize.File, bd *Breakdown, headerStyle, itemStyle int) error {
	const sheet = "Drivers"
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("create drivers sheet: %w", err)
	}
	for i, w := range []float64{22, 28, 16} {
		col := string(rune('A' + i))
		if err := f.SetColWidth(sheet, col, col, w); err != nil {
			return fmt.Errorf("set col width %s: %w", col, err)
		}
	}

	f.SetCellValue(sheet, "A1", "Category")
	f.SetCellValue(sheet, "B1", "Driver")
	f.SetCellValue(sheet, "C1", "Value")
	f.SetCellStyle(sheet, "A1", "C1", headerStyle)

	row := 2
	for _, cat := range bd.Categories {
		for _, name := range sortedDriverNames(cat.Drivers) {
			rowStr := fmt.Sprintf("%d", row)
			f.SetCellValue(sheet, "A"+rowStr, sanitizeExcelCell(cat.Category))
			f.SetCellValue(sheet, "B"+rowStr, sanitizeExcelCell(name))
			f.SetCellValue(sheet, "C"+rowStr, cat.Drivers[name])
			f.SetCellStyle(sheet, "A"+rowStr, "C"+rowStr, itemStyle)
			row++
		}
	}

	row++
	for _, d := range bd.Diagnostics {
		rowStr := fmt.Sprintf("%d", row)
		f.SetCellValue(sheet, "A"+rowStr, sanitizeExcelCell(d.Kind))
		f.SetCellValue(sheet, "B"+rowStr, sanitizeExcelCell(d.Section+": "+d.Label))
		f.SetCellValue(sheet, "C"+rowStr, sanitizeExcelCell(d.Detail))
		row++
	}
	for _, e := range bd.RowErrors {
		rowStr := fmt.Sprintf("%d", row)
		f.SetCellValue(sheet, "A"+rowStr, "row_error")
		f.SetCellValue(sheet, "B"+rowStr, sanitizeExcelCell(fmt.Sprintf("%s row %d", e.Section, e.Row)))
		f.SetCellValue(sheet, "C"+rowStr, sanitizeExcelCell(e.Message))
		row++
	}
	return nil
}

// sortedDriverNames keeps driver output order stable across runs.
func sortedDriverNames(drivers map[string]float64) []string {
	names := make([]string, 0, len(drivers))
	for name := range drivers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func taxName(pol Policy) string {
	if pol.Currency == "AUD" {
		return "GST"
	}
	return "tax"
}

// sanitizeExcelCell prevents formula injection by prefixing dangerous leading
// characters with a single quote. Excel interprets cells starting with =, +, -,
// @, \t or \r as formulas, which can be abused for code execution or data theft.
func sanitizeExcelCell(s string) string {
	if len(s) == 0 {
		return s
	}
	switch s[0] {
	case '=', '+', '-', '@', '\t', '\r', '|':
		return "'" + s
	}
	return s
}

// thinBorders returns a slice of excelize.Border for thin borders on all four sides.
func thinBorders() []excelize.Border {
	sides := []string{"left", "top", "bottom", "right"}
	borders := make([]excelize.Border, len(sides))
	for i, side := range sides {
		borders[i] = excelize.Border{
			Type:  side,
			Color: "#000000",
			Style: 1, // thin
		}
	}
	return borders
}
