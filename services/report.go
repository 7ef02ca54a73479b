package services

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// RowError represents a single field-level problem on one report row.
// Failed rows are excluded from the extracted facts but always
// surfaced; they never silently disappear.
type RowError struct {
	Section string `json:"section"`
	Row     int    `json:"row"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

// MissingSectionError reports a required anchor section that could not
// be located in a report. It is fatal for that report.
type MissingSectionError struct {
	Section string
}

func (e *MissingSectionError) Error() string {
	return fmt.Sprintf("required section %q not found in report", e.Section)
}

// Anchor labels recognized in the work order summary. Matching is
// case- and whitespace-insensitive and tolerates surrounding text.
const (
	anchorSheetStock = "sheet stock totals"
	anchorEdgeband   = "edgeband totals"
	anchorHardware   = "hardware totals"
	anchorBuyout     = "buyout totals"
	anchorWorkOrder  = "work order summary"
)

// sectionSpec declares one extractable report section: its anchor
// label, whether its absence fails the parse, and the row parser.
// New report variants add a table entry instead of branching logic.
type sectionSpec struct {
	Name     string
	Label    string
	Required bool
	parse    func(p *wosParser, start, end int)
}

// anchorVocabulary lists every label that terminates the section
// preceding it.
var anchorVocabulary = []string{
	anchorSheetStock,
	anchorEdgeband,
	anchorHardware,
	anchorBuyout,
	anchorWorkOrder,
}

// foldLabel normalizes a label for anchor and mapping lookups.
func foldLabel(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// rowText joins the non-empty cells of a row for anchor scanning.
func rowText(cells []string) string {
	parts := make([]string, 0, len(cells))
	for _, c := range cells {
		if c != "" {
			parts = append(parts, c)
		}
	}
	return strings.Join(parts, " ")
}

// isAnchorRow reports whether a row contains any recognized label.
func isAnchorRow(cells []string) bool {
	text := foldLabel(rowText(cells))
	for _, label := range anchorVocabulary {
		if strings.Contains(text, label) {
			return true
		}
	}
	return false
}

// findAnchor returns the index of the first row containing label, or
// -1 when the section is absent.
func findAnchor(rows [][]string, label string) int {
	for i, cells := range rows {
		if strings.Contains(foldLabel(rowText(cells)), label) {
			return i
		}
	}
	return -1
}

// sectionEnd returns the exclusive end row of a section starting right
// after the anchor at start: the next recognized label or end of
// document.
func sectionEnd(rows [][]string, start int) int {
	for i := start + 1; i < len(rows); i++ {
		if isAnchorRow(rows[i]) {
			return i
		}
	}
	return len(rows)
}

var (
	qtyPattern    = regexp.MustCompile(`(?i)qty\s*-\s*([0-9][0-9,]*)`)
	metersPattern = regexp.MustCompile(`(?i)(?:lin\.?\s*)?met(?:er|re)s\s*-\s*([0-9][0-9,.]*)`)
	setupsPattern = regexp.MustCompile(`(?i)setups?\s*-\s*([0-9][0-9,]*)`)
	thickPattern  = regexp.MustCompile(`(?i)thick\s*-\s*(\S+)`)
	sizePattern   = regexp.MustCompile(`(?i)sheet\s*size\s*-\s*(.+)`)
)

// extractQty pulls the N out of a "Qty - N" token.
func extractQty(text string) (int, bool) {
	m := qtyPattern.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(strings.ReplaceAll(m[1], ",", ""))
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// extractMeters pulls the X out of a "Lin. Meters - X" token.
func extractMeters(text string) (float64, bool) {
	m := metersPattern.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64)
	if err != nil || v < 0 {
		return 0, false
	}
	return v, true
}

// extractSetups pulls the N out of a "Setups - N" token.
func extractSetups(text string) (int, bool) {
	m := setupsPattern.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(strings.ReplaceAll(m[1], ",", ""))
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// parseNumber converts a report cell to a float, tolerating thousands
// separators and surrounding whitespace.
func parseNumber(s string) (float64, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return 0, fmt.Errorf("empty value")
	}
	return strconv.ParseFloat(s, 64)
}
