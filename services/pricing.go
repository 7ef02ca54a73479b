// Package services implements the import-normalize-calculate pipeline
// that turns CAM/ERP export reports plus YAML catalogs into an
// itemized, reproducible price quote.
package services

import "math"

// Line item statuses inside a category breakdown.
const (
	StatusIncluded = "included"
	StatusUnmapped = "unmapped"
	StatusTBQ      = "tbq"
)

// Category names, in the fixed order they appear in every breakdown.
const (
	CategoryMaterials = "materials"
	CategoryEdgeband  = "edgeband"
	CategoryHardware  = "hardware"
	CategoryCNC       = "cnc"
	CategoryAssembly  = "assembly"
	CategoryInstall   = "install"
	CategoryOverhead  = "overhead"
)

// LineItem is one costed line inside a category. Items whose status is
// not "included" carry zero cost but stay visible.
type LineItem struct {
	Label  string  `json:"label"`
	Qty    float64 `json:"qty,omitempty"`
	Unit   string  `json:"unit,omitempty"`
	Rate   float64 `json:"rate,omitempty"`
	Hours  float64 `json:"hours,omitempty"`
	Cost   float64 `json:"cost"`
	Status string  `json:"status"`
}

// CategoryResult is the output of one calculator: a cost, the labor or
// machine hours behind it, and the driver metrics that explain it.
type CategoryResult struct {
	Category string             `json:"category"`
	Cost     float64            `json:"cost"`
	Hours    float64            `json:"hours"`
	Drivers  map[string]float64 `json:"drivers,omitempty"`
	Items    []LineItem         `json:"items,omitempty"`
}

// PriceSummary is the margin/tax arithmetic on top of the cost
// subtotal.
type PriceSummary struct {
	SubtotalExTax float64 `json:"subtotal_ex_tax"`
	PriceExTax    float64 `json:"price_ex_tax"`
	Tax           float64 `json:"tax"`
	TotalIncTax   float64 `json:"total_inc_tax"`
}

// Breakdown is the internal, fully auditable result of a pricing run.
type Breakdown struct {
	Project     string           `json:"project"`
	Categories  []CategoryResult `json:"categories"`
	Buyout      []BuyoutFact     `json:"buyout,omitempty"`
	Diagnostics []Diagnostic     `json:"diagnostics,omitempty"`
	RowErrors   []RowError       `json:"row_errors,omitempty"`
	Price       PriceSummary     `json:"price"`
}

// ClientLine is one category total on the client summary.
type ClientLine struct {
	Label  string  `json:"label"`
	Amount float64 `json:"amount"`
}

// ClientSummary is the presentable output. It carries totals,
// assumptions and explicit to-be-quoted gaps, and deliberately nothing
// else: no coefficients, no per-hour overhead, no raw catalog prices.
type ClientSummary struct {
	Project     string       `json:"project"`
	QuoteNumber string       `json:"quote_number,omitempty"`
	Currency    string       `json:"currency"`
	Categories  []ClientLine `json:"categories"`
	PriceExTax  float64      `json:"price_ex_tax"`
	Tax         float64      `json:"tax"`
	TotalIncTax float64      `json:"total_inc_tax"`
	Assumptions []string     `json:"assumptions,omitempty"`
	ToBeQuoted  []string     `json:"to_be_quoted,omitempty"`
}

// roundHalfUp rounds v to the nearest multiple of inc, ties toward the
// larger multiple. A zero increment disables rounding.
func roundHalfUp(v, inc float64) float64 {
	if inc <= 0 {
		return v
	}
	return math.Floor(v/inc+0.5) * inc
}

// round2 keeps stored money values at cents precision.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// PriceFromSubtotal applies the margin target, rounds the ex-tax price
// to the policy increment, and adds tax on the rounded figure.
func PriceFromSubtotal(subtotal float64, pol Policy) PriceSummary {
	price := subtotal / (1 - pol.MarginTarget)
	price = roundHalfUp(price, pol.Rounding)
	tax := price * pol.TaxRate
	return PriceSummary{
		SubtotalExTax: round2(subtotal),
		PriceExTax:    round2(price),
		Tax:           round2(tax),
		TotalIncTax:   round2(price + tax),
	}
}

// Aggregate combines calculator outputs into the internal breakdown
// and the client-facing summary. Category order is fixed so repeated
// runs emit identical structures.
func Aggregate(project string, categories []CategoryResult, buyout *BuyoutReport, diags []Diagnostic, rowErrs []RowError, pol Policy) (*Breakdown, *ClientSummary) {
	subtotal := 0.0
	for _, c := range categories {
		subtotal += c.Cost
	}

	bd := &Breakdown{
		Project:     project,
		Categories:  categories,
		Diagnostics: diags,
		RowErrors:   rowErrs,
		Price:       PriceFromSubtotal(subtotal, pol),
	}
	if buyout != nil {
		bd.Buyout = buyout.Items
	}

	client := &ClientSummary{
		Project:     project,
		Currency:    pol.Currency,
		PriceExTax:  bd.Price.PriceExTax,
		Tax:         bd.Price.Tax,
		TotalIncTax: bd.Price.TotalIncTax,
		Assumptions: pol.Assumptions,
	}
	for _, c := range categories {
		client.Categories = append(client.Categories, ClientLine{
			Label:  c.Category,
			Amount: round2(c.Cost),
		})
	}
	// Unmapped and unpriced lines are first-class visible gaps, never
	// silent omissions.
	seen := map[string]bool{}
	for _, d := range diags {
		if d.Kind != "unmapped" && d.Kind != "tbq" {
			continue
		}
		if seen[d.Label] {
			continue
		}
		seen[d.Label] = true
		client.ToBeQuoted = append(client.ToBeQuoted, d.Label)
	}
	if buyout != nil {
		for _, b := range buyout.Items {
			if b.Status == BuyoutTBQ && !seen[b.Description] {
				seen[b.Description] = true
				client.ToBeQuoted = append(client.ToBeQuoted, b.Description)
			}
		}
	}
	return bd, client
}
