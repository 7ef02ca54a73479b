package services

import (
	"fmt"
	"time"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/orientation"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

// QuotePDFData carries everything the client quote document needs
// beyond the summary itself.
type QuotePDFData struct {
	Summary      *ClientSummary
	Symbol       string
	CompanyName  string
	CompanyEmail string
	IssueDate    time.Time
	ValidityDays int
}

// GenerateQuotePDF creates the client-facing quote document using
// maroto/v2. It renders only what ClientSummary exposes, so internal
// figures can't leak into the PDF. Returns the raw PDF bytes.
func GenerateQuotePDF(data *QuotePDFData) ([]byte, error) {
	cfg := config.NewBuilder().
		WithOrientation(orientation.Vertical).
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).
		WithTopMargin(10).
		WithRightMargin(10).
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
			Size:    7,
			Color:   &props.Color{Red: 120, Green: 120, Blue: 120},
		}).
		Build()

	m := maroto.New(cfg)

	addQuoteHeader(m, data)
	addQuoteCategoryTable(m, data)
	addQuoteTotals(m, data)
	addQuoteTBQ(m, data.Summary)
	addQuoteAssumptions(m, data.Summary)
	addQuoteValidity(m, data)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate quote PDF: %w", err)
	}

	return doc.GetBytes(), nil
}

// addQuoteHeader adds company name, "QUOTATION" title, project and
// quote number.
func addQuoteHeader(m core.Maroto, data *QuotePDFData) {
	m.AddRows(
		row.New(10).Add(
			col.New(6).Add(
				text.New(data.CompanyName, props.Text{
					Size:  14,
					Style: fontstyle.Bold,
					Align: align.Left,
				}),
			),
			col.New(6).Add(
				text.New("QUOTATION", props.Text{
					Size:  14,
					Style: fontstyle.Bold,
					Align: align.Right,
					Color: &props.Color{Red: 33, Green: 37, Blue: 41},
				}),
			),
		),
	)

	m.AddRows(
		row.New(8).Add(
			col.New(6).Add(
				text.New(data.CompanyEmail, props.Text{
					Size:  8,
					Align: align.Left,
					Color: &props.Color{Red: 100, Green: 100, Blue: 100},
				}),
			),
			col.New(6).Add(
				text.New(fmt.Sprintf("Quote #: %s", data.Summary.QuoteNumber), props.Text{
					Size:  10,
					Style: fontstyle.Bold,
					Align: align.Right,
				}),
			),
		),
	)

	m.AddRows(
		row.New(7).Add(
			col.New(6).Add(
				text.New(fmt.Sprintf("Project: %s", data.Summary.Project), props.Text{
					Size:  9,
					Style: fontstyle.Bold,
					Align: align.Left,
				}),
			),
			col.New(6).Add(
				text.New(fmt.Sprintf("Date: %s", data.IssueDate.Format("02 Jan 2006")), props.Text{
					Size:  8,
					Align: align.Right,
				}),
			),
		),
	)

	m.AddRows(row.New(3))
}

// addQuoteCategoryTable adds the category amount table.
func addQuoteCategoryTable(m core.Maroto, data *QuotePDFData) {
	headerBg := &props.Color{Red: 33, Green: 37, Blue: 41}
	headerText := props.Text{
		Size:  8,
		Style: fontstyle.Bold,
		Align: align.Left,
		Color: &props.Color{Red: 255, Green: 255, Blue: 255},
	}
	headerTextRight := headerText
	headerTextRight.Align = align.Right
	headerCell := props.Cell{BackgroundColor: headerBg}

	m.AddRows(
		row.New(8).Add(
			col.New(9).Add(text.New("Category", headerText)).WithStyle(&headerCell),
			col.New(3).Add(text.New("Amount", headerTextRight)).WithStyle(&headerCell),
		),
	)

	altBg := &props.Color{Red: 248, Green: 249, Blue: 250}

	for i, line := range data.Summary.Categories {
		bodyText := props.Text{Size: 8, Align: align.Left}
		bodyTextRight := props.Text{Size: 8, Align: align.Right}

		var cellStyle *props.Cell
		if i%2 == 1 {
			cellStyle = &props.Cell{BackgroundColor: altBg}
		}

		colLabel := col.New(9).Add(text.New(line.Label, bodyText))
		colAmount := col.New(3).Add(text.New(FormatMoney(data.Symbol, line.Amount), bodyTextRight))
		if cellStyle != nil {
			colLabel = colLabel.WithStyle(cellStyle)
			colAmount = colAmount.WithStyle(cellStyle)
		}

		m.AddRows(row.New(7).Add(colLabel, colAmount))
	}

	m.AddRows(row.New(2))
}

// addQuoteTotals adds right-aligned total rows.
func addQuoteTotals(m core.Maroto, data *QuotePDFData) {
	summaryBg := &props.Color{Red: 245, Green: 245, Blue: 245}
	summaryCell := &props.Cell{BackgroundColor: summaryBg}

	labelStyle := props.Text{
		Size:  8,
		Style: fontstyle.Bold,
		Align: align.Right,
	}
	valueStyle := props.Text{
		Size:  8,
		Align: align.Right,
	}

	s := data.Summary
	rows := []struct {
		label string
		value float64
	}{
		{"Subtotal (ex tax)", s.PriceExTax},
		{"Tax", s.Tax},
	}
	for _, r := range rows {
		m.AddRows(
			row.New(7).Add(
				col.New(9).Add(text.New(r.label, labelStyle)).WithStyle(summaryCell),
				col.New(3).Add(text.New(FormatMoney(data.Symbol, r.value), valueStyle)).WithStyle(summaryCell),
			),
		)
	}

	grandBg := &props.Color{Red: 33, Green: 37, Blue: 41}
	grandCell := &props.Cell{BackgroundColor: grandBg}
	grandStyle := props.Text{
		Size:  9,
		Style: fontstyle.Bold,
		Align: align.Right,
		Color: &props.Color{Red: 255, Green: 255, Blue: 255},
	}

	m.AddRows(
		row.New(8).Add(
			col.New(9).Add(text.New("Total (inc tax)", grandStyle)).WithStyle(grandCell),
			col.New(3).Add(text.New(FormatMoney(data.Symbol, s.TotalIncTax), grandStyle)).WithStyle(grandCell),
		),
	)

	m.AddRows(row.New(3))
}

// addQuoteTBQ lists items the quote does not price.
func addQuoteTBQ(m core.Maroto, s *ClientSummary) {
	if len(s.ToBeQuoted) == 0 {
		return
	}

	sectionLabel := props.Text{
		Size:  8,
		Style: fontstyle.Bold,
		Align: align.Left,
		Color: &props.Color{Red: 33, Green: 37, Blue: 41},
	}

	m.AddRows(
		row.New(7).Add(
			col.New(12).Add(text.New("TO BE QUOTED SEPARATELY", sectionLabel)),
		),
	)
	for _, item := range s.ToBeQuoted {
		m.AddRows(
			row.New(6).Add(
				col.New(12).Add(text.New("• "+item, props.Text{
					Size:  8,
					Align: align.Left,
				})),
			),
		)
	}

	m.AddRows(row.New(3))
}

// addQuoteAssumptions adds the policy assumptions block.
func addQuoteAssumptions(m core.Maroto, s *ClientSummary) {
	if len(s.Assumptions) == 0 {
		return
	}

	sectionLabel := props.Text{
		Size:  8,
		Style: fontstyle.Bold,
		Align: align.Left,
		Color: &props.Color{Red: 33, Green: 37, Blue: 41},
	}

	m.AddRows(
		row.New(7).Add(
			col.New(12).Add(text.New("ASSUMPTIONS", sectionLabel)),
		),
	)
	for _, a := range s.Assumptions {
		m.AddRows(
			row.New(6).Add(
				col.New(12).Add(text.New("• "+a, props.Text{
					Size:  8,
					Align: align.Left,
				})),
			),
		)
	}

	m.AddRows(row.New(3))
}

// addQuoteValidity adds the validity footer.
func addQuoteValidity(m core.Maroto, data *QuotePDFData) {
	if data.ValidityDays <= 0 {
		return
	}

	expires := data.IssueDate.AddDate(0, 0, data.ValidityDays)
	m.AddRows(
		row.New(7).Add(
			col.New(12).Add(
				text.New(fmt.Sprintf("This quotation is valid for %d days, until %s.",
					data.ValidityDays, expires.Format("02 Jan 2006")), props.Text{
					Size:  8,
					Style: fontstyle.Italic,
					Align: align.Left,
					Color: &props.Color{Red: 100, Green: 100, Blue: 100},
				}),
			),
		),
	)
}
