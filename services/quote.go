package services

import "fmt"

// ReportSet bundles the parsed input reports for one pricing run.
// WOS is required; the rest degrade to zero-driver estimates when
// absent, and buyout is optional by design.
type ReportSet struct {
	WOS      *WOSReport
	Parts    *PartsReport
	Products *ProductsReport
	Buyout   *BuyoutReport
}

// QuoteResult pairs the auditable internal breakdown with the
// presentable client summary produced from the same computation.
type QuoteResult struct {
	Breakdown *Breakdown     `json:"breakdown"`
	Client    *ClientSummary `json:"client"`
}

// PriceQuote runs the full pipeline against one catalog snapshot:
// normalize → calculate → aggregate. The snapshot is read-only for the
// whole run, so identical inputs and an identical snapshot always
// reproduce identical output.
func PriceQuote(project string, reports ReportSet, snap *Snapshot) (*QuoteResult, error) {
	if reports.WOS == nil {
		return nil, fmt.Errorf("price quote: work order summary is required")
	}
	if err := snap.Validate(); err != nil {
		return nil, err
	}

	usage := NormalizeUsage(reports.WOS, snap.NameMaps)

	materials, matDiags := CalcMaterials(usage.Materials, snap)
	edgeband, ebDiags := CalcEdgeband(usage.Bands, snap)
	hardware, hwDiags := CalcHardware(usage.Hardware, snap)
	cnc := CalcCNC(driversFromReports(usage, reports.Parts), snap)
	assembly := CalcAssembly(reports.Products, snap)
	install := CalcInstall(reports.Products, snap)

	overhead, err := CalcOverhead(InternalHours{
		Drafting: snap.Rates.Defaults.DraftingHours,
		PM:       snap.Rates.Defaults.PMHours,
		Assembly: assembly.Hours,
		Install:  install.Hours,
	}, snap)
	if err != nil {
		return nil, err
	}

	categories := []CategoryResult{
		materials, edgeband, hardware, cnc, assembly, install, overhead,
	}

	diags := append([]Diagnostic{}, usage.Diagnostics...)
	diags = append(diags, matDiags...)
	diags = append(diags, ebDiags...)
	diags = append(diags, hwDiags...)

	rowErrs := append([]RowError{}, reports.WOS.RowErrors...)
	if reports.Parts != nil {
		rowErrs = append(rowErrs, reports.Parts.RowErrors...)
	}
	if reports.Products != nil {
		rowErrs = append(rowErrs, reports.Products.RowErrors...)
	}
	if reports.Buyout != nil {
		rowErrs = append(rowErrs, reports.Buyout.RowErrors...)
	}

	bd, client := Aggregate(project, categories, reports.Buyout, diags, rowErrs, snap.Policy)
	return &QuoteResult{Breakdown: bd, Client: client}, nil
}
