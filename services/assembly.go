package services

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// FeatureCounts are the assembly-relevant features of one product.
type FeatureCounts struct {
	Drawers      int
	Doors        int
	AdjShelves   int
	FixedShelves int
}

var (
	drawerPattern     = regexp.MustCompile(`(\d+)\s*drawer`)
	doorPattern       = regexp.MustCompile(`(\d+)\s*door`)
	adjShelfPattern   = regexp.MustCompile(`(\d+)\s*adj(?:ustable)?\.?\s*shel`)
	fixedShelfPattern = regexp.MustCompile(`(\d+)\s*fixed\s*shel`)
)

// inferFeatures reads feature counts out of a product description,
// e.g. "Base Cabinet 3 Drawer" or "Tall Unit 2 Door 4 Adj Shelf".
// A bare mention without a leading count is treated as one.
func inferFeatures(description string) FeatureCounts {
	d := strings.ToLower(description)
	count := func(re *regexp.Regexp, word string) int {
		if m := re.FindStringSubmatch(d); m != nil {
			n, err := strconv.Atoi(m[1])
			if err == nil {
				return n
			}
		}
		if strings.Contains(d, word) {
			return 1
		}
		return 0
	}
	return FeatureCounts{
		Drawers:      count(drawerPattern, "drawer"),
		Doors:        count(doorPattern, "door"),
		AdjShelves:   count(adjShelfPattern, "adj shel"),
		FixedShelves: count(fixedShelfPattern, "fixed shel"),
	}
}

// matchTypeFactor resolves the most specific configured product-type
// match: the longest matching key wins, equal lengths break lexically.
// "Base Cabinet with End Panel" must hit "base cabinet", not "panel",
// no matter how the config map iterates.
func matchTypeFactor(productType string, factors map[string]float64, fallback float64) float64 {
	folded := foldLabel(productType)
	factor := fallback
	bestKey := ""
	for t, f := range factors {
		k := foldLabel(t)
		if !strings.Contains(folded, k) {
			continue
		}
		if len(k) > len(bestKey) || (len(k) == len(bestKey) && k < bestKey) {
			bestKey = k
			factor = f
		}
	}
	return factor
}

// areaFactor resolves a product type's assembly hours per m², applying
// the tuned scale.
func (r AssemblyRules) areaFactor(productType string, scale float64) float64 {
	return matchTypeFactor(productType, r.TypeAreaFactors, r.DefaultAreaFactor) * scale
}

// complexityMultiplier multiplies together every complexity phrase
// present in the product description, in sorted phrase order so the
// float product is reproducible.
func complexityMultiplier(description string, phrases map[string]float64) float64 {
	folded := foldLabel(description)
	matched := make([]string, 0, len(phrases))
	for phrase := range phrases {
		if strings.Contains(folded, foldLabel(phrase)) {
			matched = append(matched, phrase)
		}
	}
	sort.Strings(matched)
	mult := 1.0
	for _, phrase := range matched {
		mult *= phrases[phrase]
	}
	return mult
}

// CalcAssembly estimates shop assembly per product:
// area m² × type factor plus per-feature adders, times the complexity
// multiplier when flagged. Per-product hours stay in the breakdown.
func CalcAssembly(products *ProductsReport, snap *Snapshot) CategoryResult {
	res := CategoryResult{
		Category: CategoryAssembly,
		Drivers:  map[string]float64{},
	}
	if products == nil {
		return res
	}

	rules := snap.Assembly
	adders := rules.Adders
	shopRate := snap.Rates.Labor["shop"]
	scale := snap.Tuning.Assembly.FactorScale

	totalHours := 0.0
	areaHoursAtScaleOne := 0.0
	totalArea := 0.0

	for _, p := range products.Products {
		features := inferFeatures(p.Type)
		area := p.AreaM2()
		base := area * rules.areaFactor(p.Type, scale)
		featureHours := float64(features.Drawers)*adders.DrawerH +
			float64(features.Doors)*adders.DoorH +
			float64(features.AdjShelves)*adders.AdjShelfH +
			float64(features.FixedShelves)*adders.FixedShelfH
		comp := complexityMultiplier(p.Type, rules.Complexity)
		hours := (base + featureHours) * comp * float64(p.Qty)

		totalHours += hours
		totalArea += area * float64(p.Qty)
		if scale > 0 {
			areaHoursAtScaleOne += base / scale * comp * float64(p.Qty)
		}

		res.Items = append(res.Items, LineItem{
			Label:  productLabel(p),
			Qty:    float64(p.Qty),
			Unit:   "ea",
			Hours:  round2(hours),
			Cost:   round2(hours * shopRate),
			Status: StatusIncluded,
		})
	}

	res.Hours = round2(totalHours)
	res.Cost = round2(totalHours * shopRate)
	res.Drivers["total_area_m2"] = round2(totalArea)
	res.Drivers["products"] = float64(len(products.Products))
	// Calibration isolates the area-factor scale against this figure.
	res.Drivers["area_hours_at_scale_1"] = round2(areaHoursAtScaleOne)
	res.Drivers["feature_adder_hours"] = round2(totalHours - areaHoursAtScaleOne*scale)
	return res
}

func productLabel(p ProductFact) string {
	if p.Item != "" {
		return p.Item + " " + p.Type
	}
	return p.Type
}
