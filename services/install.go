package services

// CalcInstall estimates on-site installation. Person-hours come from
// an area model per product; site hours divide person-hours by the
// configured crew weighting (default 0.8 two-person + 0.2 one-person)
// and bill at the blended crew rate. An explicit install_hours policy
// override replaces the auto estimate.
func CalcInstall(products *ProductsReport, snap *Snapshot) CategoryResult {
	res := CategoryResult{
		Category: CategoryInstall,
		Drivers:  map[string]float64{},
	}

	team := snap.Rates.InstallTeam
	twoFrac, oneFrac := normalizedCrewSplit(team)
	oneRate := onePersonRate(snap.Rates)
	blended := twoFrac*team.TwoPersonRate + oneFrac*oneRate
	crewSize := twoFrac*2 + oneFrac*1

	personHours := 0.0
	if override := snap.Rates.Defaults.InstallHours; override > 0 {
		// Override is site hours, not person-hours.
		res.Hours = round2(override)
		res.Cost = round2(override * blended)
		res.Drivers["site_hours"] = round2(override)
		res.Drivers["blended_rate"] = round2(blended)
		res.Items = append(res.Items, LineItem{
			Label:  "Installation (estimator override)",
			Qty:    round2(override),
			Unit:   "h",
			Rate:   round2(blended),
			Hours:  round2(override),
			Cost:   res.Cost,
			Status: StatusIncluded,
		})
		return res
	}

	if products != nil {
		rules := snap.Install
		for _, p := range products.Products {
			factor := matchTypeFactor(p.Type, rules.TypeAreaFactors, rules.DefaultAreaFactor)
			comp := complexityMultiplier(p.Type, rules.Complexity)
			personHours += p.AreaM2() * factor * comp * float64(p.Qty)
		}
	}

	siteHours := 0.0
	if crewSize > 0 {
		siteHours = personHours / crewSize
	}
	res.Hours = round2(siteHours)
	res.Cost = round2(siteHours * blended)
	res.Drivers["person_hours"] = round2(personHours)
	res.Drivers["site_hours"] = round2(siteHours)
	res.Drivers["blended_rate"] = round2(blended)
	if personHours > 0 {
		res.Items = append(res.Items, LineItem{
			Label:  "Installation",
			Qty:    round2(siteHours),
			Unit:   "h",
			Rate:   round2(blended),
			Hours:  round2(siteHours),
			Cost:   res.Cost,
			Status: StatusIncluded,
		})
	}
	return res
}

// normalizedCrewSplit returns crew fractions summing to one. An
// unconfigured split falls back to all two-person crew.
func normalizedCrewSplit(team InstallTeam) (two, one float64) {
	total := team.TwoPersonFraction + team.OnePersonFraction
	if total <= 0 {
		return 1, 0
	}
	return team.TwoPersonFraction / total, team.OnePersonFraction / total
}

// onePersonRate resolves the single-installer billing rate, walking
// the role substitution list so e.g. project-management staff can be
// counted as install crew when no explicit rate is set.
func onePersonRate(rates Rates) float64 {
	if rates.InstallTeam.OnePersonRate > 0 {
		return rates.InstallTeam.OnePersonRate
	}
	for _, role := range rates.InstallTeam.RoleSubstitutions {
		if r, ok := rates.Labor[role]; ok && r > 0 {
			return r
		}
	}
	return rates.Labor["installer"]
}
