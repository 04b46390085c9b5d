package domain

import (
	"sort"

	taxdomain "github.com/smallbiznis/taxengine/internal/tax/domain"
)

// Effective narrows j to the categories and regions that apply to addr.
// The result is a fresh value; j is not modified.
func Effective(j TaxJurisdiction, addr taxdomain.Address) *TaxJurisdiction {
	addr = addr.Normalized()
	out := j
	out.Categories = make([]TaxCategory, 0, len(j.Categories))

	for _, category := range j.Categories {
		value := category.MatchValue(addr)
		regions := make([]TaxRegion, 0, len(category.Regions))
		for _, region := range category.Regions {
			if region.Matches(value) {
				regions = append(regions, region)
			}
		}
		if len(regions) == 0 {
			continue
		}
		category.Regions = regions
		out.Categories = append(out.Categories, category)
	}

	sort.SliceStable(out.Categories, func(a, b int) bool {
		return out.Categories[a].Position < out.Categories[b].Position
	})
	return &out
}

// ResolveRate returns the rate of one category for a tax code.
func ResolveRate(j *TaxJurisdiction, category TaxCategory, taxCode string) (AppliedRate, bool) {
	if j == nil {
		return AppliedRate{}, false
	}
	for _, region := range category.Regions {
		if rate, ok := region.Rate(taxCode); ok {
			return AppliedRate{
				Category:    category.Name,
				DisplayName: category.DisplayName,
				Region:      region.RegionName,
				Rate:        rate,
			}, true
		}
	}
	return AppliedRate{}, false
}

// ResolveRates collects, in category order, every rate that applies to taxCode.
func ResolveRates(j *TaxJurisdiction, taxCode string) []AppliedRate {
	if j == nil {
		return nil
	}
	var rates []AppliedRate
	for _, category := range j.Categories {
		if rate, ok := ResolveRate(j, category, taxCode); ok {
			rates = append(rates, rate)
		}
	}
	return rates
}
