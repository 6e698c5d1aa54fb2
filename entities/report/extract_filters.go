package report

import (
	"reports-api/schemas"
	"slices"
)

// ExtractFilters derives the dashboard filter taxonomy from a record set.
// Every output list is sorted and duplicate-free, so the result does not
// depend on input order.
func ExtractFilters(reports []schemas.Report) schemas.ReportFilters {
	subAreas := map[string]map[string]struct{}{}
	countries := map[string]struct{}{}
	partnerships := map[string]struct{}{}

	for _, r := range reports {
		if r.StrategicResultArea != "" {
			subs, ok := subAreas[r.StrategicResultArea]
			if !ok {
				subs = map[string]struct{}{}
				subAreas[r.StrategicResultArea] = subs
			}
			if r.SubStrategicResultArea != "" {
				subs[r.SubStrategicResultArea] = struct{}{}
			}
		}

		if r.InterventionCountry != "" {
			countries[r.InterventionCountry] = struct{}{}
		}

		for _, p := range schemas.NormalizePartnerships(r) {
			partnerships[p] = struct{}{}
		}
	}

	hierarchy := make(map[string][]string, len(subAreas))
	for area, subs := range subAreas {
		hierarchy[area] = sortedKeys(subs)
	}

	return schemas.ReportFilters{
		Hierarchy:    hierarchy,
		Countries:    sortedKeys(countries),
		Partnerships: sortedKeys(partnerships),
	}
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}
