package report

import (
	"reports-api/schemas"
	"slices"
)

// SeedFilters is the static taxonomy served while the collection is still
// empty. Live data replaces it as soon as a single report exists.
func SeedFilters() schemas.ReportFilters {
	countries := slices.Clone(schemas.KnownRegions)
	slices.Sort(countries)

	return schemas.ReportFilters{
		Hierarchy:    map[string][]string{},
		Countries:    countries,
		Partnerships: []string{},
	}
}
