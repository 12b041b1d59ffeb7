package pipeline

import (
	"fmt"
	"sort"
	"strings"

	"oda-forecast/internal/model"
)

var countryNormalizer = strings.NewReplacer(".", "", ",", "")

// normalizeCountry trims, lowercases, and strips periods and commas.
// Nothing else: diacritics are kept, so alias lists must carry the
// encoding variants the source data uses.
func normalizeCountry(name string) string {
	return countryNormalizer.Replace(strings.ToLower(strings.TrimSpace(name)))
}

// AssignSubregion returns the subregion for a country name, walking
// subregions and their aliases in declaration order. A match is exact
// equality of the normalized names, or either normalized name being a
// prefix of the other. The prefix rule tolerates trailing punctuation and
// suffix variants but is known to produce false positives for short
// names; it is kept as-is for compatibility with existing groupings.
func AssignSubregion(country string, m model.SubregionMap) (string, bool) {
	cn := normalizeCountry(country)
	if cn == "" {
		return "", false
	}
	for _, sub := range m {
		for _, alias := range sub.Countries {
			mm := normalizeCountry(alias)
			if cn == mm || strings.HasPrefix(cn, mm) || strings.HasPrefix(mm, cn) {
				return sub.Name, true
			}
		}
	}
	return "", false
}

// Aggregate sums record values per (subregion, year) into a wide table.
// Countries matching no subregion are excluded entirely. Every declared
// subregion gets a column, zero-filled across the union of years seen on
// any matched record. Columns are ordered alphabetically for subregions
// with at least one match, followed by empty declared subregions in
// declaration order.
func Aggregate(records []model.RawRecord, m model.SubregionMap) *model.WideTable {
	sums := make(map[string]map[int]float64)
	yearSet := make(map[int]struct{})
	unmatched := make(map[string]struct{})

	for _, rec := range records {
		sub, ok := AssignSubregion(rec.Country, m)
		if !ok {
			unmatched[rec.Country] = struct{}{}
			continue
		}
		if sums[sub] == nil {
			sums[sub] = make(map[int]float64)
		}
		sums[sub][rec.Year] += rec.Value
		yearSet[rec.Year] = struct{}{}
	}

	if len(unmatched) > 0 {
		names := make([]string, 0, len(unmatched))
		for name := range unmatched {
			names = append(names, name)
		}
		sort.Strings(names)
		fmt.Printf("ℹ️ Aggregation: %d countries matched no subregion and were excluded: %s\n",
			len(names), strings.Join(names, ", "))
	}

	years := make([]int, 0, len(yearSet))
	for y := range yearSet {
		years = append(years, y)
	}
	sort.Ints(years)

	var matchedCols, emptyCols []string
	for _, sub := range m {
		if _, ok := sums[sub.Name]; ok {
			matchedCols = append(matchedCols, sub.Name)
		} else {
			emptyCols = append(emptyCols, sub.Name)
		}
	}
	sort.Strings(matchedCols)
	columns := append(matchedCols, emptyCols...)

	data := make(map[string][]float64, len(columns))
	for _, col := range columns {
		values := make([]float64, len(years))
		for i, y := range years {
			values[i] = sums[col][y]
		}
		data[col] = values
	}

	return &model.WideTable{Years: years, Columns: columns, Data: data}
}
