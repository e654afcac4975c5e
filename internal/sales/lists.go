package sales

import (
	"cmp"
	"slices"
	"strings"

	"exec-dashboard/internal/models"
)

// AllCities is the "no filter" entry of the city list. The leading spaces
// sort it ahead of any real city name.
const AllCities = "  All Cities"

// DisplayCity renders a city selection for titles, trimming the sentinel padding.
func DisplayCity(city string) string {
	return strings.TrimSpace(city)
}

// ComputeCityList returns AllCities followed by the distinct cities in
// lexicographic order. A data value equal to AllCities is not listed twice.
func ComputeCityList(grouped []models.GroupedSale) []string {
	seen := map[string]struct{}{AllCities: {}}
	cities := []string{AllCities}
	for _, row := range grouped {
		if _, ok := seen[row.City]; ok {
			continue
		}
		seen[row.City] = struct{}{}
		cities = append(cities, row.City)
	}
	slices.Sort(cities[1:])
	return cities
}

// ComputeProductTypeList returns the distinct product types in lexicographic order.
func ComputeProductTypeList(grouped []models.GroupedSale) []string {
	seen := make(map[string]struct{})
	var types []string
	for _, row := range grouped {
		if _, ok := seen[row.ProductType]; ok {
			continue
		}
		seen[row.ProductType] = struct{}{}
		types = append(types, row.ProductType)
	}
	slices.Sort(types)
	return types
}

// ComputeMonthList returns the distinct order months in chronological order.
func ComputeMonthList(grouped []models.GroupedSale) []models.Month {
	seen := make(map[int]struct{})
	var months []models.Month
	for _, row := range grouped {
		if _, ok := seen[row.MonthYearSort]; ok {
			continue
		}
		seen[row.MonthYearSort] = struct{}{}
		months = append(months, models.Month{Label: row.OrderMonth, MonthYearSort: row.MonthYearSort})
	}
	SortMonths(months)
	return months
}

// SortMonths orders months by their YYYYMM key, never by label.
func SortMonths(months []models.Month) {
	slices.SortFunc(months, func(a, b models.Month) int {
		return cmp.Compare(a.MonthYearSort, b.MonthYearSort)
	})
}

// MonthLabels extracts the labels of months in their current order.
func MonthLabels(months []models.Month) []string {
	labels := make([]string, len(months))
	for i, m := range months {
		labels[i] = m.Label
	}
	return labels
}
