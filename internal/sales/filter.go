package sales

import (
	"time"

	"exec-dashboard/internal/models"
)

// ApplyCityFilter keeps rows whose city equals selected exactly. AllCities
// returns grouped unchanged.
func ApplyCityFilter(grouped []models.GroupedSale, selected string) []models.GroupedSale {
	if selected == AllCities {
		return grouped
	}
	filtered := make([]models.GroupedSale, 0)
	for _, row := range grouped {
		if row.City == selected {
			filtered = append(filtered, row)
		}
	}
	return filtered
}

// DeriveMonthToDate keeps rows in the same calendar year and month as ref.
func DeriveMonthToDate(filtered []models.GroupedSale, ref time.Time) []models.GroupedSale {
	year, month, _ := ref.Date()
	mtd := make([]models.GroupedSale, 0)
	for _, row := range filtered {
		y, m, _ := row.OrderDate.Date()
		if y == year && m == month {
			mtd = append(mtd, row)
		}
	}
	return mtd
}
