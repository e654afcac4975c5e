package sales

import (
	"slices"

	"exec-dashboard/internal/models"
	"github.com/shopspring/decimal"
)

// ComputeCumulativeSales computes a running price total per order month,
// ordered by order day. Rows sharing a day accumulate in input order, so the
// last row of each month carries the month total. Output follows order date.
func ComputeCumulativeSales(grouped []models.GroupedSale) []models.CumulativeSale {
	ordered := slices.Clone(grouped)
	slices.SortStableFunc(ordered, func(a, b models.GroupedSale) int {
		return a.OrderDate.Compare(b.OrderDate)
	})

	running := make(map[string]decimal.Decimal)
	result := make([]models.CumulativeSale, 0, len(ordered))
	for _, row := range ordered {
		total := running[row.OrderMonth].Add(decimal.NewFromFloat(row.Price))
		running[row.OrderMonth] = total
		result = append(result, models.CumulativeSale{
			OrderDay:        row.OrderDay,
			OrderMonth:      row.OrderMonth,
			CumulativePrice: total.InexactFloat64(),
		})
	}
	return result
}
