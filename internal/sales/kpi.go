package sales

import (
	"exec-dashboard/internal/models"
	"github.com/shopspring/decimal"
)

// SumPrice totals the price column; an empty table sums to zero.
func SumPrice(rows []models.GroupedSale) float64 {
	total := decimal.Zero
	for _, row := range rows {
		total = total.Add(decimal.NewFromFloat(row.Price))
	}
	return total.Round(2).InexactFloat64()
}

// SumQuantity totals the quantity column; an empty table sums to zero.
func SumQuantity(rows []models.GroupedSale) int {
	total := 0
	for _, row := range rows {
		total += row.QuantityOrdered
	}
	return total
}

func ComputeKPIs(ytd, mtd []models.GroupedSale) models.KPIs {
	return models.KPIs{
		SalesYTD:    SumPrice(ytd),
		QuantityYTD: SumQuantity(ytd),
		SalesMTD:    SumPrice(mtd),
		QuantityMTD: SumQuantity(mtd),
	}
}
