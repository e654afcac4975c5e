package models

import "time"

// Sale is one raw transaction row as read from the dataset file.
// Price is kept verbatim; it may carry thousands separators. Line is the
// 1-based source line of the row, or 0 when the row did not come from a file.
type Sale struct {
	OrderDate       time.Time
	City            string
	ProductType     string
	QuantityOrdered int
	Price           string
	Line            int
}

// GroupedSale aggregates every Sale sharing the same order date, city and product type.
type GroupedSale struct {
	OrderDate       time.Time `json:"order_date"`
	OrderDay        int       `json:"order_day"`
	OrderMonth      string    `json:"order_month"`
	MonthYearSort   int       `json:"month_year_sort"`
	City            string    `json:"city"`
	ProductType     string    `json:"product_type"`
	QuantityOrdered int       `json:"quantity_ordered"`
	Price           float64   `json:"price"`
}

type CumulativeSale struct {
	OrderDay        int     `json:"order_day"`
	OrderMonth      string  `json:"order_month"`
	CumulativePrice float64 `json:"cumulative_price"`
}

type Month struct {
	Label         string `json:"order_month"`
	MonthYearSort int    `json:"month_year_sort"`
}

type KPIs struct {
	SalesYTD    float64 `json:"sales_ytd"`
	QuantityYTD int     `json:"quantity_ytd"`
	SalesMTD    float64 `json:"sales_mtd"`
	QuantityMTD int     `json:"quantity_mtd"`
}

// HighlightTier classifies a month relative to the reference date.
type HighlightTier int

const (
	TierNeutral HighlightTier = iota
	TierPrevious
	TierCurrent
)

func (t HighlightTier) String() string {
	switch t {
	case TierCurrent:
		return "current"
	case TierPrevious:
		return "previous"
	default:
		return "neutral"
	}
}
