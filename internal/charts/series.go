// Package charts turns aggregated sales rows into go-echarts chart specs.
// It performs no aggregation beyond arranging rows into series.
package charts

import (
	"cmp"
	"slices"
	"time"

	"exec-dashboard/internal/models"
	"exec-dashboard/internal/sales"
	"github.com/shopspring/decimal"
)

type Palette struct {
	Current  string
	Previous string
	Neutral  string
}

// DefaultPalette highlights the reference month red and the month before orange.
var DefaultPalette = Palette{Current: "red", Previous: "orange", Neutral: "grey"}

func (p Palette) Color(tier models.HighlightTier) string {
	switch tier {
	case models.TierCurrent:
		return p.Current
	case models.TierPrevious:
		return p.Previous
	default:
		return p.Neutral
	}
}

// MonthColors maps every month label to its recency color.
func (p Palette) MonthColors(months []models.Month, ref time.Time) map[string]string {
	colors := make(map[string]string, len(months))
	for _, m := range months {
		colors[m.Label] = p.Color(sales.TierForMonth(m.MonthYearSort, ref))
	}
	return colors
}

type HistogramBar struct {
	Month string  `json:"month"`
	Price float64 `json:"price"`
	Color string  `json:"color"`
}

// HistogramFacet is one row of the faceted monthly histogram.
type HistogramFacet struct {
	ProductType string         `json:"product_type"`
	Bars        []HistogramBar `json:"bars"`
}

// HistogramFacets lays out price per month for each product type. Facets
// follow productTypes, bars follow months; empty months are kept as zero bars.
func HistogramFacets(rows []models.GroupedSale, productTypes []string, months []models.Month, ref time.Time, palette Palette) []HistogramFacet {
	type key struct {
		productType string
		month       int
	}
	totals := make(map[key]decimal.Decimal)
	for _, row := range rows {
		k := key{row.ProductType, row.MonthYearSort}
		totals[k] = totals[k].Add(decimal.NewFromFloat(row.Price))
	}

	colors := palette.MonthColors(months, ref)
	facets := make([]HistogramFacet, 0, len(productTypes))
	for _, pt := range productTypes {
		facet := HistogramFacet{ProductType: pt, Bars: make([]HistogramBar, 0, len(months))}
		for _, m := range months {
			facet.Bars = append(facet.Bars, HistogramBar{
				Month: m.Label,
				Price: totals[key{pt, m.MonthYearSort}].Round(2).InexactFloat64(),
				Color: colors[m.Label],
			})
		}
		facets = append(facets, facet)
	}
	return facets
}

type LinePoint struct {
	Day   int     `json:"day"`
	Value float64 `json:"value"`
}

// LineSeries is the cumulative curve of one order month.
type LineSeries struct {
	Month  string      `json:"month"`
	Color  string      `json:"color"`
	Points []LinePoint `json:"points"`
}

// CumulativeSeries keeps, for each month and day, the running total reached
// by the last row of that day. Series follow months; months without rows are omitted.
func CumulativeSeries(cumulative []models.CumulativeSale, months []models.Month, ref time.Time, palette Palette) []LineSeries {
	byMonth := make(map[string]map[int]float64)
	for _, c := range cumulative {
		days, ok := byMonth[c.OrderMonth]
		if !ok {
			days = make(map[int]float64)
			byMonth[c.OrderMonth] = days
		}
		days[c.OrderDay] = c.CumulativePrice
	}

	colors := palette.MonthColors(months, ref)
	series := make([]LineSeries, 0, len(byMonth))
	for _, m := range months {
		days, ok := byMonth[m.Label]
		if !ok {
			continue
		}
		points := make([]LinePoint, 0, len(days))
		for day, value := range days {
			points = append(points, LinePoint{Day: day, Value: value})
		}
		slices.SortFunc(points, func(a, b LinePoint) int { return cmp.Compare(a.Day, b.Day) })
		series = append(series, LineSeries{Month: m.Label, Color: colors[m.Label], Points: points})
	}
	return series
}
