// Package sales holds the pure transforms that turn raw transaction rows into
// dashboard-ready tables: grouping, cumulative series, lookup lists, the city
// filter, month-to-date narrowing and KPI reductions.
//
// Prices are summed with shopspring/decimal and rounded to two places with
// decimal.Round, which rounds half away from zero.
package sales

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"time"

	"exec-dashboard/internal/models"
	"github.com/shopspring/decimal"
)

// PricePolicy decides what happens to a row whose price cannot be parsed.
type PricePolicy string

const (
	// PriceStrict aborts grouping with a ParseError.
	PriceStrict PricePolicy = "strict"
	// PriceSkip drops the row and counts it in GroupResult.Skipped.
	PriceSkip PricePolicy = "skip"
)

const monthLabelLayout = "January 2006"

// ParseError reports a price that is not a number once thousands separators are removed.
// Row is the index into the grouped slice; Line is the source line when known.
type ParseError struct {
	Row   int
	Line  int
	Price string
	Err   error
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: price %q is not a number: %v", e.Line, e.Price, e.Err)
	}
	return fmt.Sprintf("row %d: price %q is not a number: %v", e.Row, e.Price, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

type GroupResult struct {
	Rows    []models.GroupedSale
	Skipped int
}

// ParsePrice strips comma separators and parses the remainder as a decimal.
func ParsePrice(raw string) (decimal.Decimal, error) {
	cleaned := strings.TrimSpace(strings.ReplaceAll(raw, ",", ""))
	return decimal.NewFromString(cleaned)
}

// ComputeGroupedSales groups rows ordered strictly before asOf under the strict price policy.
func ComputeGroupedSales(rows []models.Sale, asOf time.Time) ([]models.GroupedSale, error) {
	res, err := GroupSales(rows, asOf, PriceStrict)
	if err != nil {
		return nil, err
	}
	return res.Rows, nil
}

type groupKey struct {
	date        time.Time
	city        string
	productType string
}

type groupTotals struct {
	quantity int
	price    decimal.Decimal
}

// GroupSales sums quantity and price per (order date, city, product type)
// for rows dated strictly before asOf. Prices of excluded rows are never parsed.
// Output is ordered by order date, then city, then product type.
func GroupSales(rows []models.Sale, asOf time.Time, policy PricePolicy) (GroupResult, error) {
	cutoff := Day(asOf)
	groups := make(map[groupKey]*groupTotals)
	skipped := 0

	for i, row := range rows {
		orderDate := Day(row.OrderDate)
		if !orderDate.Before(cutoff) {
			continue
		}

		price, err := ParsePrice(row.Price)
		if err != nil {
			if policy == PriceSkip {
				skipped++
				continue
			}
			return GroupResult{}, &ParseError{Row: i, Line: row.Line, Price: row.Price, Err: err}
		}

		key := groupKey{date: orderDate, city: row.City, productType: row.ProductType}
		totals, ok := groups[key]
		if !ok {
			totals = &groupTotals{}
			groups[key] = totals
		}
		totals.quantity += row.QuantityOrdered
		totals.price = totals.price.Add(price)
	}

	keys := make([]groupKey, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, func(a, b groupKey) int {
		return cmp.Or(
			a.date.Compare(b.date),
			cmp.Compare(a.city, b.city),
			cmp.Compare(a.productType, b.productType),
		)
	})

	result := make([]models.GroupedSale, 0, len(keys))
	for _, k := range keys {
		totals := groups[k]
		result = append(result, models.GroupedSale{
			OrderDate:       k.date,
			OrderDay:        k.date.Day(),
			OrderMonth:      MonthLabel(k.date),
			MonthYearSort:   MonthKey(k.date),
			City:            k.city,
			ProductType:     k.productType,
			QuantityOrdered: totals.quantity,
			Price:           totals.price.Round(2).InexactFloat64(),
		})
	}

	return GroupResult{Rows: result, Skipped: skipped}, nil
}

// Day truncates t to midnight UTC of its calendar date.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// MonthLabel renders t as "<Month> <Year>", e.g. "September 2019".
func MonthLabel(t time.Time) string {
	return t.Format(monthLabelLayout)
}

// MonthKey returns YYYYMM as an integer.
func MonthKey(t time.Time) int {
	return t.Year()*100 + int(t.Month())
}
