package sales

import (
	"errors"
	"testing"
	"time"

	"exec-dashboard/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

var refDate = date(2019, 9, 15)

func sampleSales() []models.Sale {
	return []models.Sale{
		{OrderDate: date(2019, 1, 5), City: "NYC", ProductType: "A", QuantityOrdered: 2, Price: "1,000.00"},
		{OrderDate: date(2019, 1, 6), City: "NYC", ProductType: "A", QuantityOrdered: 3, Price: "500.50"},
		{OrderDate: date(2019, 1, 6), City: "Boston", ProductType: "B", QuantityOrdered: 1, Price: "99.99"},
		{OrderDate: date(2019, 1, 6), City: "NYC", ProductType: "A", QuantityOrdered: 1, Price: "10.25"},
		{OrderDate: date(2019, 8, 31), City: "Austin", ProductType: "B", QuantityOrdered: 4, Price: "12,345.67"},
		{OrderDate: date(2019, 9, 1), City: "Boston", ProductType: "A", QuantityOrdered: 2, Price: "300"},
		{OrderDate: date(2019, 9, 14), City: "NYC", ProductType: "B", QuantityOrdered: 5, Price: "45.10"},
		{OrderDate: date(2019, 9, 15), City: "NYC", ProductType: "B", QuantityOrdered: 7, Price: "1.00"},
		{OrderDate: date(2019, 10, 2), City: "Seattle", ProductType: "C", QuantityOrdered: 9, Price: "not-a-price"},
	}
}

func TestParsePrice(t *testing.T) {
	tests := []struct {
		raw     string
		want    string
		wantErr bool
	}{
		{raw: "1,234.56", want: "1234.56"},
		{raw: " 12,345,678.9 ", want: "12345678.9"},
		{raw: "700", want: "700"},
		{raw: "", wantErr: true},
		{raw: "abc", wantErr: true},
		{raw: "1.2.3", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := ParsePrice(tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, got.Equal(decimal.RequireFromString(tt.want)), "got %s", got)
		})
	}
}

func TestComputeGroupedSales_EndToEndScenario(t *testing.T) {
	rows := []models.Sale{
		{OrderDate: date(2019, 1, 5), City: "NYC", ProductType: "A", QuantityOrdered: 2, Price: "1,000.00"},
		{OrderDate: date(2019, 1, 6), City: "NYC", ProductType: "A", QuantityOrdered: 3, Price: "500.50"},
	}

	grouped, err := ComputeGroupedSales(rows, refDate)
	require.NoError(t, err)
	require.Len(t, grouped, 2)

	nyc := ApplyCityFilter(grouped, "NYC")
	assert.Equal(t, 1500.50, SumPrice(nyc))
	assert.Equal(t, 5, SumQuantity(nyc))

	cumulative := ComputeCumulativeSales(grouped)
	require.Len(t, cumulative, 2)
	last := cumulative[1]
	assert.Equal(t, 6, last.OrderDay)
	assert.Equal(t, "January 2019", last.OrderMonth)
	assert.Equal(t, 1500.50, last.CumulativePrice)
}

func TestComputeGroupedSales_GroupsAndDerivesColumns(t *testing.T) {
	grouped, err := ComputeGroupedSales(sampleSales()[:7], refDate)
	require.NoError(t, err)

	// Two NYC/A rows on Jan 6 collapse into one.
	require.Len(t, grouped, 6)

	var jan6 *models.GroupedSale
	for i := range grouped {
		g := grouped[i]
		if g.City == "NYC" && g.OrderDate.Equal(date(2019, 1, 6)) {
			jan6 = &grouped[i]
		}
	}
	require.NotNil(t, jan6)
	assert.Equal(t, 4, jan6.QuantityOrdered)
	assert.Equal(t, 510.75, jan6.Price)
	assert.Equal(t, 6, jan6.OrderDay)
	assert.Equal(t, "January 2019", jan6.OrderMonth)
	assert.Equal(t, 201901, jan6.MonthYearSort)

	for i := 1; i < len(grouped); i++ {
		assert.False(t, grouped[i].OrderDate.Before(grouped[i-1].OrderDate), "rows must be ordered by date")
	}
}

func TestComputeGroupedSales_CutoffIsExclusive(t *testing.T) {
	rows := []models.Sale{
		{OrderDate: date(2019, 9, 14), City: "NYC", ProductType: "A", QuantityOrdered: 1, Price: "1"},
		{OrderDate: date(2019, 9, 15), City: "NYC", ProductType: "A", QuantityOrdered: 1, Price: "2"},
		{OrderDate: date(2019, 9, 16), City: "NYC", ProductType: "A", QuantityOrdered: 1, Price: "3"},
	}

	grouped, err := ComputeGroupedSales(rows, refDate)
	require.NoError(t, err)
	require.Len(t, grouped, 1)
	assert.Equal(t, 14, grouped[0].OrderDay)
}

func TestComputeGroupedSales_SumMatchesRawRows(t *testing.T) {
	rows := sampleSales()[:8]

	grouped, err := ComputeGroupedSales(rows, refDate)
	require.NoError(t, err)

	want := decimal.Zero
	wantQty := 0
	for _, r := range rows {
		if !r.OrderDate.Before(refDate) {
			continue
		}
		p, err := ParsePrice(r.Price)
		require.NoError(t, err)
		want = want.Add(p)
		wantQty += r.QuantityOrdered
	}

	assert.Equal(t, want.InexactFloat64(), SumPrice(grouped))
	assert.Equal(t, wantQty, SumQuantity(grouped))
}

func TestComputeGroupedSales_RoundsToCents(t *testing.T) {
	rows := []models.Sale{
		{OrderDate: date(2019, 2, 1), City: "NYC", ProductType: "A", QuantityOrdered: 1, Price: "0.125"},
		{OrderDate: date(2019, 2, 1), City: "NYC", ProductType: "A", QuantityOrdered: 1, Price: "0.0"},
	}

	grouped, err := ComputeGroupedSales(rows, refDate)
	require.NoError(t, err)
	require.Len(t, grouped, 1)
	// half away from zero
	assert.Equal(t, 0.13, grouped[0].Price)
}

func TestComputeGroupedSales_BadPriceStrict(t *testing.T) {
	rows := sampleSales()[:2]
	rows = append(rows, models.Sale{OrderDate: date(2019, 3, 1), City: "NYC", ProductType: "A", QuantityOrdered: 1, Price: "n/a"})

	_, err := ComputeGroupedSales(rows, refDate)
	require.Error(t, err)

	var parseErr *ParseError
	require.True(t, errors.As(err, &parseErr))
	assert.Equal(t, 2, parseErr.Row)
	assert.Equal(t, "n/a", parseErr.Price)
}

func TestParseError_ReportsSourceLine(t *testing.T) {
	rows := []models.Sale{
		{OrderDate: date(2019, 3, 1), City: "NYC", ProductType: "A", QuantityOrdered: 1, Price: "1.00", Line: 2},
		{OrderDate: date(2019, 3, 2), City: "NYC", ProductType: "A", QuantityOrdered: 1, Price: "n/a", Line: 5},
	}

	_, err := ComputeGroupedSales(rows, refDate)
	var parseErr *ParseError
	require.True(t, errors.As(err, &parseErr))
	assert.Equal(t, 1, parseErr.Row)
	assert.Equal(t, 5, parseErr.Line)
	assert.Contains(t, err.Error(), "line 5")

	// rows built in memory carry no line
	rows[1].Line = 0
	_, err = ComputeGroupedSales(rows, refDate)
	assert.Contains(t, err.Error(), "row 1")
}

func TestGroupSales_BadPriceSkip(t *testing.T) {
	rows := sampleSales()[:2]
	rows = append(rows, models.Sale{OrderDate: date(2019, 3, 1), City: "NYC", ProductType: "A", QuantityOrdered: 1, Price: "n/a"})

	res, err := GroupSales(rows, refDate, PriceSkip)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Skipped)
	assert.Len(t, res.Rows, 2)
}

func TestGroupSales_IgnoresBadPriceAfterCutoff(t *testing.T) {
	res, err := GroupSales(sampleSales(), refDate, PriceStrict)
	require.NoError(t, err)
	assert.Zero(t, res.Skipped)
	for _, row := range res.Rows {
		assert.NotEqual(t, "Seattle", row.City)
	}
}

func TestComputeGroupedSales_EmptyInput(t *testing.T) {
	grouped, err := ComputeGroupedSales(nil, refDate)
	require.NoError(t, err)
	assert.Empty(t, grouped)
	assert.Empty(t, ComputeCumulativeSales(grouped))
	assert.Equal(t, []string{AllCities}, ComputeCityList(grouped))
	assert.Empty(t, ComputeProductTypeList(grouped))
	assert.Empty(t, ComputeMonthList(grouped))
}
