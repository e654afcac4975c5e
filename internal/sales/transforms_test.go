package sales

import (
	"slices"
	"testing"
	"time"

	"exec-dashboard/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func groupedSample(t *testing.T) []models.GroupedSale {
	t.Helper()
	grouped, err := ComputeGroupedSales(sampleSales()[:8], refDate)
	require.NoError(t, err)
	return grouped
}

func TestComputeCumulativeSales_LastRowEqualsMonthTotal(t *testing.T) {
	grouped := groupedSample(t)
	cumulative := ComputeCumulativeSales(grouped)
	require.Len(t, cumulative, len(grouped))

	lastByMonth := make(map[string]models.CumulativeSale)
	for _, c := range cumulative {
		prev, ok := lastByMonth[c.OrderMonth]
		if ok {
			assert.GreaterOrEqual(t, c.OrderDay, prev.OrderDay, "days must not go backwards within %s", c.OrderMonth)
		}
		lastByMonth[c.OrderMonth] = c
	}

	for month, last := range lastByMonth {
		var monthRows []models.GroupedSale
		for _, g := range grouped {
			if g.OrderMonth == month {
				monthRows = append(monthRows, g)
			}
		}
		assert.Equal(t, SumPrice(monthRows), last.CumulativePrice, month)
	}
}

func TestComputeCumulativeSales_ResetsPerMonth(t *testing.T) {
	grouped := []models.GroupedSale{
		{OrderDate: date(2019, 1, 31), OrderDay: 31, OrderMonth: "January 2019", Price: 10},
		{OrderDate: date(2019, 2, 1), OrderDay: 1, OrderMonth: "February 2019", Price: 5},
		{OrderDate: date(2019, 2, 2), OrderDay: 2, OrderMonth: "February 2019", Price: 0.1},
		{OrderDate: date(2019, 2, 2), OrderDay: 2, OrderMonth: "February 2019", Price: 0.2},
	}

	got := ComputeCumulativeSales(grouped)
	want := []float64{10, 5, 5.1, 5.3}
	require.Len(t, got, len(want))
	for i := range want {
		assert.Equal(t, want[i], got[i].CumulativePrice, "row %d", i)
	}
}

func TestComputeCumulativeSales_OrdersByDateStably(t *testing.T) {
	grouped := []models.GroupedSale{
		{OrderDate: date(2019, 3, 2), OrderDay: 2, OrderMonth: "March 2019", City: "B", Price: 2},
		{OrderDate: date(2019, 3, 1), OrderDay: 1, OrderMonth: "March 2019", City: "A", Price: 1},
		{OrderDate: date(2019, 3, 2), OrderDay: 2, OrderMonth: "March 2019", City: "C", Price: 4},
	}

	got := ComputeCumulativeSales(grouped)
	require.Len(t, got, 3)
	assert.Equal(t, []float64{1, 3, 7}, []float64{got[0].CumulativePrice, got[1].CumulativePrice, got[2].CumulativePrice})
	// input is not mutated
	assert.Equal(t, "B", grouped[0].City)
}

func TestComputeCityList(t *testing.T) {
	cities := ComputeCityList(groupedSample(t))

	require.NotEmpty(t, cities)
	assert.Equal(t, AllCities, cities[0])
	assert.Equal(t, []string{"Austin", "Boston", "NYC"}, cities[1:])
	assert.True(t, slices.IsSorted(cities), "sentinel must also sort first")
	for i := 2; i < len(cities); i++ {
		assert.Less(t, cities[i-1], cities[i])
	}
}

func TestComputeCityList_SentinelNeverMatchesData(t *testing.T) {
	grouped := groupedSample(t)
	assert.Empty(t, ApplyCityFilter(grouped, "All Cities"))
	assert.Len(t, ApplyCityFilter(grouped, AllCities), len(grouped))
}

func TestComputeProductTypeList(t *testing.T) {
	assert.Equal(t, []string{"A", "B"}, ComputeProductTypeList(groupedSample(t)))
}

func TestComputeMonthList_ChronologicalNotAlphabetical(t *testing.T) {
	grouped := []models.GroupedSale{
		{OrderMonth: "March 2019", MonthYearSort: 201903},
		{OrderMonth: "January 2019", MonthYearSort: 201901},
		{OrderMonth: "March 2019", MonthYearSort: 201903},
		{OrderMonth: "December 2018", MonthYearSort: 201812},
		{OrderMonth: "April 2019", MonthYearSort: 201904},
	}

	months := ComputeMonthList(grouped)
	assert.Equal(t, []string{"December 2018", "January 2019", "March 2019", "April 2019"}, MonthLabels(months))
}

func TestSortMonths(t *testing.T) {
	months := []models.Month{
		{Label: "March 2019", MonthYearSort: 201903},
		{Label: "January 2019", MonthYearSort: 201901},
	}
	SortMonths(months)
	assert.Equal(t, []string{"January 2019", "March 2019"}, MonthLabels(months))
}

func TestApplyCityFilter(t *testing.T) {
	grouped := groupedSample(t)

	tests := []struct {
		name string
		city string
		want int
	}{
		{name: "all cities", city: AllCities, want: len(grouped)},
		{name: "exact city", city: "NYC", want: 3},
		{name: "case sensitive", city: "nyc", want: 0},
		{name: "no trimming", city: " NYC", want: 0},
		{name: "unknown", city: "Paris", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ApplyCityFilter(grouped, tt.city)
			require.NotNil(t, got)
			assert.Len(t, got, tt.want)
			if tt.city != AllCities {
				for _, row := range got {
					assert.Equal(t, tt.city, row.City)
				}
			}
		})
	}
}

func TestDeriveMonthToDate(t *testing.T) {
	grouped := groupedSample(t)

	mtd := DeriveMonthToDate(grouped, refDate)
	require.Len(t, mtd, 2)
	for _, row := range mtd {
		assert.Equal(t, "September 2019", row.OrderMonth)
	}

	// same month, other year
	assert.Empty(t, DeriveMonthToDate(grouped, date(2018, 9, 15)))
}

func TestComputeKPIs(t *testing.T) {
	grouped := groupedSample(t)
	ytd := ApplyCityFilter(grouped, "Boston")
	mtd := DeriveMonthToDate(ytd, refDate)

	kpis := ComputeKPIs(ytd, mtd)
	assert.Equal(t, models.KPIs{
		SalesYTD:    399.99,
		QuantityYTD: 3,
		SalesMTD:    300,
		QuantityMTD: 2,
	}, kpis)
}

func TestComputeKPIs_EmptyIsZero(t *testing.T) {
	kpis := ComputeKPIs(nil, []models.GroupedSale{})
	assert.Equal(t, models.KPIs{}, kpis)
	assert.Equal(t, 0.0, SumPrice(nil))
	assert.Equal(t, 0, SumQuantity(nil))
}

func TestHighlightTier(t *testing.T) {
	tests := []struct {
		label string
		ref   time.Time
		want  models.HighlightTier
	}{
		{label: "September 2019", ref: refDate, want: models.TierCurrent},
		{label: "August 2019", ref: refDate, want: models.TierPrevious},
		{label: "July 2019", ref: refDate, want: models.TierNeutral},
		{label: "September 2018", ref: refDate, want: models.TierNeutral},
		{label: "October 2019", ref: refDate, want: models.TierNeutral},
		{label: "December 2018", ref: date(2019, 1, 10), want: models.TierPrevious},
		{label: "January 2019", ref: date(2019, 1, 10), want: models.TierCurrent},
		{label: "not a month", ref: refDate, want: models.TierNeutral},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			assert.Equal(t, tt.want, HighlightTier(tt.label, tt.ref))
		})
	}
}

func TestTierForMonth_EndOfMonthReference(t *testing.T) {
	// AddDate on the 31st must not skip a short previous month.
	ref := date(2019, 3, 31)
	assert.Equal(t, models.TierPrevious, TierForMonth(201902, ref))
	assert.Equal(t, models.TierCurrent, TierForMonth(201903, ref))
}
