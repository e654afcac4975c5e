package charts

import (
	"bytes"
	"testing"
	"time"

	"exec-dashboard/internal/models"
	"exec-dashboard/internal/sales"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var refDate = time.Date(2019, 9, 15, 0, 0, 0, 0, time.UTC)

func months() []models.Month {
	return []models.Month{
		{Label: "July 2019", MonthYearSort: 201907},
		{Label: "August 2019", MonthYearSort: 201908},
		{Label: "September 2019", MonthYearSort: 201909},
	}
}

func groupedRows(t *testing.T) []models.GroupedSale {
	t.Helper()
	rows := []models.Sale{
		{OrderDate: time.Date(2019, 7, 3, 0, 0, 0, 0, time.UTC), City: "NYC", ProductType: "A", QuantityOrdered: 1, Price: "10.10"},
		{OrderDate: time.Date(2019, 7, 3, 0, 0, 0, 0, time.UTC), City: "Boston", ProductType: "A", QuantityOrdered: 1, Price: "5.05"},
		{OrderDate: time.Date(2019, 7, 9, 0, 0, 0, 0, time.UTC), City: "NYC", ProductType: "B", QuantityOrdered: 1, Price: "1,000"},
		{OrderDate: time.Date(2019, 9, 1, 0, 0, 0, 0, time.UTC), City: "NYC", ProductType: "A", QuantityOrdered: 1, Price: "2.50"},
	}
	grouped, err := sales.ComputeGroupedSales(rows, refDate)
	require.NoError(t, err)
	return grouped
}

func TestPalette_MonthColors(t *testing.T) {
	colors := DefaultPalette.MonthColors(months(), refDate)
	assert.Equal(t, map[string]string{
		"July 2019":      "grey",
		"August 2019":    "orange",
		"September 2019": "red",
	}, colors)
}

func TestPalette_MonthColors_JanuaryReference(t *testing.T) {
	ms := []models.Month{
		{Label: "November 2018", MonthYearSort: 201811},
		{Label: "December 2018", MonthYearSort: 201812},
		{Label: "January 2019", MonthYearSort: 201901},
	}
	colors := DefaultPalette.MonthColors(ms, time.Date(2019, 1, 20, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, "grey", colors["November 2018"])
	assert.Equal(t, "orange", colors["December 2018"])
	assert.Equal(t, "red", colors["January 2019"])
}

func TestHistogramFacets(t *testing.T) {
	facets := HistogramFacets(groupedRows(t), []string{"A", "B"}, months(), refDate, DefaultPalette)

	require.Len(t, facets, 2)
	assert.Equal(t, "A", facets[0].ProductType)
	assert.Equal(t, []HistogramBar{
		{Month: "July 2019", Price: 15.15, Color: "grey"},
		{Month: "August 2019", Price: 0, Color: "orange"},
		{Month: "September 2019", Price: 2.5, Color: "red"},
	}, facets[0].Bars)

	assert.Equal(t, "B", facets[1].ProductType)
	assert.Equal(t, 1000.0, facets[1].Bars[0].Price)
	assert.Equal(t, 0.0, facets[1].Bars[2].Price)
}

func TestCumulativeSeries(t *testing.T) {
	cumulative := sales.ComputeCumulativeSales(groupedRows(t))
	series := CumulativeSeries(cumulative, months(), refDate, DefaultPalette)

	require.Len(t, series, 2, "August has no rows")
	assert.Equal(t, LineSeries{
		Month:  "July 2019",
		Color:  "grey",
		Points: []LinePoint{{Day: 3, Value: 15.15}, {Day: 9, Value: 1015.15}},
	}, series[0])
	assert.Equal(t, "September 2019", series[1].Month)
	assert.Equal(t, "red", series[1].Color)
	assert.Equal(t, []LinePoint{{Day: 1, Value: 2.5}}, series[1].Points)
}

func TestNewHistogramPage_Render(t *testing.T) {
	facets := HistogramFacets(groupedRows(t), []string{"A", "B"}, months(), refDate, DefaultPalette)
	page := NewHistogramPage(facets)

	var buf bytes.Buffer
	require.NoError(t, page.Render(&buf))

	html := buf.String()
	assert.Contains(t, html, "histogram_0_A")
	assert.Contains(t, html, "histogram_1_B")
	assert.Contains(t, html, "September 2019")
	assert.Contains(t, html, "red")
	assert.Contains(t, html, "orange")
}

func TestNewCumulativeLine_Render(t *testing.T) {
	cumulative := sales.ComputeCumulativeSales(groupedRows(t))
	line := NewCumulativeLine(CumulativeSeries(cumulative, months(), refDate, DefaultPalette))

	var buf bytes.Buffer
	require.NoError(t, line.Render(&buf))

	html := buf.String()
	assert.Contains(t, html, "cumulative_sales")
	assert.Contains(t, html, "July 2019")
	assert.Contains(t, html, "1015.15")
}

func TestChartID(t *testing.T) {
	assert.Equal(t, "USB_C_Cable", chartID("USB-C Cable"))
}
