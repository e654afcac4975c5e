package charts

import (
	"strconv"
	"strings"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
)

const (
	chartHeightPx = 700
	chartWidth    = "100%"
)

// NewHistogramPage renders one bar chart per facet, stacked vertically,
// splitting the overall height between them.
func NewHistogramPage(facets []HistogramFacet) *components.Page {
	page := components.NewPage()
	page.PageTitle = "Orders by month"
	page.SetLayout(components.PageFlexLayout)

	height := heightPx(chartHeightPx)
	if n := len(facets); n > 1 {
		height = heightPx(chartHeightPx / n)
	}

	for i, facet := range facets {
		page.AddCharts(newFacetBar(i, facet, height))
	}
	return page
}

func newFacetBar(i int, facet HistogramFacet, height string) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			Width:   chartWidth,
			Height:  height,
			ChartID: "histogram_" + strconv.Itoa(i) + "_" + chartID(facet.ProductType),
		}),
		charts.WithTitleOpts(opts.Title{Title: facet.ProductType}),
		charts.WithAnimation(false),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(false)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithYAxisOpts(opts.YAxis{
			AxisLabel: &opts.AxisLabel{Show: opts.Bool(false)},
		}),
	)

	labels := make([]string, 0, len(facet.Bars))
	data := make([]opts.BarData, 0, len(facet.Bars))
	for _, b := range facet.Bars {
		labels = append(labels, b.Month)
		data = append(data, opts.BarData{
			Name:      b.Month,
			Value:     b.Price,
			ItemStyle: &opts.ItemStyle{Color: b.Color},
		})
	}
	bar.SetXAxis(labels).AddSeries("Price", data)
	return bar
}

// NewCumulativeLine plots cumulative price against day of month, one line
// per month, without a legend.
func NewCumulativeLine(series []LineSeries) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: "Cumulative sales by day",
			Width:     chartWidth,
			Height:    heightPx(chartHeightPx),
			ChartID:   "cumulative_sales",
		}),
		charts.WithAnimation(false),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(false)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Order Day", Type: "value", Min: 1, Max: 31}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Cumulative Price"}),
	)

	for _, s := range series {
		data := make([]opts.LineData, 0, len(s.Points))
		for _, p := range s.Points {
			data = append(data, opts.LineData{Value: []any{p.Day, p.Value}})
		}
		line.AddSeries(s.Month, data,
			charts.WithLineStyleOpts(opts.LineStyle{Color: s.Color}),
			charts.WithItemStyleOpts(opts.ItemStyle{Color: s.Color}),
		)
	}
	return line
}

func heightPx(px int) string {
	return strconv.Itoa(px) + "px"
}

// chartID reduces s to characters that are valid in a JavaScript identifier,
// since go-echarts names the chart instance after it.
func chartID(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		default:
			return '_'
		}
	}, s)
}
