// Package templates renders the dashboard HTML as templ components.
//
//go:generate go run github.com/a-h/templ/cmd/templ@v0.3.943 generate
package templates

import (
	"net/url"

	"exec-dashboard/internal/format"
	"exec-dashboard/internal/models"
)

// Element ids patched by the SSE dashboard endpoint.
const (
	TitleID  = "dashboard-title"
	KPIsID   = "kpis"
	ChartsID = "charts"
)

type kpiCard struct {
	label string
	value string
}

func kpiCards(k models.KPIs) []kpiCard {
	return []kpiCard{
		{"YTD Sales $", format.Metric(k.SalesYTD)},
		{"YTD Sales Qty", format.MetricInt(k.QuantityYTD)},
		{"MTD Sales $", format.Metric(k.SalesMTD)},
		{"MTD Sales Qty", format.MetricInt(k.QuantityMTD)},
	}
}

// chartURL addresses a chart page for city. The all-cities sentinel keeps
// its leading spaces, encoded as plus signs.
func chartURL(kind, city string) string {
	return "/charts/" + kind + "?" + url.Values{"city": {city}}.Encode()
}
