package handlers

import (
	"io"
	"log/slog"
	"net/http"

	"exec-dashboard/internal/charts"
	"exec-dashboard/internal/errors"
	"exec-dashboard/internal/services"
)

// renderer is satisfied by both go-echarts charts and pages.
type renderer interface {
	Render(w io.Writer) error
}

type ChartHandlers struct {
	analytics *services.Analytics
	logger    *slog.Logger
	palette   charts.Palette
}

func NewChartHandlers(analytics *services.Analytics, logger *slog.Logger) *ChartHandlers {
	return &ChartHandlers{
		analytics: analytics,
		logger:    logger,
		palette:   charts.DefaultPalette,
	}
}

// HandleChart renders /charts/{kind} as a standalone HTML page for the
// dashboard to frame.
func (h *ChartHandlers) HandleChart(w http.ResponseWriter, r *http.Request) {
	kind := r.PathValue("kind")
	if kind != "histogram" && kind != "cumulative" {
		writeError(w, r, h.logger, errors.NotFound("unknown chart "+kind))
		return
	}

	city, err := cityParam(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	view, err := h.analytics.Dashboard(city)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	var chart renderer
	switch kind {
	case "histogram":
		chart = charts.NewHistogramPage(charts.HistogramFacets(view.Sales, view.ProductTypes, view.Months, view.ReferenceDate, h.palette))
	case "cumulative":
		chart = charts.NewCumulativeLine(charts.CumulativeSeries(view.Cumulative, view.Months, view.ReferenceDate, h.palette))
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", cacheMaxAge)
	if err := chart.Render(w); err != nil {
		h.logger.Error("render chart", "error", err, "chart", kind, "city", city)
	}
}
