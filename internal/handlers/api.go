package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"exec-dashboard/internal/errors"
	"exec-dashboard/internal/format"
	"exec-dashboard/internal/models"
	"exec-dashboard/internal/services"
)

const version = "1.0.0"

type APIHandlers struct {
	analytics *services.Analytics
	logger    *slog.Logger
}

func NewAPIHandlers(analytics *services.Analytics, logger *slog.Logger) *APIHandlers {
	return &APIHandlers{
		analytics: analytics,
		logger:    logger,
	}
}

func (h *APIHandlers) HandleCities(w http.ResponseWriter, r *http.Request) {
	cities, err := h.analytics.Cities()
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	h.writeCached(w, cities)
}

func (h *APIHandlers) HandleProductTypes(w http.ResponseWriter, r *http.Request) {
	productTypes, err := h.analytics.ProductTypes()
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	h.writeCached(w, productTypes)
}

func (h *APIHandlers) HandleMonths(w http.ResponseWriter, r *http.Request) {
	months, err := h.analytics.Months()
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	h.writeCached(w, months)
}

func (h *APIHandlers) HandleGroupedSales(w http.ResponseWriter, r *http.Request) {
	view, ok := h.view(w, r)
	if !ok {
		return
	}
	h.writeCached(w, view.Sales)
}

func (h *APIHandlers) HandleCumulativeSales(w http.ResponseWriter, r *http.Request) {
	view, ok := h.view(w, r)
	if !ok {
		return
	}
	h.writeCached(w, view.Cumulative)
}

// KPIResponse carries the raw KPI values next to their display strings.
type KPIResponse struct {
	City          string            `json:"city"`
	Title         string            `json:"title"`
	KPIs          models.KPIs       `json:"kpis"`
	Display       map[string]string `json:"display"`
	EffectiveAsAt string            `json:"effective_as_at"`
}

func (h *APIHandlers) HandleKPIs(w http.ResponseWriter, r *http.Request) {
	view, ok := h.view(w, r)
	if !ok {
		return
	}

	h.writeCached(w, KPIResponse{
		City:  view.City,
		Title: view.Title,
		KPIs:  view.KPIs,
		Display: map[string]string{
			"YTD Sales $":   format.Metric(view.KPIs.SalesYTD),
			"YTD Sales Qty": format.MetricInt(view.KPIs.QuantityYTD),
			"MTD Sales $":   format.Metric(view.KPIs.SalesMTD),
			"MTD Sales Qty": format.MetricInt(view.KPIs.QuantityMTD),
		},
		EffectiveAsAt: format.FooterDate(view.ReferenceDate),
	})
}

func (h *APIHandlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	status := "healthy"
	if h.analytics.Snapshot() == nil {
		status = "loading"
	}

	errors.WriteSuccess(w, map[string]string{
		"status":    status,
		"timestamp": time.Now().Format(time.RFC3339),
		"version":   version,
	})
}

func (h *APIHandlers) HandleStats(w http.ResponseWriter, r *http.Request) {
	errors.WriteSuccess(w, h.analytics.Stats())
}

func (h *APIHandlers) view(w http.ResponseWriter, r *http.Request) (services.View, bool) {
	city, err := cityParam(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return services.View{}, false
	}
	view, err := h.analytics.Dashboard(city)
	if err != nil {
		writeError(w, r, h.logger, err)
		return services.View{}, false
	}
	return view, true
}

func (h *APIHandlers) writeCached(w http.ResponseWriter, data any) {
	errors.WriteSuccessWithHeaders(w, data, map[string]string{
		"Cache-Control": cacheMaxAge,
	})
}
