package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/starfederation/datastar-go/datastar"

	"exec-dashboard/internal/errors"
	"exec-dashboard/internal/services"
	"exec-dashboard/internal/ui/templates"
)

type SSEHandlers struct {
	analytics *services.Analytics
	logger    *slog.Logger
}

func NewSSEHandlers(analytics *services.Analytics, logger *slog.Logger) *SSEHandlers {
	return &SSEHandlers{
		analytics: analytics,
		logger:    logger,
	}
}

type dashboardSignals struct {
	City string `json:"city"`
}

// readSignals takes the city from the datastar signals, falling back to the
// ?city= query parameter for plain links.
func readSignals(r *http.Request) (dashboardSignals, error) {
	var signals dashboardSignals
	if err := datastar.ReadSignals(r, &signals); err != nil {
		return signals, errors.BadRequestWrap(err, "invalid datastar signals")
	}
	if signals.City == "" {
		signals.City = r.URL.Query().Get("city")
	}
	if err := validateCity(signals.City); err != nil {
		return signals, err
	}
	signals.City = services.NormalizeCity(signals.City)
	return signals, nil
}

func (h *SSEHandlers) renderFragment(ctx context.Context, view services.View) (string, error) {
	var buf strings.Builder
	err := templates.Fragment(view).Render(ctx, &buf)
	return buf.String(), err
}

// HandleDashboard patches the title, KPI strip and chart frames for the
// selected city.
func (h *SSEHandlers) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	signals, err := readSignals(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	view, err := h.analytics.Dashboard(signals.City)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	html, err := h.renderFragment(r.Context(), view)
	if err != nil {
		writeError(w, r, h.logger, errors.InternalWrap(err, "render dashboard"))
		return
	}

	sse := datastar.NewSSE(w, r)

	if err := sse.PatchElements(html); err != nil {
		h.logger.Error("patch dashboard elements", "error", err, "city", view.City)
		return
	}

	jsonData, err := json.Marshal(dashboardSignals{City: view.City})
	if err != nil {
		h.logger.Error("marshal city signal", "error", err)
		return
	}
	if err := sse.PatchSignals(jsonData); err != nil {
		h.logger.Error("patch city signal", "error", err, "city", view.City)
		return
	}

	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
}
