package handlers

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"time"

	"exec-dashboard/internal/errors"
	"exec-dashboard/internal/services"
	"exec-dashboard/internal/ui/templates"
)

const renderTimeout = 10 * time.Second

type PageHandlers struct {
	analytics *services.Analytics
	logger    *slog.Logger
}

func NewPageHandlers(analytics *services.Analytics, logger *slog.Logger) *PageHandlers {
	return &PageHandlers{
		analytics: analytics,
		logger:    logger,
	}
}

// HandleDashboard renders the full page for ?city=, defaulting to all cities.
func (h *PageHandlers) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), renderTimeout)
	defer cancel()

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

	var buf bytes.Buffer
	if err := templates.Dashboard(view).Render(ctx, &buf); err != nil {
		writeError(w, r, h.logger, errors.InternalWrap(err, "render dashboard"))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", cacheMaxAge)
	_, _ = buf.WriteTo(w)
}
