package server

import (
	"log/slog"
	"net/http"

	"exec-dashboard/internal/handlers"
	"exec-dashboard/internal/services"
)

type Server struct {
	analytics     *services.Analytics
	mux           *http.ServeMux
	logger        *slog.Logger
	apiHandlers   *handlers.APIHandlers
	sseHandlers   *handlers.SSEHandlers
	chartHandlers *handlers.ChartHandlers
}

type TemplateHandlers struct {
	Dashboard http.HandlerFunc
}

func NewServer(analytics *services.Analytics, logger *slog.Logger, templateHandlers *TemplateHandlers) *Server {
	s := &Server{
		analytics:     analytics,
		mux:           http.NewServeMux(),
		logger:        logger,
		apiHandlers:   handlers.NewAPIHandlers(analytics, logger),
		sseHandlers:   handlers.NewSSEHandlers(analytics, logger),
		chartHandlers: handlers.NewChartHandlers(analytics, logger),
	}
	s.setupRoutes(templateHandlers)
	return s
}

func (s *Server) setupRoutes(templateHandlers *TemplateHandlers) {
	// Dashboard routes
	s.mux.HandleFunc("GET /{$}", templateHandlers.Dashboard)
	s.mux.HandleFunc("GET /health", s.apiHandlers.HandleHealth)
	s.mux.HandleFunc("GET /admin/stats", s.apiHandlers.HandleStats)

	// Chart pages framed by the dashboard
	s.mux.HandleFunc("GET /charts/{kind}", s.chartHandlers.HandleChart)

	// REST API endpoints
	s.mux.HandleFunc("GET /api/cities", s.apiHandlers.HandleCities)
	s.mux.HandleFunc("GET /api/product-types", s.apiHandlers.HandleProductTypes)
	s.mux.HandleFunc("GET /api/months", s.apiHandlers.HandleMonths)
	s.mux.HandleFunc("GET /api/grouped-sales", s.apiHandlers.HandleGroupedSales)
	s.mux.HandleFunc("GET /api/cumulative-sales", s.apiHandlers.HandleCumulativeSales)
	s.mux.HandleFunc("GET /api/kpis", s.apiHandlers.HandleKPIs)

	// Datastar SSE endpoints
	s.mux.HandleFunc("GET /sse/dashboard", s.sseHandlers.HandleDashboard)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}
