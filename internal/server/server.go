package server

import (
	"log/slog"
	"net/http"

	"invensmart/internal/analytics"
	"invensmart/internal/handlers"
)

type Server struct {
	mux         *http.ServeMux
	logger      *slog.Logger
	apiHandlers *handlers.APIHandlers
	sseHandlers *handlers.SSEHandlers
}

type TemplateHandlers struct {
	Dashboard http.HandlerFunc
}

func NewServer(svc *analytics.Service, logger *slog.Logger, templateHandlers *TemplateHandlers) *Server {
	s := &Server{
		mux:         http.NewServeMux(),
		logger:      logger,
		apiHandlers: handlers.NewAPIHandlers(svc, logger),
		sseHandlers: handlers.NewSSEHandlers(svc, logger),
	}
	s.setupRoutes(templateHandlers)
	return s
}

func (s *Server) setupRoutes(templateHandlers *TemplateHandlers) {
	// Dashboard page
	s.mux.HandleFunc("GET /{$}", templateHandlers.Dashboard)
	s.mux.HandleFunc("GET /health", s.apiHandlers.HandleHealth)
	s.mux.HandleFunc("GET /admin/stats", s.apiHandlers.HandleStats)

	// REST API endpoints
	s.mux.HandleFunc("GET /api/categories", s.apiHandlers.HandleCategories)
	s.mux.HandleFunc("GET /api/kpis", s.apiHandlers.HandleKPIs)
	s.mux.HandleFunc("GET /api/sales-over-time", s.apiHandlers.HandleSalesOverTime)
	s.mux.HandleFunc("GET /api/category-breakdown", s.apiHandlers.HandleCategoryBreakdown)
	s.mux.HandleFunc("GET /api/sales-histogram", s.apiHandlers.HandleSalesHistogram)
	s.mux.HandleFunc("GET /api/product-matrix", s.apiHandlers.HandleProductMatrix)
	s.mux.HandleFunc("GET /api/insights", s.apiHandlers.HandleInsights)
	s.mux.HandleFunc("GET /api/category-metrics", s.apiHandlers.HandleCategoryMetrics)
	s.mux.HandleFunc("GET /api/recommendations", s.apiHandlers.HandleRecommendations)
	s.mux.HandleFunc("POST /api/feedback", s.apiHandlers.HandleFeedback)

	// Datastar SSE endpoints
	s.mux.HandleFunc("GET /sse/dashboard", s.sseHandlers.HandleDashboard)
	s.mux.HandleFunc("GET /sse/insights", s.sseHandlers.HandleInsights)
	s.mux.HandleFunc("GET /sse/recommendations", s.sseHandlers.HandleRecommendations)
	s.mux.HandleFunc("GET /sse/refresh-all", s.sseHandlers.HandleRefreshAll)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}
