package handler

import (
	"net/http"
	"time"

	"github.com/Fede1082/BudgetFlow/internal/application/service"
	"github.com/Fede1082/BudgetFlow/internal/infrastructure/logger"
	"github.com/Fede1082/BudgetFlow/internal/infrastructure/middleware"
	"github.com/gorilla/mux"
)

// StatsHandler handles HTTP requests for derived statistics
type StatsHandler struct {
	service *service.StatsService
	logger  logger.Logger
}

// NewStatsHandler creates a new stats handler
func NewStatsHandler(service *service.StatsService, log logger.Logger) *StatsHandler {
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	return &StatsHandler{
		service: service,
		logger:  log,
	}
}

// GetSummary handles the aggregate totals endpoint
func (h *StatsHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	summary, err := h.service.GetSummary(r.Context())
	if err != nil {
		sendServiceError(w, h.logger, err, requestID)
		return
	}

	sendJSON(w, http.StatusOK, summary)
}

// GetSpendingByCategory handles the category breakdown endpoint
func (h *StatsHandler) GetSpendingByCategory(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	spending, err := h.service.GetSpendingByCategory(r.Context())
	if err != nil {
		sendServiceError(w, h.logger, err, requestID)
		return
	}

	sendJSON(w, http.StatusOK, spending)
}

// GetMonthlySummary handles the monthly aggregate endpoint. The optional
// month query parameter accepts YYYY-MM or a full date; it defaults to the
// current month.
func (h *StatsHandler) GetMonthlySummary(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	month := time.Now().UTC()
	if v := r.URL.Query().Get("month"); v != "" {
		parsed, err := parseMonth(v)
		if err != nil {
			h.logger.Warn("Invalid month parameter", map[string]interface{}{
				"request_id": requestID,
				"month":      v,
			})
			sendErrorResponse(w, h.logger, "Invalid month format",
				"Month must be in YYYY-MM format", http.StatusBadRequest, requestID)
			return
		}
		month = parsed
	}

	summary, err := h.service.GetMonthlySummary(r.Context(), month)
	if err != nil {
		sendServiceError(w, h.logger, err, requestID)
		return
	}

	sendJSON(w, http.StatusOK, summary)
}

// parseMonth accepts a calendar month, optionally with a day component
func parseMonth(v string) (time.Time, error) {
	if t, err := time.Parse("2006-01", v); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", v)
}

// RegisterRoutes registers the stats handler routes
func (h *StatsHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/stats/summary", h.GetSummary).Methods("GET")
	router.HandleFunc("/stats/spending-by-category", h.GetSpendingByCategory).Methods("GET")
	router.HandleFunc("/stats/monthly-summary", h.GetMonthlySummary).Methods("GET")

	h.logger.Info("Stats routes registered", map[string]interface{}{
		"routes": []string{
			"GET /stats/summary",
			"GET /stats/spending-by-category",
			"GET /stats/monthly-summary",
		},
	})
}
