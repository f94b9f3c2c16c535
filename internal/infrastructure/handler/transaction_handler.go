package handler

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/Fede1082/BudgetFlow/internal/application/service"
	"github.com/Fede1082/BudgetFlow/internal/infrastructure/logger"
	"github.com/Fede1082/BudgetFlow/internal/infrastructure/middleware"
	"github.com/gorilla/mux"
)

const dateLayout = "2006-01-02"

// TransactionHandler handles HTTP requests for transactions
type TransactionHandler struct {
	service *service.TransactionService
	logger  logger.Logger
}

// NewTransactionHandler creates a new transaction handler
func NewTransactionHandler(service *service.TransactionService, log logger.Logger) *TransactionHandler {
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	return &TransactionHandler{
		service: service,
		logger:  log,
	}
}

// ListTransactions handles listing transactions, optionally filtered by
// category or by an inclusive date range. A category filter wins over a
// date range when both are present; a range needs both bounds.
func (h *TransactionHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	query := r.URL.Query()
	category := query.Get("category")
	startDate := query.Get("startDate")
	endDate := query.Get("endDate")

	if category != "" {
		transactions, err := h.service.FindByCategory(r.Context(), category)
		if err != nil {
			sendServiceError(w, h.logger, err, requestID)
			return
		}
		sendJSON(w, http.StatusOK, newTransactionListResponse(transactions))
		return
	}

	if (startDate != "") != (endDate != "") {
		sendErrorResponse(w, h.logger, "Incomplete date range",
			"startDate and endDate must be provided together", http.StatusBadRequest, requestID)
		return
	}

	if startDate != "" && endDate != "" {
		start, err := time.Parse(dateLayout, startDate)
		if err != nil {
			sendErrorResponse(w, h.logger, "Invalid date format",
				"startDate must be in YYYY-MM-DD format", http.StatusBadRequest, requestID)
			return
		}
		end, err := time.Parse(dateLayout, endDate)
		if err != nil {
			sendErrorResponse(w, h.logger, "Invalid date format",
				"endDate must be in YYYY-MM-DD format", http.StatusBadRequest, requestID)
			return
		}

		transactions, err := h.service.FindByDateRange(r.Context(), start, end)
		if err != nil {
			sendServiceError(w, h.logger, err, requestID)
			return
		}
		sendJSON(w, http.StatusOK, newTransactionListResponse(transactions))
		return
	}

	transactions, err := h.service.ListTransactions(r.Context())
	if err != nil {
		sendServiceError(w, h.logger, err, requestID)
		return
	}

	sendJSON(w, http.StatusOK, newTransactionListResponse(transactions))
}

// GetTransaction handles retrieving a transaction by ID
func (h *TransactionHandler) GetTransaction(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	id := mux.Vars(r)["id"]

	tx, err := h.service.GetTransaction(r.Context(), id)
	if err != nil {
		sendServiceError(w, h.logger, err, requestID)
		return
	}

	sendJSON(w, http.StatusOK, newTransactionResponse(tx))
}

// CreateTransaction handles the creation of a new transaction
func (h *TransactionHandler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	h.logger.Info("Handling create transaction request", map[string]interface{}{
		"request_id": requestID,
		"method":     r.Method,
		"path":       r.URL.Path,
	})

	var req CreateTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("Invalid request body", map[string]interface{}{
			"request_id": requestID,
			"error":      err.Error(),
		})
		sendErrorResponse(w, h.logger, "Invalid request body",
			"The request body could not be parsed as valid JSON", http.StatusBadRequest, requestID)
		return
	}

	if strings.TrimSpace(req.Title) == "" {
		sendErrorResponse(w, h.logger, "Missing title",
			"Title must not be empty", http.StatusBadRequest, requestID)
		return
	}

	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		h.logger.Warn("Invalid date format", map[string]interface{}{
			"request_id": requestID,
			"date":       req.Date,
			"error":      err.Error(),
		})
		sendErrorResponse(w, h.logger, "Invalid date format",
			"Date must be in YYYY-MM-DD format", http.StatusBadRequest, requestID)
		return
	}

	tx, err := h.service.CreateTransaction(r.Context(), service.CreateTransactionInput{
		Title:     req.Title,
		Amount:    req.Amount,
		Date:      date,
		Category:  req.Category,
		Notes:     req.Notes,
		AccountID: req.AccountID,
	})
	if err != nil {
		sendServiceError(w, h.logger, err, requestID)
		return
	}

	sendJSON(w, http.StatusCreated, newTransactionResponse(tx))
}

// UpdateTransaction handles a partial transaction update
func (h *TransactionHandler) UpdateTransaction(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	id := mux.Vars(r)["id"]

	var req UpdateTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendErrorResponse(w, h.logger, "Invalid request body",
			"The request body could not be parsed as valid JSON", http.StatusBadRequest, requestID)
		return
	}

	if req.Title != nil && strings.TrimSpace(*req.Title) == "" {
		sendErrorResponse(w, h.logger, "Missing title",
			"Title must not be empty", http.StatusBadRequest, requestID)
		return
	}

	in := service.UpdateTransactionInput{
		Title:     req.Title,
		Amount:    req.Amount,
		Category:  req.Category,
		Notes:     req.Notes,
		AccountID: req.AccountID,
	}
	if req.Date != nil {
		date, err := time.Parse(dateLayout, *req.Date)
		if err != nil {
			sendErrorResponse(w, h.logger, "Invalid date format",
				"Date must be in YYYY-MM-DD format", http.StatusBadRequest, requestID)
			return
		}
		in.Date = &date
	}

	tx, err := h.service.UpdateTransaction(r.Context(), id, in)
	if err != nil {
		sendServiceError(w, h.logger, err, requestID)
		return
	}

	sendJSON(w, http.StatusOK, newTransactionResponse(tx))
}

// DeleteTransaction handles removing a transaction
func (h *TransactionHandler) DeleteTransaction(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	id := mux.Vars(r)["id"]

	if err := h.service.DeleteTransaction(r.Context(), id); err != nil {
		sendServiceError(w, h.logger, err, requestID)
		return
	}

	sendJSON(w, http.StatusOK, DeleteResponse{
		Success: true,
		Message: "Transaction deleted successfully",
	})
}

// RegisterRoutes registers the transaction handler routes
func (h *TransactionHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/transactions", h.ListTransactions).Methods("GET")
	router.HandleFunc("/transactions/{id}", h.GetTransaction).Methods("GET")
	router.HandleFunc("/transactions", h.CreateTransaction).Methods("POST")
	router.HandleFunc("/transactions/{id}", h.UpdateTransaction).Methods("PUT")
	router.HandleFunc("/transactions/{id}", h.DeleteTransaction).Methods("DELETE")

	h.logger.Info("Transaction routes registered", map[string]interface{}{
		"routes": []string{
			"GET /transactions",
			"GET /transactions/{id}",
			"POST /transactions",
			"PUT /transactions/{id}",
			"DELETE /transactions/{id}",
		},
	})
}
