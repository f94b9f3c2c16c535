package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/Fede1082/BudgetFlow/internal/application/service"
	"github.com/Fede1082/BudgetFlow/internal/infrastructure/logger"
	"github.com/Fede1082/BudgetFlow/internal/infrastructure/middleware"
	"github.com/gorilla/mux"
)

// AccountHandler handles HTTP requests for accounts
type AccountHandler struct {
	service *service.AccountService
	logger  logger.Logger
}

// NewAccountHandler creates a new account handler
func NewAccountHandler(service *service.AccountService, log logger.Logger) *AccountHandler {
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	return &AccountHandler{
		service: service,
		logger:  log,
	}
}

// ListAccounts handles listing all accounts, newest first
func (h *AccountHandler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	accounts, err := h.service.ListAccounts(r.Context())
	if err != nil {
		sendServiceError(w, h.logger, err, requestID)
		return
	}

	resp := make([]AccountResponse, len(accounts))
	for i, a := range accounts {
		resp[i] = newAccountResponse(a)
	}

	sendJSON(w, http.StatusOK, resp)
}

// GetTotalBalance handles the total balance aggregate
func (h *AccountHandler) GetTotalBalance(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	total, err := h.service.TotalBalance(r.Context())
	if err != nil {
		sendServiceError(w, h.logger, err, requestID)
		return
	}

	sendJSON(w, http.StatusOK, TotalBalanceResponse{TotalBalance: total})
}

// GetAccount handles retrieving an account by ID
func (h *AccountHandler) GetAccount(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	id := mux.Vars(r)["id"]

	account, err := h.service.GetAccount(r.Context(), id)
	if err != nil {
		sendServiceError(w, h.logger, err, requestID)
		return
	}

	sendJSON(w, http.StatusOK, newAccountResponse(account))
}

// CreateAccount handles the creation of a new account
func (h *AccountHandler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	h.logger.Info("Handling create account request", map[string]interface{}{
		"request_id": requestID,
		"method":     r.Method,
		"path":       r.URL.Path,
	})

	var req CreateAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("Invalid request body", map[string]interface{}{
			"request_id": requestID,
			"error":      err.Error(),
		})
		sendErrorResponse(w, h.logger, "Invalid request body",
			"The request body could not be parsed as valid JSON", http.StatusBadRequest, requestID)
		return
	}

	if strings.TrimSpace(req.Name) == "" {
		sendErrorResponse(w, h.logger, "Missing account name",
			"Name must not be empty", http.StatusBadRequest, requestID)
		return
	}

	account, err := h.service.CreateAccount(r.Context(), service.CreateAccountInput{
		Name:     req.Name,
		Type:     req.Type,
		Balance:  req.Balance,
		Currency: req.Currency,
	})
	if err != nil {
		sendServiceError(w, h.logger, err, requestID)
		return
	}

	sendJSON(w, http.StatusCreated, newAccountResponse(account))
}

// UpdateAccount handles a partial account update
func (h *AccountHandler) UpdateAccount(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	id := mux.Vars(r)["id"]

	var req UpdateAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendErrorResponse(w, h.logger, "Invalid request body",
			"The request body could not be parsed as valid JSON", http.StatusBadRequest, requestID)
		return
	}

	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		sendErrorResponse(w, h.logger, "Missing account name",
			"Name must not be empty", http.StatusBadRequest, requestID)
		return
	}

	account, err := h.service.UpdateAccount(r.Context(), id, service.UpdateAccountInput{
		Name:     req.Name,
		Type:     req.Type,
		Balance:  req.Balance,
		Currency: req.Currency,
	})
	if err != nil {
		sendServiceError(w, h.logger, err, requestID)
		return
	}

	sendJSON(w, http.StatusOK, newAccountResponse(account))
}

// DeleteAccount handles removing an account
func (h *AccountHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	id := mux.Vars(r)["id"]

	if err := h.service.DeleteAccount(r.Context(), id); err != nil {
		sendServiceError(w, h.logger, err, requestID)
		return
	}

	sendJSON(w, http.StatusOK, DeleteResponse{
		Success: true,
		Message: "Account deleted successfully",
	})
}

// RegisterRoutes registers the account handler routes. The total-balance
// route must precede the {id} route.
func (h *AccountHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/accounts", h.ListAccounts).Methods("GET")
	router.HandleFunc("/accounts/total-balance", h.GetTotalBalance).Methods("GET")
	router.HandleFunc("/accounts/{id}", h.GetAccount).Methods("GET")
	router.HandleFunc("/accounts", h.CreateAccount).Methods("POST")
	router.HandleFunc("/accounts/{id}", h.UpdateAccount).Methods("PUT")
	router.HandleFunc("/accounts/{id}", h.DeleteAccount).Methods("DELETE")

	h.logger.Info("Account routes registered", map[string]interface{}{
		"routes": []string{
			"GET /accounts",
			"GET /accounts/total-balance",
			"GET /accounts/{id}",
			"POST /accounts",
			"PUT /accounts/{id}",
			"DELETE /accounts/{id}",
		},
	})
}
