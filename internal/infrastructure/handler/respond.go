package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Fede1082/BudgetFlow/internal/domain/entity"
	"github.com/Fede1082/BudgetFlow/internal/domain/repository"
	"github.com/Fede1082/BudgetFlow/internal/infrastructure/logger"
)

// sendJSON writes a JSON response with the given status code
func sendJSON(w http.ResponseWriter, statusCode int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(body)
}

// sendErrorResponse sends a standardized error response
func sendErrorResponse(w http.ResponseWriter, log logger.Logger, message, description string, statusCode int, requestID string) {
	resp := ErrorResponse{
		Error:       message,
		Status:      statusCode,
		Description: description,
		RequestID:   requestID,
	}

	log.Debug("Sending error response", map[string]interface{}{
		"request_id":  requestID,
		"status_code": statusCode,
		"message":     message,
	})

	sendJSON(w, statusCode, resp)
}

// sendServiceError maps service-layer errors onto HTTP responses: the
// not-found sentinels become 404s, validation failures 400s, anything
// else a 500.
func sendServiceError(w http.ResponseWriter, log logger.Logger, err error, requestID string) {
	var invalid *entity.ValidationError

	switch {
	case errors.As(err, &invalid):
		sendErrorResponse(w, log, "Validation failed",
			invalid.Reason, http.StatusBadRequest, requestID)
	case errors.Is(err, repository.ErrAccountNotFound):
		sendErrorResponse(w, log, "Account not found",
			"The requested account could not be found", http.StatusNotFound, requestID)
	case errors.Is(err, repository.ErrTransactionNotFound):
		sendErrorResponse(w, log, "Transaction not found",
			"The requested transaction could not be found", http.StatusNotFound, requestID)
	default:
		log.Error("Unexpected service error", map[string]interface{}{
			"request_id": requestID,
			"error":      err.Error(),
		})
		sendErrorResponse(w, log, "Internal server error",
			"An unexpected error occurred while processing the request",
			http.StatusInternalServerError, requestID)
	}
}
