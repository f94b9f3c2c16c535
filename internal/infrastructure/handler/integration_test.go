// internal/infrastructure/handler/integration_test.go
package handler_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Fede1082/BudgetFlow/internal/application/service"
	"github.com/Fede1082/BudgetFlow/internal/infrastructure/cache"
	"github.com/Fede1082/BudgetFlow/internal/infrastructure/db"
	"github.com/Fede1082/BudgetFlow/internal/infrastructure/handler"
	"github.com/Fede1082/BudgetFlow/internal/infrastructure/middleware"
	"github.com/dgraph-io/badger/v3"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestServer wires the full stack against a throwaway BadgerDB
func setupTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	badgerOpts := badger.DefaultOptions(t.TempDir())
	badgerOpts.Logger = nil
	badgerOpts.SyncWrites = false

	badgerDB, err := badger.Open(badgerOpts)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = badgerDB.Close()
	})

	accountRepo := db.NewBadgerAccountRepository(badgerDB)
	txRepo := db.NewBadgerTransactionRepository(badgerDB)
	statsCache := cache.NewStatsCache(time.Minute)

	accountService := service.NewAccountService(accountRepo, nil)
	txService := service.NewTransactionService(txRepo, accountRepo, statsCache, nil)
	statsService := service.NewStatsService(txRepo, statsCache, nil)

	router := mux.NewRouter()
	api := router.PathPrefix("/api").Subrouter()
	handler.NewAccountHandler(accountService, nil).RegisterRoutes(api)
	handler.NewTransactionHandler(txService, nil).RegisterRoutes(api)
	handler.NewStatsHandler(statsService, nil).RegisterRoutes(api)

	server := httptest.NewServer(middleware.RequestIDMiddleware(router))
	t.Cleanup(server.Close)

	return server
}

func doJSON(t *testing.T, method, url string, body string) (*http.Response, map[string]interface{}) {
	t.Helper()

	var reqBody *bytes.Buffer
	if body != "" {
		reqBody = bytes.NewBufferString(body)
	} else {
		reqBody = &bytes.Buffer{}
	}

	req, err := http.NewRequest(method, url, reqBody)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = resp.Body.Close()
	})

	var decoded map[string]interface{}
	_ = json.NewDecoder(resp.Body).Decode(&decoded)
	return resp, decoded
}

func listJSON(t *testing.T, url string) (*http.Response, []map[string]interface{}) {
	t.Helper()

	resp, err := http.Get(url)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = resp.Body.Close()
	})

	var decoded []map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	return resp, decoded
}

func TestAccountLifecycle(t *testing.T) {
	server := setupTestServer(t)
	base := server.URL + "/api"

	// Create with defaults
	resp, account := doJSON(t, "POST", base+"/accounts", `{"name": "Wallet"}`)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "checking", account["type"])
	assert.Equal(t, 0.0, account["balance"])
	assert.Equal(t, "EUR", account["currency"])
	id := account["id"].(string)
	require.NotEmpty(t, id)

	// Fetch it back
	resp, fetched := doJSON(t, "GET", base+"/accounts/"+id, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Wallet", fetched["name"])

	// Partial update: only balance changes
	resp, updated := doJSON(t, "PUT", base+"/accounts/"+id, `{"balance": 250.5}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Wallet", updated["name"], "omitted fields keep prior values")
	assert.Equal(t, 250.5, updated["balance"])
	assert.NotEqual(t, updated["createdAt"], updated["updatedAt"], "updatedAt advances")

	// Missing name on create is rejected
	resp, _ = doJSON(t, "POST", base+"/accounts", `{"type": "savings"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// An over-long name is a client error, not a server failure
	longName := strings.Repeat("n", 101)
	resp, errBody := doJSON(t, "POST", base+"/accounts", fmt.Sprintf(`{"name": %q}`, longName))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Validation failed", errBody["error"])
	assert.Equal(t, "account name must not exceed 100 characters", errBody["description"])

	// Delete
	resp, deleted := doJSON(t, "DELETE", base+"/accounts/"+id, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, deleted["success"])
	assert.Equal(t, "Account deleted successfully", deleted["message"])

	// Gone now
	resp, errBody = doJSON(t, "GET", base+"/accounts/"+id, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Account not found", errBody["error"])
	assert.NotEmpty(t, errBody["request_id"])

	// Deleting again reports not found instead of crashing
	resp, _ = doJSON(t, "DELETE", base+"/accounts/"+id, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestTotalBalance(t *testing.T) {
	server := setupTestServer(t)
	base := server.URL + "/api"

	// Empty store sums to zero
	resp, body := doJSON(t, "GET", base+"/accounts/total-balance", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 0.0, body["totalBalance"])

	_, first := doJSON(t, "POST", base+"/accounts", `{"name": "A", "balance": 100.25}`)
	doJSON(t, "POST", base+"/accounts", `{"name": "B", "balance": -40.25}`)

	_, body = doJSON(t, "GET", base+"/accounts/total-balance", "")
	assert.Equal(t, 60.0, body["totalBalance"])

	// Removing an account subtracts its balance from the total
	doJSON(t, "DELETE", base+"/accounts/"+first["id"].(string), "")
	_, body = doJSON(t, "GET", base+"/accounts/total-balance", "")
	assert.Equal(t, -40.25, body["totalBalance"])
}

func TestTransactionLifecycle(t *testing.T) {
	server := setupTestServer(t)
	base := server.URL + "/api"

	_, account := doJSON(t, "POST", base+"/accounts", `{"name": "Wallet"}`)
	accountID := account["id"].(string)

	// Expense keeps its sign in the response even though storage holds a magnitude
	resp, tx := doJSON(t, "POST", base+"/transactions",
		fmt.Sprintf(`{"title": "Groceries", "amount": -120.5, "date": "2025-11-05", "category": "Food", "accountId": %q}`, accountID))
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, -120.5, tx["amount"])
	assert.Equal(t, "expense", tx["type"])
	assert.Equal(t, "2025-11-05", tx["date"])
	txID := tx["id"].(string)

	// Income is positive
	resp, income := doJSON(t, "POST", base+"/transactions",
		fmt.Sprintf(`{"title": "Salary", "amount": 3000, "date": "2025-11-01", "accountId": %q}`, accountID))
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, 3000.0, income["amount"])
	assert.Equal(t, "income", income["type"])
	assert.Equal(t, "other", income["category"], "category defaults to other")

	// Fetch round-trips the signed amount
	_, fetched := doJSON(t, "GET", base+"/transactions/"+txID, "")
	assert.Equal(t, -120.5, fetched["amount"])

	// Partial update changes only the title
	resp, updated := doJSON(t, "PUT", base+"/transactions/"+txID, `{"title": "Weekly groceries"}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Weekly groceries", updated["title"])
	assert.Equal(t, -120.5, updated["amount"])
	assert.Equal(t, "Food", updated["category"])

	// Invalid date is a 400, not a server error
	resp, _ = doJSON(t, "POST", base+"/transactions", `{"title": "Bad", "amount": 1, "date": "05/11/2025"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// So is an over-long title
	longTitle := strings.Repeat("t", 201)
	resp, errBody := doJSON(t, "POST", base+"/transactions",
		fmt.Sprintf(`{"title": %q, "amount": 1, "date": "2025-11-06"}`, longTitle))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Validation failed", errBody["error"])
	assert.Equal(t, "title must not exceed 200 characters", errBody["description"])

	// Delete
	resp, deleted := doJSON(t, "DELETE", base+"/transactions/"+txID, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, deleted["success"])
	assert.Equal(t, "Transaction deleted successfully", deleted["message"])

	resp, _ = doJSON(t, "GET", base+"/transactions/"+txID, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestDefaultAccountResolution(t *testing.T) {
	server := setupTestServer(t)
	base := server.URL + "/api"

	// No accounts exist; creating a transaction without accountId makes one
	resp, tx := doJSON(t, "POST", base+"/transactions", `{"title": "Coffee", "amount": -3.5, "date": "2025-11-10"}`)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.NotEmpty(t, tx["accountId"])

	_, accounts := listJSON(t, base+"/accounts")
	require.Len(t, accounts, 1)
	assert.Equal(t, "Default Account", accounts[0]["name"])
	assert.Equal(t, tx["accountId"], accounts[0]["id"])

	// A second omitted accountId reuses the same account
	_, second := doJSON(t, "POST", base+"/transactions", `{"title": "Tea", "amount": -2, "date": "2025-11-11"}`)
	assert.Equal(t, tx["accountId"], second["accountId"])

	_, accounts = listJSON(t, base+"/accounts")
	assert.Len(t, accounts, 1)

	// Referencing an unknown account is a 404
	resp, _ = doJSON(t, "POST", base+"/transactions", `{"title": "Ghost", "amount": -1, "date": "2025-11-12", "accountId": "nope"}`)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestTransactionFilters(t *testing.T) {
	server := setupTestServer(t)
	base := server.URL + "/api"

	doJSON(t, "POST", base+"/accounts", `{"name": "Wallet"}`)
	doJSON(t, "POST", base+"/transactions", `{"title": "Groceries", "amount": -120.5, "date": "2025-11-01", "category": "Food"}`)
	doJSON(t, "POST", base+"/transactions", `{"title": "Restaurant", "amount": -45, "date": "2025-11-02", "category": "food"}`)
	doJSON(t, "POST", base+"/transactions", `{"title": "Rent", "amount": -800, "date": "2025-11-03", "category": "Housing"}`)

	// Case-insensitive category match
	_, byCategory := listJSON(t, base+"/transactions?category=FOOD")
	assert.Len(t, byCategory, 2)

	// Single-day range includes that day and excludes the next
	_, byRange := listJSON(t, base+"/transactions?startDate=2025-11-01&endDate=2025-11-01")
	require.Len(t, byRange, 1)
	assert.Equal(t, "Groceries", byRange[0]["title"])

	// Full range, newest first
	_, all := listJSON(t, base+"/transactions?startDate=2025-11-01&endDate=2025-11-03")
	require.Len(t, all, 3)
	assert.Equal(t, "Rent", all[0]["title"])

	// Malformed bound is a 400
	resp, _ := doJSON(t, "GET", base+"/transactions?startDate=bad&endDate=2025-11-03", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// So is a lone bound: a range needs both ends
	resp, errBody := doJSON(t, "GET", base+"/transactions?startDate=2025-11-01", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Incomplete date range", errBody["error"])

	resp, _ = doJSON(t, "GET", base+"/transactions?endDate=2025-11-03", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestStatsEndpoints(t *testing.T) {
	server := setupTestServer(t)
	base := server.URL + "/api"

	doJSON(t, "POST", base+"/accounts", `{"name": "Wallet"}`)
	doJSON(t, "POST", base+"/transactions", `{"title": "Salary", "amount": 3000, "date": "2025-11-01", "category": "Income"}`)
	doJSON(t, "POST", base+"/transactions", `{"title": "Groceries", "amount": -120.5, "date": "2025-11-05", "category": "Food"}`)
	doJSON(t, "POST", base+"/transactions", `{"title": "Rent", "amount": -800, "date": "2025-10-03", "category": "Housing"}`)

	// Summary identity
	resp, summary := doJSON(t, "GET", base+"/stats/summary", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 3000.0, summary["totalIncome"])
	assert.Equal(t, 920.5, summary["totalExpenses"])
	assert.Equal(t, 2079.5, summary["netBalance"])

	// Category breakdown sums to total expenses
	_, spending := listJSON(t, base+"/stats/spending-by-category")
	var total float64
	for _, entry := range spending {
		total += entry["amount"].(float64)
	}
	assert.Equal(t, summary["totalExpenses"], total)

	// Monthly summary for the fixture month
	resp, monthly := doJSON(t, "GET", base+"/stats/monthly-summary?month=2025-11", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "2025-11", monthly["month"])
	assert.Equal(t, 3000.0, monthly["income"])
	assert.Equal(t, 120.5, monthly["expenses"])
	assert.Equal(t, 2879.5, monthly["balance"])
	assert.Equal(t, 2.0, monthly["transactionCount"])

	// A month with nothing in it returns zeros, not an error
	resp, empty := doJSON(t, "GET", base+"/stats/monthly-summary?month=2024-02", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 0.0, empty["income"])
	assert.Equal(t, 0.0, empty["transactionCount"])

	// Garbage month parameter is a 400
	resp, _ = doJSON(t, "GET", base+"/stats/monthly-summary?month=notamonth", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// Writes invalidate cached stats
	doJSON(t, "POST", base+"/transactions", `{"title": "Bonus", "amount": 500, "date": "2025-11-20"}`)
	_, refreshed := doJSON(t, "GET", base+"/stats/summary", "")
	assert.Equal(t, 3500.0, refreshed["totalIncome"])
}
