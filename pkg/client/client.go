// Package client provides a Go client for the BudgetFlow HTTP API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Account mirrors the account resource returned by the API
type Account struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	Balance   float64   `json:"balance"`
	Currency  string    `json:"currency"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Transaction mirrors the transaction resource. Amount is signed: positive
// for income, negative for expense.
type Transaction struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Amount    float64   `json:"amount"`
	Type      string    `json:"type"`
	Date      string    `json:"date"`
	Category  string    `json:"category"`
	Notes     string    `json:"notes,omitempty"`
	AccountID string    `json:"accountId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Summary mirrors /stats/summary
type Summary struct {
	TotalIncome   float64 `json:"totalIncome"`
	TotalExpenses float64 `json:"totalExpenses"`
	NetBalance    float64 `json:"netBalance"`
}

// CategorySpending mirrors one entry of /stats/spending-by-category
type CategorySpending struct {
	Category string  `json:"category"`
	Amount   float64 `json:"amount"`
}

// MonthlySummary mirrors /stats/monthly-summary
type MonthlySummary struct {
	Month            string  `json:"month"`
	Income           float64 `json:"income"`
	Expenses         float64 `json:"expenses"`
	Balance          float64 `json:"balance"`
	TransactionCount int     `json:"transactionCount"`
}

// CreateAccountParams carries the fields for account creation
type CreateAccountParams struct {
	Name     string  `json:"name"`
	Type     string  `json:"type,omitempty"`
	Balance  float64 `json:"balance,omitempty"`
	Currency string  `json:"currency,omitempty"`
}

// UpdateAccountParams carries a partial account update; nil fields are omitted
type UpdateAccountParams struct {
	Name     *string  `json:"name,omitempty"`
	Type     *string  `json:"type,omitempty"`
	Balance  *float64 `json:"balance,omitempty"`
	Currency *string  `json:"currency,omitempty"`
}

// CreateTransactionParams carries the fields for transaction creation
type CreateTransactionParams struct {
	Title     string  `json:"title"`
	Amount    float64 `json:"amount"`
	Date      string  `json:"date"`
	Category  string  `json:"category,omitempty"`
	Notes     string  `json:"notes,omitempty"`
	AccountID string  `json:"accountId,omitempty"`
}

// UpdateTransactionParams carries a partial transaction update
type UpdateTransactionParams struct {
	Title     *string  `json:"title,omitempty"`
	Amount    *float64 `json:"amount,omitempty"`
	Date      *string  `json:"date,omitempty"`
	Category  *string  `json:"category,omitempty"`
	Notes     *string  `json:"notes,omitempty"`
	AccountID *string  `json:"accountId,omitempty"`
}

// TransactionFilter narrows ListTransactions. Category wins over the date
// range; the server rejects a range with only one bound set.
type TransactionFilter struct {
	Category  string
	StartDate string
	EndDate   string
}

// DeleteResult mirrors the {success, message} body of delete endpoints
type DeleteResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// APIError is a non-2xx response decoded from the server's error envelope
type APIError struct {
	Status      int    `json:"status"`
	Message     string `json:"error"`
	Description string `json:"description"`
	RequestID   string `json:"request_id"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error (status %d): %s", e.Status, e.Message)
}

// IsNotFound reports whether err is an APIError with a 404 status
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}

// Client calls the BudgetFlow API
type Client struct {
	baseURL    string
	httpClient *http.Client
	maxRetries int
}

// NewClient creates a new API client. baseURL should include the /api
// prefix, e.g. "http://localhost:8080/api". A nil httpClient gets a default
// with a 10 second timeout.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout: 10 * time.Second,
		}
	}

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		maxRetries: 3,
	}
}

// do executes a request, retrying transport-level failures with quadratic
// backoff, and decodes the JSON response into out (when non-nil).
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
	}

	var resp *http.Response
	var err error

	for attempt := 1; attempt <= c.maxRetries; attempt++ {
		var reqBody io.Reader
		if payload != nil {
			reqBody = bytes.NewReader(payload)
		}

		req, reqErr := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
		if reqErr != nil {
			return fmt.Errorf("failed to create request: %w", reqErr)
		}
		req.Header.Set("Accept", "application/json")
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err = c.httpClient.Do(req)
		if err == nil {
			break
		}

		if ctx.Err() != nil || attempt == c.maxRetries {
			return fmt.Errorf("failed to execute request after %d attempts: %w", attempt, err)
		}

		backoff := time.Duration(attempt*attempt) * 100 * time.Millisecond
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
	}

	defer func() {
		_ = resp.Body.Close()
	}()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode}
		if json.Unmarshal(data, apiErr) != nil || apiErr.Message == "" {
			apiErr.Message = http.StatusText(resp.StatusCode)
		}
		apiErr.Status = resp.StatusCode
		return apiErr
	}

	if out == nil {
		return nil
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

// ListAccounts retrieves all accounts, newest first
func (c *Client) ListAccounts(ctx context.Context) ([]Account, error) {
	var accounts []Account
	if err := c.do(ctx, http.MethodGet, "/accounts", nil, &accounts); err != nil {
		return nil, err
	}
	return accounts, nil
}

// GetAccount retrieves an account by id
func (c *Client) GetAccount(ctx context.Context, id string) (*Account, error) {
	var account Account
	if err := c.do(ctx, http.MethodGet, "/accounts/"+url.PathEscape(id), nil, &account); err != nil {
		return nil, err
	}
	return &account, nil
}

// CreateAccount creates a new account
func (c *Client) CreateAccount(ctx context.Context, params CreateAccountParams) (*Account, error) {
	var account Account
	if err := c.do(ctx, http.MethodPost, "/accounts", params, &account); err != nil {
		return nil, err
	}
	return &account, nil
}

// UpdateAccount applies a partial update to an account
func (c *Client) UpdateAccount(ctx context.Context, id string, params UpdateAccountParams) (*Account, error) {
	var account Account
	if err := c.do(ctx, http.MethodPut, "/accounts/"+url.PathEscape(id), params, &account); err != nil {
		return nil, err
	}
	return &account, nil
}

// DeleteAccount removes an account
func (c *Client) DeleteAccount(ctx context.Context, id string) (*DeleteResult, error) {
	var result DeleteResult
	if err := c.do(ctx, http.MethodDelete, "/accounts/"+url.PathEscape(id), nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// TotalBalance retrieves the sum of all account balances
func (c *Client) TotalBalance(ctx context.Context) (float64, error) {
	var resp struct {
		TotalBalance float64 `json:"totalBalance"`
	}
	if err := c.do(ctx, http.MethodGet, "/accounts/total-balance", nil, &resp); err != nil {
		return 0, err
	}
	return resp.TotalBalance, nil
}

// ListTransactions retrieves transactions, optionally filtered
func (c *Client) ListTransactions(ctx context.Context, filter *TransactionFilter) ([]Transaction, error) {
	path := "/transactions"
	if filter != nil {
		query := url.Values{}
		if filter.Category != "" {
			query.Set("category", filter.Category)
		}
		if filter.StartDate != "" {
			query.Set("startDate", filter.StartDate)
		}
		if filter.EndDate != "" {
			query.Set("endDate", filter.EndDate)
		}
		if encoded := query.Encode(); encoded != "" {
			path += "?" + encoded
		}
	}

	var transactions []Transaction
	if err := c.do(ctx, http.MethodGet, path, nil, &transactions); err != nil {
		return nil, err
	}
	return transactions, nil
}

// GetTransaction retrieves a transaction by id
func (c *Client) GetTransaction(ctx context.Context, id string) (*Transaction, error) {
	var tx Transaction
	if err := c.do(ctx, http.MethodGet, "/transactions/"+url.PathEscape(id), nil, &tx); err != nil {
		return nil, err
	}
	return &tx, nil
}

// CreateTransaction creates a new transaction
func (c *Client) CreateTransaction(ctx context.Context, params CreateTransactionParams) (*Transaction, error) {
	var tx Transaction
	if err := c.do(ctx, http.MethodPost, "/transactions", params, &tx); err != nil {
		return nil, err
	}
	return &tx, nil
}

// UpdateTransaction applies a partial update to a transaction
func (c *Client) UpdateTransaction(ctx context.Context, id string, params UpdateTransactionParams) (*Transaction, error) {
	var tx Transaction
	if err := c.do(ctx, http.MethodPut, "/transactions/"+url.PathEscape(id), params, &tx); err != nil {
		return nil, err
	}
	return &tx, nil
}

// DeleteTransaction removes a transaction
func (c *Client) DeleteTransaction(ctx context.Context, id string) (*DeleteResult, error) {
	var result DeleteResult
	if err := c.do(ctx, http.MethodDelete, "/transactions/"+url.PathEscape(id), nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetSummary retrieves aggregate totals across all transactions
func (c *Client) GetSummary(ctx context.Context) (*Summary, error) {
	var summary Summary
	if err := c.do(ctx, http.MethodGet, "/stats/summary", nil, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

// GetSpendingByCategory retrieves the expense breakdown per category
func (c *Client) GetSpendingByCategory(ctx context.Context) ([]CategorySpending, error) {
	var spending []CategorySpending
	if err := c.do(ctx, http.MethodGet, "/stats/spending-by-category", nil, &spending); err != nil {
		return nil, err
	}
	return spending, nil
}

// GetMonthlySummary retrieves the aggregate for a month given as "YYYY-MM";
// an empty month means the current one.
func (c *Client) GetMonthlySummary(ctx context.Context, month string) (*MonthlySummary, error) {
	path := "/stats/monthly-summary"
	if month != "" {
		path += "?month=" + url.QueryEscape(month)
	}

	var summary MonthlySummary
	if err := c.do(ctx, http.MethodGet, path, nil, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}
