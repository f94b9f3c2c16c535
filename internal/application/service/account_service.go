package service

import (
	"context"
	"math"
	"time"

	"github.com/Fede1082/BudgetFlow/internal/domain/entity"
	"github.com/Fede1082/BudgetFlow/internal/domain/repository"
	"github.com/Fede1082/BudgetFlow/internal/infrastructure/logger"
	"github.com/Fede1082/BudgetFlow/internal/infrastructure/middleware"
	"github.com/google/uuid"
)

// CreateAccountInput carries the fields accepted when creating an account
type CreateAccountInput struct {
	Name     string
	Type     string
	Balance  float64
	Currency string
}

// UpdateAccountInput carries a partial account update; nil fields are left unchanged
type UpdateAccountInput struct {
	Name     *string
	Type     *string
	Balance  *float64
	Currency *string
}

// AccountService handles business logic for accounts
type AccountService struct {
	repo   repository.AccountRepository
	logger logger.Logger
}

// NewAccountService creates a new account service
func NewAccountService(repo repository.AccountRepository, log logger.Logger) *AccountService {
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	return &AccountService{repo: repo, logger: log}
}

// roundToCents rounds a monetary value to the nearest cent
func roundToCents(amount float64) float64 {
	return math.Round(amount*100) / 100
}

// ListAccounts retrieves all accounts, newest first
func (s *AccountService) ListAccounts(ctx context.Context) ([]*entity.Account, error) {
	return s.repo.FindAll(ctx)
}

// GetAccount retrieves an account by ID
func (s *AccountService) GetAccount(ctx context.Context, id string) (*entity.Account, error) {
	return s.repo.FindByID(ctx, id)
}

// CreateAccount creates and stores a new account, applying defaults for
// omitted fields.
func (s *AccountService) CreateAccount(ctx context.Context, in CreateAccountInput) (*entity.Account, error) {
	now := time.Now().UTC()

	account := &entity.Account{
		ID:        uuid.New().String(),
		Name:      in.Name,
		Type:      in.Type,
		Balance:   roundToCents(in.Balance),
		Currency:  in.Currency,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if account.Type == "" {
		account.Type = entity.DefaultAccountType
	}
	if account.Currency == "" {
		account.Currency = entity.DefaultCurrency
	}

	if err := account.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.Store(ctx, account); err != nil {
		return nil, err
	}

	s.logger.Info("Account created", map[string]interface{}{
		"request_id": middleware.GetRequestID(ctx),
		"id":         account.ID,
		"name":       account.Name,
		"type":       account.Type,
	})

	return account, nil
}

// UpdateAccount merges the provided fields into an existing account and
// refreshes its UpdatedAt timestamp.
func (s *AccountService) UpdateAccount(ctx context.Context, id string, in UpdateAccountInput) (*entity.Account, error) {
	account, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		account.Name = *in.Name
	}
	if in.Type != nil {
		account.Type = *in.Type
	}
	if in.Balance != nil {
		account.Balance = roundToCents(*in.Balance)
	}
	if in.Currency != nil {
		account.Currency = *in.Currency
	}
	account.UpdatedAt = time.Now().UTC()

	if err := account.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, account); err != nil {
		return nil, err
	}

	return account, nil
}

// DeleteAccount removes an account. Transactions referencing it are left in
// place; the account relation is optional.
func (s *AccountService) DeleteAccount(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("Account deleted", map[string]interface{}{
		"request_id": middleware.GetRequestID(ctx),
		"id":         id,
	})

	return nil
}

// TotalBalance returns the sum of all account balances, 0 when there are none
func (s *AccountService) TotalBalance(ctx context.Context) (float64, error) {
	accounts, err := s.repo.FindAll(ctx)
	if err != nil {
		return 0, err
	}

	var total float64
	for _, a := range accounts {
		total += a.Balance
	}

	return roundToCents(total), nil
}
