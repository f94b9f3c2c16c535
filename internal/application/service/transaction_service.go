package service

import (
	"context"
	"errors"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/Fede1082/BudgetFlow/internal/domain/entity"
	"github.com/Fede1082/BudgetFlow/internal/domain/repository"
	"github.com/Fede1082/BudgetFlow/internal/infrastructure/cache"
	"github.com/Fede1082/BudgetFlow/internal/infrastructure/logger"
	"github.com/Fede1082/BudgetFlow/internal/infrastructure/middleware"
	"github.com/google/uuid"
)

// DefaultAccountName is the name given to the auto-created fallback account
const DefaultAccountName = "Default Account"

// CreateTransactionInput carries the fields accepted when creating a
// transaction. Amount is signed: positive for income, negative for expense.
type CreateTransactionInput struct {
	Title     string
	Amount    float64
	Date      time.Time
	Category  string
	Notes     string
	AccountID string
}

// UpdateTransactionInput carries a partial transaction update; nil fields
// are left unchanged.
type UpdateTransactionInput struct {
	Title     *string
	Amount    *float64
	Date      *time.Time
	Category  *string
	Notes     *string
	AccountID *string
}

// TransactionService handles business logic for transactions
type TransactionService struct {
	repo        repository.TransactionRepository
	accountRepo repository.AccountRepository
	statsCache  *cache.StatsCache
	logger      logger.Logger

	// Serializes resolve-or-create of the default account so concurrent
	// creates without an accountId reuse a single account.
	defaultAccountMu sync.Mutex
}

// NewTransactionService creates a new transaction service. The stats cache
// may be nil when no caching is wanted.
func NewTransactionService(repo repository.TransactionRepository, accountRepo repository.AccountRepository, statsCache *cache.StatsCache, log logger.Logger) *TransactionService {
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	return &TransactionService{
		repo:        repo,
		accountRepo: accountRepo,
		statsCache:  statsCache,
		logger:      log,
	}
}

// normalizeAmount splits a signed amount into a non-negative magnitude
// rounded to the cent and a transaction type.
func normalizeAmount(amount float64) (float64, entity.TransactionType) {
	magnitude := math.Round(math.Abs(amount)*100) / 100
	if amount > 0 {
		return magnitude, entity.TypeIncome
	}
	return magnitude, entity.TypeExpense
}

// normalizeDate strips any time-of-day component, keeping the calendar date in UTC
func normalizeDate(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
}

func (s *TransactionService) invalidateStats() {
	if s.statsCache != nil {
		s.statsCache.Clear()
	}
}

// ListTransactions retrieves all transactions ordered by date, newest first
func (s *TransactionService) ListTransactions(ctx context.Context) ([]*entity.Transaction, error) {
	return s.repo.FindAll(ctx)
}

// GetTransaction retrieves a transaction by ID
func (s *TransactionService) GetTransaction(ctx context.Context, id string) (*entity.Transaction, error) {
	return s.repo.FindByID(ctx, id)
}

// CreateTransaction creates and stores a new transaction. The signed input
// amount is stored as a magnitude plus type, the category defaults to
// "other", and a missing accountId resolves to the default account.
func (s *TransactionService) CreateTransaction(ctx context.Context, in CreateTransactionInput) (*entity.Transaction, error) {
	accountID := in.AccountID
	if accountID == "" {
		id, err := s.resolveDefaultAccount(ctx)
		if err != nil {
			return nil, err
		}
		accountID = id
	} else {
		if _, err := s.accountRepo.FindByID(ctx, accountID); err != nil {
			return nil, err
		}
	}

	magnitude, txType := normalizeAmount(in.Amount)
	now := time.Now().UTC()

	tx := &entity.Transaction{
		ID:        uuid.New().String(),
		Title:     in.Title,
		Amount:    magnitude,
		Type:      txType,
		Date:      normalizeDate(in.Date),
		Category:  in.Category,
		Notes:     in.Notes,
		AccountID: accountID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if tx.Category == "" {
		tx.Category = entity.DefaultCategory
	}

	if err := tx.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.Store(ctx, tx); err != nil {
		return nil, err
	}

	s.invalidateStats()

	s.logger.Info("Transaction created", map[string]interface{}{
		"request_id": middleware.GetRequestID(ctx),
		"id":         tx.ID,
		"type":       tx.Type,
		"amount":     tx.Amount,
		"category":   tx.Category,
		"account_id": tx.AccountID,
	})

	return tx, nil
}

// UpdateTransaction merges the provided fields into an existing transaction,
// applying the same normalization rules only to changed fields.
func (s *TransactionService) UpdateTransaction(ctx context.Context, id string, in UpdateTransactionInput) (*entity.Transaction, error) {
	tx, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Title != nil {
		tx.Title = *in.Title
	}
	if in.Amount != nil {
		tx.Amount, tx.Type = normalizeAmount(*in.Amount)
	}
	if in.Date != nil {
		tx.Date = normalizeDate(*in.Date)
	}
	if in.Category != nil {
		tx.Category = *in.Category
		if tx.Category == "" {
			tx.Category = entity.DefaultCategory
		}
	}
	if in.Notes != nil {
		tx.Notes = *in.Notes
	}
	if in.AccountID != nil {
		if _, err := s.accountRepo.FindByID(ctx, *in.AccountID); err != nil {
			return nil, err
		}
		tx.AccountID = *in.AccountID
	}
	tx.UpdatedAt = time.Now().UTC()

	if err := tx.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, tx); err != nil {
		return nil, err
	}

	s.invalidateStats()

	return tx, nil
}

// DeleteTransaction permanently removes a transaction
func (s *TransactionService) DeleteTransaction(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.invalidateStats()

	s.logger.Info("Transaction deleted", map[string]interface{}{
		"request_id": middleware.GetRequestID(ctx),
		"id":         id,
	})

	return nil
}

// FindByCategory retrieves transactions whose category matches
// case-insensitively, ordered by date descending.
func (s *TransactionService) FindByCategory(ctx context.Context, category string) ([]*entity.Transaction, error) {
	all, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	matched := make([]*entity.Transaction, 0)
	for _, tx := range all {
		if strings.EqualFold(tx.Category, category) {
			matched = append(matched, tx)
		}
	}

	return matched, nil
}

// FindByDateRange retrieves transactions dated within [start, end], with the
// end date extended to the last instant of its day.
func (s *TransactionService) FindByDateRange(ctx context.Context, start, end time.Time) ([]*entity.Transaction, error) {
	all, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	from := normalizeDate(start)
	to := normalizeDate(end).Add(24*time.Hour - time.Millisecond)

	matched := make([]*entity.Transaction, 0)
	for _, tx := range all {
		if !tx.Date.Before(from) && !tx.Date.After(to) {
			matched = append(matched, tx)
		}
	}

	return matched, nil
}

// resolveDefaultAccount returns the oldest account's id, creating a default
// account when none exists yet.
func (s *TransactionService) resolveDefaultAccount(ctx context.Context) (string, error) {
	s.defaultAccountMu.Lock()
	defer s.defaultAccountMu.Unlock()

	account, err := s.accountRepo.FindFirst(ctx)
	if err == nil {
		return account.ID, nil
	}
	if !errors.Is(err, repository.ErrAccountNotFound) {
		return "", err
	}

	now := time.Now().UTC()
	account = &entity.Account{
		ID:        uuid.New().String(),
		Name:      DefaultAccountName,
		Type:      entity.DefaultAccountType,
		Balance:   0,
		Currency:  entity.DefaultCurrency,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.accountRepo.Store(ctx, account); err != nil {
		return "", err
	}

	s.logger.Info("Default account created", map[string]interface{}{
		"request_id": middleware.GetRequestID(ctx),
		"id":         account.ID,
	})

	return account.ID, nil
}
