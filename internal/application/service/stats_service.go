// Package service internal/application/service/stats_service.go
package service

import (
	"context"
	"time"

	"github.com/Fede1082/BudgetFlow/internal/domain/entity"
	"github.com/Fede1082/BudgetFlow/internal/domain/repository"
	"github.com/Fede1082/BudgetFlow/internal/infrastructure/cache"
	"github.com/Fede1082/BudgetFlow/internal/infrastructure/logger"
	"github.com/Fede1082/BudgetFlow/internal/infrastructure/middleware"
)

// Summary aggregates the whole transaction set
type Summary struct {
	TotalIncome   float64 `json:"totalIncome"`
	TotalExpenses float64 `json:"totalExpenses"`
	NetBalance    float64 `json:"netBalance"`
}

// CategorySpending is one category's share of total expenses
type CategorySpending struct {
	Category string  `json:"category"`
	Amount   float64 `json:"amount"`
}

// MonthlySummary aggregates transactions of a single calendar month
type MonthlySummary struct {
	Month            string  `json:"month"`
	Income           float64 `json:"income"`
	Expenses         float64 `json:"expenses"`
	Balance          float64 `json:"balance"`
	TransactionCount int     `json:"transactionCount"`
}

const (
	summaryCacheKey  = "summary"
	spendingCacheKey = "spending-by-category"
	monthlyCachePfx  = "monthly:"
)

// StatsService derives statistics from the full transaction set
type StatsService struct {
	repo       repository.TransactionRepository
	statsCache *cache.StatsCache
	logger     logger.Logger
}

// NewStatsService creates a new stats service. The cache may be nil.
func NewStatsService(repo repository.TransactionRepository, statsCache *cache.StatsCache, log logger.Logger) *StatsService {
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	return &StatsService{
		repo:       repo,
		statsCache: statsCache,
		logger:     log,
	}
}

func (s *StatsService) cachedGet(key string) (interface{}, bool) {
	if s.statsCache == nil {
		return nil, false
	}
	return s.statsCache.Get(key)
}

func (s *StatsService) cachedPut(key string, value interface{}) {
	if s.statsCache != nil {
		s.statsCache.Put(key, value)
	}
}

// GetSummary computes total income, total expenses and their difference
func (s *StatsService) GetSummary(ctx context.Context) (*Summary, error) {
	if v, ok := s.cachedGet(summaryCacheKey); ok {
		return v.(*Summary), nil
	}

	transactions, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	summary := &Summary{}
	for _, tx := range transactions {
		switch tx.Type {
		case entity.TypeIncome:
			summary.TotalIncome += tx.Amount
		case entity.TypeExpense:
			summary.TotalExpenses += tx.Amount
		}
	}
	summary.TotalIncome = roundToCents(summary.TotalIncome)
	summary.TotalExpenses = roundToCents(summary.TotalExpenses)
	summary.NetBalance = roundToCents(summary.TotalIncome - summary.TotalExpenses)

	s.cachedPut(summaryCacheKey, summary)

	s.logger.Debug("Summary computed", map[string]interface{}{
		"request_id":     middleware.GetRequestID(ctx),
		"total_income":   summary.TotalIncome,
		"total_expenses": summary.TotalExpenses,
		"transactions":   len(transactions),
	})

	return summary, nil
}

// GetSpendingByCategory groups expense transactions by category, summing
// magnitudes. Only categories that occur are present; order is unspecified.
func (s *StatsService) GetSpendingByCategory(ctx context.Context) ([]CategorySpending, error) {
	if v, ok := s.cachedGet(spendingCacheKey); ok {
		return v.([]CategorySpending), nil
	}

	transactions, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	spending := make(map[string]float64)
	for _, tx := range transactions {
		if tx.Type != entity.TypeExpense {
			continue
		}
		category := tx.Category
		if category == "" {
			category = entity.DefaultCategory
		}
		spending[category] += tx.Amount
	}

	result := make([]CategorySpending, 0, len(spending))
	for category, amount := range spending {
		result = append(result, CategorySpending{
			Category: category,
			Amount:   roundToCents(amount),
		})
	}

	s.cachedPut(spendingCacheKey, result)

	return result, nil
}

// GetMonthlySummary aggregates the transactions of the month containing the
// given instant. Months with no transactions yield all-zero aggregates.
func (s *StatsService) GetMonthlySummary(ctx context.Context, month time.Time) (*MonthlySummary, error) {
	year, targetMonth := month.UTC().Year(), month.UTC().Month()
	key := monthlyCachePfx + month.UTC().Format("2006-01")

	if v, ok := s.cachedGet(key); ok {
		return v.(*MonthlySummary), nil
	}

	transactions, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	summary := &MonthlySummary{
		Month: month.UTC().Format("2006-01"),
	}
	for _, tx := range transactions {
		if tx.Date.Year() != year || tx.Date.Month() != targetMonth {
			continue
		}
		summary.TransactionCount++
		switch tx.Type {
		case entity.TypeIncome:
			summary.Income += tx.Amount
		case entity.TypeExpense:
			summary.Expenses += tx.Amount
		}
	}
	summary.Income = roundToCents(summary.Income)
	summary.Expenses = roundToCents(summary.Expenses)
	summary.Balance = roundToCents(summary.Income - summary.Expenses)

	s.cachedPut(key, summary)

	s.logger.Debug("Monthly summary computed", map[string]interface{}{
		"request_id": middleware.GetRequestID(ctx),
		"month":      summary.Month,
		"count":      summary.TransactionCount,
	})

	return summary, nil
}
