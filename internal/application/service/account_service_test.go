package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/Fede1082/BudgetFlow/internal/domain/entity"
	"github.com/Fede1082/BudgetFlow/internal/domain/repository"
	"github.com/Fede1082/BudgetFlow/internal/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestCreateAccount(t *testing.T) {
	repo := new(mocks.MockAccountRepository)
	svc := NewAccountService(repo, nil)
	ctx := context.Background()

	t.Run("Defaults applied", func(t *testing.T) {
		repo.On("Store", ctx, mock.MatchedBy(func(a *entity.Account) bool {
			return a.Name == "Wallet" &&
				a.Type == "checking" &&
				a.Balance == 0 &&
				a.Currency == "EUR" &&
				a.ID != "" &&
				!a.CreatedAt.IsZero()
		})).Return(nil).Once()

		account, err := svc.CreateAccount(ctx, CreateAccountInput{Name: "Wallet"})

		assert.NoError(t, err)
		assert.Equal(t, "checking", account.Type)
		assert.Equal(t, 0.0, account.Balance)
		assert.Equal(t, "EUR", account.Currency)
		assert.Equal(t, account.CreatedAt, account.UpdatedAt)
		repo.AssertExpectations(t)
	})

	t.Run("Explicit fields kept", func(t *testing.T) {
		repo.On("Store", ctx, mock.Anything).Return(nil).Once()

		account, err := svc.CreateAccount(ctx, CreateAccountInput{
			Name:     "Savings",
			Type:     "savings",
			Balance:  1500.505,
			Currency: "USD",
		})

		assert.NoError(t, err)
		assert.Equal(t, "savings", account.Type)
		assert.Equal(t, 1500.51, account.Balance, "balance should be rounded to cents")
		assert.Equal(t, "USD", account.Currency)
		repo.AssertExpectations(t)
	})

	t.Run("Empty name rejected", func(t *testing.T) {
		account, err := svc.CreateAccount(ctx, CreateAccountInput{Name: "   "})

		assert.Error(t, err)
		assert.Nil(t, account)

		var invalid *entity.ValidationError
		assert.ErrorAs(t, err, &invalid)
	})

	t.Run("Over-long name rejected as validation error", func(t *testing.T) {
		account, err := svc.CreateAccount(ctx, CreateAccountInput{Name: strings.Repeat("n", 101)})

		assert.Error(t, err)
		assert.Nil(t, account)

		var invalid *entity.ValidationError
		assert.ErrorAs(t, err, &invalid)
	})

	t.Run("Repository error", func(t *testing.T) {
		repo.On("Store", ctx, mock.Anything).Return(errors.New("disk full")).Once()

		account, err := svc.CreateAccount(ctx, CreateAccountInput{Name: "Wallet"})

		assert.Error(t, err)
		assert.Nil(t, account)
		repo.AssertExpectations(t)
	})
}

func TestUpdateAccount(t *testing.T) {
	ctx := context.Background()

	existing := func() *entity.Account {
		created := time.Date(2025, 1, 10, 12, 0, 0, 0, time.UTC)
		return &entity.Account{
			ID:        "acc-1",
			Name:      "Wallet",
			Type:      "checking",
			Balance:   100,
			Currency:  "EUR",
			CreatedAt: created,
			UpdatedAt: created,
		}
	}

	t.Run("Partial update keeps omitted fields", func(t *testing.T) {
		repo := new(mocks.MockAccountRepository)
		svc := NewAccountService(repo, nil)

		repo.On("FindByID", ctx, "acc-1").Return(existing(), nil).Once()
		repo.On("Update", ctx, mock.Anything).Return(nil).Once()

		balance := 250.0
		account, err := svc.UpdateAccount(ctx, "acc-1", UpdateAccountInput{Balance: &balance})

		assert.NoError(t, err)
		assert.Equal(t, "Wallet", account.Name, "omitted name should be unchanged")
		assert.Equal(t, "checking", account.Type)
		assert.Equal(t, 250.0, account.Balance)
		assert.True(t, account.UpdatedAt.After(account.CreatedAt), "UpdatedAt should advance")
		repo.AssertExpectations(t)
	})

	t.Run("Not found", func(t *testing.T) {
		repo := new(mocks.MockAccountRepository)
		svc := NewAccountService(repo, nil)

		repo.On("FindByID", ctx, "missing").Return(nil, repository.ErrAccountNotFound).Once()

		name := "Renamed"
		account, err := svc.UpdateAccount(ctx, "missing", UpdateAccountInput{Name: &name})

		assert.Nil(t, account)
		assert.ErrorIs(t, err, repository.ErrAccountNotFound)
		repo.AssertExpectations(t)
	})
}

func TestDeleteAccount(t *testing.T) {
	ctx := context.Background()

	t.Run("Existing account", func(t *testing.T) {
		repo := new(mocks.MockAccountRepository)
		svc := NewAccountService(repo, nil)

		repo.On("Delete", ctx, "acc-1").Return(nil).Once()

		assert.NoError(t, svc.DeleteAccount(ctx, "acc-1"))
		repo.AssertExpectations(t)
	})

	t.Run("Nonexistent id reports not found", func(t *testing.T) {
		repo := new(mocks.MockAccountRepository)
		svc := NewAccountService(repo, nil)

		repo.On("Delete", ctx, "missing").Return(repository.ErrAccountNotFound).Once()

		err := svc.DeleteAccount(ctx, "missing")
		assert.ErrorIs(t, err, repository.ErrAccountNotFound)
		repo.AssertExpectations(t)
	})
}

func TestTotalBalance(t *testing.T) {
	ctx := context.Background()

	t.Run("Sums all balances", func(t *testing.T) {
		repo := new(mocks.MockAccountRepository)
		svc := NewAccountService(repo, nil)

		repo.On("FindAll", ctx).Return([]*entity.Account{
			{ID: "a", Balance: 100.25},
			{ID: "b", Balance: -40.75},
			{ID: "c", Balance: 1000},
		}, nil).Once()

		total, err := svc.TotalBalance(ctx)

		assert.NoError(t, err)
		assert.Equal(t, 1059.50, total)
		repo.AssertExpectations(t)
	})

	t.Run("No accounts yields zero", func(t *testing.T) {
		repo := new(mocks.MockAccountRepository)
		svc := NewAccountService(repo, nil)

		repo.On("FindAll", ctx).Return([]*entity.Account{}, nil).Once()

		total, err := svc.TotalBalance(ctx)

		assert.NoError(t, err)
		assert.Equal(t, 0.0, total)
		repo.AssertExpectations(t)
	})
}
