package repository

import (
	"context"
	"errors"

	"github.com/Fede1082/BudgetFlow/internal/domain/entity"
)

// ErrAccountNotFound is returned when an id does not resolve to an account
var ErrAccountNotFound = errors.New("account not found")

// AccountRepository defines the interface for account storage
type AccountRepository interface {
	// Store saves a new account
	Store(ctx context.Context, account *entity.Account) error

	// FindByID retrieves an account by its unique identifier
	FindByID(ctx context.Context, id string) (*entity.Account, error)

	// FindAll retrieves all accounts ordered by creation time, newest first
	FindAll(ctx context.Context) ([]*entity.Account, error)

	// FindFirst retrieves the oldest account, used as the default account
	FindFirst(ctx context.Context) (*entity.Account, error)

	// Update overwrites an existing account
	Update(ctx context.Context, account *entity.Account) error

	// Delete removes an account by id
	Delete(ctx context.Context, id string) error
}
