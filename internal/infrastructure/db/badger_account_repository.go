package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/Fede1082/BudgetFlow/internal/domain/entity"
	"github.com/Fede1082/BudgetFlow/internal/domain/repository"
	"github.com/dgraph-io/badger/v3"
)

const accountKeyPrefix = "account:"

// BadgerAccountRepository implements the account repository interface using BadgerDB
type BadgerAccountRepository struct {
	db *badger.DB
}

// NewBadgerAccountRepository creates a new BadgerDB account repository
func NewBadgerAccountRepository(db *badger.DB) *BadgerAccountRepository {
	return &BadgerAccountRepository{db: db}
}

func accountKey(id string) []byte {
	return []byte(accountKeyPrefix + id)
}

// Store saves a new account
func (r *BadgerAccountRepository) Store(ctx context.Context, account *entity.Account) error {
	data, err := json.Marshal(account)
	if err != nil {
		return fmt.Errorf("failed to marshal account: %w", err)
	}

	err = r.db.Update(func(txn *badger.Txn) error {
		return txn.Set(accountKey(account.ID), data)
	})

	if err != nil {
		return fmt.Errorf("failed to store account: %w", err)
	}

	return nil
}

// FindByID retrieves an account by its unique identifier
func (r *BadgerAccountRepository) FindByID(ctx context.Context, id string) (*entity.Account, error) {
	var account entity.Account

	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(accountKey(id))
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &account)
		})
	})

	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, repository.ErrAccountNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to retrieve account: %w", err)
	}

	return &account, nil
}

// FindAll retrieves all accounts ordered by creation time, newest first
func (r *BadgerAccountRepository) FindAll(ctx context.Context) ([]*entity.Account, error) {
	accounts, err := r.scan()
	if err != nil {
		return nil, err
	}

	sort.Slice(accounts, func(i, j int) bool {
		return accounts[i].CreatedAt.After(accounts[j].CreatedAt)
	})

	return accounts, nil
}

// FindFirst retrieves the oldest account, used as the default account
func (r *BadgerAccountRepository) FindFirst(ctx context.Context) (*entity.Account, error) {
	accounts, err := r.scan()
	if err != nil {
		return nil, err
	}

	if len(accounts) == 0 {
		return nil, repository.ErrAccountNotFound
	}

	first := accounts[0]
	for _, a := range accounts[1:] {
		if a.CreatedAt.Before(first.CreatedAt) {
			first = a
		}
	}

	return first, nil
}

// Update overwrites an existing account
func (r *BadgerAccountRepository) Update(ctx context.Context, account *entity.Account) error {
	data, err := json.Marshal(account)
	if err != nil {
		return fmt.Errorf("failed to marshal account: %w", err)
	}

	err = r.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(accountKey(account.ID)); err != nil {
			return err
		}
		return txn.Set(accountKey(account.ID), data)
	})

	if errors.Is(err, badger.ErrKeyNotFound) {
		return repository.ErrAccountNotFound
	}

	if err != nil {
		return fmt.Errorf("failed to update account: %w", err)
	}

	return nil
}

// Delete removes an account by id
func (r *BadgerAccountRepository) Delete(ctx context.Context, id string) error {
	err := r.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(accountKey(id)); err != nil {
			return err
		}
		return txn.Delete(accountKey(id))
	})

	if errors.Is(err, badger.ErrKeyNotFound) {
		return repository.ErrAccountNotFound
	}

	if err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}

	return nil
}

// scan reads every stored account in key order
func (r *BadgerAccountRepository) scan() ([]*entity.Account, error) {
	var accounts []*entity.Account

	err := r.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(accountKeyPrefix)

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			var account entity.Account
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &account)
			})
			if err != nil {
				return err
			}
			accounts = append(accounts, &account)
		}

		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("failed to scan accounts: %w", err)
	}

	return accounts, nil
}
