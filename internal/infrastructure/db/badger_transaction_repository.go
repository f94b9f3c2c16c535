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

const transactionKeyPrefix = "tx:"

// BadgerTransactionRepository implements the transaction repository interface using BadgerDB
type BadgerTransactionRepository struct {
	db *badger.DB
}

// NewBadgerTransactionRepository creates a new BadgerDB transaction repository
func NewBadgerTransactionRepository(db *badger.DB) *BadgerTransactionRepository {
	return &BadgerTransactionRepository{db: db}
}

func transactionKey(id string) []byte {
	return []byte(transactionKeyPrefix + id)
}

// Store saves a new transaction
func (r *BadgerTransactionRepository) Store(ctx context.Context, tx *entity.Transaction) error {
	data, err := json.Marshal(tx)
	if err != nil {
		return fmt.Errorf("failed to marshal transaction: %w", err)
	}

	err = r.db.Update(func(txn *badger.Txn) error {
		return txn.Set(transactionKey(tx.ID), data)
	})

	if err != nil {
		return fmt.Errorf("failed to store transaction: %w", err)
	}

	return nil
}

// FindByID retrieves a transaction by its unique identifier
func (r *BadgerTransactionRepository) FindByID(ctx context.Context, id string) (*entity.Transaction, error) {
	var tx entity.Transaction

	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(transactionKey(id))
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &tx)
		})
	})

	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, repository.ErrTransactionNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to retrieve transaction: %w", err)
	}

	return &tx, nil
}

// FindAll retrieves all transactions ordered by date, newest first
func (r *BadgerTransactionRepository) FindAll(ctx context.Context) ([]*entity.Transaction, error) {
	var transactions []*entity.Transaction

	err := r.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(transactionKeyPrefix)

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			var tx entity.Transaction
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &tx)
			})
			if err != nil {
				return err
			}
			transactions = append(transactions, &tx)
		}

		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("failed to scan transactions: %w", err)
	}

	sort.Slice(transactions, func(i, j int) bool {
		return transactions[i].Date.After(transactions[j].Date)
	})

	return transactions, nil
}

// Update overwrites an existing transaction
func (r *BadgerTransactionRepository) Update(ctx context.Context, tx *entity.Transaction) error {
	data, err := json.Marshal(tx)
	if err != nil {
		return fmt.Errorf("failed to marshal transaction: %w", err)
	}

	err = r.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(transactionKey(tx.ID)); err != nil {
			return err
		}
		return txn.Set(transactionKey(tx.ID), data)
	})

	if errors.Is(err, badger.ErrKeyNotFound) {
		return repository.ErrTransactionNotFound
	}

	if err != nil {
		return fmt.Errorf("failed to update transaction: %w", err)
	}

	return nil
}

// Delete removes a transaction by id
func (r *BadgerTransactionRepository) Delete(ctx context.Context, id string) error {
	err := r.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(transactionKey(id)); err != nil {
			return err
		}
		return txn.Delete(transactionKey(id))
	})

	if errors.Is(err, badger.ErrKeyNotFound) {
		return repository.ErrTransactionNotFound
	}

	if err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}

	return nil
}
