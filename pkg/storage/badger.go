package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"

	pkgerrors "github.com/absmach/quadra/pkg/errors"
	"github.com/dgraph-io/badger/v4"
)

const defaultBadgerDir = "./data"

type badgerStorage[T any] struct {
	db *badger.DB
}

// NewBadgerStorage opens a Badger database in dataDir. An empty dataDir opens
// a purely in-memory database.
func NewBadgerStorage[T any](dataDir string) (Storage[T], error) {
	var opts badger.Options
	switch dataDir {
	case "":
		opts = badger.DefaultOptions("").WithInMemory(true)
	default:
		if err := os.MkdirAll(dataDir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
		opts = badger.DefaultOptions(dataDir)
	}
	opts.Logger = nil // Disable Badger's default logger

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open Badger database: %w", err)
	}

	return &badgerStorage[T]{db: db}, nil
}

func (s *badgerStorage[T]) Create(_ context.Context, key string, value T) error {
	if key == "" {
		return pkgerrors.ErrEmptyKey
	}

	return s.db.Update(func(txn *badger.Txn) error {
		_, err := txn.Get([]byte(key))
		if err == nil {
			return pkgerrors.ErrEntityExists
		}
		if !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("failed to check key existence: %w", err)
		}

		return writeValue(txn, key, value)
	})
}

func (s *badgerStorage[T]) Get(_ context.Context, key string) (T, error) {
	var result T
	if key == "" {
		return result, pkgerrors.ErrEmptyKey
	}

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return pkgerrors.ErrNotFound
			}

			return fmt.Errorf("failed to get key: %w", err)
		}

		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &result)
		})
	})

	return result, err
}

func (s *badgerStorage[T]) Update(_ context.Context, key string, value T) error {
	if key == "" {
		return pkgerrors.ErrEmptyKey
	}

	return s.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get([]byte(key)); err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return pkgerrors.ErrNotFound
			}

			return fmt.Errorf("failed to check key existence: %w", err)
		}

		return writeValue(txn, key, value)
	})
}

// List walks keys in Badger's native byte order, which matches sort.Strings.
func (s *badgerStorage[T]) List(_ context.Context, offset, limit uint64) (result []T, total uint64, err error) {
	result = []T{}
	end := offset + limit
	if end < offset {
		end = math.MaxUint64
	}
	err = s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			if total >= offset && total < end {
				var v T
				if err := it.Item().Value(func(val []byte) error {
					return json.Unmarshal(val, &v)
				}); err != nil {
					return fmt.Errorf("failed to decode %q: %w", it.Item().Key(), err)
				}
				result = append(result, v)
			}
			total++
		}

		return nil
	})
	if err != nil {
		return nil, 0, err
	}

	return result, total, nil
}

func (s *badgerStorage[T]) Delete(_ context.Context, key string) error {
	if key == "" {
		return pkgerrors.ErrEmptyKey
	}

	return s.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get([]byte(key)); err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return pkgerrors.ErrNotFound
			}

			return fmt.Errorf("failed to check key existence: %w", err)
		}

		return txn.Delete([]byte(key))
	})
}

func (s *badgerStorage[T]) Close() error {
	return s.db.Close()
}

func writeValue(txn *badger.Txn, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value: %w", err)
	}

	return txn.Set([]byte(key), data)
}
