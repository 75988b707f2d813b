package storage

import (
	"context"
	"sort"
	"sync"

	"github.com/absmach/quadra/pkg/errors"
)

type inMemoryStorage[T any] struct {
	sync.Mutex

	data map[string]T
}

func NewInMemoryStorage[T any]() Storage[T] {
	return &inMemoryStorage[T]{
		data: make(map[string]T),
	}
}

func (s *inMemoryStorage[T]) Create(_ context.Context, key string, value T) error {
	if key == "" {
		return errors.ErrEmptyKey
	}

	s.Lock()
	defer s.Unlock()

	if _, ok := s.data[key]; ok {
		return errors.ErrEntityExists
	}

	s.data[key] = value

	return nil
}

func (s *inMemoryStorage[T]) Get(_ context.Context, key string) (T, error) {
	var zero T
	if key == "" {
		return zero, errors.ErrEmptyKey
	}

	s.Lock()
	defer s.Unlock()

	if val, ok := s.data[key]; ok {
		return val, nil
	}

	return zero, errors.ErrNotFound
}

func (s *inMemoryStorage[T]) Update(_ context.Context, key string, value T) error {
	if key == "" {
		return errors.ErrEmptyKey
	}

	s.Lock()
	defer s.Unlock()

	if _, ok := s.data[key]; !ok {
		return errors.ErrNotFound
	}

	s.data[key] = value

	return nil
}

func (s *inMemoryStorage[T]) List(_ context.Context, offset, limit uint64) (result []T, total uint64, err error) {
	s.Lock()
	defer s.Unlock()

	keys := make([]string, 0, len(s.data))
	for k := range s.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	total = uint64(len(keys))
	if offset >= total {
		return []T{}, total, nil
	}

	end := min(offset+limit, total)
	result = make([]T, end-offset)
	for i := offset; i < end; i++ {
		result[i-offset] = s.data[keys[i]]
	}

	return result, total, nil
}

func (s *inMemoryStorage[T]) Delete(_ context.Context, key string) error {
	if key == "" {
		return errors.ErrEmptyKey
	}

	s.Lock()
	defer s.Unlock()

	if _, ok := s.data[key]; !ok {
		return errors.ErrNotFound
	}
	delete(s.data, key)

	return nil
}

func (s *inMemoryStorage[T]) Close() error {
	return nil
}
