// Package storage keeps JSON-serializable values by key. Every backend lists
// values in ascending key order, so keys that sort by creation time (such as
// version 7 UUIDs) page in creation order.
package storage

import "context"

type Storage[T any] interface {
	Create(ctx context.Context, key string, value T) error
	Get(ctx context.Context, key string) (T, error)
	Update(ctx context.Context, key string, value T) error
	List(ctx context.Context, offset, limit uint64) ([]T, uint64, error)
	Delete(ctx context.Context, key string) error
	Close() error
}
