// Package store adapts managed document stores to the events collection.
package store

import (
	"context"
	"errors"

	"github.com/isdelr/event-registry/internal/models"
)

// ErrNotFound is returned when a document id does not exist in the collection.
var ErrNotFound = errors.New("document not found")

// EventStore is the capability set the service needs from a document store.
// Implementations must be safe for concurrent use.
type EventStore interface {
	// List returns every document in the store's native order with ID set.
	List(ctx context.Context) ([]models.Event, error)
	// Add persists a new document and returns its store-assigned id.
	Add(ctx context.Context, event models.Event) (string, error)
	// AdjustLikes atomically adds delta to the likes counter, never going
	// below zero, and returns the new value. A missing likes field counts as 0.
	AdjustLikes(ctx context.Context, id string, delta int64) (int64, error)
	// Count returns the number of documents in the collection.
	Count(ctx context.Context) (int64, error)
	Close() error
}

// clampLikes applies delta to current with a floor of zero.
func clampLikes(current, delta int64) int64 {
	n := current + delta
	if n < 0 {
		return 0
	}
	return n
}
