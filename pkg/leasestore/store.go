// Package leasestore provides the ephemeral seat-lease store: a key-value
// store with atomic set-if-absent-with-expiry and compare-and-delete.
// Leases live only here; durable seat state stays in Postgres.
package leasestore

import (
	"context"
	"errors"
	"time"
)

// ErrUnavailable is returned when the backing store cannot be reached.
// Acquire fails closed on it: a seat is never considered claimable
// without confirmation of exclusivity.
var ErrUnavailable = errors.New("lease store unavailable")

// Store is the contract for the seat lease store.
type Store interface {
	// Acquire sets key to owner only if absent, with automatic expiry
	// after ttl. Returns whether acquisition succeeded.
	Acquire(ctx context.Context, key, owner string, ttl time.Duration) (bool, error)

	// Release deletes key only if its current value equals owner.
	// Mismatches are ignored silently (idempotent).
	Release(ctx context.Context, key, owner string) error

	// ReleaseAny deletes keys unconditionally, regardless of owner.
	ReleaseAny(ctx context.Context, keys ...string) error

	// PeekMany is a best-effort batched read of current owners.
	// Absent keys are omitted from the result. A store outage degrades
	// to an empty map rather than failing the caller.
	PeekMany(ctx context.Context, keys []string) (map[string]string, error)

	Close() error
}
