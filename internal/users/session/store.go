// Copyright (c) 2026 Priotama. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package session provides the ephemeral, time-bounded key/value store that holds
onboarding data which has not been committed yet: pending registrations,
pending password resets and their lookup indexes.

Architecture:

  - Contract: [Store] offers Put (overwrite), Get and an idempotent Delete.
    Every single-key operation is atomic with respect to the others.
  - Expiry: Entries carry their deadline. Get may return an entry whose
    deadline passed but which has not been collected yet, so callers can tell
    "expired" apart from "never existed".
  - Backends: [MemoryStore] (map plus expiry heap, swept on an interval) and
    [RedisStore] (JSON values with native key TTL).

Nothing in this package knows about registrations or resets; payload types are
supplied by the caller through the type parameter.
*/
package session

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by Get when no entry exists for the id.
var ErrNotFound = errors.New("session: not found")

// Entry is a stored value together with its deadline.
type Entry[T any] struct {
	Value     T
	ExpiresAt time.Time
}

// Expired reports whether the entry's deadline has passed at now.
func (e Entry[T]) Expired(now time.Time) bool {
	return !now.Before(e.ExpiresAt)
}

// Remaining returns the time left before the deadline, never negative.
func (e Entry[T]) Remaining(now time.Time) time.Duration {
	if left := e.ExpiresAt.Sub(now); left > 0 {
		return left
	}
	return 0
}

/*
Store is the ephemeral session contract.

Put:
  - Overwrites any existing entry for id. The deadline is now + ttl.

Get:
  - Returns [ErrNotFound] when absent.
  - May return an entry whose deadline already passed; see [Entry.Expired].

Delete:
  - Idempotent. Deleting a missing id is not an error.
*/
type Store[T any] interface {
	Put(context context.Context, id string, value T, ttl time.Duration) error
	Get(context context.Context, id string) (Entry[T], error)
	Delete(context context.Context, id string) error
}
