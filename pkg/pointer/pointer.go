// Copyright (c) 2026 Priotama. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package pointer helps with the optional fields of a profile update, where a
// nil pointer means the member did not send that field and the stored value
// stays.
package pointer

// To returns a pointer to v, for building update inputs in handlers and tests.
func To[T any](v T) *T {
	return &v
}

// Val dereferences p, or returns the zero value when p is nil.
func Val[T any](p *T) T {
	if p == nil {
		var zero T
		return zero
	}
	return *p
}

