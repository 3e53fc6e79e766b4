// Copyright (c) 2026 Priotama. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package guard cross-checks a candidate email and phone against the durable
member records before an identity is staged, committed or edited.

Historical rows were written under several phone and email encodings, so the
check expands each candidate into every known encoding (see package phone)
and asks the store whether any row matches one of them. A stricter lookup on
the canonical form alone would miss those rows.
*/
package guard

import (
	"context"
	"fmt"

	"github.com/taibuivan/priotama/internal/platform/apperr"
	"github.com/taibuivan/priotama/pkg/phone"
)

// Field names reported in conflict details.
const (
	FieldEmail = "email"
	FieldPhone = "phone"
)

// Collision reports which identity attributes are already taken.
type Collision struct {
	Email bool
	Phone bool
}

// None reports whether nothing collided.
func (c Collision) None() bool { return !c.Email && !c.Phone }

// String renders the collision as none, email, phone or both.
func (c Collision) String() string {
	switch {
	case c.Email && c.Phone:
		return "both"
	case c.Email:
		return FieldEmail
	case c.Phone:
		return FieldPhone
	default:
		return "none"
	}
}

// Err converts the collision into a Conflict naming every colliding field,
// or nil when nothing collided.
func (c Collision) Err() error {
	if c.None() {
		return nil
	}

	var details []apperr.FieldError
	if c.Email {
		details = append(details, apperr.FieldError{Field: FieldEmail, Message: "Email is already registered"})
	}
	if c.Phone {
		details = append(details, apperr.FieldError{Field: FieldPhone, Message: "Phone number is already registered"})
	}
	return apperr.Conflict("User already exists", details...)
}

/*
Lookup is implemented by the member repository.

Parameters:
  - email: the normalized candidate email (may be empty)
  - phones: every encoding of the candidate phone (may be empty)
  - excludeUserID: a member whose own row must not count; empty for none

Returns:
  - emailTaken, phoneTaken: whether any other row matches
*/
type Lookup interface {
	IdentityTaken(context context.Context, email string, phones []string, excludeUserID string) (emailTaken, phoneTaken bool, err error)
}

// Guard runs duplicate checks.
type Guard struct {
	lookup Lookup
}

// New creates a Guard over lookup.
func New(lookup Lookup) *Guard {
	return &Guard{lookup: lookup}
}

// Check reports which of email and phone already belong to a member other
// than excludeUserID. An empty email or phone is not checked.
func (guard *Guard) Check(context context.Context, email, rawPhone, excludeUserID string) (Collision, error) {
	normalized := phone.NormalizeEmail(email)
	phones := phone.Variants(rawPhone)

	if normalized == "" && len(phones) == 0 {
		return Collision{}, nil
	}

	emailTaken, phoneTaken, err := guard.lookup.IdentityTaken(context, normalized, phones, excludeUserID)
	if err != nil {
		return Collision{}, fmt.Errorf("guard_lookup_failed: %w", err)
	}

	return Collision{Email: emailTaken, Phone: phoneTaken}, nil
}
