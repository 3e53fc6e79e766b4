// Copyright (c) 2026 Priotama. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"time"

	"github.com/taibuivan/priotama/internal/platform/sec"
	"github.com/taibuivan/priotama/internal/platform/storage"
	"github.com/taibuivan/priotama/internal/users/guard"
	"github.com/taibuivan/priotama/internal/users/otp"
)

// # Repository Contracts

// UserRepository defines the durable-store contract used by onboarding.
type UserRepository interface {
	guard.Lookup

	/*
		Create persists a committed member.

		Parameters:
		  - context: context.Context
		  - user: *User (ID and timestamps are set by the caller)

		Returns:
		  - error: apperr.Conflict naming the field on a unique violation, or storage failures
	*/
	Create(context context.Context, user *User) error

	/*
		FindByID retrieves a member by primary key.

		Parameters:
		  - context: context.Context
		  - id: string (UUID)

		Returns:
		  - *User: Hydrated member
		  - error: apperr.NotFound or storage failures
	*/
	FindByID(context context.Context, id string) (*User, error)

	/*
		FindByEmail retrieves a member by normalized email.

		Parameters:
		  - context: context.Context
		  - email: string (normalized)

		Returns:
		  - *User: Hydrated member
		  - error: apperr.NotFound or storage failures
	*/
	FindByEmail(context context.Context, email string) (*User, error)

	/*
		UpdatePassword replaces a member's password hash.

		Parameters:
		  - context: context.Context
		  - id: string
		  - passwordHash: string (bcrypt)

		Returns:
		  - error: apperr.NotFound or storage failures
	*/
	UpdatePassword(context context.Context, id, passwordHash string) error
}

// # Collaborators

// AssetHost stores profile pictures.
type AssetHost interface {
	Upload(context context.Context, data []byte, contentType string) (storage.Asset, error)
	Delete(context context.Context, key string) error
}

// CodeDeliverer sends one-time codes to members.
type CodeDeliverer interface {
	Deliver(context context.Context, destination, code string, purpose otp.Purpose, validFor time.Duration) error
}

// TokenProvider signs and verifies the tokens issued by onboarding.
type TokenProvider interface {
	GenerateAccessToken(userID, email string, role sec.UserRole, timeToLive time.Duration) (string, error)
	GenerateResetToken(sessionID, userID, purpose string, timeToLive time.Duration) (string, error)
	VerifyResetToken(tokenString, purpose string) (*sec.ResetClaims, error)
}
