// Copyright (c) 2026 Priotama. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/taibuivan/priotama/internal/platform/apperr"
	"github.com/taibuivan/priotama/internal/platform/constants"
	"github.com/taibuivan/priotama/internal/platform/sec"
	"github.com/taibuivan/priotama/internal/users/guard"
	"github.com/taibuivan/priotama/internal/users/session"
	"github.com/taibuivan/priotama/pkg/phone"
)

// # Service Configuration

// Stores groups the ephemeral session stores used by onboarding.
//
// The index stores map an email (registration) or a user id (reset) to the
// live session id so a new attempt can supersede the previous one.
type Stores struct {
	Registrations     session.Store[PendingRegistration]
	RegistrationIndex session.Store[string]
	Resets            session.Store[PendingPasswordReset]
	ResetIndex        session.Store[string]
}

// Settings holds the onboarding lifetimes.
type Settings struct {
	RegistrationTTL time.Duration
	ResetTTL        time.Duration
	ResetTokenTTL   time.Duration
	AccessTokenTTL  time.Duration
}

// DefaultSettings returns the production lifetimes.
func DefaultSettings() Settings {
	return Settings{
		RegistrationTTL: constants.RegistrationTTL,
		ResetTTL:        constants.ResetTTL,
		ResetTokenTTL:   constants.ResetTokenTTL,
		AccessTokenTTL:  constants.MemberTokenTTL,
	}
}

// Option customizes a [Service].
type Option func(*Service)

// WithClock overrides the time source used for session expiry.
func WithClock(now func() time.Time) Option {
	return func(service *Service) { service.now = now }
}

// # Service Layer

// Service orchestrates member onboarding and login.
type Service struct {
	userRepository UserRepository
	guard          *guard.Guard
	assets         AssetHost
	codes          CodeDeliverer
	tokenProvider  TokenProvider
	stores         Stores
	settings       Settings
	locks          *keyedMutex
	now            func() time.Time
}

// NewService constructs a new [Service] with its collaborators.
func NewService(
	userRepo UserRepository,
	assets AssetHost,
	codes CodeDeliverer,
	tokenProvider TokenProvider,
	stores Stores,
	settings Settings,
	options ...Option,
) *Service {
	service := &Service{
		userRepository: userRepo,
		guard:          guard.New(userRepo),
		assets:         assets,
		codes:          codes,
		tokenProvider:  tokenProvider,
		stores:         stores,
		settings:       settings,
		locks:          newKeyedMutex(),
		now:            time.Now,
	}
	for _, option := range options {
		option(service)
	}
	return service
}

// # Authentication

// LoginResult is returned on successful member login.
type LoginResult struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	User      *Summary  `json:"user"`
}

/*
Login authenticates a member by email and password.

Parameters:
  - context: context.Context
  - email: string
  - password: string

Returns:
  - *LoginResult: Signed member token and profile summary
  - error: Unauthorized for unknown email or wrong password, Forbidden for
    unverified or blocked members
*/
func (service *Service) Login(context context.Context, email, password string) (*LoginResult, error) {

	// 1. Resolve the member by normalized email
	user, err := service.userRepository.FindByEmail(context, phone.NormalizeEmail(email))
	if err != nil {
		if apperr.HasCode(err, apperr.CodeNotFound) {
			return nil, apperr.Unauthorized(msgInvalidCredentials)
		}
		return nil, upstream(err, "auth_login_lookup_failed")
	}

	// 2. Verify the password before revealing account state
	if !sec.CheckPasswordHash(password, user.PasswordHash) {
		return nil, apperr.Unauthorized(msgInvalidCredentials)
	}

	// 3. Account state
	if !user.IsVerified {
		return nil, apperr.Forbidden(msgNotVerified)
	}
	if user.IsBlocked {
		return nil, apperr.Forbidden(msgBlocked)
	}

	// 4. Issue the member token
	expiresAt := service.now().Add(service.settings.AccessTokenTTL)
	token, err := service.tokenProvider.GenerateAccessToken(user.ID, user.Email, sec.RoleMember, service.settings.AccessTokenTTL)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("auth_login_token_failed: %w", err))
	}

	return &LoginResult{Token: token, ExpiresAt: expiresAt, User: Summarize(user)}, nil
}

// # Shared Helpers

// upstream wraps a durable or ephemeral store failure unless it already
// carries a client-facing kind. Internal errors from the repositories are
// store failures too.
func upstream(err error, event string) error {
	if apperr.IsAppError(err) && !apperr.HasCode(err, apperr.CodeInternal) {
		return err
	}
	return apperr.Upstream(fmt.Errorf("%s: %w", event, err))
}

// isNotFound reports whether a session lookup missed.
func isNotFound(err error) bool {
	return errors.Is(err, session.ErrNotFound)
}
