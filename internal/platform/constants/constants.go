// Copyright (c) 2026 Priotama. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package constants provides centralized, immutable values for the entire platform.

It defines default timeouts, rate limits, and cross-cutting keys that are shared
between different layers of the system.

Categories:

  - Server Timing: Read/Write/Idle timeouts for the HTTP server.
  - Rate Limiting: Burst capacities and IP tracking TTLs.
  - Onboarding: Session lifetimes, OTP shape and upload limits.
  - Security: JWT issuers, token lifetimes and roles.

Using this package ensures Magic Strings and Magic Numbers are eliminated
from the business logic.
*/
package constants

import "time"

// # Metadata

const (
	AppName    = "priotama-api"
	AppVersion = "0.1.0-dev"
)

// # Server Timing

const (
	// DefaultReadTimeout is the maximum duration for reading the entire request.
	// Multipart registrations carry a picture, so it is longer than a JSON-only API needs.
	DefaultReadTimeout = 15 * time.Second

	// DefaultWriteTimeout is the maximum duration before timing out writes of the response.
	DefaultWriteTimeout = 30 * time.Second

	// DefaultIdleTimeout is the maximum amount of time to wait for the next request.
	DefaultIdleTimeout = 120 * time.Second

	// DefaultReadHeaderTimeout is the amount of time allowed to read request headers.
	DefaultReadHeaderTimeout = 2 * time.Second

	// GlobalRequestTimeout is the deadline for the entire request lifecycle.
	GlobalRequestTimeout = 30 * time.Second

	// ShutdownTimeout is how long we wait for in-flight requests to complete during shutdown.
	ShutdownTimeout = 30 * time.Second
)

// # Rate Limiting

const (
	// DefaultRateLimitRPS is the requests per second allowed per IP.
	DefaultRateLimitRPS = 20.0

	// DefaultRateLimitBurst is the maximum burst allowed for the rate limiter.
	DefaultRateLimitBurst = 40

	// RateLimitCleanupInterval is how often old IP entries are removed from memory.
	RateLimitCleanupInterval = 1 * time.Minute

	// RateLimitClientTTL is how long a client must be idle before its entry is deleted.
	RateLimitClientTTL = 3 * time.Minute
)

// # Onboarding

const (
	// RegistrationTTL is the lifetime of a pending registration.
	RegistrationTTL = 10 * time.Minute

	// ResetTTL is the lifetime of a pending password reset.
	ResetTTL = 5 * time.Minute

	// ResetTokenTTL is the lifetime of the signed reset token handed to the client.
	ResetTokenTTL = 15 * time.Minute

	// SessionSweepInterval is how often the in-memory store evicts expired sessions.
	SessionSweepInterval = 5 * time.Minute

	// OTPLength is the number of decimal digits in a one-time code.
	OTPLength = 6

	// MaxProfilePictureBytes is the largest accepted profile picture.
	MaxProfilePictureBytes = 500 * 1024

	// MaxMultipartMemory bounds the in-memory part of a multipart request.
	MaxMultipartMemory = 1 << 20

	// MinAge is the youngest age accepted at registration.
	MinAge = 18

	// MaxAge is the oldest age accepted at registration.
	MaxAge = 100
)

// # Authentication

const (
	// AuthIssuer is the standard 'iss' claim in JWTs.
	AuthIssuer = "priotama.app"

	// MemberTokenTTL is the lifetime of a member or admin access token.
	MemberTokenTTL = 7 * 24 * time.Hour

	// PurposePasswordReset marks a token that may only confirm a password reset.
	PurposePasswordReset = "password_reset"

	// ContextKeyUser is the key used to store user claims in the request context.
	ContextKeyUser = "user_claims"
)

// # HTTP Headers

const (
	HeaderXRequestID    = "X-Request-ID"
	HeaderXRealIP       = "X-Real-IP"
	HeaderXForwardedFor = "X-Forwarded-For"
	HeaderOrigin        = "Origin"
	HeaderRetryAfter    = "Retry-After"
)

// # JSON Field Identifiers

const (
	FieldData    = "data"
	FieldMeta    = "meta"
	FieldError   = "error"
	FieldCode    = "code"
	FieldDetails = "details"
	FieldItems   = "items"
	FieldTotal   = "total"
	FieldMessage = "message"
	FieldStatus  = "status"
	FieldApp     = "app"
	FieldVersion = "version"
	FieldChecks  = "checks"
)

// # Database Schemas

const (
	SchemaUsers = "users"
)

// # Redis Prefixes (Cache Taxonomy)

const (
	RedisPrefixRegistration      = "onboarding:registration:"
	RedisPrefixRegistrationEmail = "onboarding:registration_email:"
	RedisPrefixReset             = "onboarding:reset:"
	RedisPrefixResetUser         = "onboarding:reset_user:"
)
