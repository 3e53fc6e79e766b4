// Copyright (c) 2026 Priotama. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

// Field length limits for registration input.
const (
	MaxNameLen       = 100
	MaxEmailLen      = 254
	MaxLocationLen   = 100
	MaxProfessionLen = 100
	MaxHobbyLen      = 200
	MaxInstaIDLen    = 100
)

// Client-facing messages.
const (
	msgInvalidCredentials = "Invalid email or password"
	msgNotVerified        = "User not verified"
	msgBlocked            = "User is blocked"
	msgPasswordMismatch   = "Passwords do not match"
	msgSamePassword       = "New password must be different from the current password"
	msgMalformedCode      = "Verification code must be 6 digits"
	msgInvalidCode        = "Invalid verification code"
	msgInvalidResetToken  = "Reset token is invalid or expired"
)

// Resource names used in not-found and expired errors.
const (
	resourceRegistration = "Registration session"
	resourceReset        = "Password reset session"
	resourceUser         = "User"
)
