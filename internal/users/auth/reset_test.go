// Copyright (c) 2026 Priotama. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/priotama/internal/platform/apperr"
	"github.com/taibuivan/priotama/internal/platform/constants"
	"github.com/taibuivan/priotama/internal/users/auth"
)

/*
TestPasswordReset_FullFlow verifies a wrong code, a refused same password, a
successful reset and a refused replay, in that order.
*/
func TestPasswordReset_FullFlow(t *testing.T) {
	f := newFixture(t)
	f.seedMember(t, "u1", "asha@x.com", "+91 7371832880", "old-password", nil)

	token, err := f.service.StageReset(context.Background(), "Asha@x.com")
	require.NoError(t, err)
	code := f.deliverer.lastCode("asha@x.com")

	claims, err := f.tokens.VerifyResetToken(token, constants.PurposePasswordReset)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)

	// Wrong code keeps the session
	err = f.service.ConfirmReset(context.Background(), token, wrongCode(code), "new-password")
	requireCode(t, err, apperr.CodeRejected)

	// Same password keeps the session
	err = f.service.ConfirmReset(context.Background(), token, code, "old-password")
	requireCode(t, err, apperr.CodeValidation)
	assert.Equal(t, 1, f.resets.Len())

	// Success
	require.NoError(t, f.service.ConfirmReset(context.Background(), token, code, "new-password"))
	assert.Zero(t, f.resets.Len())
	assert.Zero(t, f.resetIndex.Len())

	_, err = f.service.Login(context.Background(), "asha@x.com", "new-password")
	require.NoError(t, err)
	_, err = f.service.Login(context.Background(), "asha@x.com", "old-password")
	requireCode(t, err, apperr.CodeUnauthorized)

	// Single use
	err = f.service.ConfirmReset(context.Background(), token, code, "another-password")
	requireCode(t, err, apperr.CodeNotFound)
}

/*
TestStageReset_Refusals verifies who may start a reset.
*/
func TestStageReset_Refusals(t *testing.T) {
	f := newFixture(t)
	f.seedMember(t, "u-blocked", "blocked@x.com", "+1 5550000003", "pass-word-1", func(u *auth.User) { u.IsBlocked = true })
	f.seedMember(t, "u-new", "new@x.com", "+1 5550000004", "pass-word-1", func(u *auth.User) { u.IsVerified = false })

	tests := []struct {
		name     string
		email    string
		wantCode string
	}{
		{"malformed email", "nope", apperr.CodeValidation},
		{"unknown email", "ghost@x.com", apperr.CodeNotFound},
		{"blocked", "blocked@x.com", apperr.CodeForbidden},
		{"not verified", "new@x.com", apperr.CodeForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.service.StageReset(context.Background(), tt.email)
			requireCode(t, err, tt.wantCode)
			assert.Zero(t, f.resets.Len())
			assert.Zero(t, f.deliverer.sent)
		})
	}
}

/*
TestStageReset_DeliveryFailure verifies the reset session is rolled back.
*/
func TestStageReset_DeliveryFailure(t *testing.T) {
	f := newFixture(t)
	f.seedMember(t, "u1", "asha@x.com", "+91 7371832880", "old-password", nil)
	f.deliverer.err = errors.New("resend: 500")

	_, err := f.service.StageReset(context.Background(), "asha@x.com")

	requireCode(t, err, apperr.CodeDelivery)
	assert.Zero(t, f.resets.Len())
	assert.Zero(t, f.resetIndex.Len())
}

/*
TestStageReset_StoreFailure verifies a database outage during the member
lookup is reported as an unavailable dependency and stages nothing.
*/
func TestStageReset_StoreFailure(t *testing.T) {
	f := newFixture(t)
	f.seedMember(t, "u1", "asha@x.com", "+91 7371832880", "old-password", nil)
	f.users.lookupErr = apperr.Internal(errors.New("connection refused"))

	_, err := f.service.StageReset(context.Background(), "asha@x.com")
	requireCode(t, err, apperr.CodeUpstream)
	assert.Zero(t, f.resets.Len())
	assert.Empty(t, f.deliverer.lastCode("asha@x.com"))
}

/*
TestConfirmReset_StoreFailure verifies a database outage while loading the
member keeps the reset session so the same code can be retried.
*/
func TestConfirmReset_StoreFailure(t *testing.T) {
	f := newFixture(t)
	f.seedMember(t, "u1", "asha@x.com", "+91 7371832880", "old-password", nil)

	token, err := f.service.StageReset(context.Background(), "asha@x.com")
	require.NoError(t, err)
	code := f.deliverer.lastCode("asha@x.com")

	f.users.findErr = apperr.Internal(errors.New("connection refused"))
	err = f.service.ConfirmReset(context.Background(), token, code, "new-password")
	requireCode(t, err, apperr.CodeUpstream)
	assert.Equal(t, 1, f.resets.Len())

	f.users.findErr = nil
	require.NoError(t, f.service.ConfirmReset(context.Background(), token, code, "new-password"))
}

/*
TestStageReset_Supersedes verifies a new reset invalidates the previous token.
*/
func TestStageReset_Supersedes(t *testing.T) {
	f := newFixture(t)
	f.seedMember(t, "u1", "asha@x.com", "+91 7371832880", "old-password", nil)

	firstToken, err := f.service.StageReset(context.Background(), "asha@x.com")
	require.NoError(t, err)
	firstCode := f.deliverer.lastCode("asha@x.com")

	secondToken, err := f.service.StageReset(context.Background(), "asha@x.com")
	require.NoError(t, err)
	secondCode := f.deliverer.lastCode("asha@x.com")

	err = f.service.ConfirmReset(context.Background(), firstToken, firstCode, "new-password")
	requireCode(t, err, apperr.CodeNotFound)

	require.NoError(t, f.service.ConfirmReset(context.Background(), secondToken, secondCode, "new-password"))
}

/*
TestConfirmReset_Expired verifies the OTP lifetime is enforced even though the
token itself is still valid.
*/
func TestConfirmReset_Expired(t *testing.T) {
	f := newFixture(t)
	f.seedMember(t, "u1", "asha@x.com", "+91 7371832880", "old-password", nil)

	token, err := f.service.StageReset(context.Background(), "asha@x.com")
	require.NoError(t, err)
	code := f.deliverer.lastCode("asha@x.com")

	f.clock.Advance(5*time.Minute + time.Second)

	err = f.service.ConfirmReset(context.Background(), token, code, "new-password")
	requireCode(t, err, apperr.CodeExpired)

	err = f.service.ConfirmReset(context.Background(), token, code, "new-password")
	requireCode(t, err, apperr.CodeNotFound)
}

/*
TestConfirmReset_InvalidInput verifies token and payload checks.
*/
func TestConfirmReset_InvalidInput(t *testing.T) {
	f := newFixture(t)
	f.seedMember(t, "u1", "asha@x.com", "+91 7371832880", "old-password", nil)

	token, err := f.service.StageReset(context.Background(), "asha@x.com")
	require.NoError(t, err)
	code := f.deliverer.lastCode("asha@x.com")

	access, err := f.tokens.GenerateAccessToken("u1", "asha@x.com", "member", time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name     string
		token    string
		code     string
		password string
		wantCode string
	}{
		{"garbage token", "not.a.jwt", code, "new-password", apperr.CodeRejected},
		{"access token reused", access, code, "new-password", apperr.CodeRejected},
		{"malformed code", token, "12-456", "new-password", apperr.CodeRejected},
		{"short password", token, code, "short", apperr.CodeValidation},
		{"missing code", token, "", "new-password", apperr.CodeValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := f.service.ConfirmReset(context.Background(), tt.token, tt.code, tt.password)
			requireCode(t, err, tt.wantCode)
		})
	}

	assert.Equal(t, 1, f.resets.Len())
}
