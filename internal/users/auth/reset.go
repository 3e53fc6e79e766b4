// Copyright (c) 2026 Priotama. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/taibuivan/priotama/internal/platform/apperr"
	"github.com/taibuivan/priotama/internal/platform/constants"
	"github.com/taibuivan/priotama/internal/platform/ctxutil"
	"github.com/taibuivan/priotama/internal/platform/sec"
	"github.com/taibuivan/priotama/internal/platform/validate"
	"github.com/taibuivan/priotama/internal/users/otp"
	"github.com/taibuivan/priotama/pkg/phone"
	"github.com/taibuivan/priotama/pkg/uuid"
)

// # Stage Reset

/*
StageReset starts a password reset for a verified, unblocked member.

Description: Any live reset for the same member is superseded. The returned
token's jti names the reset session; the OTP goes to the member's email.

Parameters:
  - context: context.Context
  - email: string

Returns:
  - string: Signed reset token
  - error: Validation, NotFound, Forbidden, Delivery or Upstream
*/
func (service *Service) StageReset(context context.Context, email string) (string, error) {
	email = phone.NormalizeEmail(email)

	validator := &validate.Validator{}
	validator.Required(FieldEmail, email).Email(FieldEmail, email)
	if err := validator.Err(); err != nil {
		return "", err
	}

	// 1. Member must exist and be allowed to sign in
	user, err := service.userRepository.FindByEmail(context, email)
	if err != nil {
		return "", upstream(err, "auth_reset_lookup_failed")
	}
	if !user.IsVerified {
		return "", apperr.Forbidden(msgNotVerified)
	}
	if user.IsBlocked {
		return "", apperr.Forbidden(msgBlocked)
	}

	unlock := service.locks.Lock(user.ID)
	defer unlock()

	// 2. Supersede the previous reset
	if err := service.supersedeReset(context, user.ID); err != nil {
		return "", err
	}

	// 3. Prepare the session and its token
	code, err := otp.Generate()
	if err != nil {
		return "", apperr.Internal(fmt.Errorf("auth_reset_otp_failed: %w", err))
	}

	now := service.now()
	ttl := service.settings.ResetTTL
	pending := PendingPasswordReset{
		ID:        uuid.New(),
		UserID:    user.ID,
		OTP:       code,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}

	token, err := service.tokenProvider.GenerateResetToken(pending.ID, user.ID, constants.PurposePasswordReset, service.settings.ResetTokenTTL)
	if err != nil {
		return "", apperr.Internal(fmt.Errorf("auth_reset_token_failed: %w", err))
	}

	// 4. Park the session and index it by member
	if err := service.stores.Resets.Put(context, pending.ID, pending, ttl); err != nil {
		return "", upstream(err, "auth_reset_session_put_failed")
	}
	if err := service.stores.ResetIndex.Put(context, user.ID, pending.ID, ttl); err != nil {
		service.dropReset(context, pending)
		return "", upstream(err, "auth_reset_index_put_failed")
	}

	// 5. Deliver; roll back on failure
	if err := service.codes.Deliver(context, phone.NormalizeEmail(user.Email), code, otp.PurposePasswordReset, ttl); err != nil {
		service.dropReset(context, pending)
		return "", err
	}

	ctxutil.GetLogger(context).Info("password_reset_staged",
		slog.String("session_id", pending.ID),
		slog.String("user_id", user.ID),
	)

	return token, nil
}

func (service *Service) supersedeReset(context context.Context, userID string) error {
	previous, err := service.stores.ResetIndex.Get(context, userID)
	if err != nil {
		if isNotFound(err) {
			return nil
		}
		return upstream(err, "auth_reset_index_get_failed")
	}

	if err := service.stores.Resets.Delete(context, previous.Value); err != nil {
		return upstream(err, "auth_reset_supersede_failed")
	}
	return nil
}

// dropReset removes a reset session and its index entry when it still points
// at the session.
func (service *Service) dropReset(context context.Context, pending PendingPasswordReset) {
	logger := ctxutil.GetLogger(context)

	if err := service.stores.Resets.Delete(context, pending.ID); err != nil {
		logger.Warn("reset_session_delete_failed", slog.String("session_id", pending.ID), slog.Any("error", err))
	}

	indexed, err := service.stores.ResetIndex.Get(context, pending.UserID)
	if err != nil || indexed.Value != pending.ID {
		return
	}
	if err := service.stores.ResetIndex.Delete(context, pending.UserID); err != nil {
		logger.Warn("reset_index_delete_failed", slog.String("session_id", pending.ID), slog.Any("error", err))
	}
}

// # Confirm Reset

/*
ConfirmReset sets a new password once the reset token and OTP check out.

Description: The session is single-use. It is deleted before the new hash is
written, so a replay finds nothing. A new password equal to the current one is
refused and the session kept for another try.

Parameters:
  - context: context.Context
  - token: string (reset token from StageReset)
  - code: string
  - newPassword: string

Returns:
  - error: Validation, Rejected, NotFound, Expired or Upstream
*/
func (service *Service) ConfirmReset(context context.Context, token, code, newPassword string) error {
	token = strings.TrimSpace(token)
	code = strings.TrimSpace(code)

	validator := &validate.Validator{}
	validator.Required(FieldResetToken, token).Required(FieldOTP, code).Password(FieldNewPassword, newPassword)
	if err := validator.Err(); err != nil {
		return err
	}

	// 1. Token names the session
	claims, err := service.tokenProvider.VerifyResetToken(token, constants.PurposePasswordReset)
	if err != nil {
		return apperr.Rejected(msgInvalidResetToken)
	}

	unlock := service.locks.Lock(claims.SessionID())
	defer unlock()

	// 2. Session must exist and be live
	entry, err := service.stores.Resets.Get(context, claims.SessionID())
	if err != nil {
		if isNotFound(err) {
			return apperr.NotFound(resourceReset)
		}
		return upstream(err, "auth_confirm_session_get_failed")
	}
	pending := entry.Value

	if entry.Expired(service.now()) {
		service.dropReset(context, pending)
		return apperr.Expired(resourceReset)
	}
	if pending.UserID != claims.UserID {
		return apperr.Rejected(msgInvalidResetToken)
	}

	// 3. Code
	if !otp.WellFormed(code) {
		return apperr.Rejected(msgMalformedCode)
	}
	if !otp.Match(pending.OTP, code) {
		return apperr.Rejected(msgInvalidCode)
	}

	// 4. New password must differ from the current one
	user, err := service.userRepository.FindByID(context, pending.UserID)
	if err != nil {
		return upstream(err, "auth_confirm_lookup_failed")
	}
	if sec.CheckPasswordHash(newPassword, user.PasswordHash) {
		return validate.FieldError(FieldNewPassword, msgSamePassword)
	}

	passwordHash, err := sec.HashPassword(newPassword)
	if err != nil {
		return apperr.Internal(fmt.Errorf("auth_confirm_hash_failed: %w", err))
	}

	// 5. Consume the session before the write is acknowledged
	if err := service.stores.Resets.Delete(context, pending.ID); err != nil {
		return upstream(err, "auth_confirm_session_delete_failed")
	}
	service.dropReset(context, pending)

	if err := service.userRepository.UpdatePassword(context, user.ID, passwordHash); err != nil {
		return upstream(err, "auth_confirm_update_failed")
	}

	ctxutil.GetLogger(context).Info("password_reset_completed", slog.String("user_id", user.ID))

	return nil
}
