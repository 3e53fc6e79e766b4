// Copyright (c) 2026 Priotama. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package admin

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/taibuivan/priotama/internal/platform/apperr"
	"github.com/taibuivan/priotama/internal/platform/constants"
	"github.com/taibuivan/priotama/internal/platform/sec"
	"github.com/taibuivan/priotama/internal/platform/validate"
	"github.com/taibuivan/priotama/pkg/pagination"
	"github.com/taibuivan/priotama/pkg/phone"
	"github.com/taibuivan/priotama/pkg/uuid"
)

const (
	fieldEmail              = "email"
	fieldName               = "name"
	fieldPassword           = "password"
	fieldOldPassword        = "oldPassword"
	fieldNewPassword        = "newPassword"
	fieldConfirmNewPassword = "confirmNewPassword"
	fieldUserID             = "userId"
)

// TokenIssuer signs admin access tokens.
type TokenIssuer interface {
	GenerateAccessToken(userID, email string, role sec.UserRole, timeToLive time.Duration) (string, error)
}

// # Service Layer

// Service orchestrates the admin console.
type Service struct {
	adminRepository Repository
	tokenIssuer     TokenIssuer
	logger          *slog.Logger
}

// NewService constructs a new [Service].
func NewService(adminRepo Repository, tokenIssuer TokenIssuer, logger *slog.Logger) *Service {
	return &Service{
		adminRepository: adminRepo,
		tokenIssuer:     tokenIssuer,
		logger:          logger,
	}
}

// LoginResult is returned on successful admin login.
type LoginResult struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	Admin     *Admin    `json:"admin"`
}

/*
Login authenticates an operator.

Parameters:
  - context: context.Context
  - email, password: string

Returns:
  - *LoginResult: Signed admin token
  - error: Unauthorized for bad credentials, Forbidden for a deactivated admin
*/
func (service *Service) Login(context context.Context, email, password string) (*LoginResult, error) {
	email = phone.NormalizeEmail(email)

	admin, err := service.adminRepository.FindByEmail(context, email)
	if err != nil {
		if apperr.HasCode(err, apperr.CodeNotFound) {
			return nil, apperr.Unauthorized("Invalid email or password")
		}
		return nil, fmt.Errorf("admin_login_lookup_failed: %w", err)
	}

	if !sec.CheckPasswordHash(password, admin.PasswordHash) {
		return nil, apperr.Unauthorized("Invalid email or password")
	}
	if !admin.IsActive {
		return nil, apperr.Forbidden("Admin account is deactivated")
	}

	ttl := constants.MemberTokenTTL
	token, err := service.tokenIssuer.GenerateAccessToken(admin.ID, admin.Email, sec.RoleAdmin, ttl)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("admin_login_token_failed: %w", err))
	}

	service.logger.Info("admin_logged_in", slog.String("admin_id", admin.ID))

	return &LoginResult{Token: token, ExpiresAt: time.Now().Add(ttl), Admin: admin}, nil
}

/*
ChangePassword rotates an operator's password.

Parameters:
  - context: context.Context
  - adminID: string
  - old, next, confirm: string

Returns:
  - error: Validation, Rejected (wrong old password), NotFound or storage failures
*/
func (service *Service) ChangePassword(context context.Context, adminID, old, next, confirm string) error {
	validator := &validate.Validator{}
	validator.Required(fieldOldPassword, old)
	validator.Password(fieldNewPassword, next)
	validator.Match(fieldConfirmNewPassword, next, confirm, "New passwords do not match")
	if err := validator.Err(); err != nil {
		return err
	}

	admin, err := service.adminRepository.FindByID(context, adminID)
	if err != nil {
		return fmt.Errorf("admin_password_lookup_failed: %w", err)
	}

	if !sec.CheckPasswordHash(old, admin.PasswordHash) {
		return apperr.Rejected("Old password is incorrect")
	}
	if old == next {
		return validate.FieldError(fieldNewPassword, "New password must be different from your old password")
	}

	hash, err := sec.HashPassword(next)
	if err != nil {
		return apperr.Internal(fmt.Errorf("admin_password_hash_failed: %w", err))
	}

	if err := service.adminRepository.UpdatePassword(context, adminID, hash); err != nil {
		return fmt.Errorf("admin_password_update_failed: %w", err)
	}

	service.logger.Info("admin_password_changed", slog.String("admin_id", adminID))
	return nil
}

// MemberPage is one page of the member listing.
type MemberPage struct {
	Users  []MemberRow     `json:"users"`
	Counts MemberCounts    `json:"counts"`
	Meta   pagination.Meta `json:"pagination"`
}

/*
ListUsers returns members newest first with totals and the blocked count.

Parameters:
  - context: context.Context
  - page, limit: int (clamped)

Returns:
  - *MemberPage
  - error: storage failures
*/
func (service *Service) ListUsers(context context.Context, page, limit int) (*MemberPage, error) {
	params := pagination.Clamp(page, limit)

	counts, err := service.adminRepository.CountMembers(context)
	if err != nil {
		return nil, fmt.Errorf("admin_list_count_failed: %w", err)
	}

	rows, err := service.adminRepository.ListMembers(context, params.Limit, params.Offset())
	if err != nil {
		return nil, fmt.Errorf("admin_list_failed: %w", err)
	}

	return &MemberPage{
		Users:  rows,
		Counts: counts,
		Meta:   pagination.NewMeta(params.Page, params.Limit, counts.Total),
	}, nil
}

/*
ToggleBlock flips a member between blocked and unblocked.

Parameters:
  - context: context.Context
  - userID: string (UUID)

Returns:
  - *BlockState: State after the flip
  - error: Validation, NotFound or storage failures
*/
func (service *Service) ToggleBlock(context context.Context, userID string) (*BlockState, error) {
	validator := &validate.Validator{}
	validator.UUID(fieldUserID, userID)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	state, err := service.adminRepository.ToggleBlock(context, userID)
	if err != nil {
		return nil, fmt.Errorf("admin_toggle_block_failed: %w", err)
	}

	service.logger.Info("user_block_toggled",
		slog.String("user_id", userID),
		slog.Bool("is_blocked", state.IsBlocked),
	)

	return state, nil
}

/*
EnsureAdmin creates the operator account unless one with the email exists.

Parameters:
  - context: context.Context
  - email, name, password: string

Returns:
  - bool: true when an account was created
  - error: Validation or storage failures
*/
func (service *Service) EnsureAdmin(context context.Context, email, name, password string) (bool, error) {
	email = phone.NormalizeEmail(email)
	name = strings.TrimSpace(name)

	validator := &validate.Validator{}
	validator.Required(fieldEmail, email).Email(fieldEmail, email)
	validator.Required(fieldName, name)
	validator.Password(fieldPassword, password)
	if err := validator.Err(); err != nil {
		return false, err
	}

	_, err := service.adminRepository.FindByEmail(context, email)
	if err == nil {
		return false, nil
	}
	if !apperr.HasCode(err, apperr.CodeNotFound) {
		return false, fmt.Errorf("admin_seed_lookup_failed: %w", err)
	}

	hash, err := sec.HashPassword(password)
	if err != nil {
		return false, fmt.Errorf("admin_seed_hash_failed: %w", err)
	}

	admin := &Admin{
		ID:           uuid.New(),
		Email:        email,
		Name:         name,
		PasswordHash: hash,
		IsActive:     true,
	}
	if err := service.adminRepository.Create(context, admin); err != nil {
		// Lost a race with a concurrent seed
		if apperr.HasCode(err, apperr.CodeConflict) {
			return false, nil
		}
		return false, fmt.Errorf("admin_seed_create_failed: %w", err)
	}

	service.logger.Info("admin_seeded", slog.String("admin_id", admin.ID), slog.String("email", email))
	return true, nil
}
