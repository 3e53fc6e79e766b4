// Copyright (c) 2026 Priotama. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/taibuivan/priotama/internal/platform/apperr"
	"github.com/taibuivan/priotama/internal/platform/constants"
	"github.com/taibuivan/priotama/internal/platform/sec"
	"github.com/taibuivan/priotama/internal/platform/validate"
	"github.com/taibuivan/priotama/internal/users/auth"
	"github.com/taibuivan/priotama/internal/users/guard"
	"github.com/taibuivan/priotama/pkg/pagination"
	"github.com/taibuivan/priotama/pkg/phone"
	"github.com/taibuivan/priotama/pkg/pointer"
)

const (
	fieldCurrentPassword    = "currentPassword"
	fieldNewPassword        = "newPassword"
	fieldConfirmNewPassword = "confirmNewPassword"
)

// # Service Layer

// Service orchestrates member self-service.
type Service struct {
	accountRepository Repository
	guard             *guard.Guard
	assets            auth.AssetHost
	logger            *slog.Logger
}

// NewService constructs a new [Service] with its dependencies.
func NewService(accountRepo Repository, assets auth.AssetHost, logger *slog.Logger) *Service {
	return &Service{
		accountRepository: accountRepo,
		guard:             guard.New(accountRepo),
		assets:            assets,
		logger:            logger,
	}
}

// # Profile Management

/*
GetProfile retrieves the caller's own profile.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - *auth.Summary: The member profile
  - error: Not found or execution failures
*/
func (service *Service) GetProfile(context context.Context, userID string) (*auth.Summary, error) {
	user, err := service.accountRepository.FindByID(context, userID)
	if err != nil {
		return nil, fmt.Errorf("account_service_get_profile_failed: %w", err)
	}
	return auth.Summarize(user), nil
}

/*
UpdateProfile applies a partial set of changes to name, phone and instaId.

Description: A new phone is checked against every other member and stored in
canonical form.

Parameters:
  - context: context.Context
  - userID: string
  - input: UpdateProfileInput

Returns:
  - *auth.Summary: The updated profile
  - error: Validation, Conflict, NotFound or storage failures
*/
func (service *Service) UpdateProfile(context context.Context, userID string, input UpdateProfileInput) (*auth.Summary, error) {
	if input.Name == nil && input.Phone == nil && input.InstaID == nil {
		return nil, apperr.ValidationError("At least one field (name, phone, or instaId) is required")
	}

	user, err := service.accountRepository.FindByID(context, userID)
	if err != nil {
		return nil, fmt.Errorf("account_service_update_lookup_failed: %w", err)
	}

	validator := &validate.Validator{}

	// Apply delta updates
	if input.Name != nil {
		user.Name = strings.Join(strings.Fields(pointer.Val(input.Name)), " ")
		validator.Required(auth.FieldName, user.Name).MaxLen(auth.FieldName, user.Name, auth.MaxNameLen)
	}

	if input.InstaID != nil {
		user.InstaID = strings.TrimSpace(pointer.Val(input.InstaID))
		validator.Required(auth.FieldInstaID, user.InstaID).MaxLen(auth.FieldInstaID, user.InstaID, auth.MaxInstaIDLen)
	}

	rawPhone := strings.TrimSpace(pointer.Val(input.Phone))
	if input.Phone != nil {
		validator.Required(auth.FieldPhone, rawPhone).Phone(auth.FieldPhone, rawPhone)
	}

	if err := validator.Err(); err != nil {
		return nil, err
	}

	// A phone change must not collide with another member
	if input.Phone != nil {
		collision, err := service.guard.Check(context, "", rawPhone, userID)
		if err != nil {
			return nil, apperr.Upstream(err)
		}
		if !collision.None() {
			return nil, collision.Err()
		}

		canonical, err := phone.Normalize(rawPhone)
		if err != nil {
			return nil, validate.FieldError(auth.FieldPhone, "Must be a valid phone number")
		}
		user.Phone = canonical
	}

	// Persist changes
	if err := service.accountRepository.UpdateProfile(context, user); err != nil {
		return nil, fmt.Errorf("account_service_update_failed: %w", err)
	}

	service.logger.Info("user_profile_updated", slog.String("user_id", userID))

	return auth.Summarize(user), nil
}

/*
UpdatePassword rotates the caller's password.

Parameters:
  - context: context.Context
  - userID: string
  - current: string
  - next: string
  - confirm: string (must equal next)

Returns:
  - error: Validation, Rejected (wrong current password) or storage failures
*/
func (service *Service) UpdatePassword(context context.Context, userID, current, next, confirm string) error {
	validator := &validate.Validator{}
	validator.Required(fieldCurrentPassword, current)
	validator.Password(fieldNewPassword, next)
	validator.Match(fieldConfirmNewPassword, next, confirm, "Passwords do not match")
	if err := validator.Err(); err != nil {
		return err
	}

	user, err := service.accountRepository.FindByID(context, userID)
	if err != nil {
		return fmt.Errorf("account_service_password_lookup_failed: %w", err)
	}

	if !sec.CheckPasswordHash(current, user.PasswordHash) {
		return apperr.Rejected("Current password is incorrect")
	}
	if current == next {
		return validate.FieldError(fieldNewPassword, "New password must be different from the current password")
	}

	hash, err := sec.HashPassword(next)
	if err != nil {
		return apperr.Internal(fmt.Errorf("account_service_hash_failed: %w", err))
	}

	if err := service.accountRepository.UpdatePassword(context, userID, hash); err != nil {
		return fmt.Errorf("account_service_password_update_failed: %w", err)
	}

	service.logger.Info("user_password_updated", slog.String("user_id", userID))

	return nil
}

/*
ReplaceProfilePicture uploads a new picture and points the profile at it.

Description: The previous picture is deleted afterwards on a best-effort
basis; a failed delete is logged and does not fail the request.

Parameters:
  - context: context.Context
  - userID: string
  - picture: auth.Picture

Returns:
  - *auth.Summary: The updated profile
  - error: Validation, NotFound or Upstream
*/
func (service *Service) ReplaceProfilePicture(context context.Context, userID string, picture auth.Picture) (*auth.Summary, error) {
	validator := &validate.Validator{}
	validator.Image(auth.FieldProfilePicture, picture.Data, picture.ContentType, constants.MaxProfilePictureBytes)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	user, err := service.accountRepository.FindByID(context, userID)
	if err != nil {
		return nil, fmt.Errorf("account_service_picture_lookup_failed: %w", err)
	}

	// 1. Upload the replacement
	asset, err := service.assets.Upload(context, picture.Data, picture.ContentType)
	if err != nil {
		return nil, apperr.Upstream(err)
	}

	// 2. Point the profile at it, releasing the upload if that fails
	if err := service.accountRepository.UpdateProfilePicture(context, userID, asset); err != nil {
		service.releaseAsset(context, userID, asset.Key)
		if apperr.IsAppError(err) {
			return nil, err
		}
		return nil, apperr.Upstream(err)
	}

	// 3. Drop the old picture
	previous := user.ProfilePicture
	user.ProfilePicture = asset
	service.releaseAsset(context, userID, previous.Key)

	service.logger.Info("user_profile_picture_replaced", slog.String("user_id", userID))

	return auth.Summarize(user), nil
}

func (service *Service) releaseAsset(context context.Context, userID, key string) {
	if key == "" {
		return
	}
	if err := service.assets.Delete(context, key); err != nil {
		service.logger.Warn("profile_picture_release_failed",
			slog.String("user_id", userID),
			slog.String("asset_key", key),
			slog.Any("error", err),
		)
	}
}

// # Discovery

/*
Discover lists verified, unblocked members of the opposite gender, newest first.

Parameters:
  - context: context.Context
  - userID: string (viewer)
  - page, limit: int (clamped)

Returns:
  - []Card: One page of members
  - pagination.Meta: Page metadata
  - error: NotFound or storage failures
*/
func (service *Service) Discover(context context.Context, userID string, page, limit int) ([]Card, pagination.Meta, error) {
	viewer, err := service.accountRepository.FindByID(context, userID)
	if err != nil {
		return nil, pagination.Meta{}, fmt.Errorf("account_service_discover_lookup_failed: %w", err)
	}

	params := pagination.Clamp(page, limit)
	cards, total, err := service.accountRepository.ListDiscoverable(context, DiscoverFilter{
		Gender:        viewer.Gender.Opposite(),
		ExcludeUserID: viewer.ID,
		Limit:         params.Limit,
		Offset:        params.Offset(),
	})
	if err != nil {
		return nil, pagination.Meta{}, fmt.Errorf("account_service_discover_failed: %w", err)
	}

	return cards, pagination.NewMeta(params.Page, params.Limit, total), nil
}
