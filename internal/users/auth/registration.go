// Copyright (c) 2026 Priotama. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/taibuivan/priotama/internal/platform/apperr"
	"github.com/taibuivan/priotama/internal/platform/constants"
	"github.com/taibuivan/priotama/internal/platform/ctxutil"
	"github.com/taibuivan/priotama/internal/platform/sec"
	"github.com/taibuivan/priotama/internal/platform/validate"
	"github.com/taibuivan/priotama/internal/users/otp"
	"github.com/taibuivan/priotama/pkg/phone"
	"github.com/taibuivan/priotama/pkg/uuid"
)

// RegisterInput carries the raw registration form.
type RegisterInput struct {
	Name            string
	Email           string
	Phone           string
	Gender          string
	Age             int
	Country         string
	State           string
	Profession      string
	Hobby           string
	InstaID         string
	Password        string
	ConfirmPassword string
	Picture         *Picture
}

// normalize trims every field, collapses whitespace inside the name and
// title-cases the gender so "  male " is accepted as "Male".
func (input RegisterInput) normalize() RegisterInput {
	input.Name = strings.Join(strings.Fields(input.Name), " ")
	input.Email = phone.NormalizeEmail(input.Email)
	input.Phone = strings.TrimSpace(input.Phone)
	input.Gender = cases.Title(language.English).String(strings.TrimSpace(input.Gender))
	input.Country = strings.TrimSpace(input.Country)
	input.State = strings.TrimSpace(input.State)
	input.Profession = strings.TrimSpace(input.Profession)
	input.Hobby = strings.TrimSpace(input.Hobby)
	input.InstaID = strings.TrimSpace(input.InstaID)
	return input
}

func (input RegisterInput) validate() error {
	validator := &validate.Validator{}

	validator.Required(FieldName, input.Name).MaxLen(FieldName, input.Name, MaxNameLen)
	validator.Required(FieldEmail, input.Email).MaxLen(FieldEmail, input.Email, MaxEmailLen).Email(FieldEmail, input.Email)
	validator.Required(FieldPhone, input.Phone).Phone(FieldPhone, input.Phone)
	validator.Required(FieldGender, input.Gender).OneOf(FieldGender, input.Gender, string(GenderMale), string(GenderFemale))
	validator.Range(FieldAge, input.Age, constants.MinAge, constants.MaxAge)
	validator.Required(FieldCountry, input.Country).MaxLen(FieldCountry, input.Country, MaxLocationLen)
	validator.Required(FieldState, input.State).MaxLen(FieldState, input.State, MaxLocationLen)
	validator.Required(FieldProfession, input.Profession).MaxLen(FieldProfession, input.Profession, MaxProfessionLen)
	validator.Required(FieldHobby, input.Hobby).MaxLen(FieldHobby, input.Hobby, MaxHobbyLen)
	validator.Required(FieldInstaID, input.InstaID).MaxLen(FieldInstaID, input.InstaID, MaxInstaIDLen)
	validator.Password(FieldPassword, input.Password)
	validator.Match(FieldConfirmPassword, input.Password, input.ConfirmPassword, msgPasswordMismatch)

	var data []byte
	var contentType string
	if input.Picture != nil {
		data, contentType = input.Picture.Data, input.Picture.ContentType
	}
	validator.Image(FieldProfilePicture, data, contentType, constants.MaxProfilePictureBytes)

	return validator.Err()
}

// # Stage

/*
StageRegistration validates a candidate identity, parks it in the session
store and sends a verification code to the email address.

Description: A new attempt for the same email supersedes any live one. If the
code cannot be delivered the session is removed again.

Parameters:
  - context: context.Context
  - input: RegisterInput

Returns:
  - string: Session id the client echoes back with the code
  - error: Validation, Conflict, Delivery or Upstream
*/
func (service *Service) StageRegistration(context context.Context, input RegisterInput) (string, error) {

	// 1. Shape the input before any rule sees it
	input = input.normalize()
	if err := input.validate(); err != nil {
		return "", err
	}

	canonicalPhone, err := phone.Normalize(input.Phone)
	if err != nil {
		return "", validate.FieldError(FieldPhone, "Must be a valid phone number")
	}

	// 2. One staging at a time per email
	unlock := service.locks.Lock(input.Email)
	defer unlock()

	// 3. Duplicate guard against committed members
	collision, err := service.guard.Check(context, input.Email, input.Phone, "")
	if err != nil {
		return "", upstream(err, "auth_stage_guard_failed")
	}
	if !collision.None() {
		return "", collision.Err()
	}

	// 4. Prepare the pending record
	passwordHash, err := sec.HashPassword(input.Password)
	if err != nil {
		return "", apperr.Internal(fmt.Errorf("auth_stage_hash_failed: %w", err))
	}

	code, err := otp.Generate()
	if err != nil {
		return "", apperr.Internal(fmt.Errorf("auth_stage_otp_failed: %w", err))
	}

	now := service.now()
	ttl := service.settings.RegistrationTTL
	pending := PendingRegistration{
		ID:           uuid.New(),
		Name:         input.Name,
		Email:        input.Email,
		Phone:        canonicalPhone,
		Gender:       Gender(input.Gender),
		Age:          input.Age,
		Country:      input.Country,
		State:        input.State,
		Profession:   input.Profession,
		Hobby:        input.Hobby,
		InstaID:      input.InstaID,
		Picture:      *input.Picture,
		PasswordHash: passwordHash,
		OTP:          code,
		Status:       StateStaged,
		CreatedAt:    now,
		ExpiresAt:    now.Add(ttl),
	}

	// 5. Supersede the previous attempt for this email
	if err := service.supersedeRegistration(context, input.Email); err != nil {
		return "", err
	}

	// 6. Park the session and index it by email
	if err := service.stores.Registrations.Put(context, pending.ID, pending, ttl); err != nil {
		return "", upstream(err, "auth_stage_session_put_failed")
	}
	if err := service.stores.RegistrationIndex.Put(context, pending.Email, pending.ID, ttl); err != nil {
		service.dropRegistration(context, pending)
		return "", upstream(err, "auth_stage_index_put_failed")
	}

	// 7. Deliver the code; nothing stays staged if this fails
	if err := service.codes.Deliver(context, pending.Email, code, otp.PurposeRegistration, ttl); err != nil {
		service.dropRegistration(context, pending)
		return "", err
	}

	ctxutil.GetLogger(context).Info("registration_staged",
		slog.String("session_id", pending.ID),
		slog.Time("expires_at", pending.ExpiresAt),
	)

	return pending.ID, nil
}

// supersedeRegistration removes the live session indexed under email, if any.
func (service *Service) supersedeRegistration(context context.Context, email string) error {
	previous, err := service.stores.RegistrationIndex.Get(context, email)
	if err != nil {
		if isNotFound(err) {
			return nil
		}
		return upstream(err, "auth_stage_index_get_failed")
	}

	if err := service.stores.Registrations.Delete(context, previous.Value); err != nil {
		return upstream(err, "auth_stage_supersede_failed")
	}

	ctxutil.GetLogger(context).Info("registration_superseded", slog.String("session_id", previous.Value))
	return nil
}

// dropRegistration deletes a session and its email index entry when the index
// still points at it. Failures are logged; the entries expire on their own.
func (service *Service) dropRegistration(context context.Context, pending PendingRegistration) {
	logger := ctxutil.GetLogger(context)

	if err := service.stores.Registrations.Delete(context, pending.ID); err != nil {
		logger.Warn("registration_session_delete_failed", slog.String("session_id", pending.ID), slog.Any("error", err))
	}

	indexed, err := service.stores.RegistrationIndex.Get(context, pending.Email)
	if err != nil || indexed.Value != pending.ID {
		return
	}
	if err := service.stores.RegistrationIndex.Delete(context, pending.Email); err != nil {
		logger.Warn("registration_index_delete_failed", slog.String("session_id", pending.ID), slog.Any("error", err))
	}
}

// # Verify

/*
VerifyRegistration checks the code for a staged registration and commits the
identity.

Description: A session already VERIFIED by an earlier attempt whose commit
failed upstream skips the code check and retries the commit.

Parameters:
  - context: context.Context
  - sessionID: string
  - code: string

Returns:
  - *Summary: The committed member
  - error: Validation, NotFound, Expired, Rejected, Conflict or Upstream
*/
func (service *Service) VerifyRegistration(context context.Context, sessionID, code string) (*Summary, error) {
	sessionID = strings.TrimSpace(sessionID)
	code = strings.TrimSpace(code)

	if sessionID == "" {
		return nil, validate.FieldError(FieldTempUserID, "This field is required")
	}

	// 1. Session must exist
	entry, err := service.stores.Registrations.Get(context, sessionID)
	if err != nil {
		if isNotFound(err) {
			return nil, apperr.NotFound(resourceRegistration)
		}
		return nil, upstream(err, "auth_verify_session_get_failed")
	}

	// 2. Not expired, even if the sweep has not collected it yet
	now := service.now()
	if entry.Expired(now) {
		service.dropRegistration(context, entry.Value)
		return nil, apperr.Expired(resourceRegistration)
	}

	pending := entry.Value

	// 3. Code check, skipped on a retry after an upstream failure
	if pending.Status != StateVerified {
		if !otp.WellFormed(code) {
			return nil, apperr.Rejected(msgMalformedCode)
		}
		if !otp.Match(pending.OTP, code) {
			return nil, apperr.Rejected(msgInvalidCode)
		}

		pending.Status = StateVerified
		if err := service.stores.Registrations.Put(context, pending.ID, pending, entry.Remaining(now)); err != nil {
			return nil, upstream(err, "auth_verify_session_put_failed")
		}
	}

	// 4. Commit
	user, err := service.commit(context, pending)
	if err != nil {
		return nil, err
	}

	return Summarize(user), nil
}
