// Copyright (c) 2026 Priotama. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package auth implements member onboarding: staged registration, OTP
verification, the identity commit and password reset, plus member login.

# Architecture

  - Entities: [User] is the durable member; [PendingRegistration] and
    [PendingPasswordReset] live only in the ephemeral session store.
  - Flow: stage (guard + session + OTP) → verify (state machine) → commit (saga).
  - Storage: [UserRepository] abstracts the durable store; sessions go through
    the generic session.Store.
*/
package auth

import (
	"time"

	"github.com/taibuivan/priotama/internal/platform/storage"
)

// # Domain Entities

// Gender is the binary gender recorded at registration.
type Gender string

const (
	GenderMale   Gender = "Male"
	GenderFemale Gender = "Female"
)

// Opposite returns the gender a member is matched with.
func (g Gender) Opposite() Gender {
	if g == GenderMale {
		return GenderFemale
	}
	return GenderMale
}

// User is a committed, durable member record.
type User struct {
	ID             string        `json:"id"`
	Name           string        `json:"name"`
	Email          string        `json:"email"`
	Phone          string        `json:"phone"`
	Gender         Gender        `json:"gender"`
	Age            int           `json:"age"`
	Country        string        `json:"country"`
	State          string        `json:"state"`
	Profession     string        `json:"profession"`
	Hobby          string        `json:"hobby"`
	InstaID        string        `json:"instaId"`
	ProfilePicture storage.Asset `json:"profilePic"`
	PasswordHash   string        `json:"-"`
	IsVerified     bool          `json:"isVerified"`
	IsBlocked      bool          `json:"isBlocked"`
	CreatedAt      time.Time     `json:"createdAt"`
	UpdatedAt      time.Time     `json:"updatedAt"`
}

// Field names used in validation and conflict details.
const (
	FieldName            = "name"
	FieldEmail           = "email"
	FieldPhone           = "phone"
	FieldGender          = "gender"
	FieldAge             = "age"
	FieldCountry         = "country"
	FieldState           = "state"
	FieldProfession      = "profession"
	FieldHobby           = "hobby"
	FieldInstaID         = "instaId"
	FieldProfilePicture  = "profilePic"
	FieldPassword        = "password"
	FieldConfirmPassword = "confirmPassword"
	FieldTempUserID      = "tempUserId"
	FieldOTP             = "otp"
	FieldResetToken      = "resetToken"
	FieldNewPassword     = "newPassword"
)

// Picture is a raw profile image held until the identity commit uploads it.
type Picture struct {
	Data        []byte `json:"data"`
	ContentType string `json:"contentType"`
}

// # Ephemeral Sessions

// RegistrationState is the position of a staged registration in the
// verification state machine.
type RegistrationState string

const (
	StateStaged   RegistrationState = "STAGED"
	StateVerified RegistrationState = "VERIFIED"
)

// PendingRegistration holds a candidate identity until its OTP is confirmed.
type PendingRegistration struct {
	ID           string            `json:"id"`
	Name         string            `json:"name"`
	Email        string            `json:"email"`
	Phone        string            `json:"phone"`
	Gender       Gender            `json:"gender"`
	Age          int               `json:"age"`
	Country      string            `json:"country"`
	State        string            `json:"state"`
	Profession   string            `json:"profession"`
	Hobby        string            `json:"hobby"`
	InstaID      string            `json:"instaId"`
	Picture      Picture           `json:"picture"`
	PasswordHash string            `json:"passwordHash"`
	OTP          string            `json:"otp"`
	Status       RegistrationState `json:"status"`
	CreatedAt    time.Time         `json:"createdAt"`
	ExpiresAt    time.Time         `json:"expiresAt"`
}

// PendingPasswordReset holds the OTP of a reset in progress. Its ID is the
// jti of the reset token handed to the client.
type PendingPasswordReset struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	OTP       string    `json:"otp"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// # Views

// Summary is the client-facing view of a member returned after commit and login.
type Summary struct {
	ID                string    `json:"id"`
	Name              string    `json:"name"`
	Email             string    `json:"email"`
	Phone             string    `json:"phone"`
	Gender            Gender    `json:"gender"`
	Age               int       `json:"age"`
	Country           string    `json:"country"`
	State             string    `json:"state"`
	Profession        string    `json:"profession"`
	Hobby             string    `json:"hobby"`
	InstaID           string    `json:"instaId"`
	ProfilePictureURL string    `json:"profilePicUrl"`
	IsVerified        bool      `json:"isVerified"`
	CreatedAt         time.Time `json:"createdAt"`
}

// Summarize projects a [User] onto its client-facing [Summary].
func Summarize(user *User) *Summary {
	return &Summary{
		ID:                user.ID,
		Name:              user.Name,
		Email:             user.Email,
		Phone:             user.Phone,
		Gender:            user.Gender,
		Age:               user.Age,
		Country:           user.Country,
		State:             user.State,
		Profession:        user.Profession,
		Hobby:             user.Hobby,
		InstaID:           user.InstaID,
		ProfilePictureURL: user.ProfilePicture.URL,
		IsVerified:        user.IsVerified,
		CreatedAt:         user.CreatedAt,
	}
}
