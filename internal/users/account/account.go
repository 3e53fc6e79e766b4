// Copyright (c) 2026 Priotama. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package account handles member profile management and match discovery.

It lets a signed-in member view and edit the mutable part of their identity,
rotate their password, replace their profile picture and browse members of
the opposite gender.

# Architecture

  - Entities: [Card] (public discovery view); the member itself is auth.User.
  - Domain: Depends on the auth package for the User entity and the guard
    package for phone collisions.
  - Storage: [Repository] is implemented over users.member.
*/
package account

import (
	"context"
	"time"

	"github.com/taibuivan/priotama/internal/platform/storage"
	"github.com/taibuivan/priotama/internal/users/auth"
	"github.com/taibuivan/priotama/internal/users/guard"
)

// # Domain Entities

// Card is the public view of a member shown in discovery.
type Card struct {
	ID                string      `json:"id"`
	Name              string      `json:"name"`
	Gender            auth.Gender `json:"gender"`
	Age               int         `json:"age"`
	Country           string      `json:"country"`
	State             string      `json:"state"`
	Profession        string      `json:"profession"`
	Hobby             string      `json:"hobby"`
	ProfilePictureURL string      `json:"profilePicUrl"`
	JoinedAt          time.Time   `json:"joinedAt"`
}

// UpdateProfileInput defines the mutable subset of member profile fields.
// A nil field is left unchanged.
type UpdateProfileInput struct {
	Name    *string
	Phone   *string
	InstaID *string
}

// DiscoverFilter selects the members shown to a viewer.
type DiscoverFilter struct {
	Gender        auth.Gender
	ExcludeUserID string
	Limit         int
	Offset        int
}

// # Repository Contracts

// Repository defines the persistence contract for member self-service.
type Repository interface {
	guard.Lookup

	/*
		FindByID retrieves a member record by their unique ID.

		Parameters:
		  - context: context.Context
		  - id: string (UUID)

		Returns:
		  - *auth.User: Loaded member
		  - error: apperr.NotFound or storage failures
	*/
	FindByID(context context.Context, id string) (*auth.User, error)

	/*
		UpdateProfile writes name, phone and instaId of an existing member.

		Parameters:
		  - context: context.Context
		  - user: *auth.User (Hydrated entity with changes)

		Returns:
		  - error: apperr.Conflict on a phone collision, or storage failures
	*/
	UpdateProfile(context context.Context, user *auth.User) error

	/*
		UpdatePassword replaces the password hash.

		Parameters:
		  - context: context.Context
		  - id: string
		  - passwordHash: string

		Returns:
		  - error: apperr.NotFound or storage failures
	*/
	UpdatePassword(context context.Context, id, passwordHash string) error

	/*
		UpdateProfilePicture points the member at a new stored picture.

		Parameters:
		  - context: context.Context
		  - id: string
		  - asset: storage.Asset

		Returns:
		  - error: apperr.NotFound or storage failures
	*/
	UpdateProfilePicture(context context.Context, id string, asset storage.Asset) error

	/*
		ListDiscoverable returns verified, unblocked members of one gender,
		newest first.

		Parameters:
		  - context: context.Context
		  - filter: DiscoverFilter

		Returns:
		  - []Card: One page of members
		  - int: Total matching members
		  - error: storage failures
	*/
	ListDiscoverable(context context.Context, filter DiscoverFilter) ([]Card, int, error)
}
