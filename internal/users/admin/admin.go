// Copyright (c) 2026 Priotama. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package admin implements the operator console: admin sign-in, admin password
rotation, member listing and blocking.

# Architecture

  - Entities: [Admin] (users.admin) and [MemberRow], the console view of a member.
  - Security: Every route except login requires a token with the admin role.
*/
package admin

import (
	"context"
	"time"

	"github.com/taibuivan/priotama/internal/users/auth"
)

// # Domain Entities

// Admin is an operator account.
type Admin struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	IsActive     bool      `json:"isActive"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// MemberRow is a member as listed in the console.
type MemberRow struct {
	ID         string      `json:"id"`
	Name       string      `json:"name"`
	Email      string      `json:"email"`
	Phone      string      `json:"phone"`
	Gender     auth.Gender `json:"gender"`
	Age        int         `json:"age"`
	Country    string      `json:"country"`
	State      string      `json:"state"`
	Profession string      `json:"profession"`
	Hobby      string      `json:"hobby"`
	InstaID    string      `json:"instaId"`
	IsBlocked  bool        `json:"isBlocked"`
	CreatedAt  time.Time   `json:"createdAt"`
}

// BlockState reports a member's block flag after a toggle.
type BlockState struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	IsBlocked bool   `json:"isBlocked"`
}

// MemberCounts summarizes the member table.
type MemberCounts struct {
	Total   int `json:"totalUsers"`
	Blocked int `json:"blockedUsers"`
}

// # Repository Contracts

// Repository defines the persistence contract for the console.
type Repository interface {
	/*
		Create inserts a new admin.

		Returns:
		  - error: apperr.Conflict when the email is taken, or storage failures
	*/
	Create(context context.Context, admin *Admin) error

	/*
		FindByEmail retrieves an admin by normalized email.

		Returns:
		  - *Admin: Hydrated admin
		  - error: apperr.NotFound or storage failures
	*/
	FindByEmail(context context.Context, email string) (*Admin, error)

	/*
		FindByID retrieves an admin by primary key.

		Returns:
		  - *Admin: Hydrated admin
		  - error: apperr.NotFound or storage failures
	*/
	FindByID(context context.Context, id string) (*Admin, error)

	/*
		UpdatePassword replaces an admin's password hash.

		Returns:
		  - error: apperr.NotFound or storage failures
	*/
	UpdatePassword(context context.Context, id, passwordHash string) error

	/*
		ListMembers returns members newest first.

		Parameters:
		  - context: context.Context
		  - limit, offset: int

		Returns:
		  - []MemberRow: One page
		  - error: storage failures
	*/
	ListMembers(context context.Context, limit, offset int) ([]MemberRow, error)

	/*
		CountMembers returns the total and blocked member counts.
	*/
	CountMembers(context context.Context) (MemberCounts, error)

	/*
		ToggleBlock flips a member's block flag atomically.

		Returns:
		  - *BlockState: State after the flip
		  - error: apperr.NotFound or storage failures
	*/
	ToggleBlock(context context.Context, userID string) (*BlockState, error)
}
