// Copyright (c) 2026 Priotama. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/priotama/internal/platform/database/schema"
	"github.com/taibuivan/priotama/internal/platform/dberr"
)

// MemberConstraints maps the unique constraints of users.member to the fields they protect.
var MemberConstraints = dberr.ConstraintFields{
	schema.Member.EmailKey: FieldEmail,
	schema.Member.PhoneKey: FieldPhone,
}

// ScanUser hydrates a [User] from a row selected with [schema.MemberTable.SelectList].
func ScanUser(row pgx.Row) (*User, error) {
	user := &User{}
	err := row.Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.Phone,
		&user.Gender,
		&user.Age,
		&user.Country,
		&user.State,
		&user.Profession,
		&user.Hobby,
		&user.InstaID,
		&user.ProfilePicture.URL,
		&user.ProfilePicture.Key,
		&user.PasswordHash,
		&user.IsVerified,
		&user.IsBlocked,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// # User Repository

// PostgresUserRepository implements [UserRepository] using pgx.
type PostgresUserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new PostgreSQL implementation of the [UserRepository].
func NewUserRepository(pool *pgxpool.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{pool: pool}
}

/*
Create persists a committed member into the users.member table.

Description: The unique constraints on email and phone are the final arbiter
of duplicates; a violation is reported as a Conflict naming the field.

Parameters:
  - context: context.Context
  - user: *User (Entity to persist)

Returns:
  - error: apperr.Conflict or wrapped database errors
*/
func (repository *PostgresUserRepository) Create(context context.Context, user *User) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`,
		schema.Member.Table, schema.Member.SelectList(),
	)

	now := time.Now().UTC()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	_, err := repository.pool.Exec(context, query,
		user.ID,
		user.Name,
		user.Email,
		user.Phone,
		user.Gender,
		user.Age,
		user.Country,
		user.State,
		user.Profession,
		user.Hobby,
		user.InstaID,
		user.ProfilePicture.URL,
		user.ProfilePicture.Key,
		user.PasswordHash,
		user.IsVerified,
		user.IsBlocked,
		user.CreatedAt,
		user.UpdatedAt,
	)

	if err != nil {
		if _, ok := dberr.UniqueViolation(err, MemberConstraints); ok {
			return dberr.Wrap(err, resourceUser, MemberConstraints)
		}
		return fmt.Errorf("postgres_user_repo_create_failed: %w", err)
	}

	return nil
}

/*
FindByID retrieves a member by primary key.

Parameters:
  - context: context.Context
  - id: string (UUID)

Returns:
  - *User: Hydrated member
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresUserRepository) FindByID(context context.Context, id string) (*User, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		schema.Member.SelectList(), schema.Member.Table, schema.Member.ID)

	user, err := ScanUser(repository.pool.QueryRow(context, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, resourceUser, nil)
	}

	return user, nil
}

/*
FindByEmail retrieves the member by normalized email.

Parameters:
  - context: context.Context
  - email: string (normalized)

Returns:
  - *User: Hydrated member
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresUserRepository) FindByEmail(context context.Context, email string) (*User, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		schema.Member.SelectList(), schema.Member.Table, schema.Member.Email)

	user, err := ScanUser(repository.pool.QueryRow(context, query, email))
	if err != nil {
		return nil, dberr.Wrap(err, resourceUser, nil)
	}

	return user, nil
}

/*
UpdatePassword replaces the stored password hash.

Parameters:
  - context: context.Context
  - id: string
  - passwordHash: string

Returns:
  - error: apperr.NotFound when no row matched, or database errors
*/
func (repository *PostgresUserRepository) UpdatePassword(context context.Context, id, passwordHash string) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = $2, %s = $3 WHERE %s = $1`,
		schema.Member.Table, schema.Member.Password, schema.Member.UpdatedAt, schema.Member.ID)

	tag, err := repository.pool.Exec(context, query, id, passwordHash, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("postgres_user_repo_update_password_failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return dberr.Wrap(pgx.ErrNoRows, resourceUser, nil)
	}

	return nil
}

/*
IdentityTaken reports whether any member other than excludeUserID already
holds the email or one of the phone variants.

Parameters:
  - context: context.Context
  - email: string (normalized, empty to skip)
  - phones: []string (phone variants)
  - excludeUserID: string (empty to check against every member)

Returns:
  - emailTaken, phoneTaken: bool
  - error: database errors
*/
func (repository *PostgresUserRepository) IdentityTaken(context context.Context, email string, phones []string, excludeUserID string) (bool, bool, error) {
	query := fmt.Sprintf(`
		SELECT
			EXISTS (SELECT 1 FROM %[1]s WHERE $1 <> '' AND %[2]s = $1 AND ($3::uuid IS NULL OR %[4]s <> $3::uuid)),
			EXISTS (SELECT 1 FROM %[1]s WHERE %[3]s = ANY($2) AND ($3::uuid IS NULL OR %[4]s <> $3::uuid))`,
		schema.Member.Table, schema.Member.Email, schema.Member.Phone, schema.Member.ID,
	)

	var exclude *string
	if excludeUserID != "" {
		exclude = &excludeUserID
	}

	if phones == nil {
		phones = []string{}
	}

	var emailTaken, phoneTaken bool
	if err := repository.pool.QueryRow(context, query, email, phones, exclude).Scan(&emailTaken, &phoneTaken); err != nil {
		return false, false, fmt.Errorf("postgres_user_repo_identity_taken_failed: %w", err)
	}

	return emailTaken, phoneTaken, nil
}
