// Copyright (c) 2026 Priotama. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package admin

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/priotama/internal/platform/database/schema"
	"github.com/taibuivan/priotama/internal/platform/dberr"
)

var adminConstraints = dberr.ConstraintFields{"admin_email_key": fieldEmail}

// PostgresAdminRepository implements [Repository] using pgx.
type PostgresAdminRepository struct {
	pool *pgxpool.Pool
}

// NewAdminRepository creates a new PostgreSQL implementation of the [Repository].
func NewAdminRepository(pool *pgxpool.Pool) *PostgresAdminRepository {
	return &PostgresAdminRepository{pool: pool}
}

func scanAdmin(row pgx.Row) (*Admin, error) {
	admin := &Admin{}
	err := row.Scan(
		&admin.ID,
		&admin.Email,
		&admin.Name,
		&admin.PasswordHash,
		&admin.IsActive,
		&admin.CreatedAt,
		&admin.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return admin, nil
}

// # Admin Accounts

/*
Create inserts a new operator account.

Parameters:
  - context: context.Context
  - admin: *Admin

Returns:
  - error: apperr.Conflict when the email is taken, or database errors
*/
func (repository *PostgresAdminRepository) Create(context context.Context, admin *Admin) error {
	query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		schema.Admin.Table, schema.Admin.SelectList())

	now := time.Now().UTC()
	admin.CreatedAt, admin.UpdatedAt = now, now

	_, err := repository.pool.Exec(context, query,
		admin.ID,
		admin.Email,
		admin.Name,
		admin.PasswordHash,
		admin.IsActive,
		admin.CreatedAt,
		admin.UpdatedAt,
	)
	if err != nil {
		return dberr.Wrap(err, "Admin", adminConstraints)
	}

	return nil
}

/*
FindByEmail retrieves an operator by email.

Parameters:
  - context: context.Context
  - email: string (normalized)

Returns:
  - *Admin
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresAdminRepository) FindByEmail(context context.Context, email string) (*Admin, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		schema.Admin.SelectList(), schema.Admin.Table, schema.Admin.Email)

	admin, err := scanAdmin(repository.pool.QueryRow(context, query, email))
	if err != nil {
		return nil, dberr.Wrap(err, "Admin", nil)
	}
	return admin, nil
}

/*
FindByID retrieves an operator by primary key.

Parameters:
  - context: context.Context
  - id: string (UUID)

Returns:
  - *Admin
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresAdminRepository) FindByID(context context.Context, id string) (*Admin, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		schema.Admin.SelectList(), schema.Admin.Table, schema.Admin.ID)

	admin, err := scanAdmin(repository.pool.QueryRow(context, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, "Admin", nil)
	}
	return admin, nil
}

/*
UpdatePassword replaces an operator's password hash.

Parameters:
  - context: context.Context
  - id: string
  - passwordHash: string

Returns:
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresAdminRepository) UpdatePassword(context context.Context, id, passwordHash string) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = $2, %s = $3 WHERE %s = $1`,
		schema.Admin.Table, schema.Admin.Password, schema.Admin.UpdatedAt, schema.Admin.ID)

	tag, err := repository.pool.Exec(context, query, id, passwordHash, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("postgres_admin_repo_update_password_failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return dberr.Wrap(pgx.ErrNoRows, "Admin", nil)
	}
	return nil
}

// # Member Moderation

/*
ListMembers returns one page of members, newest first.

Parameters:
  - context: context.Context
  - limit, offset: int

Returns:
  - []MemberRow
  - error: database errors
*/
func (repository *PostgresAdminRepository) ListMembers(context context.Context, limit, offset int) ([]MemberRow, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s
		FROM %s
		ORDER BY %s DESC, %s DESC
		LIMIT $1 OFFSET $2`,
		schema.Member.ID, schema.Member.Name, schema.Member.Email, schema.Member.Phone,
		schema.Member.Gender, schema.Member.Age, schema.Member.Country, schema.Member.State,
		schema.Member.Profession, schema.Member.Hobby, schema.Member.InstaID,
		schema.Member.IsBlocked, schema.Member.CreatedAt,
		schema.Member.Table,
		schema.Member.CreatedAt, schema.Member.ID,
	)

	rows, err := repository.pool.Query(context, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("postgres_admin_repo_list_members_failed: %w", err)
	}
	defer rows.Close()

	members := make([]MemberRow, 0, limit)
	for rows.Next() {
		var member MemberRow
		if err := rows.Scan(
			&member.ID,
			&member.Name,
			&member.Email,
			&member.Phone,
			&member.Gender,
			&member.Age,
			&member.Country,
			&member.State,
			&member.Profession,
			&member.Hobby,
			&member.InstaID,
			&member.IsBlocked,
			&member.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("postgres_admin_repo_list_members_scan_failed: %w", err)
		}
		members = append(members, member)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres_admin_repo_list_members_rows_failed: %w", err)
	}

	return members, nil
}

/*
CountMembers returns the total and blocked member counts in one scan.
*/
func (repository *PostgresAdminRepository) CountMembers(context context.Context) (MemberCounts, error) {
	query := fmt.Sprintf(`SELECT COUNT(*), COUNT(*) FILTER (WHERE %s) FROM %s`,
		schema.Member.IsBlocked, schema.Member.Table)

	var counts MemberCounts
	if err := repository.pool.QueryRow(context, query).Scan(&counts.Total, &counts.Blocked); err != nil {
		return MemberCounts{}, fmt.Errorf("postgres_admin_repo_count_members_failed: %w", err)
	}
	return counts, nil
}

/*
ToggleBlock flips the block flag in a single statement.

Parameters:
  - context: context.Context
  - userID: string (UUID)

Returns:
  - *BlockState: State after the flip
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresAdminRepository) ToggleBlock(context context.Context, userID string) (*BlockState, error) {
	query := fmt.Sprintf(`
		UPDATE %[1]s SET %[2]s = NOT %[2]s, %[3]s = $2
		WHERE %[4]s = $1
		RETURNING %[4]s, %[5]s, %[6]s, %[2]s`,
		schema.Member.Table, schema.Member.IsBlocked, schema.Member.UpdatedAt,
		schema.Member.ID, schema.Member.Name, schema.Member.Email,
	)

	state := &BlockState{}
	err := repository.pool.QueryRow(context, query, userID, time.Now().UTC()).Scan(
		&state.ID,
		&state.Name,
		&state.Email,
		&state.IsBlocked,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "User", nil)
	}

	return state, nil
}
