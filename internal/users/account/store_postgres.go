// Copyright (c) 2026 Priotama. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/priotama/internal/platform/database/schema"
	"github.com/taibuivan/priotama/internal/platform/dberr"
	"github.com/taibuivan/priotama/internal/platform/storage"
	"github.com/taibuivan/priotama/internal/users/auth"
)

// # Repository Implementation

// PostgresAccountRepository implements [Repository] using pgx.
//
// Duplicate checks are delegated to the auth repository so both packages
// share one lookup query.
type PostgresAccountRepository struct {
	*auth.PostgresUserRepository
	pool *pgxpool.Pool
}

// NewAccountRepository creates a new Postgres implementation for profile management.
func NewAccountRepository(pool *pgxpool.Pool) *PostgresAccountRepository {
	return &PostgresAccountRepository{
		PostgresUserRepository: auth.NewUserRepository(pool),
		pool:                   pool,
	}
}

/*
UpdateProfile modifies the mutable profile metadata of a member.

Parameters:
  - context: context.Context
  - user: *auth.User

Returns:
  - error: apperr.Conflict on a phone collision, apperr.NotFound, or database errors
*/
func (repository *PostgresAccountRepository) UpdateProfile(context context.Context, user *auth.User) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $2, %s = $3, %s = $4, %s = $5
		WHERE %s = $1`,
		schema.Member.Table,
		schema.Member.Name, schema.Member.Phone, schema.Member.InstaID, schema.Member.UpdatedAt,
		schema.Member.ID,
	)

	user.UpdatedAt = time.Now().UTC()
	tag, err := repository.pool.Exec(context, query,
		user.ID,
		user.Name,
		user.Phone,
		user.InstaID,
		user.UpdatedAt,
	)

	if err != nil {
		if _, ok := dberr.UniqueViolation(err, auth.MemberConstraints); ok {
			return dberr.Wrap(err, "User", auth.MemberConstraints)
		}
		return fmt.Errorf("postgres_account_repo_update_failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return dberr.Wrap(pgx.ErrNoRows, "User", nil)
	}

	return nil
}

/*
UpdateProfilePicture stores the reference to a member's new picture.

Parameters:
  - context: context.Context
  - id: string
  - asset: storage.Asset

Returns:
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresAccountRepository) UpdateProfilePicture(context context.Context, id string, asset storage.Asset) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = $2, %s = $3, %s = $4 WHERE %s = $1`,
		schema.Member.Table,
		schema.Member.ProfilePicURL, schema.Member.ProfilePicKey, schema.Member.UpdatedAt,
		schema.Member.ID,
	)

	tag, err := repository.pool.Exec(context, query, id, asset.URL, asset.Key, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("postgres_account_repo_update_picture_failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return dberr.Wrap(pgx.ErrNoRows, "User", nil)
	}

	return nil
}

/*
ListDiscoverable returns one page of verified, unblocked members of a gender.

Parameters:
  - context: context.Context
  - filter: DiscoverFilter

Returns:
  - []Card: Page of members, newest first
  - int: Total matching rows
  - error: database errors
*/
func (repository *PostgresAccountRepository) ListDiscoverable(context context.Context, filter DiscoverFilter) ([]Card, int, error) {
	where := fmt.Sprintf(`%s = $1 AND %s = TRUE AND %s = FALSE AND %s <> $2`,
		schema.Member.Gender, schema.Member.IsVerified, schema.Member.IsBlocked, schema.Member.ID)

	var total int
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE %s`, schema.Member.Table, where)
	if err := repository.pool.QueryRow(context, countQuery, filter.Gender, filter.ExcludeUserID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("postgres_account_repo_discover_count_failed: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s, %s, %s, %s, %s
		FROM %s
		WHERE %s
		ORDER BY %s DESC, %s DESC
		LIMIT $3 OFFSET $4`,
		schema.Member.ID, schema.Member.Name, schema.Member.Gender, schema.Member.Age,
		schema.Member.Country, schema.Member.State, schema.Member.Profession, schema.Member.Hobby,
		schema.Member.ProfilePicURL, schema.Member.CreatedAt,
		schema.Member.Table,
		where,
		schema.Member.CreatedAt, schema.Member.ID,
	)

	rows, err := repository.pool.Query(context, query, filter.Gender, filter.ExcludeUserID, filter.Limit, filter.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("postgres_account_repo_discover_failed: %w", err)
	}
	defer rows.Close()

	cards := make([]Card, 0, filter.Limit)
	for rows.Next() {
		var card Card
		if err := rows.Scan(
			&card.ID,
			&card.Name,
			&card.Gender,
			&card.Age,
			&card.Country,
			&card.State,
			&card.Profession,
			&card.Hobby,
			&card.ProfilePictureURL,
			&card.JoinedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("postgres_account_repo_discover_scan_failed: %w", err)
		}
		cards = append(cards, card)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("postgres_account_repo_discover_rows_failed: %w", err)
	}

	return cards, total, nil
}
