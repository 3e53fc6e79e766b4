// Copyright (c) 2026 Priotama. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package dberr provides a bridge between low-level database errors and
// higher-level application errors.
package dberr

import (
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/taibuivan/priotama/internal/platform/apperr"
)

// ConstraintFields maps a unique constraint name to the JSON field it protects.
type ConstraintFields map[string]string

// Wrap inspects a database error and wraps it into a meaningful [apperr.AppError].
// It hides internal database details from the client while classifying the error type.
//
// Unique violations (SQLSTATE 23505) become a Conflict whose details name the
// colliding field, looked up in fields by constraint name.
func Wrap(err error, resource string, fields ConstraintFields) error {
	if err == nil {
		return nil
	}

	// 1. Not Found mapping
	if errors.Is(err, pgx.ErrNoRows) {
		return apperr.NotFound(resource)
	}

	// 2. Unique constraint mapping
	if field, ok := UniqueViolation(err, fields); ok {
		conflict := apperr.Conflict(resource + " already exists")
		if field != "" {
			conflict.Details = []apperr.FieldError{{Field: field, Message: "Already in use"}}
		}
		conflict.Cause = err
		return conflict
	}

	// 3. Unknown query errors become Internal Server Errors
	return apperr.Internal(err)
}

// UniqueViolation reports whether err is a Postgres unique violation and, if the
// constraint is known, which field collided.
func UniqueViolation(err error, fields ConstraintFields) (string, bool) {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != pgerrcode.UniqueViolation {
		return "", false
	}
	return fields[pgErr.ConstraintName], true
}
