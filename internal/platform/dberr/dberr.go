// Copyright (c) 2026 Web Enterprise 24. All rights reserved.

// Package dberr provides a bridge between low-level database errors and
// higher-level application errors.
package dberr

import (
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/web-enterprise-24/backend/internal/platform/apperr"
)

// ErrNotFound is returned by stores when a queried row doesn't exist.
var ErrNotFound = errors.New("dberr: not found")

// ErrDuplicate is returned by stores when a unique constraint rejects a write.
var ErrDuplicate = errors.New("dberr: duplicate")

// Classify converts driver errors into package sentinels and annotates the rest with action.
//
// Stores call it on every query error; services then branch on [ErrNotFound] and
// [ErrDuplicate] with errors.Is.
func Classify(err error, action string) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s: %w", action, ErrNotFound)
	}

	var pgError *pgconn.PgError
	if errors.As(err, &pgError) {
		switch pgError.Code {
		case pgerrcode.UniqueViolation:
			return fmt.Errorf("%s: %w (%s)", action, ErrDuplicate, pgError.ConstraintName)
		case pgerrcode.InvalidTextRepresentation:
			// A malformed uuid can never match a row
			return fmt.Errorf("%s: %w", action, ErrNotFound)
		}
	}

	return fmt.Errorf("%s: %w", action, err)
}

// Wrap converts a classified store error into the [apperr.AppError] the client sees.
//
// resource names the entity in NotFound messages, e.g. "User".
func Wrap(err error, resource string) error {
	switch {
	case err == nil:
		return nil
	case apperr.IsAppError(err):
		return err
	case errors.Is(err, ErrNotFound):
		return apperr.NotFound(resource)
	case errors.Is(err, ErrDuplicate):
		return apperr.Conflict(resource + " already exists")
	default:
		return apperr.Internal(err)
	}
}
