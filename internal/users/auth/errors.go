// Copyright (c) 2026 Web Enterprise 24. All rights reserved.

package auth

import (
	"errors"

	"github.com/web-enterprise-24/backend/internal/platform/apperr"
)

// # Failure Kinds

// Every rejection carries one of these as its [apperr.AppError] Cause. Clients only
// see the message; logs, metrics and tests branch on the kind with errors.Is.
var (
	ErrInvalidAuthorization  = errors.New("invalid_authorization")
	ErrInvalidAccessToken    = errors.New("invalid_access_token")
	ErrInvalidRefreshToken   = errors.New("invalid_refresh_token")
	ErrUserNotRegistered     = errors.New("user_not_registered")
	ErrSessionRevoked        = errors.New("session_revoked")
	ErrAuthenticationFailure = errors.New("authentication_failure")
	ErrPermissionDenied      = errors.New("permission_denied")
)

// failureKinds lists the kinds in the order reasonOf checks them.
var failureKinds = []error{
	ErrInvalidAuthorization,
	ErrInvalidAccessToken,
	ErrInvalidRefreshToken,
	ErrUserNotRegistered,
	ErrSessionRevoked,
	ErrAuthenticationFailure,
	ErrPermissionDenied,
}

// reasonOf returns the metric and log label for err.
func reasonOf(err error) string {
	for _, kind := range failureKinds {
		if errors.Is(err, kind) {
			return kind.Error()
		}
	}
	if appError := apperr.As(err); appError != nil && appError.HTTPStatus >= 500 {
		return "internal"
	}
	return "other"
}
