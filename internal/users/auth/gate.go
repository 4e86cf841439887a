// Copyright (c) 2026 Web Enterprise 24. All rights reserved.

package auth

import (
	"context"
	"fmt"
	"strings"

	"github.com/web-enterprise-24/backend/internal/platform/apperr"
	"github.com/web-enterprise-24/backend/internal/platform/constants"
	"github.com/web-enterprise-24/backend/internal/platform/metrics"
	"github.com/web-enterprise-24/backend/internal/platform/sec"
)

// # Authentication

// AuthenticationGate turns an Authorization header into an [Identity].
//
// # Flow
//  1. Header must be "Bearer <token>".
//  2. Token must decode (signature, expiry, required claims).
//  3. Issuer and audience must match this service.
//  4. Subject must be an active user.
//  5. prm must match a live session of that user.
//
// The gate is read-only: it never renews or extends anything.
type AuthenticationGate struct {
	codec    *sec.TokenCodec
	lookup   *IdentityLookup
	sessions SessionStore
	metrics  *metrics.AuthMetrics
}

// NewAuthenticationGate wires the gate to its collaborators. m may be nil.
func NewAuthenticationGate(codec *sec.TokenCodec, lookup *IdentityLookup, sessions SessionStore, m *metrics.AuthMetrics) *AuthenticationGate {
	return &AuthenticationGate{codec: codec, lookup: lookup, sessions: sessions, metrics: m}
}

/*
Authenticate validates header and resolves the caller.

Parameters:
  - ctx: context.Context
  - header: string (raw Authorization header value)

Returns:
  - *Identity: Fully populated identity
  - error: apperr.AuthFailure carrying the failure kind, or apperr.Internal
*/
func (gate *AuthenticationGate) Authenticate(ctx context.Context, header string) (*Identity, error) {
	identity, err := gate.authenticate(ctx, header)
	gate.metrics.RecordAuthentication(err == nil)
	if err != nil {
		gate.metrics.RecordFailure(reasonOf(err))
	}
	return identity, err
}

func (gate *AuthenticationGate) authenticate(ctx context.Context, header string) (*Identity, error) {
	token, ok := BearerToken(header)
	if !ok {
		return nil, apperr.AuthFailure(ErrInvalidAuthorization, "Invalid Authorization")
	}

	claims, err := gate.codec.Decode(token)
	if err != nil {
		return nil, apperr.AuthFailure(ErrInvalidAccessToken, "Invalid Access Token")
	}

	if err := gate.codec.Validate(claims); err != nil {
		return nil, apperr.AuthFailure(ErrInvalidAccessToken, "Invalid Access Token")
	}

	user, err := gate.lookup.FindActiveByID(ctx, claims.Subject)
	switch {
	case isNotFound(err):
		return nil, apperr.AuthFailure(ErrUserNotRegistered, "User not registered")
	case err != nil:
		return nil, apperr.Internal(fmt.Errorf("auth_gate_user_lookup_failed: %w", err))
	}

	session, err := gate.sessions.FindByPrimaryKey(ctx, user.ID, claims.Prm)
	switch {
	case isNotFound(err):
		return nil, apperr.AuthFailure(ErrSessionRevoked, "Invalid Access Token")
	case err != nil:
		return nil, apperr.Internal(fmt.Errorf("auth_gate_session_lookup_failed: %w", err))
	}

	return &Identity{
		User:        user,
		RoleCodes:   gate.lookup.RoleCodesOf(user),
		AccessToken: token,
		Session:     session,
	}, nil
}

// BearerToken extracts the token from an Authorization header value.
//
// The scheme must be exactly "Bearer " and the remainder must be non-empty.
func BearerToken(header string) (string, bool) {
	token, found := strings.CutPrefix(header, constants.BearerPrefix)
	if !found {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// # Authorization

// AuthorizationGate checks an [Identity] against a route's required roles.
type AuthorizationGate struct {
	lookup  *IdentityLookup
	metrics *metrics.AuthMetrics
}

// NewAuthorizationGate wires the gate to the role lookup. m may be nil.
func NewAuthorizationGate(lookup *IdentityLookup, m *metrics.AuthMetrics) *AuthorizationGate {
	return &AuthorizationGate{lookup: lookup, metrics: m}
}

/*
Authorize allows the caller when any of its role codes is an enabled member of required.

Description: Holding one matching role is enough. Roles named in required but
disabled in storage match nobody.

Parameters:
  - ctx: context.Context
  - identity: *Identity (nil when the request was never authenticated)
  - required: sec.RoleSet (fixed at route construction)

Returns:
  - error: apperr.PermissionDenied, apperr.Internal, or nil
*/
func (gate *AuthorizationGate) Authorize(ctx context.Context, identity *Identity, required sec.RoleSet) error {
	err := gate.authorize(ctx, identity, required)
	gate.metrics.RecordAuthorization(err == nil)
	if err != nil {
		gate.metrics.RecordFailure(reasonOf(err))
	}
	return err
}

func (gate *AuthorizationGate) authorize(ctx context.Context, identity *Identity, required sec.RoleSet) error {
	if identity == nil || identity.User == nil || len(required) == 0 {
		return apperr.PermissionDenied(ErrPermissionDenied, "Permission denied")
	}

	enabled, err := gate.lookup.ResolveRolesByCodes(ctx, required)
	if err != nil {
		return apperr.Internal(fmt.Errorf("auth_gate_role_lookup_failed: %w", err))
	}

	codes := make([]string, 0, len(enabled))
	for _, candidate := range enabled {
		if candidate.Status {
			codes = append(codes, candidate.Code)
		}
	}

	if !identity.RoleCodes.Intersects(sec.NewRoleSet(codes...)) {
		return apperr.PermissionDenied(ErrPermissionDenied, "Permission denied")
	}

	return nil
}
