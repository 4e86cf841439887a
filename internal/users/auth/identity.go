// Copyright (c) 2026 Web Enterprise 24. All rights reserved.

package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/web-enterprise-24/backend/internal/platform/dberr"
	"github.com/web-enterprise-24/backend/internal/platform/sec"
	"github.com/web-enterprise-24/backend/pkg/textnorm"
)

// ErrUserInactive is returned by [IdentityLookup.FindActiveByID] for deactivated accounts.
//
// It wraps [dberr.ErrNotFound]: to the gates an inactive user does not exist.
var ErrUserInactive = fmt.Errorf("identity: account inactive: %w", dberr.ErrNotFound)

// IdentityLookup is the read-only view over users and roles used by both gates.
type IdentityLookup struct {
	users UserRepository
	roles RoleRepository
}

// NewIdentityLookup wires the lookup to its repositories.
func NewIdentityLookup(users UserRepository, roles RoleRepository) *IdentityLookup {
	return &IdentityLookup{users: users, roles: roles}
}

// FindActiveByID returns the user only while its status is active.
func (lookup *IdentityLookup) FindActiveByID(ctx context.Context, userID string) (*User, error) {
	user, err := lookup.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !user.Status {
		return nil, ErrUserInactive
	}
	return user, nil
}

// FindByEmail returns the user for email after normalisation, whatever its status.
func (lookup *IdentityLookup) FindByEmail(ctx context.Context, email string) (*User, error) {
	return lookup.users.FindByEmail(ctx, textnorm.Email(email))
}

// RoleCodesOf returns the codes of every role assigned to user.
func (lookup *IdentityLookup) RoleCodesOf(user *User) sec.RoleSet {
	return RoleCodesOf(user)
}

// ResolveRolesByCodes returns the enabled roles named in codes.
func (lookup *IdentityLookup) ResolveRolesByCodes(ctx context.Context, codes sec.RoleSet) ([]Role, error) {
	return lookup.roles.FindByCodes(ctx, codes.Codes())
}

// RoleCodesOf returns the codes of every role assigned to user.
func RoleCodesOf(user *User) sec.RoleSet {
	if user == nil {
		return sec.NewRoleSet()
	}

	codes := make([]string, 0, len(user.Roles))
	for _, assigned := range user.Roles {
		codes = append(codes, assigned.Code)
	}
	return sec.NewRoleSet(codes...)
}

// isNotFound reports whether err means the row is absent or inactive.
func isNotFound(err error) bool {
	return errors.Is(err, dberr.ErrNotFound)
}
