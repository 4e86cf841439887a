// Copyright (c) 2026 Web Enterprise 24. All rights reserved.

/*
Package account handles profile views, session visibility and staff-side account
administration.

# Architecture

  - Entities: SessionInfo and Summary (transport views over auth types).
  - Domain: This package depends on the auth package for users and sessions.
  - Security: Every route sits behind the authentication gate; administration
    routes additionally require the STAFF role.
*/
package account

import (
	"context"
	"time"

	"github.com/web-enterprise-24/backend/internal/users/auth"
	"github.com/web-enterprise-24/backend/pkg/pagination"
)

// # Views

// SessionInfo is the client-safe view of a keystore row. Secrets are never exposed.
type SessionInfo struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	IsCurrent bool      `json:"isCurrent"`
}

// Summary is one row of the staff account listing.
type Summary struct {
	auth.Profile
	Status    bool      `json:"status"`
	Verified  bool      `json:"verified"`
	CreatedAt time.Time `json:"createdAt"`
}

func summarize(user *auth.User) Summary {
	return Summary{
		Profile:   user.Profile(),
		Status:    user.Status,
		Verified:  user.Verified,
		CreatedAt: user.CreatedAt,
	}
}

// # Queries

// Sort fields accepted by the account listing.
const (
	SortCreatedAt = "createdAt"
	SortName      = "name"
	SortEmail     = "email"
)

// ListFilter narrows the staff account listing.
type ListFilter struct {
	RoleCode string
	Status   *bool
	Search   string
	Page     pagination.Params
}

// # Repository Contracts

// AccountRepository defines the administrative persistence contract for accounts.
type AccountRepository interface {
	/*
		List returns one page of accounts matching filter, with roles loaded.

		Parameters:
		  - context: context.Context
		  - filter: ListFilter

		Returns:
		  - []*auth.User: Accounts on the requested page
		  - int: Total matching accounts across all pages
		  - error: Storage failures
	*/
	List(context context.Context, filter ListFilter) ([]*auth.User, int, error)

	/*
		UpdateStatus activates or deactivates an account.

		Parameters:
		  - context: context.Context
		  - userID: string
		  - status: bool

		Returns:
		  - error: dberr.ErrNotFound or storage failures
	*/
	UpdateStatus(context context.Context, userID string, status bool) error
}
