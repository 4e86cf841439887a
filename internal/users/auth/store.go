// Copyright (c) 2026 Web Enterprise 24. All rights reserved.

package auth

import "context"

// # Session Data Access

// SessionStore is the only place keystore entries are created, read or destroyed.
//
// Lookups report absence with an error matching [dberr.ErrNotFound].
type SessionStore interface {

	/*
		Create persists a new active session for userID.

		Parameters:
		  - context: context.Context
		  - userID: string
		  - primaryKey: string (bound to the access token)
		  - secondaryKey: string (bound to the refresh token)

		Returns:
		  - *Session: The stored row with timestamps set
		  - error: Storage failures
	*/
	Create(context context.Context, userID, primaryKey, secondaryKey string) (*Session, error)

	/*
		FindByPrimaryKey returns the active session of userID bound to primaryKey.

		Parameters:
		  - context: context.Context
		  - userID: string
		  - primaryKey: string

		Returns:
		  - *Session: Active session
		  - error: dberr.ErrNotFound or storage failures
	*/
	FindByPrimaryKey(context context.Context, userID, primaryKey string) (*Session, error)

	/*
		FindByKeyPair returns the session of userID holding both keys.

		Parameters:
		  - context: context.Context
		  - userID: string
		  - primaryKey: string
		  - secondaryKey: string

		Returns:
		  - *Session: Matching session
		  - error: dberr.ErrNotFound or storage failures
	*/
	FindByKeyPair(context context.Context, userID, primaryKey, secondaryKey string) (*Session, error)

	/*
		ListForUser returns the active sessions of userID, newest first.

		Parameters:
		  - context: context.Context
		  - userID: string

		Returns:
		  - []*Session: Possibly empty list
		  - error: Storage failures
	*/
	ListForUser(context context.Context, userID string) ([]*Session, error)

	/*
		Remove deletes one session. Removing an unknown id is not an error.

		Parameters:
		  - context: context.Context
		  - sessionID: string

		Returns:
		  - bool: Whether a row was deleted
		  - error: Storage failures
	*/
	Remove(context context.Context, sessionID string) (bool, error)

	/*
		RemoveAllForUser deletes every session of userID in one statement.

		Parameters:
		  - context: context.Context
		  - userID: string

		Returns:
		  - int64: Number of sessions deleted
		  - error: Storage failures
	*/
	RemoveAllForUser(context context.Context, userID string) (int64, error)
}

// # User Data Access

// UserRepository is the read/write contract for accounts used by the access flows.
type UserRepository interface {

	/*
		FindByID returns the account with its roles, whatever its status.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - *User: Hydrated entity
		  - error: dberr.ErrNotFound or storage failures
	*/
	FindByID(context context.Context, id string) (*User, error)

	/*
		FindByEmail returns the account with its roles, whatever its status.

		Parameters:
		  - context: context.Context
		  - email: string (already normalised)

		Returns:
		  - *User: Hydrated entity
		  - error: dberr.ErrNotFound or storage failures
	*/
	FindByEmail(context context.Context, email string) (*User, error)

	/*
		Create persists a new account together with its role links.

		Parameters:
		  - context: context.Context
		  - user: *User (Roles must carry resolved IDs)

		Returns:
		  - error: dberr.ErrDuplicate on an existing email, or storage failures
	*/
	Create(context context.Context, user *User) error

	/*
		UpdatePassword replaces only the account's password hash.

		Parameters:
		  - context: context.Context
		  - userID: string
		  - passwordHash: string

		Returns:
		  - error: dberr.ErrNotFound or storage failures
	*/
	UpdatePassword(context context.Context, userID, passwordHash string) error
}

// # Role Data Access

// RoleRepository resolves static role reference data.
type RoleRepository interface {

	/*
		FindByCodes returns the enabled roles among codes.

		Parameters:
		  - context: context.Context
		  - codes: []string

		Returns:
		  - []Role: Enabled matches only; unknown codes are skipped
		  - error: Storage failures
	*/
	FindByCodes(context context.Context, codes []string) ([]Role, error)

	/*
		ListEnabled returns every enabled role ordered by code.

		Parameters:
		  - context: context.Context

		Returns:
		  - []Role: Enabled roles
		  - error: Storage failures
	*/
	ListEnabled(context context.Context) ([]Role, error)
}
