// Copyright (c) 2026 Web Enterprise 24. All rights reserved.

/*
Package auth implements session-bound token authentication and role-based
authorization for the tutoring platform.

# Architecture

Every token pair is bound to one keystore row (a [Session]). The access token
carries the row's primary key and the refresh token its secondary key in the
"prm" claim, so deleting the row revokes both tokens before they expire.

  - [SessionIssuer] is the only path that creates sessions.
  - [AuthenticationGate] turns a bearer header into an [Identity].
  - [AuthorizationGate] checks an [Identity] against a route's required roles.
  - [Service] and [Handler] expose signup, login, logout, refresh and password change.
*/
package auth

import (
	"time"

	"github.com/web-enterprise-24/backend/internal/platform/sec"
)

// # Domain Entities

// User is a registered member of the platform with its assigned roles.
type User struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	PasswordHash  string    `json:"-"`
	ProfilePicURL string    `json:"profilePicUrl,omitempty"`
	Status        bool      `json:"status"`
	Verified      bool      `json:"verified"`
	Roles         []Role    `json:"roles"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// Role is a named capability group. Disabled roles grant nothing.
type Role struct {
	ID     string `json:"id"`
	Code   string `json:"code"`
	Status bool   `json:"status"`
}

// Session is a keystore entry backing exactly one access/refresh token pair.
type Session struct {
	ID           string    `json:"id"`
	UserID       string    `json:"userId"`
	PrimaryKey   string    `json:"-"`
	SecondaryKey string    `json:"-"`
	Status       bool      `json:"status"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Tokens is the token pair handed to the client.
type Tokens struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// Identity is what the authentication gate attaches to a request.
//
// It is built fresh for every request and never shared between requests.
type Identity struct {
	User        *User
	RoleCodes   sec.RoleSet
	AccessToken string
	Session     *Session
}

// # Views

// Profile is the public projection of a [User].
type Profile struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Email         string   `json:"email"`
	ProfilePicURL string   `json:"profilePicUrl,omitempty"`
	Roles         []string `json:"roles"`
}

// Profile projects the user for API responses.
func (user *User) Profile() Profile {
	return Profile{
		ID:            user.ID,
		Name:          user.Name,
		Email:         user.Email,
		ProfilePicURL: user.ProfilePicURL,
		Roles:         RoleCodesOf(user).Codes(),
	}
}

// # Field Identifiers

const (
	FieldName          = "name"
	FieldEmail         = "email"
	FieldPassword      = "password"
	FieldProfilePicURL = "profilePicUrl"
	FieldOldPassword   = "oldPassword"
	FieldNewPassword   = "newPassword"
	FieldRefreshToken  = "refreshToken"
)

// MinPasswordLength is the shortest password accepted at signup or change.
const MinPasswordLength = 6
