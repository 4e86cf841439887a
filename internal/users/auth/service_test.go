// Copyright (c) 2026 Web Enterprise 24. All rights reserved.

package auth_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/web-enterprise-24/backend/internal/platform/apperr"
	"github.com/web-enterprise-24/backend/internal/platform/ctxutil"
	"github.com/web-enterprise-24/backend/internal/platform/sec"
	"github.com/web-enterprise-24/backend/internal/users/auth"
)

// # Sign Up

/*
TestService_SignUp verifies a new account gets the student role and a working session.
*/
func TestService_SignUp(t *testing.T) {
	h := newHarness(t)

	result, err := h.service.SignUp(context.Background(), auth.SignUpInput{
		Name:     "  Alice   Nguyen ",
		Email:    " Alice@Example.COM ",
		Password: "secret-pass",
	})
	require.NoError(t, err)

	assert.Equal(t, "Alice Nguyen", result.User.Name)
	assert.Equal(t, "alice@example.com", result.User.Email)
	assert.Equal(t, []string{sec.RoleStudent}, result.User.Roles)

	identity, err := h.authn.Authenticate(context.Background(), bearer(result.Tokens.AccessToken))
	require.NoError(t, err)
	assert.Equal(t, result.User.ID, identity.User.ID)
	assert.NotEqual(t, "secret-pass", identity.User.PasswordHash)
}

/*
TestService_SignUp_Rejections verifies duplicate and invalid registrations.
*/
func TestService_SignUp_Rejections(t *testing.T) {
	h := newHarness(t)
	h.addUser(t, "taken@example.com", "secret-pass", sec.RoleStudent)

	tests := []struct {
		name       string
		input      auth.SignUpInput
		wantStatus int
	}{
		{"duplicate email", auth.SignUpInput{Name: "Bob", Email: "TAKEN@example.com", Password: "secret-pass"}, http.StatusConflict},
		{"short password", auth.SignUpInput{Name: "Bob", Email: "bob@example.com", Password: "123"}, apperr.ValidationError("").HTTPStatus},
		{"bad email", auth.SignUpInput{Name: "Bob", Email: "bob", Password: "secret-pass"}, apperr.ValidationError("").HTTPStatus},
		{"missing name", auth.SignUpInput{Email: "bob@example.com", Password: "secret-pass"}, apperr.ValidationError("").HTTPStatus},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := h.service.SignUp(context.Background(), tt.input)
			require.Error(t, err)
			assert.Equal(t, tt.wantStatus, apperr.As(err).HTTPStatus)
		})
	}

	assert.Zero(t, h.sessions.count())
}

// # Login

/*
TestService_Login verifies credentials open an additional session each time.
*/
func TestService_Login(t *testing.T) {
	h := newHarness(t)
	h.addUser(t, "tutor@example.com", "secret-pass", sec.RoleTutor)

	first, err := h.service.Login(context.Background(), auth.LoginInput{Email: "Tutor@Example.com", Password: "secret-pass"})
	require.NoError(t, err)
	second, err := h.service.Login(context.Background(), auth.LoginInput{Email: "tutor@example.com", Password: "secret-pass"})
	require.NoError(t, err)

	assert.Equal(t, []string{sec.RoleTutor}, first.User.Roles)
	assert.NotEqual(t, first.Tokens.AccessToken, second.Tokens.AccessToken)
	assert.Equal(t, 2, h.sessions.count())
}

/*
TestService_Login_Rejections verifies each rejection message and status.
*/
func TestService_Login_Rejections(t *testing.T) {
	h := newHarness(t)
	h.addUser(t, "active@example.com", "secret-pass", sec.RoleStudent)
	inactive := h.addUser(t, "inactive@example.com", "secret-pass", sec.RoleStudent)
	h.users.setStatus(inactive.ID, false)
	noCredential := h.addUser(t, "sso@example.com", "secret-pass", sec.RoleStudent)
	require.NoError(t, h.users.UpdatePassword(context.Background(), noCredential.ID, ""))

	tests := []struct {
		name        string
		input       auth.LoginInput
		wantStatus  int
		wantMessage string
	}{
		{"unknown user", auth.LoginInput{Email: "ghost@example.com", Password: "secret-pass"}, http.StatusBadRequest, "User not registered"},
		{"no credential", auth.LoginInput{Email: "sso@example.com", Password: "secret-pass"}, http.StatusBadRequest, "Credential not set"},
		{"inactive", auth.LoginInput{Email: "inactive@example.com", Password: "secret-pass"}, http.StatusBadRequest, "Account not active"},
		{"wrong password", auth.LoginInput{Email: "active@example.com", Password: "wrong-pass"}, http.StatusUnauthorized, "Authentication failure"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := h.service.Login(context.Background(), tt.input)
			require.Error(t, err)
			appError := apperr.As(err)
			require.NotNil(t, appError)
			assert.Equal(t, tt.wantStatus, appError.HTTPStatus)
			assert.Equal(t, tt.wantMessage, appError.Message)
		})
	}

	assert.Zero(t, h.sessions.count())
}

// # Logout

/*
TestService_Logout verifies only the current session is closed.
*/
func TestService_Logout(t *testing.T) {
	h := newHarness(t)
	user := h.addUser(t, "student@example.com", "secret-pass", sec.RoleStudent)
	current := h.issue(t, user)
	other := h.issue(t, user)

	identity, err := h.authn.Authenticate(context.Background(), bearer(current.Tokens.AccessToken))
	require.NoError(t, err)

	require.NoError(t, h.service.Logout(context.Background(), identity))
	require.NoError(t, h.service.Logout(context.Background(), identity))

	_, err = h.authn.Authenticate(context.Background(), bearer(current.Tokens.AccessToken))
	requireFailure(t, err, http.StatusUnauthorized, auth.ErrSessionRevoked)

	_, err = h.authn.Authenticate(context.Background(), bearer(other.Tokens.AccessToken))
	assert.NoError(t, err)
}

// # Refresh

/*
TestService_Refresh verifies rotation with an expired access token.
*/
func TestService_Refresh(t *testing.T) {
	h := newHarness(t)
	user := h.addUser(t, "student@example.com", "secret-pass", sec.RoleStudent)
	issued := h.issue(t, user)

	h.clock.Advance(testTokenConfig.AccessTokenTTL + time.Minute)

	tokens, err := h.service.Refresh(context.Background(), bearer(issued.Tokens.AccessToken), issued.Tokens.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, 1, h.sessions.count())

	_, err = h.authn.Authenticate(context.Background(), bearer(tokens.AccessToken))
	assert.NoError(t, err)

	// The old pair is spent
	_, err = h.service.Refresh(context.Background(), bearer(issued.Tokens.AccessToken), issued.Tokens.RefreshToken)
	requireFailure(t, err, http.StatusUnauthorized, auth.ErrSessionRevoked)
}

/*
TestService_Refresh_Rejections verifies mismatched or invalid token pairs never rotate.
*/
func TestService_Refresh_Rejections(t *testing.T) {
	h := newHarness(t)
	user := h.addUser(t, "student@example.com", "secret-pass", sec.RoleStudent)
	other := h.addUser(t, "other@example.com", "secret-pass", sec.RoleStudent)
	issued := h.issue(t, user)
	sibling := h.issue(t, user)
	foreign := h.issue(t, other)

	tests := []struct {
		name          string
		authorization string
		refreshToken  string
		kind          error
	}{
		{"missing header", "", issued.Tokens.RefreshToken, auth.ErrInvalidAuthorization},
		{"garbage access", bearer("garbage"), issued.Tokens.RefreshToken, auth.ErrInvalidAccessToken},
		{"garbage refresh", bearer(issued.Tokens.AccessToken), "garbage", auth.ErrInvalidRefreshToken},
		{"refresh of another user", bearer(issued.Tokens.AccessToken), foreign.Tokens.RefreshToken, auth.ErrInvalidAccessToken},
		{"refresh of another session", bearer(issued.Tokens.AccessToken), sibling.Tokens.RefreshToken, auth.ErrSessionRevoked},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := h.service.Refresh(context.Background(), tt.authorization, tt.refreshToken)
			requireFailure(t, err, http.StatusUnauthorized, tt.kind)
		})
	}

	assert.Equal(t, 3, h.sessions.count())
}

/*
TestService_Refresh_ExpiredRefreshToken verifies a lapsed refresh token cannot rotate.
*/
func TestService_Refresh_ExpiredRefreshToken(t *testing.T) {
	h := newHarness(t)
	user := h.addUser(t, "student@example.com", "secret-pass", sec.RoleStudent)
	issued := h.issue(t, user)

	h.clock.Advance(testTokenConfig.RefreshTokenTTL + time.Second)

	_, err := h.service.Refresh(context.Background(), bearer(issued.Tokens.AccessToken), issued.Tokens.RefreshToken)
	requireFailure(t, err, http.StatusUnauthorized, auth.ErrInvalidRefreshToken)
}

/*
TestService_Refresh_InactiveUser verifies a deactivated user cannot rotate.
*/
func TestService_Refresh_InactiveUser(t *testing.T) {
	h := newHarness(t)
	user := h.addUser(t, "student@example.com", "secret-pass", sec.RoleStudent)
	issued := h.issue(t, user)
	h.users.setStatus(user.ID, false)

	_, err := h.service.Refresh(context.Background(), bearer(issued.Tokens.AccessToken), issued.Tokens.RefreshToken)
	requireFailure(t, err, http.StatusUnauthorized, auth.ErrUserNotRegistered)
}

// racingSessions removes the matched row right after lookup, as a concurrent
// refresh of the same pair would.
type racingSessions struct {
	*memorySessions
}

func (store racingSessions) FindByKeyPair(ctx context.Context, userID, primaryKey, secondaryKey string) (*auth.Session, error) {
	session, err := store.memorySessions.FindByKeyPair(ctx, userID, primaryKey, secondaryKey)
	if err == nil {
		_, _ = store.memorySessions.Remove(ctx, session.ID)
	}
	return session, err
}

/*
TestService_Refresh_ConcurrentRotation verifies the loser of a rotation race gets nothing and leaves nothing behind.
*/
func TestService_Refresh_ConcurrentRotation(t *testing.T) {
	h := newHarness(t)
	user := h.addUser(t, "student@example.com", "secret-pass", sec.RoleStudent)
	issued := h.issue(t, user)

	racing := racingSessions{h.sessions}
	issuer := auth.NewSessionIssuer(h.codec, racing)
	service := auth.NewService(h.users, h.roles, racing, h.lookup, issuer, h.codec, nil)

	_, err := service.Refresh(context.Background(), bearer(issued.Tokens.AccessToken), issued.Tokens.RefreshToken)
	requireFailure(t, err, http.StatusUnauthorized, auth.ErrSessionRevoked)
	assert.Zero(t, h.sessions.count())
}

// stuckCleanup loses the rotation race and then cannot delete the session it minted.
type stuckCleanup struct {
	racingSessions
	removeCalls int
}

func (store *stuckCleanup) Remove(ctx context.Context, sessionID string) (bool, error) {
	store.removeCalls++
	if store.removeCalls > 1 {
		return false, errors.New("connection reset")
	}
	return store.racingSessions.Remove(ctx, sessionID)
}

/*
TestService_Refresh_LogsFailedCleanup verifies an orphaned session is reported in the logs.
*/
func TestService_Refresh_LogsFailedCleanup(t *testing.T) {
	h := newHarness(t)
	user := h.addUser(t, "student@example.com", "secret-pass", sec.RoleStudent)
	issued := h.issue(t, user)

	stuck := &stuckCleanup{racingSessions: racingSessions{h.sessions}}
	issuer := auth.NewSessionIssuer(h.codec, stuck)
	service := auth.NewService(h.users, h.roles, stuck, h.lookup, issuer, h.codec, nil)

	var logs bytes.Buffer
	ctx := ctxutil.WithLogger(context.Background(), slog.New(slog.NewJSONHandler(&logs, nil)))

	_, err := service.Refresh(ctx, bearer(issued.Tokens.AccessToken), issued.Tokens.RefreshToken)
	requireFailure(t, err, http.StatusUnauthorized, auth.ErrSessionRevoked)

	// 1. The new session is still there
	assert.Equal(t, 1, h.sessions.count())

	// 2. And the log names it
	assert.Contains(t, logs.String(), "auth_service_refresh_cleanup_failed")
	assert.Contains(t, logs.String(), `"level":"ERROR"`)
	assert.Contains(t, logs.String(), "connection reset")
}

/*
TestService_Refresh_RequiresRefreshToken verifies an empty body is a validation error.
*/
func TestService_Refresh_RequiresRefreshToken(t *testing.T) {
	h := newHarness(t)

	_, err := h.service.Refresh(context.Background(), bearer("anything"), "")
	require.Error(t, err)
	assert.Equal(t, apperr.ValidationError("").HTTPStatus, apperr.As(err).HTTPStatus)
}

// # Change Password

/*
TestService_ChangePassword verifies the new password works and every session is closed.
*/
func TestService_ChangePassword(t *testing.T) {
	h := newHarness(t)
	user := h.addUser(t, "student@example.com", "old-secret", sec.RoleStudent)
	current := h.issue(t, user)
	h.issue(t, user)

	identity, err := h.authn.Authenticate(context.Background(), bearer(current.Tokens.AccessToken))
	require.NoError(t, err)

	// 1. Wrong old password changes nothing
	err = h.service.ChangePassword(context.Background(), identity, auth.ChangePasswordInput{OldPassword: "nope", NewPassword: "new-secret"})
	require.Error(t, err)
	assert.Equal(t, "Old password is incorrect", apperr.As(err).Message)
	assert.Equal(t, 2, h.sessions.count())

	// 2. Correct old password logs out everywhere
	err = h.service.ChangePassword(context.Background(), identity, auth.ChangePasswordInput{OldPassword: "old-secret", NewPassword: "new-secret"})
	require.NoError(t, err)
	assert.Zero(t, h.sessions.count())

	_, err = h.service.Login(context.Background(), auth.LoginInput{Email: "student@example.com", Password: "old-secret"})
	require.Error(t, err)
	_, err = h.service.Login(context.Background(), auth.LoginInput{Email: "student@example.com", Password: "new-secret"})
	assert.NoError(t, err)
}

// # Roles

/*
TestService_ListRoles verifies only enabled roles are listed.
*/
func TestService_ListRoles(t *testing.T) {
	h := newHarness(t)
	h.roles.disable(sec.RoleStaff)

	roles, err := h.service.ListRoles(context.Background())
	require.NoError(t, err)

	codes := make([]string, 0, len(roles))
	for _, role := range roles {
		codes = append(codes, role.Code)
	}
	assert.ElementsMatch(t, []string{sec.RoleStudent, sec.RoleTutor}, codes)
}
