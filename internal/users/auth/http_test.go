// Copyright (c) 2026 Web Enterprise 24. All rights reserved.

package auth_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/web-enterprise-24/backend/internal/platform/constants"
	"github.com/web-enterprise-24/backend/internal/platform/respond"
	"github.com/web-enterprise-24/backend/internal/platform/sec"
	"github.com/web-enterprise-24/backend/internal/users/auth"
)

func serve(t *testing.T, handler http.Handler, method, path, authorization string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var payload bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&payload).Encode(body))
	}

	request := httptest.NewRequest(method, path, &payload)
	request.Header.Set("Content-Type", "application/json")
	if authorization != "" {
		request.Header.Set(constants.HeaderAuthorization, authorization)
	}

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)
	return recorder
}

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error string          `json:"error"`
}

func decodeEnvelope(t *testing.T, recorder *httptest.ResponseRecorder) envelope {
	t.Helper()
	var decoded envelope
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&decoded))
	return decoded
}

/*
TestHandler_AccessFlow walks signup, refresh, password change and logout over HTTP.
*/
func TestHandler_AccessFlow(t *testing.T) {
	h := newHarness(t)
	router := auth.NewHandler(h.service, h.authn).Routes()

	// 1. Sign up
	recorder := serve(t, router, http.MethodPost, "/signup/basic", "", map[string]string{
		"name": "Alice", "email": "alice@example.com", "password": "secret-pass",
	})
	require.Equal(t, http.StatusCreated, recorder.Code)

	var signedUp auth.AuthResult
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, recorder).Data, &signedUp))
	assert.Equal(t, []string{sec.RoleStudent}, signedUp.User.Roles)

	// 2. Duplicate sign up
	recorder = serve(t, router, http.MethodPost, "/signup/basic", "", map[string]string{
		"name": "Alice", "email": "alice@example.com", "password": "secret-pass",
	})
	assert.Equal(t, http.StatusConflict, recorder.Code)

	// 3. Refresh
	recorder = serve(t, router, http.MethodPost, "/token/refresh", bearer(signedUp.Tokens.AccessToken), map[string]string{
		"refreshToken": signedUp.Tokens.RefreshToken,
	})
	require.Equal(t, http.StatusOK, recorder.Code)

	var rotated auth.Tokens
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, recorder).Data, &rotated))
	require.NotEmpty(t, rotated.AccessToken)

	// 4. Old access token is dead
	recorder = serve(t, router, http.MethodDelete, "/logout", bearer(signedUp.Tokens.AccessToken), nil)
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)

	// 5. Change password with the rotated token
	recorder = serve(t, router, http.MethodPost, "/credential/user/change-password", bearer(rotated.AccessToken), map[string]string{
		"oldPassword": "secret-pass", "newPassword": "better-pass",
	})
	require.Equal(t, http.StatusOK, recorder.Code)

	// 6. Every session is gone, so logout is now unauthenticated
	recorder = serve(t, router, http.MethodDelete, "/logout", bearer(rotated.AccessToken), nil)
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)

	// 7. Login with the new password, then logout
	recorder = serve(t, router, http.MethodPost, "/login/basic", "", map[string]string{
		"email": "alice@example.com", "password": "better-pass",
	})
	require.Equal(t, http.StatusOK, recorder.Code)

	var loggedIn auth.AuthResult
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, recorder).Data, &loggedIn))

	recorder = serve(t, router, http.MethodDelete, "/logout", bearer(loggedIn.Tokens.AccessToken), nil)
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Zero(t, h.sessions.count())
}

/*
TestHandler_RejectsUnknownFields verifies strict JSON decoding.
*/
func TestHandler_RejectsUnknownFields(t *testing.T) {
	h := newHarness(t)
	router := auth.NewHandler(h.service, h.authn).Routes()

	recorder := serve(t, router, http.MethodPost, "/login/basic", "", map[string]string{
		"email": "alice@example.com", "password": "secret-pass", "role": "STAFF",
	})
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

/*
TestHandler_ListRoles verifies the public role listing.
*/
func TestHandler_ListRoles(t *testing.T) {
	h := newHarness(t)
	router := auth.NewHandler(h.service, h.authn).Routes()

	recorder := serve(t, router, http.MethodGet, "/roles", "", nil)
	require.Equal(t, http.StatusOK, recorder.Code)

	var roles []auth.Role
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, recorder).Data, &roles))
	assert.Len(t, roles, 3)
}

/*
TestMiddleware_RequireRoles verifies the gates in front of a role-protected route.
*/
func TestMiddleware_RequireRoles(t *testing.T) {
	h := newHarness(t)
	staff := h.addUser(t, "staff@example.com", "secret-pass", sec.RoleStaff)
	tutor := h.addUser(t, "tutor@example.com", "secret-pass", sec.RoleTutor)

	router := chi.NewRouter()
	router.With(auth.Authenticate(h.authn), auth.RequireRoles(h.authz, sec.RoleStaff)).
		Get("/staff-only", func(writer http.ResponseWriter, request *http.Request) {
			identity := auth.IdentityFrom(request.Context())
			respond.OK(writer, identity.User.ID)
		})

	tests := []struct {
		name          string
		authorization string
		wantStatus    int
	}{
		{"staff", bearer(h.issue(t, staff).Tokens.AccessToken), http.StatusOK},
		{"tutor", bearer(h.issue(t, tutor).Tokens.AccessToken), http.StatusForbidden},
		{"anonymous", "", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := serve(t, router, http.MethodGet, "/staff-only", tt.authorization, nil)
			assert.Equal(t, tt.wantStatus, recorder.Code)
		})
	}
}
