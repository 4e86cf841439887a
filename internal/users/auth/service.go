// Copyright (c) 2026 Web Enterprise 24. All rights reserved.

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/web-enterprise-24/backend/internal/platform/apperr"
	"github.com/web-enterprise-24/backend/internal/platform/ctxutil"
	"github.com/web-enterprise-24/backend/internal/platform/dberr"
	"github.com/web-enterprise-24/backend/internal/platform/metrics"
	"github.com/web-enterprise-24/backend/internal/platform/sec"
	"github.com/web-enterprise-24/backend/internal/platform/validate"
	"github.com/web-enterprise-24/backend/pkg/textnorm"
	"github.com/web-enterprise-24/backend/pkg/uuid"
)

// DefaultSignupRole is assigned to every self-registered account.
const DefaultSignupRole = sec.RoleStudent

// Service implements the access flows built on the gates and the issuer.
//
// # Review Process
//
// Changes to password handling, issuance or rotation must be reviewed together
// with the gate, since both depend on the keystore contract.
type Service struct {
	users    UserRepository
	roles    RoleRepository
	sessions SessionStore
	lookup   *IdentityLookup
	issuer   *SessionIssuer
	codec    *sec.TokenCodec
	metrics  *metrics.AuthMetrics
}

// NewService constructs a [Service] with its dependencies. m may be nil.
func NewService(
	users UserRepository,
	roles RoleRepository,
	sessions SessionStore,
	lookup *IdentityLookup,
	issuer *SessionIssuer,
	codec *sec.TokenCodec,
	m *metrics.AuthMetrics,
) *Service {
	return &Service{
		users:    users,
		roles:    roles,
		sessions: sessions,
		lookup:   lookup,
		issuer:   issuer,
		codec:    codec,
		metrics:  m,
	}
}

// AuthResult is returned by signup and login.
type AuthResult struct {
	User   Profile `json:"user"`
	Tokens Tokens  `json:"tokens"`
}

// # Registration Flow

// SignUpInput holds the data required to enroll a new member.
type SignUpInput struct {
	Name          string
	Email         string
	Password      string
	ProfilePicURL string
}

/*
SignUp registers a student account and opens its first session.

Parameters:
  - ctx: context.Context
  - input: SignUpInput

Returns:
  - *AuthResult: Profile and token pair
  - error: Validation, Conflict, or internal failures
*/
func (service *Service) SignUp(ctx context.Context, input SignUpInput) (*AuthResult, error) {
	input.Name = textnorm.Name(input.Name)
	input.Email = strings.TrimSpace(input.Email)

	validator := &validate.Validator{}
	validator.Required(FieldName, input.Name).
		MinLen(FieldName, input.Name, 3).
		MaxLen(FieldName, input.Name, 100).
		Required(FieldEmail, input.Email).
		Email(FieldEmail, input.Email).
		Password(FieldPassword, input.Password, MinPasswordLength)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	email := textnorm.Email(input.Email)

	_, err := service.users.FindByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, apperr.Conflict("User already registered")
	case !isNotFound(err):
		return nil, apperr.Internal(fmt.Errorf("auth_service_signup_lookup_failed: %w", err))
	}

	roles, err := service.roles.FindByCodes(ctx, []string{DefaultSignupRole})
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("auth_service_signup_role_failed: %w", err))
	}
	if len(roles) == 0 {
		return nil, apperr.Internal(fmt.Errorf("auth_service_signup_role_missing: %s", DefaultSignupRole))
	}

	passwordHash, err := sec.HashPassword(input.Password)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("auth_service_hash_failed: %w", err))
	}

	user := &User{
		ID:            uuid.New(),
		Name:          input.Name,
		Email:         email,
		PasswordHash:  passwordHash,
		ProfilePicURL: input.ProfilePicURL,
		Status:        true,
		Roles:         roles,
	}

	if err := service.users.Create(ctx, user); err != nil {
		if errors.Is(err, dberr.ErrDuplicate) {
			return nil, apperr.Conflict("User already registered")
		}
		return nil, apperr.Internal(fmt.Errorf("auth_service_signup_failed: %w", err))
	}

	issued, err := service.issuer.Issue(ctx, user)
	if err != nil {
		return nil, err
	}

	return &AuthResult{User: user.Profile(), Tokens: issued.Tokens}, nil
}

// # Authentication Flow

// LoginInput defines credentials for an authentication attempt.
type LoginInput struct {
	Email    string
	Password string
}

/*
Login verifies credentials and opens a new session.

Description: Each login creates an additional session, so a user may be signed
in on several devices at once.

Parameters:
  - ctx: context.Context
  - input: LoginInput

Returns:
  - *AuthResult: Profile and token pair
  - error: BadRequest for unknown or unusable accounts, AuthFailure for a wrong password
*/
func (service *Service) Login(ctx context.Context, input LoginInput) (*AuthResult, error) {
	input.Email = strings.TrimSpace(input.Email)

	validator := &validate.Validator{}
	validator.Required(FieldEmail, input.Email).
		Email(FieldEmail, input.Email).
		Required(FieldPassword, input.Password)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	user, err := service.lookup.FindByEmail(ctx, input.Email)
	switch {
	case isNotFound(err):
		return nil, apperr.BadRequest("User not registered")
	case err != nil:
		return nil, apperr.Internal(fmt.Errorf("auth_service_login_lookup_failed: %w", err))
	}

	if user.PasswordHash == "" {
		return nil, apperr.BadRequest("Credential not set")
	}
	if !user.Status {
		return nil, apperr.BadRequest("Account not active")
	}

	if !sec.CheckPasswordHash(input.Password, user.PasswordHash) {
		service.metrics.RecordFailure(ErrAuthenticationFailure.Error())
		return nil, apperr.AuthFailure(ErrAuthenticationFailure, "Authentication failure")
	}

	issued, err := service.issuer.Issue(ctx, user)
	if err != nil {
		return nil, err
	}

	return &AuthResult{User: user.Profile(), Tokens: issued.Tokens}, nil
}

/*
Logout removes the session behind the caller's access token.

Parameters:
  - ctx: context.Context
  - identity: *Identity

Returns:
  - error: Storage failures only; an already removed session is not an error
*/
func (service *Service) Logout(ctx context.Context, identity *Identity) error {
	removed, err := service.sessions.Remove(ctx, identity.Session.ID)
	if err != nil {
		return apperr.Internal(fmt.Errorf("auth_service_logout_failed: %w", err))
	}
	if removed {
		service.metrics.RecordSessionsRemoved(metrics.CauseLogout, 1)
	}
	return nil
}

// # Session Rotation

/*
Refresh rotates the session proven by an access/refresh token pair.

Description: The access token may be expired but must carry a valid signature;
the refresh token must be fully valid. Both must belong to the same user and
their prm claims must name the same keystore row. A new session is created
before the old one is removed, so the user always holds a usable pair.

If the old row was already gone by the time it is removed, another request
rotated it concurrently; the fresh session is discarded and the call fails, so
one refresh token can be redeemed at most once.

Parameters:
  - ctx: context.Context
  - authorization: string (raw Authorization header carrying the access token)
  - refreshToken: string

Returns:
  - *Tokens: The new pair
  - error: AuthFailure kinds or internal failures
*/
func (service *Service) Refresh(ctx context.Context, authorization, refreshToken string) (*Tokens, error) {
	validator := &validate.Validator{}
	if err := validator.Required(FieldRefreshToken, refreshToken).Err(); err != nil {
		return nil, err
	}

	tokens, err := service.refresh(ctx, authorization, refreshToken)
	if err != nil {
		service.metrics.RecordFailure(reasonOf(err))
	}
	return tokens, err
}

func (service *Service) refresh(ctx context.Context, authorization, refreshToken string) (*Tokens, error) {
	accessToken, ok := BearerToken(authorization)
	if !ok {
		return nil, apperr.AuthFailure(ErrInvalidAuthorization, "Invalid Authorization")
	}

	accessClaims, err := service.codec.DecodeExpired(accessToken)
	if err != nil || service.codec.Validate(accessClaims) != nil {
		return nil, apperr.AuthFailure(ErrInvalidAccessToken, "Invalid access token")
	}

	user, err := service.lookup.FindActiveByID(ctx, accessClaims.Subject)
	switch {
	case isNotFound(err):
		return nil, apperr.AuthFailure(ErrUserNotRegistered, "User not registered")
	case err != nil:
		return nil, apperr.Internal(fmt.Errorf("auth_service_refresh_lookup_failed: %w", err))
	}

	refreshClaims, err := service.codec.Decode(refreshToken)
	if err != nil || service.codec.Validate(refreshClaims) != nil {
		return nil, apperr.AuthFailure(ErrInvalidRefreshToken, "Invalid refresh token")
	}
	if refreshClaims.Subject != accessClaims.Subject {
		return nil, apperr.AuthFailure(ErrInvalidAccessToken, "Invalid access token")
	}

	previous, err := service.sessions.FindByKeyPair(ctx, user.ID, accessClaims.Prm, refreshClaims.Prm)
	switch {
	case isNotFound(err):
		return nil, apperr.AuthFailure(ErrSessionRevoked, "Invalid access token")
	case err != nil:
		return nil, apperr.Internal(fmt.Errorf("auth_service_refresh_session_failed: %w", err))
	}

	issued, err := service.issuer.Issue(ctx, user)
	if err != nil {
		return nil, err
	}

	removed, err := service.sessions.Remove(ctx, previous.ID)
	if err != nil {
		service.discardSession(ctx, issued.Session.ID)
		return nil, apperr.Internal(fmt.Errorf("auth_service_refresh_remove_failed: %w", err))
	}
	if !removed {
		// Another refresh rotated this pair first.
		service.discardSession(ctx, issued.Session.ID)
		return nil, apperr.AuthFailure(ErrSessionRevoked, "Invalid access token")
	}

	service.metrics.RecordSessionsRemoved(metrics.CauseRefresh, 1)
	return &issued.Tokens, nil
}

// discardSession removes a session minted by a rotation that did not complete.
// A failure leaves an orphan row, so it is logged rather than returned.
func (service *Service) discardSession(ctx context.Context, sessionID string) {
	if _, err := service.sessions.Remove(ctx, sessionID); err != nil {
		ctxutil.GetLogger(ctx).Error("auth_service_refresh_cleanup_failed",
			slog.String("session_id", sessionID),
			slog.Any("error", err),
		)
	}
}

// # Credentials

// ChangePasswordInput holds the old and new password of the caller.
type ChangePasswordInput struct {
	OldPassword string
	NewPassword string
}

/*
ChangePassword replaces the caller's password and signs out every device.

Description: All sessions of the user are removed, including the one making
this request. Clients must log in again with the new password.

Parameters:
  - ctx: context.Context
  - identity: *Identity
  - input: ChangePasswordInput

Returns:
  - error: Validation, BadRequest on a wrong old password, or internal failures
*/
func (service *Service) ChangePassword(ctx context.Context, identity *Identity, input ChangePasswordInput) error {
	validator := &validate.Validator{}
	validator.Required(FieldOldPassword, input.OldPassword).
		Password(FieldNewPassword, input.NewPassword, MinPasswordLength)
	if err := validator.Err(); err != nil {
		return err
	}

	user, err := service.users.FindByID(ctx, identity.User.ID)
	if err != nil {
		return dberr.Wrap(err, "User")
	}

	if !sec.CheckPasswordHash(input.OldPassword, user.PasswordHash) {
		return apperr.BadRequest("Old password is incorrect")
	}

	passwordHash, err := sec.HashPassword(input.NewPassword)
	if err != nil {
		return apperr.Internal(fmt.Errorf("auth_service_change_password_hash_failed: %w", err))
	}

	if err := service.users.UpdatePassword(ctx, user.ID, passwordHash); err != nil {
		return dberr.Wrap(err, "User")
	}

	removed, err := service.sessions.RemoveAllForUser(ctx, user.ID)
	if err != nil {
		return apperr.Internal(fmt.Errorf("auth_service_change_password_logout_failed: %w", err))
	}
	service.metrics.RecordSessionsRemoved(metrics.CausePasswordChange, removed)

	return nil
}

// # Reference Data

// ListRoles returns every enabled role.
func (service *Service) ListRoles(ctx context.Context) ([]Role, error) {
	roles, err := service.roles.ListEnabled(ctx)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("auth_service_list_roles_failed: %w", err))
	}
	return roles, nil
}
