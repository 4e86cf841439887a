// Copyright (c) 2026 Web Enterprise 24. All rights reserved.

package auth

import (
	"context"
	"fmt"

	"github.com/web-enterprise-24/backend/internal/platform/apperr"
	"github.com/web-enterprise-24/backend/internal/platform/constants"
	"github.com/web-enterprise-24/backend/internal/platform/metrics"
	"github.com/web-enterprise-24/backend/internal/platform/sec"
)

// KeyGenerator produces one session secret of length random bytes.
type KeyGenerator func(length int) (string, error)

// Issued is the outcome of a successful [SessionIssuer.Issue].
type Issued struct {
	Tokens  Tokens
	Session *Session
}

// SessionIssuer is the only path by which a session and its token pair come into existence.
type SessionIssuer struct {
	codec       *sec.TokenCodec
	sessions    SessionStore
	metrics     *metrics.AuthMetrics
	generateKey KeyGenerator
}

// IssuerOption customises a [SessionIssuer].
type IssuerOption func(*SessionIssuer)

// WithKeyGenerator replaces the CSPRNG-backed key source.
func WithKeyGenerator(generate KeyGenerator) IssuerOption {
	return func(issuer *SessionIssuer) {
		issuer.generateKey = generate
	}
}

// WithIssuerMetrics records issued sessions on m.
func WithIssuerMetrics(m *metrics.AuthMetrics) IssuerOption {
	return func(issuer *SessionIssuer) {
		issuer.metrics = m
	}
}

// NewSessionIssuer builds an issuer around a codec and a session store.
func NewSessionIssuer(codec *sec.TokenCodec, sessions SessionStore, options ...IssuerOption) *SessionIssuer {
	issuer := &SessionIssuer{
		codec:       codec,
		sessions:    sessions,
		generateKey: sec.GenerateSecureToken,
	}
	for _, option := range options {
		option(issuer)
	}
	return issuer
}

/*
Issue creates a new session for user and returns its token pair.

Description: Both tokens are signed before the keystore row is written, so a
signing failure aborts issuance without leaving a session behind. Every call
creates a new session; replacing an old one is the caller's job.

Parameters:
  - ctx: context.Context
  - user: *User

Returns:
  - *Issued: Token pair plus the persisted session
  - error: apperr.Internal on key, signing or storage failure
*/
func (issuer *SessionIssuer) Issue(ctx context.Context, user *User) (*Issued, error) {
	primaryKey, err := issuer.generateKey(constants.SessionKeyLength)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("auth_issuer_primary_key_failed: %w", err))
	}

	secondaryKey, err := issuer.generateKey(constants.SessionKeyLength)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("auth_issuer_secondary_key_failed: %w", err))
	}

	config := issuer.codec.Config()

	accessToken, err := issuer.codec.Encode(sec.TokenClaims{
		Issuer:   config.Issuer,
		Audience: config.Audience,
		Subject:  user.ID,
		Prm:      primaryKey,
	}, config.AccessTokenTTL)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("auth_issuer_access_token_failed: %w", err))
	}

	refreshToken, err := issuer.codec.Encode(sec.TokenClaims{
		Issuer:   config.Issuer,
		Audience: config.Audience,
		Subject:  user.ID,
		Prm:      secondaryKey,
	}, config.RefreshTokenTTL)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("auth_issuer_refresh_token_failed: %w", err))
	}

	session, err := issuer.sessions.Create(ctx, user.ID, primaryKey, secondaryKey)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("auth_issuer_session_create_failed: %w", err))
	}

	issuer.metrics.RecordSessionIssued()

	return &Issued{
		Tokens:  Tokens{AccessToken: accessToken, RefreshToken: refreshToken},
		Session: session,
	}, nil
}
