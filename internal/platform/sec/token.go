// Copyright (c) 2026 Web Enterprise 24. All rights reserved.

// Package sec provides cryptographic primitives and token management.
//
// # Architecture
//
// This package isolates security-sensitive code (hashing, token signing, secret
// generation) from the domain logic. It performs no I/O: every value it needs,
// including the signing secret, is injected through [TokenConfig].
package sec

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrInvalidToken covers malformed strings, bad signatures, expired tokens and
	// tokens missing a required claim. Callers do not special-case expiry.
	ErrInvalidToken = errors.New("sec: invalid token")

	// ErrInvalidClaims is returned by [TokenCodec.Validate] when a decoded claim set
	// does not belong to this service.
	ErrInvalidClaims = errors.New("sec: invalid token claims")

	// ErrTokenEncoding is returned when a claim set cannot be signed.
	ErrTokenEncoding = errors.New("sec: token encoding failed")
)

// TokenConfig holds the process-level token settings.
type TokenConfig struct {
	Secret          []byte
	Issuer          string
	Audience        string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
}

// TokenClaims is the signed payload of an access or refresh token.
//
// Prm binds the token to exactly one session: it carries the session's primary
// key for access tokens and its secondary key for refresh tokens.
type TokenClaims struct {
	Issuer    string
	Audience  string
	Subject   string
	Prm       string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// wireClaims is the JSON shape embedded in the compact token.
type wireClaims struct {
	jwt.RegisteredClaims
	Prm string `json:"prm"`
}

// TokenCodec encodes and decodes HS256-signed claim sets.
//
// # Concurrency
//
// A TokenCodec is immutable after construction and safe for concurrent use.
type TokenCodec struct {
	config TokenConfig
	now    func() time.Time
}

// CodecOption customises a [TokenCodec] at construction.
type CodecOption func(*TokenCodec)

// WithClock replaces the wall clock used for issued-at, expiry and validation.
func WithClock(now func() time.Time) CodecOption {
	return func(codec *TokenCodec) {
		codec.now = now
	}
}

// NewTokenCodec validates the configuration and returns a ready codec.
func NewTokenCodec(config TokenConfig, options ...CodecOption) (*TokenCodec, error) {
	if len(config.Secret) == 0 {
		return nil, errors.New("sec: token signing secret is missing")
	}
	if config.Issuer == "" || config.Audience == "" {
		return nil, errors.New("sec: token issuer and audience are required")
	}

	codec := &TokenCodec{config: config, now: time.Now}
	for _, option := range options {
		option(codec)
	}

	return codec, nil
}

// Config returns the settings the codec was built with.
func (codec *TokenCodec) Config() TokenConfig {
	return codec.config
}

// Encode signs claims with an expiry of ttl from now, truncated to whole seconds.
//
// IssuedAt and ExpiresAt on the input are ignored; the codec computes both.
func (codec *TokenCodec) Encode(claims TokenClaims, ttl time.Duration) (string, error) {
	if ttl < time.Second {
		return "", fmt.Errorf("%w: ttl %s is below one second", ErrTokenEncoding, ttl)
	}

	issuedAt := codec.now().Truncate(time.Second)
	wire := wireClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    claims.Issuer,
			Audience:  jwt.ClaimStrings{claims.Audience},
			Subject:   claims.Subject,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(ttl.Truncate(time.Second))),
		},
		Prm: claims.Prm,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, wire).SignedString(codec.config.Secret)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrTokenEncoding, err)
	}

	return signed, nil
}

// Decode verifies the signature and expiry of token and returns its claims.
//
// Malformed, tampered, expired, incomplete, and multi-audience tokens all fail
// with [ErrInvalidToken].
func (codec *TokenCodec) Decode(token string) (*TokenClaims, error) {
	return codec.parse(token,
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
	)
}

// DecodeExpired verifies the signature of token but does not enforce expiry.
//
// It exists for the refresh flow only, where the access token presented next to
// the refresh token is expected to have lapsed.
func (codec *TokenCodec) DecodeExpired(token string) (*TokenClaims, error) {
	return codec.parse(token, jwt.WithoutClaimsValidation())
}

// Validate checks that claims were minted for this service and bind a session.
func (codec *TokenCodec) Validate(claims *TokenClaims) error {
	switch {
	case claims == nil:
		return fmt.Errorf("%w: no claims", ErrInvalidClaims)
	case claims.Issuer != codec.config.Issuer:
		return fmt.Errorf("%w: unexpected issuer", ErrInvalidClaims)
	case claims.Audience != codec.config.Audience:
		return fmt.Errorf("%w: unexpected audience", ErrInvalidClaims)
	case claims.Subject == "":
		return fmt.Errorf("%w: missing subject", ErrInvalidClaims)
	case claims.Prm == "":
		return fmt.Errorf("%w: missing session binding", ErrInvalidClaims)
	}
	return nil
}

// parse runs the shared jwt parsing path and converts the wire claims.
func (codec *TokenCodec) parse(token string, options ...jwt.ParserOption) (*TokenClaims, error) {
	options = append(options,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(codec.now),
	)

	wire := &wireClaims{}
	parsed, err := jwt.ParseWithClaims(token, wire, func(*jwt.Token) (interface{}, error) {
		return codec.config.Secret, nil
	}, options...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if !parsed.Valid {
		return nil, ErrInvalidToken
	}

	if wire.Issuer == "" || wire.Subject == "" || len(wire.Audience) == 0 || wire.Prm == "" {
		return nil, fmt.Errorf("%w: missing required claim", ErrInvalidToken)
	}
	// Validate compares a single audience, so a list could smuggle in a foreign one.
	if len(wire.Audience) != 1 {
		return nil, fmt.Errorf("%w: expected exactly one audience", ErrInvalidToken)
	}

	claims := &TokenClaims{
		Issuer:   wire.Issuer,
		Audience: wire.Audience[0],
		Subject:  wire.Subject,
		Prm:      wire.Prm,
	}
	if wire.IssuedAt != nil {
		claims.IssuedAt = wire.IssuedAt.Time
	}
	if wire.ExpiresAt != nil {
		claims.ExpiresAt = wire.ExpiresAt.Time
	}

	return claims, nil
}
