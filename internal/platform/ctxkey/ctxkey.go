// Copyright (c) 2026 Web Enterprise 24. All rights reserved.

// Package ctxkey defines typed context keys used by middleware and handlers.
//
// # Safety
//
// It is used to store and retrieve per-request values (identity, API key, request ID, logger).
// Using a private, unexported type for keys prevents collisions with third-party
// packages that might also use context for storage.
package ctxkey

// key is an unexported type used for context keys to ensure type safety.
type key string

const (
	// KeyRequestID is the context key for the X-Request-ID correlation value.
	KeyRequestID key = "request_id"

	// KeyIdentity is the context key for the authenticated identity ([auth.Identity]).
	KeyIdentity key = "identity"

	// KeyAPIKey is the context key for the resolved client API key ([apikey.APIKey]).
	KeyAPIKey key = "api_key"

	// KeyLogger is the context key for the per-request [*log/slog.Logger].
	KeyLogger key = "logger"
)

// KeyLogAttrs is the context key for the mutable attribute bag read by the access log.
const KeyLogAttrs key = "log_attrs"
