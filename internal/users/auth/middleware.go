// Copyright (c) 2026 Web Enterprise 24. All rights reserved.

package auth

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/web-enterprise-24/backend/internal/platform/apperr"
	"github.com/web-enterprise-24/backend/internal/platform/constants"
	"github.com/web-enterprise-24/backend/internal/platform/ctxkey"
	"github.com/web-enterprise-24/backend/internal/platform/ctxutil"
	"github.com/web-enterprise-24/backend/internal/platform/respond"
	"github.com/web-enterprise-24/backend/internal/platform/sec"
)

// # Context Access

// WithIdentity returns a copy of ctx carrying identity.
func WithIdentity(ctx context.Context, identity *Identity) context.Context {
	return context.WithValue(ctx, ctxkey.KeyIdentity, identity)
}

// IdentityFrom returns the identity attached by [Authenticate], or nil.
func IdentityFrom(ctx context.Context) *Identity {
	identity, _ := ctx.Value(ctxkey.KeyIdentity).(*Identity)
	return identity
}

// RequiredIdentity returns the request's identity or a 401 when there is none.
func RequiredIdentity(request *http.Request) (*Identity, error) {
	identity := IdentityFrom(request.Context())
	if identity == nil {
		return nil, apperr.AuthFailure(ErrInvalidAuthorization, "Invalid Authorization")
	}
	return identity, nil
}

// # Middleware

// Authenticate rejects the request unless [AuthenticationGate] accepts its bearer token.
//
// On success the [Identity] is placed in the context and user_id is added to
// the access log line. On failure no downstream handler runs.
func Authenticate(gate *AuthenticationGate) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			ctx := request.Context()

			identity, err := gate.Authenticate(ctx, request.Header.Get(constants.HeaderAuthorization))
			if err != nil {
				logRejection(ctx, "authentication_rejected", err)
				respond.Error(writer, request, err)
				return
			}

			ctxutil.AddLogAttrs(ctx, slog.String("user_id", identity.User.ID))
			logger := ctxutil.GetLogger(ctx).With(slog.String("user_id", identity.User.ID))

			ctx = ctxutil.WithLogger(WithIdentity(ctx, identity), logger)
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// RequireRoles rejects the request unless the caller holds at least one of codes.
//
// The required set is built once here, when the route is declared. It must be
// mounted after [Authenticate].
func RequireRoles(gate *AuthorizationGate, codes ...string) func(http.Handler) http.Handler {
	required := sec.NewRoleSet(codes...)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			ctx := request.Context()

			if err := gate.Authorize(ctx, IdentityFrom(ctx), required); err != nil {
				logRejection(ctx, "authorization_rejected", err)
				respond.Error(writer, request, err)
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}

// logRejection records why a gate stopped the request. Tokens are never logged.
func logRejection(ctx context.Context, message string, err error) {
	level := slog.LevelWarn
	if appError := apperr.As(err); appError != nil && appError.HTTPStatus >= http.StatusInternalServerError {
		level = slog.LevelError
	}
	ctxutil.GetLogger(ctx).Log(ctx, level, message, slog.String("reason", reasonOf(err)))
}
