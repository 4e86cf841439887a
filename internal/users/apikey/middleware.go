// Copyright (c) 2026 Web Enterprise 24. All rights reserved.

package apikey

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/web-enterprise-24/backend/internal/platform/apperr"
	"github.com/web-enterprise-24/backend/internal/platform/constants"
	"github.com/web-enterprise-24/backend/internal/platform/ctxkey"
	"github.com/web-enterprise-24/backend/internal/platform/ctxutil"
	"github.com/web-enterprise-24/backend/internal/platform/dberr"
	"github.com/web-enterprise-24/backend/internal/platform/respond"
)

// ErrPermissionDenied is the kind carried by every API key rejection.
var ErrPermissionDenied = errors.New("apikey_permission_denied")

// FromContext returns the key resolved by [Require], or nil.
func FromContext(ctx context.Context) *APIKey {
	key, _ := ctx.Value(ctxkey.KeyAPIKey).(*APIKey)
	return key
}

// Require rejects requests whose x-api-key header does not resolve to an active
// key granting permission. Missing, unknown and under-privileged keys all
// produce the same 403.
func Require(store Store, permission string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			ctx := request.Context()

			key, err := resolve(ctx, store, request.Header.Get(constants.HeaderAPIKey), permission)
			if err != nil {
				ctxutil.GetLogger(ctx).Warn("apikey_rejected", slog.String("permission", permission))
				respond.Error(writer, request, err)
				return
			}

			ctx = context.WithValue(ctx, ctxkey.KeyAPIKey, key)
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

func resolve(ctx context.Context, store Store, raw, permission string) (*APIKey, error) {
	denied := apperr.PermissionDenied(ErrPermissionDenied, "Permission denied")
	if raw == "" {
		return nil, denied
	}

	key, err := store.FindByKey(ctx, raw)
	switch {
	case errors.Is(err, dberr.ErrNotFound):
		return nil, denied
	case err != nil:
		return nil, apperr.Internal(fmt.Errorf("apikey_lookup_failed: %w", err))
	}

	if !key.Allows(permission) {
		return nil, denied
	}
	return key, nil
}
