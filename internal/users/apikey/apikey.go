// Copyright (c) 2026 Web Enterprise 24. All rights reserved.

/*
Package apikey guards public routes with client API keys.

Every client application ships a key in the x-api-key header. The key must be
active and carry the permission the route asks for. Keys are read far more often
than they change, so lookups go through a Redis cache in front of PostgreSQL.
*/
package apikey

import (
	"context"
	"slices"
	"time"
)

// APIKey is a client credential with the permissions it grants.
type APIKey struct {
	ID          string    `json:"id"`
	Key         string    `json:"key"`
	Version     int       `json:"version"`
	Permissions []string  `json:"permissions"`
	Comments    []string  `json:"comments"`
	Status      bool      `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Allows reports whether the key is active and grants permission.
func (key *APIKey) Allows(permission string) bool {
	return key != nil && key.Status && slices.Contains(key.Permissions, permission)
}

// Store resolves API keys.
type Store interface {
	/*
		FindByKey returns the active key whose value is key.

		Parameters:
		  - context: context.Context
		  - key: string (raw header value)

		Returns:
		  - *APIKey: Active key
		  - error: dberr.ErrNotFound for unknown or disabled keys, or storage errors
	*/
	FindByKey(context context.Context, key string) (*APIKey, error)
}
