// Copyright (c) 2026 Web Enterprise 24. All rights reserved.

package apikey

import (
	"context"
	"fmt"

	"github.com/web-enterprise-24/backend/internal/platform/database/schema"
	"github.com/web-enterprise-24/backend/internal/platform/dberr"
	"github.com/web-enterprise-24/backend/internal/platform/postgres"
)

// PostgresStore implements [Store] over users.apikey.
type PostgresStore struct {
	db postgres.Querier
}

// NewPostgresStore creates a new PostgreSQL implementation of the Store.
func NewPostgresStore(db postgres.Querier) *PostgresStore {
	return &PostgresStore{db: db}
}

/*
FindByKey retrieves an active key by value.

Parameters:
  - context: context.Context
  - key: string

Returns:
  - *APIKey: Active key with its permissions
  - error: dberr.ErrNotFound or database errors
*/
func (repository *PostgresStore) FindByKey(context context.Context, key string) (*APIKey, error) {
	table := schema.UserAPIKey
	query := fmt.Sprintf(`
		SELECT %s::text, %s, %s, %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = $1 AND %s = TRUE`,
		table.ID, table.Key, table.Version, table.Permissions, table.Comments,
		table.Status, table.CreatedAt, table.UpdatedAt,
		table.Table,
		table.Key, table.Status,
	)

	found := &APIKey{}
	err := repository.db.QueryRow(context, query, key).Scan(
		&found.ID,
		&found.Key,
		&found.Version,
		&found.Permissions,
		&found.Comments,
		&found.Status,
		&found.CreatedAt,
		&found.UpdatedAt,
	)
	if err != nil {
		return nil, dberr.Classify(err, "postgres_apikey_repo_find_failed")
	}

	return found, nil
}
