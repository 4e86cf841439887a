// Copyright (c) 2026 Web Enterprise 24. All rights reserved.

package account

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/web-enterprise-24/backend/internal/platform/database/schema"
	"github.com/web-enterprise-24/backend/internal/platform/dberr"
	"github.com/web-enterprise-24/backend/internal/platform/postgres"
	"github.com/web-enterprise-24/backend/internal/users/auth"
	"github.com/web-enterprise-24/backend/pkg/pagination"
)

// PostgresAccountRepository implements [AccountRepository] over users.account.
type PostgresAccountRepository struct {
	db postgres.Querier
}

// NewAccountRepository creates a new Postgres implementation for account administration.
func NewAccountRepository(db postgres.Querier) *PostgresAccountRepository {
	return &PostgresAccountRepository{db: db}
}

// sortColumns maps public sort fields onto columns; nothing else reaches ORDER BY.
var sortColumns = map[string]string{
	SortCreatedAt: schema.UserAccount.CreatedAt,
	SortName:      schema.UserAccount.Name,
	SortEmail:     schema.UserAccount.Email,
}

/*
List returns one page of accounts matching filter.

Description: Builds the WHERE clause from the set filter fields only. Roles of
each account on the page are loaded afterwards so the page query stays a plain
scan.

Parameters:
  - context: context.Context
  - filter: ListFilter

Returns:
  - []*auth.User: Accounts ordered by the requested sort
  - int: Total count ignoring the page window
  - error: Database errors
*/
func (repository *PostgresAccountRepository) List(context context.Context, filter ListFilter) ([]*auth.User, int, error) {
	account := schema.UserAccount
	where, args := buildWhere(filter)

	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM %s a %s`, account.Table, where)

	var total int
	if err := repository.db.QueryRow(context, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, dberr.Classify(err, "postgres_account_repo_count_failed")
	}

	column, ok := sortColumns[filter.Page.SortField]
	if !ok {
		column = account.CreatedAt
	}
	direction := pagination.Ascending
	if filter.Page.Direction == pagination.Descending {
		direction = pagination.Descending
	}

	pageQuery := fmt.Sprintf(`
		SELECT a.%s::text, %s
		FROM %s a
		%s
		ORDER BY a.%s %s, a.%s
		LIMIT $%d OFFSET $%d`,
		account.ID, schema.Prefixed("a", account.Columns()[1:]...),
		account.Table,
		where,
		column, direction, account.ID,
		len(args)+1, len(args)+2,
	)
	args = append(args, filter.Page.Limit, filter.Page.Offset())

	rows, err := repository.db.Query(context, pageQuery, args...)
	if err != nil {
		return nil, 0, dberr.Classify(err, "postgres_account_repo_list_failed")
	}

	users, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*auth.User, error) {
		return auth.ScanUser(row)
	})
	if err != nil {
		return nil, 0, dberr.Classify(err, "postgres_account_repo_scan_failed")
	}

	for _, user := range users {
		roles, err := auth.LoadRoles(context, repository.db, user.ID)
		if err != nil {
			return nil, 0, err
		}
		user.Roles = roles
	}

	return users, total, nil
}

// buildWhere renders the optional filters as positional conditions on alias "a".
func buildWhere(filter ListFilter) (string, []any) {
	account := schema.UserAccount
	link := schema.UserRoleLink
	role := schema.UserRole

	var conditions []string
	var args []any

	if filter.RoleCode != "" {
		args = append(args, filter.RoleCode)
		conditions = append(conditions, fmt.Sprintf(`EXISTS (
			SELECT 1 FROM %s l JOIN %s r ON r.%s = l.%s
			WHERE l.%s = a.%s AND r.%s = $%d)`,
			link.Table, role.Table, role.ID, link.RoleID,
			link.UserID, account.ID, role.Code, len(args),
		))
	}

	if filter.Status != nil {
		args = append(args, *filter.Status)
		conditions = append(conditions, fmt.Sprintf("a.%s = $%d", account.Status, len(args)))
	}

	if search := strings.TrimSpace(filter.Search); search != "" {
		args = append(args, "%"+escapeLike(search)+"%")
		conditions = append(conditions, fmt.Sprintf("(a.%s ILIKE $%d OR a.%s ILIKE $%d)",
			account.Name, len(args), account.Email, len(args),
		))
	}

	if len(conditions) == 0 {
		return "", args
	}
	return "WHERE " + strings.Join(conditions, " AND "), args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(value string) string {
	return likeEscaper.Replace(value)
}

/*
UpdateStatus sets the status flag of an account.

Parameters:
  - context: context.Context
  - userID: string
  - status: bool

Returns:
  - error: dberr.ErrNotFound when no row matched, or database errors
*/
func (repository *PostgresAccountRepository) UpdateStatus(context context.Context, userID string, status bool) error {
	account := schema.UserAccount
	query := fmt.Sprintf(`UPDATE %s SET %s = $2, %s = now() WHERE %s = $1`,
		account.Table, account.Status, account.UpdatedAt, account.ID,
	)

	tag, err := repository.db.Exec(context, query, userID, status)
	if err != nil {
		return dberr.Classify(err, "postgres_account_repo_update_status_failed")
	}
	if tag.RowsAffected() == 0 {
		return dberr.Classify(pgx.ErrNoRows, "postgres_account_repo_update_status_failed")
	}

	return nil
}
