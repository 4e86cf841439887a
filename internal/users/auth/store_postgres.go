// Copyright (c) 2026 Web Enterprise 24. All rights reserved.

package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/web-enterprise-24/backend/internal/platform/database/schema"
	"github.com/web-enterprise-24/backend/internal/platform/dberr"
	"github.com/web-enterprise-24/backend/internal/platform/postgres"
	"github.com/web-enterprise-24/backend/pkg/uuid"
)

// # Session Store

// PostgresSessionStore implements [SessionStore] over users.keystore.
type PostgresSessionStore struct {
	db postgres.Querier
}

// NewSessionStore creates a new PostgreSQL implementation of the SessionStore.
func NewSessionStore(db postgres.Querier) *PostgresSessionStore {
	return &PostgresSessionStore{db: db}
}

var keystoreTable = schema.UserKeystore

// sessionColumns is the SELECT list matching scanSession.
var sessionColumns = fmt.Sprintf("%s::text, %s::text, %s, %s, %s, %s, %s",
	keystoreTable.ID, keystoreTable.ClientID, keystoreTable.PrimaryKey, keystoreTable.SecondaryKey,
	keystoreTable.Status, keystoreTable.CreatedAt, keystoreTable.UpdatedAt,
)

func scanSession(row pgx.Row) (*Session, error) {
	session := &Session{}
	err := row.Scan(
		&session.ID,
		&session.UserID,
		&session.PrimaryKey,
		&session.SecondaryKey,
		&session.Status,
		&session.CreatedAt,
		&session.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return session, nil
}

/*
Create inserts a new active keystore row.

Parameters:
  - context: context.Context
  - userID: string
  - primaryKey: string
  - secondaryKey: string

Returns:
  - *Session: The persisted session
  - error: Database constraint violations or connectivity errors
*/
func (repository *PostgresSessionStore) Create(context context.Context, userID, primaryKey, secondaryKey string) (*Session, error) {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s)
		VALUES ($1, $2, $3, $4, TRUE, $5, $5)`,
		keystoreTable.Table, schema.List(keystoreTable.Columns()...),
	)

	now := time.Now().UTC()
	session := &Session{
		ID:           uuid.New(),
		UserID:       userID,
		PrimaryKey:   primaryKey,
		SecondaryKey: secondaryKey,
		Status:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	_, err := repository.db.Exec(context, query,
		session.ID,
		session.UserID,
		session.PrimaryKey,
		session.SecondaryKey,
		now,
	)
	if err != nil {
		return nil, dberr.Classify(err, "postgres_keystore_repo_create_failed")
	}

	return session, nil
}

/*
FindByPrimaryKey retrieves the active session bound to an access token.

Parameters:
  - context: context.Context
  - userID: string
  - primaryKey: string

Returns:
  - *Session: Active session
  - error: dberr.ErrNotFound or database errors
*/
func (repository *PostgresSessionStore) FindByPrimaryKey(context context.Context, userID, primaryKey string) (*Session, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE %s = $1 AND %s = $2 AND %s = TRUE`,
		sessionColumns, keystoreTable.Table,
		keystoreTable.ClientID, keystoreTable.PrimaryKey, keystoreTable.Status,
	)

	session, err := scanSession(repository.db.QueryRow(context, query, userID, primaryKey))
	if err != nil {
		return nil, dberr.Classify(err, "postgres_keystore_repo_find_by_primary_failed")
	}

	return session, nil
}

/*
FindByKeyPair retrieves the session holding both secrets of a token pair.

Parameters:
  - context: context.Context
  - userID: string
  - primaryKey: string
  - secondaryKey: string

Returns:
  - *Session: Matching session
  - error: dberr.ErrNotFound or database errors
*/
func (repository *PostgresSessionStore) FindByKeyPair(context context.Context, userID, primaryKey, secondaryKey string) (*Session, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE %s = $1 AND %s = $2 AND %s = $3`,
		sessionColumns, keystoreTable.Table,
		keystoreTable.ClientID, keystoreTable.PrimaryKey, keystoreTable.SecondaryKey,
	)

	session, err := scanSession(repository.db.QueryRow(context, query, userID, primaryKey, secondaryKey))
	if err != nil {
		return nil, dberr.Classify(err, "postgres_keystore_repo_find_by_pair_failed")
	}

	return session, nil
}

/*
ListForUser returns every active session of a user, newest first.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - []*Session: Active sessions
  - error: Database errors
*/
func (repository *PostgresSessionStore) ListForUser(context context.Context, userID string) ([]*Session, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE %s = $1 AND %s = TRUE
		ORDER BY %s DESC`,
		sessionColumns, keystoreTable.Table,
		keystoreTable.ClientID, keystoreTable.Status, keystoreTable.CreatedAt,
	)

	rows, err := repository.db.Query(context, query, userID)
	if err != nil {
		return nil, dberr.Classify(err, "postgres_keystore_repo_list_failed")
	}
	defer rows.Close()

	sessions := make([]*Session, 0)
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, dberr.Classify(err, "postgres_keystore_repo_scan_failed")
		}
		sessions = append(sessions, session)
	}

	if err := rows.Err(); err != nil {
		return nil, dberr.Classify(err, "postgres_keystore_repo_list_failed")
	}

	return sessions, nil
}

/*
Remove deletes a single keystore row.

Parameters:
  - context: context.Context
  - sessionID: string

Returns:
  - bool: true when a row was deleted
  - error: Database errors
*/
func (repository *PostgresSessionStore) Remove(context context.Context, sessionID string) (bool, error) {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, keystoreTable.Table, keystoreTable.ID)

	tag, err := repository.db.Exec(context, query, sessionID)
	if err != nil {
		return false, dberr.Classify(err, "postgres_keystore_repo_remove_failed")
	}

	return tag.RowsAffected() > 0, nil
}

/*
RemoveAllForUser deletes every keystore row of a user in a single statement.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - int64: Rows deleted
  - error: Database errors
*/
func (repository *PostgresSessionStore) RemoveAllForUser(context context.Context, userID string) (int64, error) {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, keystoreTable.Table, keystoreTable.ClientID)

	tag, err := repository.db.Exec(context, query, userID)
	if err != nil {
		return 0, dberr.Classify(err, "postgres_keystore_repo_remove_all_failed")
	}

	return tag.RowsAffected(), nil
}

// # User Repository

// PostgresUserRepository implements [UserRepository] over users.account.
type PostgresUserRepository struct {
	db postgres.DB
}

// NewUserRepository creates a new PostgreSQL implementation of the UserRepository.
func NewUserRepository(db postgres.DB) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

var accountTable = schema.UserAccount

var accountColumns = fmt.Sprintf("%s::text, %s, %s, %s, %s, %s, %s, %s, %s",
	accountTable.ID, accountTable.Name, accountTable.Email, accountTable.Password, accountTable.ProfilePicURL,
	accountTable.Status, accountTable.Verified, accountTable.CreatedAt, accountTable.UpdatedAt,
)

// ScanUser reads one row produced by the account column list. The account
// package reuses it for its listing queries.
func ScanUser(row pgx.Row) (*User, error) {
	user := &User{}
	err := row.Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&user.ProfilePicURL,
		&user.Status,
		&user.Verified,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// AccountColumns returns the SELECT list understood by [ScanUser].
func AccountColumns() string {
	return accountColumns
}

/*
FindByID retrieves an account and its roles by primary key.

Parameters:
  - context: context.Context
  - id: string (UUIDv7)

Returns:
  - *User: Hydrated account entity
  - error: dberr.ErrNotFound or database errors
*/
func (repository *PostgresUserRepository) FindByID(context context.Context, id string) (*User, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`, accountColumns, accountTable.Table, accountTable.ID)
	return repository.findOne(context, query, id, "postgres_user_repo_find_by_id_failed")
}

/*
FindByEmail retrieves an account and its roles by its unique email.

Parameters:
  - context: context.Context
  - email: string

Returns:
  - *User: Hydrated account entity
  - error: dberr.ErrNotFound or database errors
*/
func (repository *PostgresUserRepository) FindByEmail(context context.Context, email string) (*User, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`, accountColumns, accountTable.Table, accountTable.Email)
	return repository.findOne(context, query, email, "postgres_user_repo_find_by_email_failed")
}

func (repository *PostgresUserRepository) findOne(context context.Context, query, argument, action string) (*User, error) {
	user, err := ScanUser(repository.db.QueryRow(context, query, argument))
	if err != nil {
		return nil, dberr.Classify(err, action)
	}

	roles, err := LoadRoles(context, repository.db, user.ID)
	if err != nil {
		return nil, err
	}
	user.Roles = roles

	return user, nil
}

/*
Create inserts an account and links its roles in one transaction.

Parameters:
  - context: context.Context
  - user: *User

Returns:
  - error: dberr.ErrDuplicate on an existing email, or database errors
*/
func (repository *PostgresUserRepository) Create(context context.Context, user *User) error {
	insertAccount := fmt.Sprintf(`
		INSERT INTO %s (%s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)`,
		accountTable.Table, schema.List(accountTable.Columns()...),
	)
	insertLink := fmt.Sprintf(`INSERT INTO %s (%s, %s) VALUES ($1, $2)`,
		schema.UserRoleLink.Table, schema.UserRoleLink.UserID, schema.UserRoleLink.RoleID,
	)

	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	return postgres.InTx(context, repository.db, func(tx pgx.Tx) error {
		_, err := tx.Exec(context, insertAccount,
			user.ID,
			user.Name,
			user.Email,
			user.PasswordHash,
			user.ProfilePicURL,
			user.Status,
			user.Verified,
			now,
		)
		if err != nil {
			return dberr.Classify(err, "postgres_user_repo_create_failed")
		}

		for _, assigned := range user.Roles {
			if _, err := tx.Exec(context, insertLink, user.ID, assigned.ID); err != nil {
				return dberr.Classify(err, "postgres_user_repo_link_role_failed")
			}
		}
		return nil
	})
}

/*
UpdatePassword replaces the stored password hash.

Parameters:
  - context: context.Context
  - userID: string
  - passwordHash: string

Returns:
  - error: dberr.ErrNotFound or database errors
*/
func (repository *PostgresUserRepository) UpdatePassword(context context.Context, userID, passwordHash string) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = $2, %s = now() WHERE %s = $1`,
		accountTable.Table, accountTable.Password, accountTable.UpdatedAt, accountTable.ID,
	)

	tag, err := repository.db.Exec(context, query, userID, passwordHash)
	if err != nil {
		return dberr.Classify(err, "postgres_user_repo_update_password_failed")
	}
	if tag.RowsAffected() == 0 {
		return dberr.Classify(pgx.ErrNoRows, "postgres_user_repo_update_password_failed")
	}

	return nil
}

// # Role Repository

// PostgresRoleRepository implements [RoleRepository] over users.role.
type PostgresRoleRepository struct {
	db postgres.Querier
}

// NewRoleRepository creates a new PostgreSQL implementation of the RoleRepository.
func NewRoleRepository(db postgres.Querier) *PostgresRoleRepository {
	return &PostgresRoleRepository{db: db}
}

var roleTable = schema.UserRole

/*
FindByCodes returns the enabled roles whose code is in codes.

Parameters:
  - context: context.Context
  - codes: []string

Returns:
  - []Role: Enabled roles
  - error: Database errors
*/
func (repository *PostgresRoleRepository) FindByCodes(context context.Context, codes []string) ([]Role, error) {
	if len(codes) == 0 {
		return []Role{}, nil
	}

	query := fmt.Sprintf(`
		SELECT %s::text, %s, %s
		FROM %s
		WHERE %s = ANY($1) AND %s = TRUE
		ORDER BY %s`,
		roleTable.ID, roleTable.Code, roleTable.Status, roleTable.Table, roleTable.Code, roleTable.Status, roleTable.Code,
	)

	return collectRoles(repository.db.Query(context, query, codes))
}

/*
ListEnabled returns every enabled roleTable.

Parameters:
  - context: context.Context

Returns:
  - []Role: Enabled roles ordered by code
  - error: Database errors
*/
func (repository *PostgresRoleRepository) ListEnabled(context context.Context) ([]Role, error) {
	query := fmt.Sprintf(`
		SELECT %s::text, %s, %s
		FROM %s
		WHERE %s = TRUE
		ORDER BY %s`,
		roleTable.ID, roleTable.Code, roleTable.Status, roleTable.Table, roleTable.Status, roleTable.Code,
	)

	return collectRoles(repository.db.Query(context, query))
}

/*
LoadRoles returns every role linked to userID, enabled or not.

Parameters:
  - context: context.Context
  - db: postgres.Querier (pool or transaction)
  - userID: string

Returns:
  - []Role: Linked roles ordered by code
  - error: Database errors
*/
func LoadRoles(context context.Context, db postgres.Querier, userID string) ([]Role, error) {
	link := schema.UserRoleLink
	query := fmt.Sprintf(`
		SELECT r.%s::text, r.%s, r.%s
		FROM %s r
		JOIN %s l ON l.%s = r.%s
		WHERE l.%s = $1
		ORDER BY r.%s`,
		roleTable.ID, roleTable.Code, roleTable.Status,
		roleTable.Table,
		link.Table, link.RoleID, roleTable.ID,
		link.UserID,
		roleTable.Code,
	)

	return collectRoles(db.Query(context, query, userID))
}

func collectRoles(rows pgx.Rows, err error) ([]Role, error) {
	if err != nil {
		return nil, dberr.Classify(err, "postgres_role_repo_query_failed")
	}

	roles, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Role, error) {
		var item Role
		err := row.Scan(&item.ID, &item.Code, &item.Status)
		return item, err
	})
	if err != nil {
		return nil, dberr.Classify(err, "postgres_role_repo_scan_failed")
	}

	return roles, nil
}
