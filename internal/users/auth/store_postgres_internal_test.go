// Copyright (c) 2026 Web Enterprise 24. All rights reserved.

package auth

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/web-enterprise-24/backend/internal/platform/dberr"
)

// recordingQuerier captures the last statement and answers with canned results.
type recordingQuerier struct {
	sql  string
	args []any

	tag string
	row *cannedRow
}

func (q *recordingQuerier) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	q.sql, q.args = sql, args
	return pgconn.NewCommandTag(q.tag), nil
}

func (q *recordingQuerier) Query(_ context.Context, sql string, args ...any) (pgx.Rows, error) {
	q.sql, q.args = sql, args
	return nil, errors.New("not used")
}

func (q *recordingQuerier) QueryRow(_ context.Context, sql string, args ...any) pgx.Row {
	q.sql, q.args = sql, args
	if q.row == nil {
		return &cannedRow{err: pgx.ErrNoRows}
	}
	return q.row
}

// cannedRow assigns values positionally into the scan destinations.
type cannedRow struct {
	values []any
	err    error
}

func (row *cannedRow) Scan(dest ...any) error {
	if row.err != nil {
		return row.err
	}
	for i, target := range dest {
		reflect.ValueOf(target).Elem().Set(reflect.ValueOf(row.values[i]))
	}
	return nil
}

/*
TestSessionStore_FindByPrimaryKey verifies only active rows of the user are matched.
*/
func TestSessionStore_FindByPrimaryKey(t *testing.T) {
	created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	db := &recordingQuerier{row: &cannedRow{values: []any{
		"session-1", "user-1", "pk", "sk", true, created, created,
	}}}
	store := NewSessionStore(db)

	session, err := store.FindByPrimaryKey(context.Background(), "user-1", "pk")
	require.NoError(t, err)

	assert.Contains(t, db.sql, "FROM users.keystore")
	assert.Contains(t, db.sql, "clientid = $1 AND primarykey = $2 AND status = TRUE")
	assert.Equal(t, []any{"user-1", "pk"}, db.args)
	assert.Equal(t, &Session{
		ID: "session-1", UserID: "user-1", PrimaryKey: "pk", SecondaryKey: "sk",
		Status: true, CreatedAt: created, UpdatedAt: created,
	}, session)
}

/*
TestSessionStore_FindByKeyPair verifies both secrets are required and a miss is ErrNotFound.
*/
func TestSessionStore_FindByKeyPair(t *testing.T) {
	db := &recordingQuerier{}
	store := NewSessionStore(db)

	session, err := store.FindByKeyPair(context.Background(), "user-1", "pk", "sk")
	assert.Nil(t, session)
	assert.ErrorIs(t, err, dberr.ErrNotFound)

	assert.Contains(t, db.sql, "clientid = $1 AND primarykey = $2 AND secondarykey = $3")
	assert.Equal(t, []any{"user-1", "pk", "sk"}, db.args)
}

/*
TestSessionStore_Remove verifies deletion by id and the affected-row report.
*/
func TestSessionStore_Remove(t *testing.T) {
	tests := []struct {
		name string
		tag  string
		want bool
	}{
		{"deleted", "DELETE 1", true},
		{"already_gone", "DELETE 0", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := &recordingQuerier{tag: tt.tag}
			removed, err := NewSessionStore(db).Remove(context.Background(), "session-1")

			require.NoError(t, err)
			assert.Equal(t, tt.want, removed)
			assert.Equal(t, "DELETE FROM users.keystore WHERE id = $1", db.sql)
			assert.Equal(t, []any{"session-1"}, db.args)
		})
	}
}

/*
TestSessionStore_RemoveAllForUser verifies every row of the user goes in one statement.
*/
func TestSessionStore_RemoveAllForUser(t *testing.T) {
	db := &recordingQuerier{tag: "DELETE 3"}

	removed, err := NewSessionStore(db).RemoveAllForUser(context.Background(), "user-1")
	require.NoError(t, err)

	assert.Equal(t, int64(3), removed)
	assert.Equal(t, "DELETE FROM users.keystore WHERE clientid = $1", db.sql)
	assert.Equal(t, []any{"user-1"}, db.args)
}

/*
TestSessionStore_Create verifies new rows are written active with both secrets.
*/
func TestSessionStore_Create(t *testing.T) {
	db := &recordingQuerier{tag: "INSERT 0 1"}

	session, err := NewSessionStore(db).Create(context.Background(), "user-1", "pk", "sk")
	require.NoError(t, err)

	assert.Contains(t, db.sql, "INSERT INTO users.keystore")
	assert.Contains(t, db.sql, "VALUES ($1, $2, $3, $4, TRUE, $5, $5)")
	require.Len(t, db.args, 5)
	assert.Equal(t, []any{session.ID, "user-1", "pk", "sk"}, db.args[:4])
	assert.True(t, session.Status)
}
