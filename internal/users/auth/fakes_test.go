// Copyright (c) 2026 Web Enterprise 24. All rights reserved.

package auth_test

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/web-enterprise-24/backend/internal/platform/dberr"
	"github.com/web-enterprise-24/backend/internal/platform/metrics"
	"github.com/web-enterprise-24/backend/internal/platform/sec"
	"github.com/web-enterprise-24/backend/internal/users/auth"
	"github.com/web-enterprise-24/backend/pkg/uuid"
)

// # In-memory Stores

type memorySessions struct {
	mu        sync.Mutex
	rows      map[string]*auth.Session
	createErr error
}

func newMemorySessions() *memorySessions {
	return &memorySessions{rows: map[string]*auth.Session{}}
}

func (store *memorySessions) Create(_ context.Context, userID, primaryKey, secondaryKey string) (*auth.Session, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	if store.createErr != nil {
		return nil, store.createErr
	}

	now := time.Now().UTC()
	session := &auth.Session{
		ID:           uuid.New(),
		UserID:       userID,
		PrimaryKey:   primaryKey,
		SecondaryKey: secondaryKey,
		Status:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	store.rows[session.ID] = session
	copied := *session
	return &copied, nil
}

func (store *memorySessions) find(match func(*auth.Session) bool) (*auth.Session, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	for _, session := range store.rows {
		if match(session) {
			copied := *session
			return &copied, nil
		}
	}
	return nil, dberr.ErrNotFound
}

func (store *memorySessions) FindByPrimaryKey(_ context.Context, userID, primaryKey string) (*auth.Session, error) {
	return store.find(func(session *auth.Session) bool {
		return session.UserID == userID && session.PrimaryKey == primaryKey && session.Status
	})
}

func (store *memorySessions) FindByKeyPair(_ context.Context, userID, primaryKey, secondaryKey string) (*auth.Session, error) {
	return store.find(func(session *auth.Session) bool {
		return session.UserID == userID && session.PrimaryKey == primaryKey && session.SecondaryKey == secondaryKey
	})
}

func (store *memorySessions) ListForUser(_ context.Context, userID string) ([]*auth.Session, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	sessions := make([]*auth.Session, 0)
	for _, session := range store.rows {
		if session.UserID == userID && session.Status {
			copied := *session
			sessions = append(sessions, &copied)
		}
	}
	sort.Slice(sessions, func(i, j int) bool { return sessions[i].ID > sessions[j].ID })
	return sessions, nil
}

func (store *memorySessions) Remove(_ context.Context, sessionID string) (bool, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	_, found := store.rows[sessionID]
	delete(store.rows, sessionID)
	return found, nil
}

func (store *memorySessions) RemoveAllForUser(_ context.Context, userID string) (int64, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	var removed int64
	for id, session := range store.rows {
		if session.UserID == userID {
			delete(store.rows, id)
			removed++
		}
	}
	return removed, nil
}

func (store *memorySessions) count() int {
	store.mu.Lock()
	defer store.mu.Unlock()
	return len(store.rows)
}

type memoryUsers struct {
	mu   sync.Mutex
	rows map[string]*auth.User
}

func newMemoryUsers() *memoryUsers {
	return &memoryUsers{rows: map[string]*auth.User{}}
}

func (store *memoryUsers) FindByID(_ context.Context, id string) (*auth.User, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	user, ok := store.rows[id]
	if !ok {
		return nil, dberr.ErrNotFound
	}
	copied := *user
	return &copied, nil
}

func (store *memoryUsers) FindByEmail(_ context.Context, email string) (*auth.User, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	for _, user := range store.rows {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, dberr.ErrNotFound
}

func (store *memoryUsers) Create(_ context.Context, user *auth.User) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	for _, existing := range store.rows {
		if existing.Email == user.Email {
			return dberr.ErrDuplicate
		}
	}
	copied := *user
	store.rows[user.ID] = &copied
	return nil
}

func (store *memoryUsers) UpdatePassword(_ context.Context, userID, passwordHash string) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	user, ok := store.rows[userID]
	if !ok {
		return dberr.ErrNotFound
	}
	user.PasswordHash = passwordHash
	return nil
}

func (store *memoryUsers) setStatus(userID string, status bool) {
	store.mu.Lock()
	defer store.mu.Unlock()
	store.rows[userID].Status = status
}

type memoryRoles struct {
	mu    sync.Mutex
	roles []auth.Role
}

func newMemoryRoles() *memoryRoles {
	return &memoryRoles{roles: []auth.Role{
		{ID: "0190a4b2-0000-7000-8000-00000000000a", Code: sec.RoleStaff, Status: true},
		{ID: "0190a4b2-0000-7000-8000-00000000000b", Code: sec.RoleStudent, Status: true},
		{ID: "0190a4b2-0000-7000-8000-00000000000c", Code: sec.RoleTutor, Status: true},
	}}
}

func (store *memoryRoles) FindByCodes(_ context.Context, codes []string) ([]auth.Role, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	wanted := sec.NewRoleSet(codes...)
	found := make([]auth.Role, 0)
	for _, role := range store.roles {
		if role.Status && wanted.Has(role.Code) {
			found = append(found, role)
		}
	}
	return found, nil
}

func (store *memoryRoles) ListEnabled(ctx context.Context) ([]auth.Role, error) {
	store.mu.Lock()
	codes := make([]string, 0, len(store.roles))
	for _, role := range store.roles {
		codes = append(codes, role.Code)
	}
	store.mu.Unlock()
	return store.FindByCodes(ctx, codes)
}

func (store *memoryRoles) role(code string) auth.Role {
	store.mu.Lock()
	defer store.mu.Unlock()
	for _, role := range store.roles {
		if role.Code == code {
			return role
		}
	}
	panic("unknown role " + code)
}

func (store *memoryRoles) disable(code string) {
	store.mu.Lock()
	defer store.mu.Unlock()
	for i := range store.roles {
		if store.roles[i].Code == code {
			store.roles[i].Status = false
		}
	}
}

// # Clock

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (clock *testClock) Now() time.Time {
	clock.mu.Lock()
	defer clock.mu.Unlock()
	return clock.now
}

func (clock *testClock) Advance(step time.Duration) {
	clock.mu.Lock()
	defer clock.mu.Unlock()
	clock.now = clock.now.Add(step)
}

// # Harness

var testTokenConfig = sec.TokenConfig{
	Secret:          []byte("test-signing-secret-0123456789abcdef"),
	Issuer:          "api.test",
	Audience:        "test-clients",
	AccessTokenTTL:  15 * time.Minute,
	RefreshTokenTTL: 24 * time.Hour,
}

type harness struct {
	clock    *testClock
	codec    *sec.TokenCodec
	sessions *memorySessions
	users    *memoryUsers
	roles    *memoryRoles
	registry *prometheus.Registry
	lookup   *auth.IdentityLookup
	issuer   *auth.SessionIssuer
	authn    *auth.AuthenticationGate
	authz    *auth.AuthorizationGate
	service  *auth.Service
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	clock := &testClock{now: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	codec, err := sec.NewTokenCodec(testTokenConfig, sec.WithClock(clock.Now))
	require.NoError(t, err)

	h := &harness{
		clock:    clock,
		codec:    codec,
		sessions: newMemorySessions(),
		users:    newMemoryUsers(),
		roles:    newMemoryRoles(),
		registry: prometheus.NewRegistry(),
	}

	m := metrics.NewAuthMetrics(h.registry)
	h.lookup = auth.NewIdentityLookup(h.users, h.roles)
	h.issuer = auth.NewSessionIssuer(codec, h.sessions, auth.WithIssuerMetrics(m))
	h.authn = auth.NewAuthenticationGate(codec, h.lookup, h.sessions, m)
	h.authz = auth.NewAuthorizationGate(h.lookup, m)
	h.service = auth.NewService(h.users, h.roles, h.sessions, h.lookup, h.issuer, codec, m)

	return h
}

// addUser stores an active user with a bcrypt hash of password.
func (h *harness) addUser(t *testing.T, email, password string, codes ...string) *auth.User {
	t.Helper()

	hash, err := sec.HashPassword(password)
	require.NoError(t, err)

	user := &auth.User{
		ID:           uuid.New(),
		Name:         "Test User",
		Email:        email,
		PasswordHash: hash,
		Status:       true,
	}
	for _, code := range codes {
		user.Roles = append(user.Roles, h.roles.role(code))
	}
	require.NoError(t, h.users.Create(context.Background(), user))
	return user
}

func (h *harness) issue(t *testing.T, user *auth.User) *auth.Issued {
	t.Helper()
	issued, err := h.issuer.Issue(context.Background(), user)
	require.NoError(t, err)
	return issued
}

func bearer(token string) string {
	return "Bearer " + token
}
