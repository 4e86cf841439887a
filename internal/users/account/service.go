// Copyright (c) 2026 Web Enterprise 24. All rights reserved.

package account

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/web-enterprise-24/backend/internal/platform/apperr"
	"github.com/web-enterprise-24/backend/internal/platform/ctxutil"
	"github.com/web-enterprise-24/backend/internal/platform/dberr"
	"github.com/web-enterprise-24/backend/internal/platform/metrics"
	"github.com/web-enterprise-24/backend/internal/platform/sec"
	"github.com/web-enterprise-24/backend/internal/platform/validate"
	"github.com/web-enterprise-24/backend/internal/users/auth"
)

// # Service Layer

// Service orchestrates profile reads, session visibility and account administration.
type Service struct {
	accountRepository AccountRepository
	sessionStore      auth.SessionStore
	metrics           *metrics.AuthMetrics
}

// NewService constructs a new [Service]. m may be nil.
func NewService(accounts AccountRepository, sessions auth.SessionStore, m *metrics.AuthMetrics) *Service {
	return &Service{
		accountRepository: accounts,
		sessionStore:      sessions,
		metrics:           m,
	}
}

// # Profile

// Profile returns the caller's public profile as resolved by the gate.
func (service *Service) Profile(identity *auth.Identity) auth.Profile {
	return identity.User.Profile()
}

// # Sessions

/*
ListSessions returns the caller's active sessions, marking the one in use.

Parameters:
  - context: context.Context
  - identity: *auth.Identity

Returns:
  - []SessionInfo: Newest first
  - error: Storage failures
*/
func (service *Service) ListSessions(context context.Context, identity *auth.Identity) ([]SessionInfo, error) {
	sessions, err := service.sessionStore.ListForUser(context, identity.User.ID)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("account_service_list_sessions_failed: %w", err))
	}

	infos := make([]SessionInfo, 0, len(sessions))
	for _, session := range sessions {
		infos = append(infos, SessionInfo{
			ID:        session.ID,
			CreatedAt: session.CreatedAt,
			UpdatedAt: session.UpdatedAt,
			IsCurrent: session.ID == identity.Session.ID,
		})
	}

	return infos, nil
}

/*
RemoveSession signs one of the caller's devices out.

Description: Only sessions owned by the caller can be removed; any other id is
reported as not found so session ids of other users cannot be probed.

Parameters:
  - context: context.Context
  - identity: *auth.Identity
  - sessionID: string

Returns:
  - error: apperr.NotFound, validation or storage failures
*/
func (service *Service) RemoveSession(context context.Context, identity *auth.Identity, sessionID string) error {
	validator := &validate.Validator{}
	if err := validator.UUID("id", sessionID).Err(); err != nil {
		return err
	}

	sessions, err := service.sessionStore.ListForUser(context, identity.User.ID)
	if err != nil {
		return apperr.Internal(fmt.Errorf("account_service_remove_session_lookup_failed: %w", err))
	}

	owned := false
	for _, session := range sessions {
		if session.ID == sessionID {
			owned = true
			break
		}
	}
	if !owned {
		return apperr.NotFound("Session")
	}

	removed, err := service.sessionStore.Remove(context, sessionID)
	if err != nil {
		return apperr.Internal(fmt.Errorf("account_service_remove_session_failed: %w", err))
	}
	if !removed {
		return apperr.NotFound("Session")
	}

	service.metrics.RecordSessionsRemoved(metrics.CauseManual, 1)
	return nil
}

// # Administration

/*
ListAccounts returns one page of accounts for staff.

Parameters:
  - context: context.Context
  - filter: ListFilter

Returns:
  - []Summary: Accounts on the page
  - int: Total matching accounts
  - error: Validation or storage failures
*/
func (service *Service) ListAccounts(context context.Context, filter ListFilter) ([]Summary, int, error) {
	if filter.RoleCode != "" {
		validator := &validate.Validator{}
		err := validator.OneOf("role", filter.RoleCode, sec.RoleStudent, sec.RoleTutor, sec.RoleStaff).Err()
		if err != nil {
			return nil, 0, err
		}
	}

	users, total, err := service.accountRepository.List(context, filter)
	if err != nil {
		return nil, 0, apperr.Internal(fmt.Errorf("account_service_list_failed: %w", err))
	}

	summaries := make([]Summary, 0, len(users))
	for _, user := range users {
		summaries = append(summaries, summarize(user))
	}

	return summaries, total, nil
}

/*
UpdateStatus activates or deactivates an account.

Description: Deactivation also removes every session of the account, and the
authentication gate rejects inactive users, so the change takes effect on the
very next request. Staff cannot change their own status.

Parameters:
  - context: context.Context
  - actor: *auth.Identity (the staff member performing the change)
  - userID: string
  - status: bool

Returns:
  - error: Validation, NotFound or storage failures
*/
func (service *Service) UpdateStatus(context context.Context, actor *auth.Identity, userID string, status bool) error {
	validator := &validate.Validator{}
	validator.UUID("userId", userID).
		Custom("userId", actor.User.ID == userID, "Cannot change your own status")
	if err := validator.Err(); err != nil {
		return err
	}

	if err := service.accountRepository.UpdateStatus(context, userID, status); err != nil {
		return dberr.Wrap(err, "User")
	}

	logger := ctxutil.GetLogger(context)
	logger.Info("account_status_changed",
		slog.String("target_user_id", userID),
		slog.Bool("status", status),
	)

	if status {
		return nil
	}

	removed, err := service.sessionStore.RemoveAllForUser(context, userID)
	if err != nil {
		return apperr.Internal(fmt.Errorf("account_service_status_logout_failed: %w", err))
	}
	service.metrics.RecordSessionsRemoved(metrics.CauseStatusChange, removed)

	return nil
}
