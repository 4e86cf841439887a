// Copyright (c) 2026 Web Enterprise 24. All rights reserved.

package account

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/web-enterprise-24/backend/internal/platform/request"
	"github.com/web-enterprise-24/backend/internal/platform/respond"
	"github.com/web-enterprise-24/backend/internal/platform/sec"
	"github.com/web-enterprise-24/backend/internal/platform/validate"
	"github.com/web-enterprise-24/backend/internal/users/auth"
	"github.com/web-enterprise-24/backend/pkg/pagination"
	"github.com/web-enterprise-24/backend/pkg/query"
)

// Handler implements the HTTP layer for profiles and account administration.
type Handler struct {
	accountService *Service
	authentication *auth.AuthenticationGate
	authorization  *auth.AuthorizationGate
}

// NewHandler constructs a new account [Handler].
func NewHandler(service *Service, authentication *auth.AuthenticationGate, authorization *auth.AuthorizationGate) *Handler {
	return &Handler{
		accountService: service,
		authentication: authentication,
		authorization:  authorization,
	}
}

// ProfileRoutes returns the caller-facing routes, mounted at /profile.
//
// # Endpoints
//   - GET    /my               : Caller's profile.
//   - GET    /my/sessions      : Caller's active sessions.
//   - DELETE /my/sessions/{id} : Signs one device out.
func (handler *Handler) ProfileRoutes() chi.Router {
	router := chi.NewRouter()
	router.Use(auth.Authenticate(handler.authentication))

	router.Get("/my", handler.getProfile)
	router.Get("/my/sessions", handler.listSessions)
	router.Delete("/my/sessions/{id}", handler.removeSession)

	return router
}

// AdminRoutes returns the staff-only routes, mounted at /account.
//
// # Endpoints
//   - GET   /          : Account listing.
//   - PATCH /{userId}  : Activation toggle.
func (handler *Handler) AdminRoutes() chi.Router {
	router := chi.NewRouter()
	router.Use(auth.Authenticate(handler.authentication))
	router.Use(auth.RequireRoles(handler.authorization, sec.RoleStaff))

	router.Get("/", handler.listAccounts)
	router.Patch("/{userId}", handler.updateStatus)

	return router
}

// # Profile Endpoints

/*
GET /profile/my.

Response:
  - 200: auth.Profile
  - 401: Authentication failure kinds
*/
func (handler *Handler) getProfile(writer http.ResponseWriter, request *http.Request) {
	identity, err := auth.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, handler.accountService.Profile(identity))
}

/*
GET /profile/my/sessions.

Response:
  - 200: []SessionInfo
*/
func (handler *Handler) listSessions(writer http.ResponseWriter, request *http.Request) {
	identity, err := auth.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	sessions, err := handler.accountService.ListSessions(request.Context(), identity)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, sessions)
}

/*
DELETE /profile/my/sessions/{id}.

Response:
  - 204: Removed
  - 404: Not one of the caller's sessions
*/
func (handler *Handler) removeSession(writer http.ResponseWriter, request *http.Request) {
	identity, err := auth.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.accountService.RemoveSession(request.Context(), identity, requestutil.Param(request, "id")); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

// # Administration Endpoints

/*
GET /account?role=&status=&search=&sort=&page=&limit=.

Response:
  - 200: Paginated []Summary
  - 403: Caller is not staff
*/
func (handler *Handler) listAccounts(writer http.ResponseWriter, request *http.Request) {
	status, ok := query.OptionalBool(requestutil.Query(request, "status"))
	validator := &validate.Validator{}
	if err := validator.Custom("status", !ok, "Must be true or false").Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	filter := ListFilter{
		RoleCode: requestutil.Query(request, "role"),
		Status:   status,
		Search:   requestutil.Query(request, "search"),
		Page:     pagination.FromRequest(request, SortCreatedAt, SortCreatedAt, SortName, SortEmail),
	}

	summaries, total, err := handler.accountService.ListAccounts(request.Context(), filter)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, summaries, pagination.NewMeta(filter.Page, total))
}

type updateStatusRequest struct {
	Status *bool `json:"status"`
}

/*
PATCH /account/{userId}.

Request:
  - body: {"status": bool}

Response:
  - 200: Acknowledgement
  - 400: Missing status or own account
  - 404: Unknown user
*/
func (handler *Handler) updateStatus(writer http.ResponseWriter, request *http.Request) {
	identity, err := auth.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input updateStatusRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}
	validator := &validate.Validator{}
	if err := validator.Custom("status", input.Status == nil, "This field is required").Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	err = handler.accountService.UpdateStatus(request.Context(), identity, requestutil.Param(request, "userId"), *input.Status)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Message(writer, "Account status updated")
}
