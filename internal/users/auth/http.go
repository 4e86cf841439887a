// Copyright (c) 2026 Web Enterprise 24. All rights reserved.

package auth

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/web-enterprise-24/backend/internal/platform/constants"
	requestutil "github.com/web-enterprise-24/backend/internal/platform/request"
	"github.com/web-enterprise-24/backend/internal/platform/respond"
)

// # Definitions & Constructors

// Handler implements the access-flow HTTP endpoints.
//
// # Scope
//
// It only decodes requests and encodes responses; every rule lives in [Service].
type Handler struct {
	authService *Service
	gate        *AuthenticationGate
}

// NewHandler constructs a new [Handler]. gate protects logout and password change.
func NewHandler(service *Service, gate *AuthenticationGate) *Handler {
	return &Handler{authService: service, gate: gate}
}

// Routes returns a [chi.Router] with the access-flow routes.
//
// # Endpoints
//   - POST   /signup/basic                    : Creates a student account.
//   - POST   /login/basic                     : Opens a new session.
//   - POST   /token/refresh                   : Rotates the current session.
//   - GET    /roles                           : Lists enabled roles.
//   - DELETE /logout                          : Closes the current session.
//   - POST   /credential/user/change-password : Replaces the password, signs out everywhere.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/signup/basic", handler.signUp)
	router.Post("/login/basic", handler.login)
	router.Post("/token/refresh", handler.refresh)
	router.Get("/roles", handler.listRoles)

	router.Group(func(protected chi.Router) {
		protected.Use(Authenticate(handler.gate))
		protected.Delete("/logout", handler.logout)
		protected.Post("/credential/user/change-password", handler.changePassword)
	})

	return router
}

// # Request Payloads

type signUpRequest struct {
	Name          string `json:"name"`
	Email         string `json:"email"`
	Password      string `json:"password"`
	ProfilePicURL string `json:"profilePicUrl"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type changePasswordRequest struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

// # Handlers

func (handler *Handler) signUp(writer http.ResponseWriter, request *http.Request) {
	var input signUpRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	result, err := handler.authService.SignUp(request.Context(), SignUpInput{
		Name:          input.Name,
		Email:         input.Email,
		Password:      input.Password,
		ProfilePicURL: input.ProfilePicURL,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, result)
}

func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	var input loginRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	result, err := handler.authService.Login(request.Context(), LoginInput{
		Email:    input.Email,
		Password: input.Password,
	})
	if err != nil {
		logRejection(request.Context(), "login_rejected", err)
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, result)
}

func (handler *Handler) refresh(writer http.ResponseWriter, request *http.Request) {
	var input refreshRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	tokens, err := handler.authService.Refresh(
		request.Context(),
		request.Header.Get(constants.HeaderAuthorization),
		input.RefreshToken,
	)
	if err != nil {
		logRejection(request.Context(), "refresh_rejected", err)
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, tokens)
}

func (handler *Handler) listRoles(writer http.ResponseWriter, request *http.Request) {
	roles, err := handler.authService.ListRoles(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, roles)
}

func (handler *Handler) logout(writer http.ResponseWriter, request *http.Request) {
	identity, err := RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.authService.Logout(request.Context(), identity); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Message(writer, "Logout success")
}

func (handler *Handler) changePassword(writer http.ResponseWriter, request *http.Request) {
	identity, err := RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input changePasswordRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	err = handler.authService.ChangePassword(request.Context(), identity, ChangePasswordInput{
		OldPassword: input.OldPassword,
		NewPassword: input.NewPassword,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Message(writer, "Password changed")
}
