// Copyright (c) 2026 Priotama. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package admin

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/priotama/internal/platform/middleware"
	requestutil "github.com/taibuivan/priotama/internal/platform/request"
	"github.com/taibuivan/priotama/internal/platform/respond"
	"github.com/taibuivan/priotama/internal/platform/sec"
	"github.com/taibuivan/priotama/internal/platform/validate"
	"github.com/taibuivan/priotama/pkg/pagination"
)

// Handler implements the admin console HTTP endpoints.
type Handler struct {
	adminService *Service
}

// NewHandler constructs a new admin [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{adminService: service}
}

// Routes returns a [chi.Router] configured with the console endpoints.
//
// # Endpoints
//   - POST /login                  : Public.
//   - POST /change-password        : Admin only.
//   - GET  /users                  : Admin only.
//   - PUT  /users/{userId}/block   : Admin only.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/login", handler.login)

	router.Group(func(protected chi.Router) {
		protected.Use(middleware.RequireRole(sec.RoleAdmin))
		protected.Post("/change-password", handler.changePassword)
		protected.Get("/users", handler.listUsers)
		protected.Put("/users/{userId}/block", handler.toggleBlock)
	})

	return router
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

/*
POST /api/admin/login.

Response:
  - 200: LoginResult
  - 401: Invalid credentials
  - 403: Deactivated admin
*/
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	var input loginRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	validator := &validate.Validator{}
	validator.Required(fieldEmail, input.Email).Required(fieldPassword, input.Password)
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	result, err := handler.adminService.Login(request.Context(), input.Email, input.Password)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, result)
}

type changePasswordRequest struct {
	OldPassword        string `json:"oldPassword"`
	NewPassword        string `json:"newPassword"`
	ConfirmNewPassword string `json:"confirmNewPassword"`
}

/*
POST /api/admin/change-password.

Response:
  - 200: {message}
  - 400: Validation failure or wrong old password
*/
func (handler *Handler) changePassword(writer http.ResponseWriter, request *http.Request) {
	adminID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input changePasswordRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.adminService.ChangePassword(request.Context(), adminID, input.OldPassword, input.NewPassword, input.ConfirmNewPassword); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Message(writer, "Password changed successfully")
}

/*
GET /api/admin/users?page=&limit=.

Response:
  - 200: MemberPage
*/
func (handler *Handler) listUsers(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)

	page, err := handler.adminService.ListUsers(request.Context(), params.Page, params.Limit)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, page)
}

type toggleBlockResponse struct {
	Message string      `json:"message"`
	User    *BlockState `json:"user"`
}

/*
PUT /api/admin/users/{userId}/block.

Response:
  - 200: {message, user}
  - 400: Malformed id
  - 404: Unknown member
*/
func (handler *Handler) toggleBlock(writer http.ResponseWriter, request *http.Request) {
	state, err := handler.adminService.ToggleBlock(request.Context(), requestutil.Param(request, fieldUserID))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	verb := "unblocked"
	if state.IsBlocked {
		verb = "blocked"
	}

	respond.OK(writer, toggleBlockResponse{
		Message: fmt.Sprintf("User %s successfully", verb),
		User:    state,
	})
}
