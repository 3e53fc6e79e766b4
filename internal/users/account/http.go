// Copyright (c) 2026 Priotama. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/priotama/internal/platform/apperr"
	"github.com/taibuivan/priotama/internal/platform/constants"
	"github.com/taibuivan/priotama/internal/platform/middleware"
	requestutil "github.com/taibuivan/priotama/internal/platform/request"
	"github.com/taibuivan/priotama/internal/platform/respond"
	"github.com/taibuivan/priotama/internal/users/auth"
	"github.com/taibuivan/priotama/pkg/pagination"
)

// Handler implements the HTTP layer for member self-service.
type Handler struct {
	accountService *Service
}

// NewHandler constructs a new account [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{accountService: service}
}

// Routes returns a [chi.Router] configured with the account endpoints.
// Every route requires an authenticated member.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.RequireAuth)

	// Profile
	router.Get("/profile", handler.getProfile)
	router.Put("/profile", handler.updateProfile)
	router.Put("/profile/picture", handler.replacePicture)

	// Security
	router.Put("/password", handler.updatePassword)

	// Matches
	router.Get("/discover", handler.discover)

	return router
}

// # Profile Endpoints

/*
GET /api/users/profile.

Response:
  - 200: auth.Summary
  - 401: Authentication required
*/
func (handler *Handler) getProfile(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.accountService.GetProfile(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

// updateProfileRequest defines the expected JSON payload for profile updates.
type updateProfileRequest struct {
	Name    *string `json:"name"`
	Phone   *string `json:"phone"`
	InstaID *string `json:"instaId"`
}

/*
PUT /api/users/profile.

Request:
  - body: updateProfileRequest (Partial JSON)

Response:
  - 200: auth.Summary
  - 400: Validation failure
  - 409: Phone belongs to another member
*/
func (handler *Handler) updateProfile(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input updateProfileRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.accountService.UpdateProfile(request.Context(), userID, UpdateProfileInput{
		Name:    input.Name,
		Phone:   input.Phone,
		InstaID: input.InstaID,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

/*
PUT /api/users/profile/picture.

Request:
  - multipart/form-data with a profilePic file

Response:
  - 200: auth.Summary
  - 400: Missing or invalid image
  - 413: Body too large
  - 503: Asset host failure
*/
func (handler *Handler) replacePicture(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	maxBody := int64(constants.MaxProfilePictureBytes + constants.MaxMultipartMemory)
	if err := requestutil.ParseMultipart(writer, request, maxBody, constants.MaxMultipartMemory); err != nil {
		respond.Error(writer, request, err)
		return
	}

	file, err := requestutil.FormFile(request, auth.FieldProfilePicture)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	if file == nil {
		respond.Error(writer, request, apperr.ValidationError("Validation failed", apperr.FieldError{
			Field:   auth.FieldProfilePicture,
			Message: "This field is required",
		}))
		return
	}

	user, err := handler.accountService.ReplaceProfilePicture(request.Context(), userID, auth.Picture{
		Data:        file.Data,
		ContentType: file.ContentType,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

// # Security Endpoints

type updatePasswordRequest struct {
	CurrentPassword    string `json:"currentPassword"`
	NewPassword        string `json:"newPassword"`
	ConfirmNewPassword string `json:"confirmNewPassword"`
}

/*
PUT /api/users/password.

Response:
  - 200: {message}
  - 400: Validation failure or wrong current password
*/
func (handler *Handler) updatePassword(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input updatePasswordRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.accountService.UpdatePassword(request.Context(), userID, input.CurrentPassword, input.NewPassword, input.ConfirmNewPassword); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Message(writer, "Password updated successfully")
}

// # Discovery Endpoints

/*
GET /api/users/discover?page=&limit=.

Response:
  - 200: []Card with pagination meta
*/
func (handler *Handler) discover(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	params := pagination.FromRequest(request)
	cards, meta, err := handler.accountService.Discover(request.Context(), userID, params.Page, params.Limit)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, cards, meta)
}
