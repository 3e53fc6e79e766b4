// Copyright (c) 2026 Priotama. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/priotama/internal/platform/constants"
	requestutil "github.com/taibuivan/priotama/internal/platform/request"
	"github.com/taibuivan/priotama/internal/platform/respond"
	"github.com/taibuivan/priotama/internal/platform/validate"
)

// # Definitions & Constructors

// Handler implements the onboarding and login HTTP endpoints.
type Handler struct {
	authService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{authService: service}
}

// Routes returns a [chi.Router] configured with the onboarding routes.
//
// # Endpoints
//   - POST /register        : Stages a registration and sends an OTP.
//   - POST /verify-otp      : Confirms the OTP and commits the member.
//   - POST /login           : Authenticates and returns a JWT.
//   - POST /forgot-password : Starts a password reset.
//   - POST /reset-password  : Completes a password reset.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/register", handler.register)
	router.Post("/verify-otp", handler.verifyOTP)
	router.Post("/login", handler.login)
	router.Post("/forgot-password", handler.forgotPassword)
	router.Post("/reset-password", handler.resetPassword)

	return router
}

// # Registration

/*
POST /api/auth/register.

Description: Accepts the registration form (multipart/form-data) including the
profile picture, stages it and emails a verification code.

Response:
  - 201: {message, tempUserId}
  - 400: Validation failure
  - 409: Email or phone already registered
  - 413: Body too large
  - 502: Code could not be delivered
*/
func (handler *Handler) register(writer http.ResponseWriter, request *http.Request) {
	maxBody := int64(constants.MaxProfilePictureBytes + constants.MaxMultipartMemory)
	if err := requestutil.ParseMultipart(writer, request, maxBody, constants.MaxMultipartMemory); err != nil {
		respond.Error(writer, request, err)
		return
	}

	file, err := requestutil.FormFile(request, FieldProfilePicture)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	input := RegisterInput{
		Name:            request.FormValue(FieldName),
		Email:           request.FormValue(FieldEmail),
		Phone:           request.FormValue(FieldPhone),
		Gender:          request.FormValue(FieldGender),
		Country:         request.FormValue(FieldCountry),
		State:           request.FormValue(FieldState),
		Profession:      request.FormValue(FieldProfession),
		Hobby:           request.FormValue(FieldHobby),
		InstaID:         request.FormValue(FieldInstaID),
		Password:        request.FormValue(FieldPassword),
		ConfirmPassword: request.FormValue(FieldConfirmPassword),
	}

	// Older clients post the handle as "instald"
	if input.InstaID == "" {
		input.InstaID = request.FormValue("instald")
	}

	if rawAge := strings.TrimSpace(request.FormValue(FieldAge)); rawAge != "" {
		age, err := strconv.Atoi(rawAge)
		if err != nil {
			respond.Error(writer, request, validate.FieldError(FieldAge, "Must be a whole number"))
			return
		}
		input.Age = age
	}

	if file != nil {
		input.Picture = &Picture{Data: file.Data, ContentType: file.ContentType}
	}

	sessionID, err := handler.authService.StageRegistration(request.Context(), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, stageResponse{
		Message:    "OTP sent to your email for verification",
		TempUserID: sessionID,
	})
}

type stageResponse struct {
	Message    string `json:"message"`
	TempUserID string `json:"tempUserId"`
}

type verifyRequest struct {
	TempUserID string `json:"tempUserId"`
	OTP        string `json:"otp"`
}

/*
POST /api/auth/verify-otp.

Response:
  - 201: Summary of the committed member
  - 400: Malformed or wrong code
  - 404: Unknown session
  - 409: Identity taken in the meantime
  - 410: Session expired
  - 503: Upstream failure; retry without a new code
*/
func (handler *Handler) verifyOTP(writer http.ResponseWriter, request *http.Request) {
	var input verifyRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.authService.VerifyRegistration(request.Context(), input.TempUserID, input.OTP)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, user)
}

// # Login

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

/*
POST /api/auth/login.

Response:
  - 200: LoginResult
  - 401: Invalid credentials
  - 403: Not verified or blocked
*/
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	var input loginRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldEmail, input.Email).Required(FieldPassword, input.Password)
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	result, err := handler.authService.Login(request.Context(), input.Email, input.Password)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, result)
}

// # Password Reset

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

type forgotPasswordResponse struct {
	Message    string `json:"message"`
	ResetToken string `json:"resetToken"`
}

/*
POST /api/auth/forgot-password.

Response:
  - 200: {message, resetToken}
  - 403: Not verified or blocked
  - 404: Unknown email
  - 502: Code could not be delivered
*/
func (handler *Handler) forgotPassword(writer http.ResponseWriter, request *http.Request) {
	var input forgotPasswordRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	token, err := handler.authService.StageReset(request.Context(), input.Email)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, forgotPasswordResponse{
		Message:    "OTP sent to your email for password reset",
		ResetToken: token,
	})
}

type resetPasswordRequest struct {
	ResetToken         string `json:"resetToken"`
	OTP                string `json:"otp"`
	NewPassword        string `json:"newPassword"`
	ConfirmNewPassword string `json:"confirmNewPassword"`
}

/*
POST /api/auth/reset-password.

Response:
  - 200: {message}
  - 400: Validation, wrong code or bad token
  - 404: Reset session gone
  - 410: Reset session expired
*/
func (handler *Handler) resetPassword(writer http.ResponseWriter, request *http.Request) {
	var input resetPasswordRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	validator := &validate.Validator{}
	validator.Match("confirmNewPassword", input.NewPassword, input.ConfirmNewPassword, msgPasswordMismatch)
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.authService.ConfirmReset(request.Context(), input.ResetToken, input.OTP, input.NewPassword); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Message(writer, "Password reset successfully")
}
