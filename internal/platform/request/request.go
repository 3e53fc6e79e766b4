// Copyright (c) 2026 Priotama. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package requestutil provides utilities for extracting data from HTTP requests.

It abstracts away the underlying router's parameter extraction and common
body decoding patterns, ensuring consistent error handling and type safety.
*/
package requestutil

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/priotama/internal/platform/apperr"
	"github.com/taibuivan/priotama/internal/platform/ctxutil"
	"github.com/taibuivan/priotama/internal/platform/sec"
	"github.com/taibuivan/priotama/internal/platform/validate"
)

// File is an uploaded multipart file held in memory.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

/*
DecodeJSON reads the request body and decodes it into the target structure.

Parameters:
  - request: *http.Request
  - target: interface{} (Pointer to the destination struct)

Returns:
  - error: validate.ErrInvalidJSON if decoding fails, otherwise nil
*/
func DecodeJSON(request *http.Request, target interface{}) error {
	if err := json.NewDecoder(request.Body).Decode(target); err != nil {
		return validate.ErrInvalidJSON
	}
	return nil
}

/*
ParseMultipart parses a multipart/form-data body, bounding its total size.

Returns:
  - error: apperr.PayloadTooLarge when the body exceeds maxBytes,
    apperr.ValidationError when the body is not multipart
*/
func ParseMultipart(writer http.ResponseWriter, request *http.Request, maxBytes, maxMemory int64) error {
	request.Body = http.MaxBytesReader(writer, request.Body, maxBytes)

	if err := request.ParseMultipartForm(maxMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return apperr.PayloadTooLarge("Request body is too large")
		}
		return apperr.ValidationError("Invalid multipart form")
	}
	return nil
}

/*
FormFile reads a named file part fully into memory.

The request must have been parsed with [ParseMultipart]. A missing part
yields (nil, nil) so callers decide whether the file is required.
*/
func FormFile(request *http.Request, field string) (*File, error) {
	part, header, err := request.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, apperr.ValidationError("Invalid file upload", apperr.FieldError{Field: field, Message: "Unreadable file"})
	}
	defer part.Close()

	data, err := io.ReadAll(part)
	if err != nil {
		return nil, apperr.ValidationError("Invalid file upload", apperr.FieldError{Field: field, Message: "Unreadable file"})
	}

	return &File{
		Name:        header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}

/*
Param retrieves a named URL parameter from the request.
*/
func Param(request *http.Request, name string) string {
	return chi.URLParam(request, name)
}

/*
Claims extracts the authenticated user claims from the request context.

Returns nil if the request is not authenticated.
*/
func Claims(request *http.Request) *sec.AuthClaims {
	return ctxutil.GetAuthUser(request.Context())
}

/*
RequiredUserID returns the User ID of the currently logged-in caller.

Returns:
  - string: User UUID
  - error: apperr.Unauthorized if not authenticated
*/
func RequiredUserID(request *http.Request) (string, error) {
	return ctxutil.RequireUserID(request.Context())
}
