// Copyright (c) 2026 Priotama. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package validate provides a chainable Validator that collects field-level
// errors before returning a single [apperr.AppError].
//
// # Architecture
//
// This package is used in the service layer, never in storage. It ensures
// that business logic only operates on semantically valid data.
package validate

import (
	"fmt"
	"net/http"
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/taibuivan/priotama/internal/platform/apperr"
	"github.com/taibuivan/priotama/pkg/phone"
	"github.com/taibuivan/priotama/pkg/uuid"
)

// Password length bounds in bytes. bcrypt ignores everything past 72.
const (
	PasswordMinLen = 8
	PasswordMaxLen = 72
)

// ErrInvalidJSON is returned when the request body cannot be decoded.
var ErrInvalidJSON = apperr.ValidationError("Invalid JSON payload")

// Validator collects field-level validation errors via a fluent, chainable API.
//
// # Concurrency
//
// Validator is not safe for concurrent use. A new instance must be created
// for every request/operation.
type Validator struct {
	errs []apperr.FieldError
}

// Required fails if the trimmed value is empty.
func (v *Validator) Required(field, value string) *Validator {
	if strings.TrimSpace(value) == "" {
		v.add(field, "This field is required")
	}
	return v
}

// MaxLen fails if the Unicode character count exceeds max.
func (v *Validator) MaxLen(field, value string, max int) *Validator {
	if utf8.RuneCountInString(value) > max {
		v.add(field, fmt.Sprintf("Maximum %d characters", max))
	}
	return v
}

// MinLen fails if the Unicode character count is below min.
func (v *Validator) MinLen(field, value string, min int) *Validator {
	if utf8.RuneCountInString(value) < min {
		v.add(field, fmt.Sprintf("Minimum %d characters", min))
	}
	return v
}

// Range fails if the value is outside the [min, max] range (inclusive).
func (v *Validator) Range(field string, value, min, max int) *Validator {
	if value < min || value > max {
		v.add(field, fmt.Sprintf("Must be between %d and %d", min, max))
	}
	return v
}

// Email fails if the value is not a bare RFC 5322 address.
func (v *Validator) Email(field, value string) *Validator {
	address, err := mail.ParseAddress(value)
	if err != nil || address.Address != value {
		v.add(field, "Must be a valid email address")
	}
	return v
}

// Phone fails if the value cannot be read as a phone number.
func (v *Validator) Phone(field, value string) *Validator {
	if _, err := phone.Parse(value); err != nil {
		v.add(field, "Must be a valid phone number")
	}
	return v
}

// Password fails if the value is outside the accepted byte length.
func (v *Validator) Password(field, value string) *Validator {
	if len(value) < PasswordMinLen || len(value) > PasswordMaxLen {
		v.add(field, fmt.Sprintf("Must be between %d and %d characters", PasswordMinLen, PasswordMaxLen))
	}
	return v
}

// Match fails if confirmation differs from value.
func (v *Validator) Match(field, value, confirmation, message string) *Validator {
	if value != confirmation {
		v.add(field, message)
	}
	return v
}

// Image fails if data is empty, larger than maxBytes, or not a JPEG or PNG.
// The format is sniffed from the bytes; the declared content type must agree.
func (v *Validator) Image(field string, data []byte, declaredType string, maxBytes int) *Validator {
	switch {
	case len(data) == 0:
		v.add(field, "This field is required")
	case len(data) > maxBytes:
		v.add(field, fmt.Sprintf("Must be at most %d KB", maxBytes/1024))
	default:
		sniffed := http.DetectContentType(data)
		if (sniffed != "image/jpeg" && sniffed != "image/png") || !sameImageType(sniffed, declaredType) {
			v.add(field, "Must be a JPEG or PNG image")
		}
	}
	return v
}

func sameImageType(sniffed, declared string) bool {
	declared = strings.ToLower(strings.TrimSpace(declared))
	if declared == "image/jpg" {
		declared = "image/jpeg"
	}
	return declared == "" || declared == sniffed
}

// UUID fails if the value is not a valid UUID string.
func (v *Validator) UUID(field, value string) *Validator {
	if !uuid.Valid(value) {
		v.add(field, "Must be a valid UUID")
	}
	return v
}

// OneOf fails if the value is not in the allowed set of strings.
func (v *Validator) OneOf(field, value string, allowed ...string) *Validator {
	for _, a := range allowed {
		if value == a {
			return v
		}
	}
	v.add(field, fmt.Sprintf("Must be one of: %s", strings.Join(allowed, ", ")))
	return v
}

// Custom adds a failure with a custom message if the condition is true.
//
// # Example
//
//	v.Custom("age", age < 18, "Must be an adult")
func (v *Validator) Custom(field string, failed bool, message string) *Validator {
	if failed {
		v.add(field, message)
	}
	return v
}

// Err returns a [apperr.AppError] (VALIDATION_ERROR) if any rules failed,
// or nil if all rules passed.
//
// This is the only output method; call it at the end of the chain.
func (v *Validator) Err() error {
	if len(v.errs) == 0 {
		return nil
	}
	return apperr.ValidationError("Validation failed", v.errs...)
}

// HasErrors reports whether any validation rule has failed so far.
func (v *Validator) HasErrors() bool {
	return len(v.errs) > 0
}

// add appends a [apperr.FieldError] to the internal slice.
func (v *Validator) add(field, message string) {
	v.errs = append(v.errs, apperr.FieldError{Field: field, Message: message})
}

// FieldError is a shortcut to create a single-field validation error.
func FieldError(field, message string) *apperr.AppError {
	return apperr.ValidationError("Validation failed", apperr.FieldError{
		Field:   field,
		Message: message,
	})
}
