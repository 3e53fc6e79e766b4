// Copyright (c) 2026 Priotama. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package validate_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/priotama/internal/platform/apperr"
	"github.com/taibuivan/priotama/internal/platform/validate"
)

/*
TestValidator_Required tests the mandatory field validation logic.
*/
func TestValidator_Required(t *testing.T) {
	tests := []struct {
		name     string
		field    string
		value    string
		hasError bool
	}{
		{"valid_string", "name", "Priya", false},
		{"empty_string", "name", "", true},
		{"whitespace_only", "name", "   ", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &validate.Validator{}
			v.Required(tt.field, tt.value)

			if tt.hasError {
				assert.True(t, v.HasErrors())
				err := v.Err()
				require.NotNil(t, err)

				ae := apperr.As(err)
				require.NotNil(t, ae)
				assert.Equal(t, apperr.CodeValidation, ae.Code)
				assert.Equal(t, tt.field, ae.Details[0].Field)
			} else {
				assert.False(t, v.HasErrors())
				assert.Nil(t, v.Err())
			}
		})
	}
}

/*
TestValidator_Email checks the email format validation rule.
*/
func TestValidator_Email(t *testing.T) {
	tests := []struct {
		name    string
		email   string
		isValid bool
	}{
		{"valid_email", "test@example.com", true},
		{"invalid_format", "invalid-email", false},
		{"missing_domain", "test@", false},
		{"display_name", "Test <test@example.com>", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &validate.Validator{}
			v.Email("email", tt.email)
			assert.Equal(t, !tt.isValid, v.HasErrors())
		})
	}
}

/*
TestValidator_Phone checks that phone parsing rules are applied.
*/
func TestValidator_Phone(t *testing.T) {
	assert.False(t, (&validate.Validator{}).Phone("phone", "+1 5551234567").HasErrors())
	assert.False(t, (&validate.Validator{}).Phone("phone", "5551234567").HasErrors())
	assert.True(t, (&validate.Validator{}).Phone("phone", "555-CALL-NOW").HasErrors())
	assert.True(t, (&validate.Validator{}).Phone("phone", "").HasErrors())
}

/*
TestValidator_Password checks the password length bounds.
*/
func TestValidator_Password(t *testing.T) {
	assert.True(t, (&validate.Validator{}).Password("password", "short").HasErrors())
	assert.False(t, (&validate.Validator{}).Password("password", "long-enough").HasErrors())
	assert.True(t, (&validate.Validator{}).Password("password", strings.Repeat("x", 73)).HasErrors())
}

/*
TestValidator_Image checks size and format sniffing of uploaded pictures.
*/
func TestValidator_Image(t *testing.T) {
	png := append([]byte("\x89PNG\r\n\x1a\n"), make([]byte, 32)...)
	jpeg := append([]byte{0xFF, 0xD8, 0xFF, 0xE0}, make([]byte, 32)...)

	tests := []struct {
		name     string
		data     []byte
		declared string
		hasError bool
	}{
		{"png", png, "image/png", false},
		{"jpeg", jpeg, "image/jpeg", false},
		{"jpg alias", jpeg, "image/jpg", false},
		{"undeclared", png, "", false},
		{"mismatch", png, "image/jpeg", true},
		{"gif", []byte("GIF89a" + strings.Repeat("x", 32)), "image/gif", true},
		{"empty", nil, "image/png", true},
		{"too large", append(png, make([]byte, 600*1024)...), "image/png", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := (&validate.Validator{}).Image("profilePic", tt.data, tt.declared, 500*1024)
			assert.Equal(t, tt.hasError, v.HasErrors())
		})
	}
}

/*
TestValidator_Chain tests the fluent API (chaining multiple rules).
*/
func TestValidator_Chain(t *testing.T) {
	v := &validate.Validator{}

	err := v.
		Required("name", "Priya").
		MinLen("name", "Priya", 2).
		MaxLen("name", "Priya", 100).
		Email("email", "priya@priotama.app").
		Match("confirmPassword", "secret-pass", "secret-pass", "Passwords do not match").
		Err()

	assert.NoError(t, err)
	assert.False(t, v.HasErrors())
}

/*
TestValidator_Chain_Failure tests error accumulation in the chain.
*/
func TestValidator_Chain_Failure(t *testing.T) {
	v := &validate.Validator{}

	err := v.
		Required("name", "").                                             // Fails
		MinLen("name", "a", 2).                                           // Fails
		Email("email", "not-an-email").                                   // Fails
		Match("confirmPassword", "one", "two", "Passwords do not match"). // Fails
		Err()

	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)

	// Should accumulate all 4 errors
	assert.Len(t, ae.Details, 4)
}
