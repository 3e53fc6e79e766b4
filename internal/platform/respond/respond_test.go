// Copyright (c) 2026 Priotama. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package respond_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/priotama/internal/platform/apperr"
	"github.com/taibuivan/priotama/internal/platform/respond"
)

/*
TestError verifies status codes and envelopes for each error kind.
*/
func TestError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{name: "conflict with details", err: apperr.Conflict("User already exists", apperr.FieldError{Field: "email", Message: "Already in use"}), wantStatus: http.StatusConflict, wantCode: apperr.CodeConflict},
		{name: "wrapped expired", err: fmt.Errorf("verify_failed: %w", apperr.Expired("Registration")), wantStatus: http.StatusGone, wantCode: apperr.CodeExpired},
		{name: "rejected", err: apperr.Rejected("Invalid OTP"), wantStatus: http.StatusBadRequest, wantCode: apperr.CodeRejected},
		{name: "plain error is hidden", err: errors.New("pq: password authentication failed"), wantStatus: http.StatusInternalServerError, wantCode: apperr.CodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := httptest.NewRecorder()
			respond.Error(recorder, httptest.NewRequest(http.MethodGet, "/", nil), tt.err)

			assert.Equal(t, tt.wantStatus, recorder.Code)

			var body respond.ErrorEnvelope
			require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
			assert.Equal(t, tt.wantCode, body.Code)
			assert.NotContains(t, body.Error, "password authentication")
		})
	}
}
