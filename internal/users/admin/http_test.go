// Copyright (c) 2026 Priotama. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package admin_test

import (
	"crypto/rand"
	"crypto/rsa"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/priotama/internal/platform/middleware"
	"github.com/taibuivan/priotama/internal/platform/sec"
	"github.com/taibuivan/priotama/internal/users/admin"
)

func newRouter(t *testing.T, repo *fakeRepository) (http.Handler, *sec.TokenService) {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	tokens := sec.NewTokenServiceFromKeys(key, &key.PublicKey, "priotama.test")

	service := admin.NewService(repo, tokens, slog.New(slog.NewTextHandler(io.Discard, nil)))

	router := chi.NewRouter()
	router.Use(middleware.Authenticate(tokens))
	router.Mount("/api/admin", admin.NewHandler(service).Routes())
	return router, tokens
}

/*
TestRoutes_RoleGuard verifies only admin tokens reach the console.
*/
func TestRoutes_RoleGuard(t *testing.T) {
	repo := newFakeRepository()
	router, tokens := newRouter(t, repo)

	memberToken, err := tokens.GenerateAccessToken("m1", "m@example.com", sec.RoleMember, time.Hour)
	require.NoError(t, err)
	adminToken, err := tokens.GenerateAccessToken("a1", "admin@priotama.com", sec.RoleAdmin, time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name       string
		token      string
		wantStatus int
	}{
		{name: "anonymous", wantStatus: http.StatusUnauthorized},
		{name: "member", token: memberToken, wantStatus: http.StatusForbidden},
		{name: "admin", token: adminToken, wantStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request := httptest.NewRequest(http.MethodGet, "/api/admin/users", nil)
			if tt.token != "" {
				request.Header.Set("Authorization", "Bearer "+tt.token)
			}

			recorder := httptest.NewRecorder()
			router.ServeHTTP(recorder, request)
			assert.Equal(t, tt.wantStatus, recorder.Code)
		})
	}
}

/*
TestRoutes_LoginAndBlock drives the console end to end over HTTP.
*/
func TestRoutes_LoginAndBlock(t *testing.T) {
	repo := newFakeRepository()
	seedAdmin(t, repo, true)
	repo.members = append(repo.members, admin.MemberRow{ID: memberID, Name: "Asha", Email: "asha@example.com"})
	router, _ := newRouter(t, repo)

	login := httptest.NewRequest(http.MethodPost, "/api/admin/login",
		strings.NewReader(`{"email":"admin@priotama.com","password":"operator-pass"}`))
	login.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, login)
	require.Equal(t, http.StatusOK, recorder.Code)

	var loginBody struct {
		Data admin.LoginResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &loginBody))
	require.NotEmpty(t, loginBody.Data.Token)

	block := httptest.NewRequest(http.MethodPut, "/api/admin/users/"+memberID+"/block", nil)
	block.Header.Set("Authorization", "Bearer "+loginBody.Data.Token)
	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, block)
	require.Equal(t, http.StatusOK, recorder.Code)

	var blockBody struct {
		Data struct {
			Message string           `json:"message"`
			User    admin.BlockState `json:"user"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &blockBody))
	assert.Equal(t, "User blocked successfully", blockBody.Data.Message)
	assert.True(t, blockBody.Data.User.IsBlocked)
}
