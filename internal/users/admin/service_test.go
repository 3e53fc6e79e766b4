// Copyright (c) 2026 Priotama. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package admin_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/priotama/internal/platform/apperr"
	"github.com/taibuivan/priotama/internal/platform/sec"
	"github.com/taibuivan/priotama/internal/users/admin"
)

// # Fakes

type fakeRepository struct {
	admins  map[string]*admin.Admin
	members []admin.MemberRow
	err     error
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{admins: make(map[string]*admin.Admin)}
}

func (repo *fakeRepository) Create(_ context.Context, candidate *admin.Admin) error {
	for _, existing := range repo.admins {
		if existing.Email == candidate.Email {
			return apperr.Conflict("Admin already exists")
		}
	}
	stored := *candidate
	repo.admins[candidate.ID] = &stored
	return nil
}

func (repo *fakeRepository) FindByEmail(_ context.Context, email string) (*admin.Admin, error) {
	if repo.err != nil {
		return nil, repo.err
	}
	for _, existing := range repo.admins {
		if existing.Email == email {
			copied := *existing
			return &copied, nil
		}
	}
	return nil, apperr.NotFound("Admin")
}

func (repo *fakeRepository) FindByID(_ context.Context, id string) (*admin.Admin, error) {
	existing, ok := repo.admins[id]
	if !ok {
		return nil, apperr.NotFound("Admin")
	}
	copied := *existing
	return &copied, nil
}

func (repo *fakeRepository) UpdatePassword(_ context.Context, id, passwordHash string) error {
	repo.admins[id].PasswordHash = passwordHash
	return nil
}

func (repo *fakeRepository) ListMembers(_ context.Context, limit, offset int) ([]admin.MemberRow, error) {
	sorted := append([]admin.MemberRow(nil), repo.members...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].CreatedAt.After(sorted[j].CreatedAt) })
	if offset >= len(sorted) {
		return []admin.MemberRow{}, nil
	}
	return sorted[offset:min(offset+limit, len(sorted))], nil
}

func (repo *fakeRepository) CountMembers(_ context.Context) (admin.MemberCounts, error) {
	counts := admin.MemberCounts{Total: len(repo.members)}
	for _, member := range repo.members {
		if member.IsBlocked {
			counts.Blocked++
		}
	}
	return counts, nil
}

func (repo *fakeRepository) ToggleBlock(_ context.Context, userID string) (*admin.BlockState, error) {
	for i := range repo.members {
		if repo.members[i].ID == userID {
			repo.members[i].IsBlocked = !repo.members[i].IsBlocked
			member := repo.members[i]
			return &admin.BlockState{ID: member.ID, Name: member.Name, Email: member.Email, IsBlocked: member.IsBlocked}, nil
		}
	}
	return nil, apperr.NotFound("User")
}

type fakeIssuer struct {
	role sec.UserRole
}

func (issuer *fakeIssuer) GenerateAccessToken(userID, _ string, role sec.UserRole, _ time.Duration) (string, error) {
	issuer.role = role
	return "token-" + userID, nil
}

// # Helpers

const memberID = "7f1c1a2e-3b4d-4c5e-8f90-a1b2c3d4e5f6"

func newService(repo *fakeRepository) (*admin.Service, *fakeIssuer) {
	issuer := &fakeIssuer{}
	return admin.NewService(repo, issuer, slog.New(slog.NewTextHandler(io.Discard, nil))), issuer
}

func seedAdmin(t *testing.T, repo *fakeRepository, active bool) *admin.Admin {
	t.Helper()
	hash, err := sec.HashPassword("operator-pass")
	require.NoError(t, err)
	operator := &admin.Admin{ID: "a1", Email: "admin@priotama.com", Name: "Admin", PasswordHash: hash, IsActive: active}
	repo.admins[operator.ID] = operator
	return operator
}

// # Tests

/*
TestLogin covers credential and activation checks.
*/
func TestLogin(t *testing.T) {
	tests := []struct {
		name     string
		active   bool
		email    string
		password string
		wantCode string
	}{
		{name: "success with messy email", active: true, email: "  ADMIN@priotama.com ", password: "operator-pass"},
		{name: "unknown email", active: true, email: "who@priotama.com", password: "operator-pass", wantCode: apperr.CodeUnauthorized},
		{name: "wrong password", active: true, email: "admin@priotama.com", password: "nope-nope", wantCode: apperr.CodeUnauthorized},
		{name: "deactivated", active: false, email: "admin@priotama.com", password: "operator-pass", wantCode: apperr.CodeForbidden},
		{name: "deactivated with wrong password", active: false, email: "admin@priotama.com", password: "nope-nope", wantCode: apperr.CodeUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newFakeRepository()
			seedAdmin(t, repo, tt.active)
			service, issuer := newService(repo)

			result, err := service.Login(context.Background(), tt.email, tt.password)
			if tt.wantCode != "" {
				assert.True(t, apperr.HasCode(err, tt.wantCode), "got %v", err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, "token-a1", result.Token)
			assert.Equal(t, sec.RoleAdmin, issuer.role)
			assert.Equal(t, "a1", result.Admin.ID)
		})
	}
}

/*
TestLogin_StoreFailure verifies storage errors are not reported as bad credentials.
*/
func TestLogin_StoreFailure(t *testing.T) {
	repo := newFakeRepository()
	repo.err = apperr.Internal(errors.New("connection reset"))
	service, _ := newService(repo)

	_, err := service.Login(context.Background(), "admin@priotama.com", "operator-pass")
	assert.True(t, apperr.HasCode(err, apperr.CodeInternal))
}

/*
TestChangePassword covers confirmation, old password and reuse checks.
*/
func TestChangePassword(t *testing.T) {
	tests := []struct {
		name     string
		old      string
		next     string
		confirm  string
		wantCode string
	}{
		{name: "success", old: "operator-pass", next: "fresh-secret", confirm: "fresh-secret"},
		{name: "confirmation mismatch", old: "operator-pass", next: "fresh-secret", confirm: "fresh-secrex", wantCode: apperr.CodeValidation},
		{name: "too short", old: "operator-pass", next: "abc", confirm: "abc", wantCode: apperr.CodeValidation},
		{name: "missing old", old: "", next: "fresh-secret", confirm: "fresh-secret", wantCode: apperr.CodeValidation},
		{name: "wrong old", old: "guessing-pass", next: "fresh-secret", confirm: "fresh-secret", wantCode: apperr.CodeRejected},
		{name: "same as old", old: "operator-pass", next: "operator-pass", confirm: "operator-pass", wantCode: apperr.CodeValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newFakeRepository()
			seedAdmin(t, repo, true)
			service, _ := newService(repo)

			err := service.ChangePassword(context.Background(), "a1", tt.old, tt.next, tt.confirm)
			if tt.wantCode != "" {
				assert.True(t, apperr.HasCode(err, tt.wantCode), "got %v", err)
				assert.True(t, sec.CheckPasswordHash("operator-pass", repo.admins["a1"].PasswordHash))
				return
			}

			require.NoError(t, err)
			assert.True(t, sec.CheckPasswordHash(tt.next, repo.admins["a1"].PasswordHash))
		})
	}
}

/*
TestListUsers verifies ordering, counts and paging.
*/
func TestListUsers(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	repo := newFakeRepository()
	for i, id := range []string{"m1", "m2", "m3"} {
		repo.members = append(repo.members, admin.MemberRow{
			ID:        id,
			IsBlocked: id == "m2",
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		})
	}
	service, _ := newService(repo)

	page, err := service.ListUsers(context.Background(), 1, 2)
	require.NoError(t, err)

	require.Len(t, page.Users, 2)
	assert.Equal(t, "m3", page.Users[0].ID)
	assert.Equal(t, "m2", page.Users[1].ID)
	assert.Equal(t, admin.MemberCounts{Total: 3, Blocked: 1}, page.Counts)
	assert.True(t, page.Meta.HasNext)

	page, err = service.ListUsers(context.Background(), 2, 2)
	require.NoError(t, err)
	require.Len(t, page.Users, 1)
	assert.Equal(t, "m1", page.Users[0].ID)
	assert.False(t, page.Meta.HasNext)
}

/*
TestToggleBlock verifies the flag flips both ways and bad ids are refused.
*/
func TestToggleBlock(t *testing.T) {
	repo := newFakeRepository()
	repo.members = []admin.MemberRow{{ID: memberID, Name: "Asha", Email: "asha@example.com"}}
	service, _ := newService(repo)

	state, err := service.ToggleBlock(context.Background(), memberID)
	require.NoError(t, err)
	assert.True(t, state.IsBlocked)

	state, err = service.ToggleBlock(context.Background(), memberID)
	require.NoError(t, err)
	assert.False(t, state.IsBlocked)

	_, err = service.ToggleBlock(context.Background(), "not-a-uuid")
	assert.True(t, apperr.HasCode(err, apperr.CodeValidation))

	_, err = service.ToggleBlock(context.Background(), "00000000-0000-4000-8000-000000000000")
	assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))
}

/*
TestEnsureAdmin verifies seeding is idempotent.
*/
func TestEnsureAdmin(t *testing.T) {
	repo := newFakeRepository()
	service, _ := newService(repo)

	created, err := service.EnsureAdmin(context.Background(), "Admin@Priotama.com", " Console ", "operator-pass")
	require.NoError(t, err)
	assert.True(t, created)

	created, err = service.EnsureAdmin(context.Background(), "admin@priotama.com", "Console", "other-pass1")
	require.NoError(t, err)
	assert.False(t, created)

	require.Len(t, repo.admins, 1)
	for _, seeded := range repo.admins {
		assert.Equal(t, "admin@priotama.com", seeded.Email)
		assert.Equal(t, "Console", seeded.Name)
		assert.True(t, seeded.IsActive)
		assert.True(t, sec.CheckPasswordHash("operator-pass", seeded.PasswordHash))
	}

	_, err = service.EnsureAdmin(context.Background(), "admin@priotama.com", "Console", "short")
	assert.True(t, apperr.HasCode(err, apperr.CodeValidation))
}
