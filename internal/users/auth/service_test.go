// Copyright (c) 2026 Priotama. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth_test

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"errors"
	"fmt"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/priotama/internal/platform/apperr"
	"github.com/taibuivan/priotama/internal/platform/sec"
	"github.com/taibuivan/priotama/internal/platform/storage"
	"github.com/taibuivan/priotama/internal/users/auth"
	"github.com/taibuivan/priotama/internal/users/otp"
	"github.com/taibuivan/priotama/internal/users/session"
)

// # Fakes

type fakeUserRepository struct {
	mu        sync.Mutex
	users     []*auth.User
	createErr error
	lookupErr error
	findErr   error
}

func (repo *fakeUserRepository) Create(_ context.Context, user *auth.User) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	if repo.createErr != nil {
		return repo.createErr
	}
	for _, existing := range repo.users {
		if existing.Email == user.Email {
			return apperr.Conflict("User already exists", apperr.FieldError{Field: auth.FieldEmail, Message: "Already in use"})
		}
		if existing.Phone == user.Phone {
			return apperr.Conflict("User already exists", apperr.FieldError{Field: auth.FieldPhone, Message: "Already in use"})
		}
	}

	stored := *user
	repo.users = append(repo.users, &stored)
	return nil
}

func (repo *fakeUserRepository) FindByID(_ context.Context, id string) (*auth.User, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	if repo.findErr != nil {
		return nil, repo.findErr
	}
	for _, user := range repo.users {
		if user.ID == id {
			copied := *user
			return &copied, nil
		}
	}
	return nil, apperr.NotFound("User")
}

func (repo *fakeUserRepository) FindByEmail(_ context.Context, email string) (*auth.User, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	if repo.lookupErr != nil {
		return nil, repo.lookupErr
	}
	for _, user := range repo.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, apperr.NotFound("User")
}

func (repo *fakeUserRepository) UpdatePassword(_ context.Context, id, passwordHash string) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	for _, user := range repo.users {
		if user.ID == id {
			user.PasswordHash = passwordHash
			return nil
		}
	}
	return apperr.NotFound("User")
}

func (repo *fakeUserRepository) IdentityTaken(_ context.Context, email string, phones []string, excludeUserID string) (bool, bool, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	if repo.lookupErr != nil {
		return false, false, repo.lookupErr
	}

	var emailTaken, phoneTaken bool
	for _, user := range repo.users {
		if user.ID == excludeUserID {
			continue
		}
		emailTaken = emailTaken || (email != "" && email == user.Email)
		phoneTaken = phoneTaken || slices.Contains(phones, user.Phone)
	}
	return emailTaken, phoneTaken, nil
}

func (repo *fakeUserRepository) count() int {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	return len(repo.users)
}

type fakeAssetHost struct {
	mu        sync.Mutex
	uploadErr error
	deleteErr error
	uploaded  []string
	deleted   []string
	next      int
}

func (host *fakeAssetHost) Upload(_ context.Context, data []byte, contentType string) (storage.Asset, error) {
	host.mu.Lock()
	defer host.mu.Unlock()

	if host.uploadErr != nil {
		return storage.Asset{}, host.uploadErr
	}
	host.next++
	key := fmt.Sprintf("profile-pics/%d.png", host.next)
	host.uploaded = append(host.uploaded, key)
	return storage.Asset{URL: "https://cdn.test/" + key, Key: key}, nil
}

func (host *fakeAssetHost) Delete(_ context.Context, key string) error {
	host.mu.Lock()
	defer host.mu.Unlock()

	if host.deleteErr != nil {
		return host.deleteErr
	}
	host.deleted = append(host.deleted, key)
	return nil
}

// live returns the keys uploaded and not deleted since.
func (host *fakeAssetHost) live() []string {
	host.mu.Lock()
	defer host.mu.Unlock()

	var keys []string
	for _, key := range host.uploaded {
		if !slices.Contains(host.deleted, key) {
			keys = append(keys, key)
		}
	}
	return keys
}

type fakeDeliverer struct {
	mu    sync.Mutex
	err   error
	codes map[string]string
	sent  int
}

func (deliverer *fakeDeliverer) Deliver(_ context.Context, destination, code string, _ otp.Purpose, _ time.Duration) error {
	deliverer.mu.Lock()
	defer deliverer.mu.Unlock()

	if deliverer.err != nil {
		return apperr.Delivery(deliverer.err)
	}
	if deliverer.codes == nil {
		deliverer.codes = make(map[string]string)
	}
	deliverer.codes[destination] = code
	deliverer.sent++
	return nil
}

func (deliverer *fakeDeliverer) lastCode(destination string) string {
	deliverer.mu.Lock()
	defer deliverer.mu.Unlock()
	return deliverer.codes[destination]
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (clock *fakeClock) Now() time.Time {
	clock.mu.Lock()
	defer clock.mu.Unlock()
	return clock.now
}

func (clock *fakeClock) Advance(d time.Duration) {
	clock.mu.Lock()
	defer clock.mu.Unlock()
	clock.now = clock.now.Add(d)
}

// # Fixture

var (
	keyOnce sync.Once
	rsaKey  *rsa.PrivateKey
)

func testTokens(t *testing.T) *sec.TokenService {
	t.Helper()
	keyOnce.Do(func() {
		key, err := rsa.GenerateKey(rand.Reader, 2048)
		if err != nil {
			panic(err)
		}
		rsaKey = key
	})
	return sec.NewTokenServiceFromKeys(rsaKey, &rsaKey.PublicKey, "priotama.test")
}

type fixture struct {
	service       *auth.Service
	users         *fakeUserRepository
	assets        *fakeAssetHost
	deliverer     *fakeDeliverer
	tokens        *sec.TokenService
	clock         *fakeClock
	registrations *session.MemoryStore[auth.PendingRegistration]
	regIndex      *session.MemoryStore[string]
	resets        *session.MemoryStore[auth.PendingPasswordReset]
	resetIndex    *session.MemoryStore[string]
}

func newFixture(t *testing.T) *fixture {
	return newFixtureWith(t, &fakeUserRepository{}, &fakeAssetHost{})
}

// newFixtureWith builds a service with its own session stores over shared
// durable collaborators, like a second API instance would have.
func newFixtureWith(t *testing.T, users *fakeUserRepository, assets *fakeAssetHost) *fixture {
	t.Helper()

	clock := &fakeClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	f := &fixture{
		users:         users,
		assets:        assets,
		deliverer:     &fakeDeliverer{},
		tokens:        testTokens(t),
		clock:         clock,
		registrations: session.NewMemoryStore[auth.PendingRegistration](session.WithClock(clock.Now)),
		regIndex:      session.NewMemoryStore[string](session.WithClock(clock.Now)),
		resets:        session.NewMemoryStore[auth.PendingPasswordReset](session.WithClock(clock.Now)),
		resetIndex:    session.NewMemoryStore[string](session.WithClock(clock.Now)),
	}

	f.service = auth.NewService(
		users,
		assets,
		f.deliverer,
		f.tokens,
		auth.Stores{
			Registrations:     f.registrations,
			RegistrationIndex: f.regIndex,
			Resets:            f.resets,
			ResetIndex:        f.resetIndex,
		},
		auth.DefaultSettings(),
		auth.WithClock(clock.Now),
	)
	return f
}

var pngBytes = append([]byte("\x89PNG\r\n\x1a\n"), make([]byte, 64)...)

func validInput(email, phoneNumber string) auth.RegisterInput {
	return auth.RegisterInput{
		Name:            "Asha Rao",
		Email:           email,
		Phone:           phoneNumber,
		Gender:          "Female",
		Age:             27,
		Country:         "India",
		State:           "Karnataka",
		Profession:      "Engineer",
		Hobby:           "Climbing",
		InstaID:         "@asha",
		Password:        "correct-horse",
		ConfirmPassword: "correct-horse",
		Picture:         &auth.Picture{Data: pngBytes, ContentType: "image/png"},
	}
}

// seedMember stores a committed member with the given password.
func (f *fixture) seedMember(t *testing.T, id, email, phoneNumber, password string, mutate func(*auth.User)) *auth.User {
	t.Helper()

	hash, err := sec.HashPassword(password)
	require.NoError(t, err)

	user := &auth.User{
		ID:           id,
		Name:         "Seeded",
		Email:        email,
		Phone:        phoneNumber,
		Gender:       auth.GenderMale,
		Age:          30,
		PasswordHash: hash,
		IsVerified:   true,
	}
	if mutate != nil {
		mutate(user)
	}
	f.users.users = append(f.users.users, user)
	return user
}

func wrongCode(code string) string {
	if code == "000000" {
		return "111111"
	}
	return "000000"
}

func requireCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	assert.True(t, apperr.HasCode(err, code), "want %s, got %v", code, err)
}

// # Login

/*
TestLogin covers credential checks and account state.
*/
func TestLogin(t *testing.T) {
	f := newFixture(t)
	f.seedMember(t, "u-ok", "ok@x.com", "+1 5550000001", "pass-word-1", nil)
	f.seedMember(t, "u-blocked", "blocked@x.com", "+1 5550000003", "pass-word-1", func(u *auth.User) { u.IsBlocked = true })
	f.seedMember(t, "u-new", "new@x.com", "+1 5550000004", "pass-word-1", func(u *auth.User) { u.IsVerified = false })

	tests := []struct {
		name     string
		email    string
		password string
		wantCode string
	}{
		{"success", "ok@x.com", "pass-word-1", ""},
		{"email normalized", "  OK@X.com ", "pass-word-1", ""},
		{"wrong password", "ok@x.com", "nope-nope", apperr.CodeUnauthorized},
		{"unknown email", "ghost@x.com", "pass-word-1", apperr.CodeUnauthorized},
		{"blocked", "blocked@x.com", "pass-word-1", apperr.CodeForbidden},
		{"not verified", "new@x.com", "pass-word-1", apperr.CodeForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := f.service.Login(context.Background(), tt.email, tt.password)
			if tt.wantCode != "" {
				requireCode(t, err, tt.wantCode)
				return
			}

			require.NoError(t, err)
			claims, err := f.tokens.VerifyToken(result.Token)
			require.NoError(t, err)
			assert.Equal(t, result.User.ID, claims.UserID)
			assert.Equal(t, sec.RoleMember, claims.Role)
		})
	}
}

/*
TestLogin_StoreFailure verifies that lookup failures are reported as an
unavailable dependency, not as bad credentials.
*/
func TestLogin_StoreFailure(t *testing.T) {
	f := newFixture(t)
	f.users.lookupErr = apperr.Internal(errors.New("connection refused"))

	_, err := f.service.Login(context.Background(), "ok@x.com", "pass-word-1")

	requireCode(t, err, apperr.CodeUpstream)
}
