// Copyright (c) 2026 Priotama. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package config_test

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/priotama/internal/platform/config"
)

func setBaseEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DATABASE_URL", "postgres://localhost/priotama")
	t.Setenv("JWT_PRIVATE_KEY_PATH", "keys/private.pem")
	t.Setenv("JWT_PUBLIC_KEY_PATH", "keys/public.pem")
	t.Setenv("S3_BUCKET", "assets")
	t.Setenv("S3_PUBLIC_URL", "https://cdn.priotama.app")
	unsetEnv(t, "REDIS_URL", "SESSION_BACKEND", "MAIL_PROVIDER", "SERVER_PORT", "ENVIRONMENT")
}

// unsetEnv removes keys for the duration of the test.
func unsetEnv(t *testing.T, keys ...string) {
	t.Helper()
	for _, key := range keys {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

/*
TestLoad_Defaults verifies onboarding lifetimes and providers default sensibly.
*/
func TestLoad_Defaults(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("SESSION_BACKEND", config.SessionBackendMemory)

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, config.MailProviderLog, cfg.Mail.Provider)
	assert.Equal(t, 10*time.Minute, cfg.Onboarding.RegistrationTTL)
	assert.Equal(t, 5*time.Minute, cfg.Onboarding.ResetTTL)
	assert.Equal(t, 15*time.Minute, cfg.Onboarding.ResetTokenTTL)
	assert.True(t, cfg.IsDevelopment())
}

/*
TestLoad_CrossFieldRules verifies provider and backend combinations are checked.
*/
func TestLoad_CrossFieldRules(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr bool
	}{
		{name: "redis backend without url", env: map[string]string{"SESSION_BACKEND": "redis"}, wantErr: true},
		{name: "redis backend with url", env: map[string]string{"SESSION_BACKEND": "redis", "REDIS_URL": "redis://localhost:6379/0"}},
		{name: "unknown backend", env: map[string]string{"SESSION_BACKEND": "etcd"}, wantErr: true},
		{name: "smtp without host", env: map[string]string{"SESSION_BACKEND": "memory", "MAIL_PROVIDER": "smtp"}, wantErr: true},
		{name: "resend without key", env: map[string]string{"SESSION_BACKEND": "memory", "MAIL_PROVIDER": "resend"}, wantErr: true},
		{name: "unknown provider", env: map[string]string{"SESSION_BACKEND": "memory", "MAIL_PROVIDER": "pigeon"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setBaseEnv(t)
			for key, value := range tt.env {
				t.Setenv(key, value)
			}

			_, err := config.Load()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

/*
TestLoad_MissingRequired verifies required keys are enforced.
*/
func TestLoad_MissingRequired(t *testing.T) {
	setBaseEnv(t)
	unsetEnv(t, "DATABASE_URL")

	_, err := config.Load()
	assert.Error(t, err)
}
