package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comitanigiacomo/onedo/internal/core/domain"
)

func TestHashPassphrase(t *testing.T) {
	t.Parallel()

	t.Run("Success: Produces a bcrypt hash", func(t *testing.T) {
		hash, err := HashPassphrase("correct horse battery")

		require.NoError(t, err)
		assert.NotEqual(t, "correct horse battery", hash)
		assert.Contains(t, hash, "$2a$12$")
	})

	t.Run("Fail: Short passphrase", func(t *testing.T) {
		_, err := HashPassphrase("short")
		assert.ErrorIs(t, err, domain.ErrPassphraseTooShort)
	})
}

func TestAuthService_Login(t *testing.T) {
	t.Parallel()

	tokens := NewTokenService("secret", "onedo-test", time.Hour)
	hash, err := HashPassphrase("correct horse battery")
	require.NoError(t, err)

	t.Run("Success: Valid passphrase returns an owner token", func(t *testing.T) {
		service := NewAuthService(hash, tokens)

		token, err := service.Login(context.Background(), "correct horse battery")

		require.NoError(t, err)
		subject, err := tokens.ValidateToken(token)
		require.NoError(t, err)
		assert.Equal(t, domain.OwnerSubject, subject)
	})

	t.Run("Fail: Wrong passphrase", func(t *testing.T) {
		service := NewAuthService(hash, tokens)

		token, err := service.Login(context.Background(), "wrong passphrase")

		assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
		assert.Empty(t, token)
	})

	t.Run("Fail: Disabled without a hash", func(t *testing.T) {
		service := NewAuthService("", tokens)

		assert.False(t, service.Enabled())
		_, err := service.Login(context.Background(), "correct horse battery")
		assert.ErrorIs(t, err, domain.ErrAuthDisabled)
	})

	t.Run("Fail: Disabled without a token secret", func(t *testing.T) {
		service := NewAuthService(hash, NewTokenService("", "onedo-test", time.Hour))

		assert.False(t, service.Enabled())
	})
}
