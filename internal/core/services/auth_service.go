package services

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"

	"github.com/comitanigiacomo/onedo/internal/core/domain"
)

const passphraseCost = 12

// AuthService guards the local API with a single owner passphrase.
type AuthService struct {
	passphraseHash []byte
	tokens         *TokenService
}

func NewAuthService(passphraseHash string, tokens *TokenService) *AuthService {
	return &AuthService{
		passphraseHash: []byte(strings.TrimSpace(passphraseHash)),
		tokens:         tokens,
	}
}

func (s *AuthService) Enabled() bool {
	return len(s.passphraseHash) > 0 && s.tokens.Enabled()
}

// Login checks the passphrase and issues an owner token.
func (s *AuthService) Login(ctx context.Context, passphrase string) (string, error) {
	if !s.Enabled() {
		return "", domain.ErrAuthDisabled
	}

	if err := bcrypt.CompareHashAndPassword(s.passphraseHash, []byte(passphrase)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return "", domain.ErrInvalidCredentials
		}
		return "", err
	}

	return s.tokens.GenerateToken(domain.OwnerSubject)
}

// HashPassphrase produces the value expected in PASSPHRASE_HASH.
func HashPassphrase(passphrase string) (string, error) {
	if utf8.RuneCountInString(passphrase) < 8 {
		return "", domain.ErrPassphraseTooShort
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(passphrase), passphraseCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
