package domain

import "errors"

// OwnerSubject is the token subject for the single local user.
const OwnerSubject = "owner"

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrPassphraseTooShort = errors.New("passphrase must be at least 8 characters long")
	ErrAuthDisabled       = errors.New("authentication is not configured")
)
