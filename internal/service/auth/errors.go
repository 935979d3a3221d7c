package auth

import "errors"

var (
	ErrUsernameTaken      = errors.New("Username is already taken")
	ErrEmailTaken         = errors.New("Email is already taken")
	ErrInvalidCredentials = errors.New("Invalid username/password. Please try again!")
	ErrPasswordTooShort   = errors.New("Password must be at least 8 characters long")
	ErrInvalidToken       = errors.New("invalid token")
	ErrUserNotFound       = errors.New("user not found")
)
