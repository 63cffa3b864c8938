package auth

import "errors"

var (
	ErrEmailPasswordRequired = errors.New("Email and password are required")
	ErrInvalidEmail          = errors.New("Invalid email or password")
	ErrIncorrectPassword     = errors.New("Invalid email or password")
	ErrNotAuthenticated      = errors.New("Not authenticated")
	ErrNotInstitutional      = errors.New("Only students with an institutional email can access this site")
	ErrEmailTaken            = errors.New("Email already registered")
)
