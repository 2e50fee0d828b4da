package errors

import (
	"errors"
)

var (
	ErrUserAlreadyExists    = errors.New("user already exists")
	ErrUserNotFound         = errors.New("user not found")
	ErrInvalidPassword      = errors.New("invalid password")
	ErrRefreshTokenRequired = errors.New("refresh token required")
	ErrInvalidRefreshToken  = errors.New("invalid refresh token")
	ErrAccessTokenRequired  = errors.New("access token required")
	ErrInvalidAccessToken   = errors.New("invalid access token")
)
