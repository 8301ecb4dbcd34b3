// Package common holds sentinel errors shared by client and server.
package common

import "errors"

var (

	// repository specific errors
	ErrorNotFound = errors.New("not found")

	// service specific errors
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrorValidation   = errors.New("validation error")

	// auth-specific errors
	ErrInvalidToken         = errors.New("invalid token")
	ErrRefreshTokenExpired  = errors.New("refresh token expired")
	ErrLoginAlreadyExists   = errors.New("login already exists")
	ErrInvalidLoginPassword = errors.New("invalid login/password")

	// record-specific errors
	ErrAmountNotPositive = errors.New("amount must be positive")
	ErrNegativeSecondary = errors.New("secondary amount must not be negative")
	ErrUnknownRecordKind = errors.New("unknown record kind")
)
