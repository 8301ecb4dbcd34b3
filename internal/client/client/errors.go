package client

import "errors"

var (
	ErrUnauthorized      = errors.New("unauthorized")
	ErrServerUnavailable = errors.New("server unavailable")
	ErrNotFound          = errors.New("not found")
	ErrBadRequest        = errors.New("bad request")
)
