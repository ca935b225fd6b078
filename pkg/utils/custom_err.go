package utils

import "errors"

var (
	ErrValidation       = errors.New("validation failed")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrForbidden        = errors.New("forbidden")
	ErrNotFound         = errors.New("resource not found")
	ErrEmailTaken       = errors.New("email already registered")
	ErrDuplicateEntry   = errors.New("duplicate entry")
	ErrInvalidState     = errors.New("transition not allowed from current status")
	ErrInvalidSignature = errors.New("invalid payment signature")
	ErrDatabaseError    = errors.New("database error")
)
