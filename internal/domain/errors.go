package domain

import "errors"

var (
	ErrNotFound       = errors.New("not found")
	ErrInvalidKind    = errors.New("kind must be income or expense")
	ErrInvalidAmount  = errors.New("amount must be greater than zero")
	ErrInvalidMonth   = errors.New("invalid month value")
	ErrInvalidDate    = errors.New("invalid date value")
	ErrEmailTaken     = errors.New("user already exists")
	ErrInvalidRequest = errors.New("invalid request")
)
