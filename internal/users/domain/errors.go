package domain

import "errors"

var (
	ErrNotFound     = errors.New("user not found")
	ErrNotDeletable = errors.New("user has booked hours and cannot be deleted")
	ErrInvalidInput = errors.New("invalid user")
	ErrDuplicate    = errors.New("duplicate username or department code")
	ErrForbidden    = errors.New("not allowed to modify this user")
	ErrUnknownRole  = errors.New("unknown role")
)
