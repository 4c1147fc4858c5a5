package domain

import "errors"

var (
	ErrNotFound     = errors.New("assignment not found")
	ErrNotDeletable = errors.New("assignment has booked hours and cannot be deleted")
	ErrInvalidInput = errors.New("invalid assignment")
	ErrUnknownType  = errors.New("unknown assignment type")
)
