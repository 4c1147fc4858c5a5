package domain

import "errors"

var (
	ErrNotFound     = errors.New("project not found")
	ErrNotDeletable = errors.New("project has booked hours and cannot be deleted")
	ErrInvalidInput = errors.New("invalid project")
	ErrDuplicate    = errors.New("duplicate project code")
)
