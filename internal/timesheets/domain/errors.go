package domain

import "errors"

var (
	ErrNotBookable   = errors.New("assignment is not bookable on this date")
	ErrWrongAssignee = errors.New("assignment belongs to another user")
	ErrInvalidInput  = errors.New("invalid timesheet entry")
)
