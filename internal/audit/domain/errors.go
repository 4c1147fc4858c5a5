package domain

import "errors"

var ErrInvalidRequest = errors.New("invalid audit request")
