package domain

import "errors"

var ErrInvalidCriteria = errors.New("invalid report criteria")
