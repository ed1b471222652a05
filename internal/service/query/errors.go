package query

import (
	"errors"
)

var (
	ErrTableNotFound = errors.New("table not found")
	ErrInvalidPage   = errors.New("invalid page")
)
