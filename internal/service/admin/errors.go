package admin

import (
	"errors"
)

var (
	ErrTableConflict = errors.New("table number already used in this restaurant")
	ErrTableNotFound = errors.New("table not found")
	ErrTableOccupied = errors.New("table is occupied")
)
