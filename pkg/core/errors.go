package core

import "errors"

var (
	// ErrInvalidPage is returned for a negative page.
	ErrInvalidPage = errors.New("invalid page")
	// ErrInvalidWhere is returned when the --where expression does not compile.
	ErrInvalidWhere = errors.New("invalid where expression")
)
