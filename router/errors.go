package router

import "errors"

var (
	ErrDuplicateRoute = errors.New("router: duplicate route")
	ErrInvalidRoute   = errors.New("router: invalid route")
	ErrBuilt          = errors.New("router: builder already built")
)
