package file

import "errors"

var (
	ErrNotAFile        = errors.New("file: part carries no filename")
	ErrInvalidPath     = errors.New("file: invalid path")
	ErrFileNotFound    = errors.New("file: not found")
	ErrFileTooLarge    = errors.New("file: exceeds size limit")
	ErrTypeNotAllowed  = errors.New("file: content type not allowed")
	ErrInvalidConfig   = errors.New("file: invalid storage config")
	ErrUnknownDriver   = errors.New("file: unknown storage driver")
	ErrWrite           = errors.New("file: write failed")
	ErrDelete          = errors.New("file: delete failed")
	ErrCreateDirectory = errors.New("file: failed to create directory")
)
