package apperrors

import "errors"

var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrInvalidView  = errors.New("invalid view configuration")
	ErrInvalidInput = errors.New("invalid input")
)
