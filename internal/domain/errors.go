package domain

import "errors"

var (
	ErrEmptyTitle     = errors.New("title must not be empty")
	ErrDuplicateTitle = errors.New("title must be unique")
)
