package model

import "errors"

var (
	// ErrNotFound is returned when a task is not found.
	ErrNotFound = errors.New("not found")
	// ErrNotValid is returned when an operation or value is not valid.
	ErrNotValid = errors.New("not valid")
)
