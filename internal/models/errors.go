package models

import "errors"

var (
	// ErrNotFound is returned by stores when no record matches the lookup.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a unique column already holds the value.
	ErrDuplicate = errors.New("record already exists")
)
