package domain

import "errors"

var (
	// ErrContentNotFound indicates the question content could not be loaded.
	ErrContentNotFound = errors.New("content set not found")
	// ErrNotFound is the generic missing-row error for admin CRUD.
	ErrNotFound = errors.New("record not found")
)
