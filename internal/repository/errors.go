package repository

import "errors"

// ErrNotFound is returned when an ID does not resolve to a stored record.
var ErrNotFound = errors.New("record not found")
