package repository

import "errors"

// ErrNotFound is returned when the requested row does not exist.
// Services translate it into their own error taxonomy.
var ErrNotFound = errors.New("not found")
