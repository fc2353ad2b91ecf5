package services

import "errors"

var (
	ErrShareNotFound    = errors.New("share not found")
	ErrShortCodeTaken   = errors.New("custom code already exists")
	ErrInvalidShortCode = errors.New("custom code may only contain letters, digits, '-' and '_'")
	ErrNoEntries        = errors.New("at least one entry is required")
	ErrTooManyEntries   = errors.New("too many entries")
)
