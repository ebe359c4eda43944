package domain

import "errors"

var (
	ErrNotFound        = errors.New("not found")
	ErrInvalidInput    = errors.New("invalid input")
	ErrDuplicateID     = errors.New("member id already exists")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrFeedUnavailable = errors.New("image feed unavailable")
	ErrModalClosed     = errors.New("modal is closed")
)
