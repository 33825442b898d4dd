package domain

import "errors"

var (
	// Common domain errors
	ErrNotFound        = errors.New("entity not found")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrEmptyInput      = errors.New("empty input")
	ErrNoAIProvider    = errors.New("no AI provider configured")
)
