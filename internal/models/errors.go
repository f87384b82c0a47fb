package models

import "errors"

// Custom errors
var (
	ErrNilRaces     = errors.New("races list is nil")
	ErrNilEntries   = errors.New("entries map is nil")
	ErrNotFound     = errors.New("record not found")
	ErrUnknownModel = errors.New("unknown model name")
	ErrNoModels     = errors.New("no models configured")
)
