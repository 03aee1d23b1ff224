package store

import "errors"

var (
	ErrConflict            = errors.New("conflict")
	ErrNotFound            = errors.New("not found")
	ErrReferenced          = errors.New("still referenced")
	ErrIdempotencyConflict = errors.New("idempotency key conflict")
)
