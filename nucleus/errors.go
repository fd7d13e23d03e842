package nucleus

import "errors"

// Resource exhaustion is always surfaced to the caller, never panics.
var (
	ErrProcessTableFull = errors.New("nucleus: process table full")
	ErrASLExhausted     = errors.New("nucleus: active semaphore list exhausted")
	ErrNoSuchProcess    = errors.New("nucleus: no such process")
	ErrNotBlocked       = errors.New("nucleus: process is not blocked")
)
