package service

import "errors"

var (
	ErrDuplicateIdentity  = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrNotFound covers both a missing entity and one owned by someone else.
	ErrNotFound = errors.New("not found")
	// ErrUpdateFailed means the ownership check passed but the write hit no row.
	ErrUpdateFailed   = errors.New("failed to update")
	ErrInvalidDueDate = errors.New("due date cannot be in the past")
	ErrInvalidInput   = errors.New("invalid input")
)
