package domain

import "errors"

// Error kinds surfaced to the transport layer. Callers wrap them with
// fmt.Errorf("...: %w", ...) to add detail and match with errors.Is.
var ErrBadInput = errors.New("bad input")
var ErrUserNotFound = errors.New("user not found")
var ErrInvalidCredentials = errors.New("invalid email or password")
var ErrEmailTaken = errors.New("email already registered")
