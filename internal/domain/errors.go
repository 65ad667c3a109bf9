package domain

import "errors"

// Business errors
var (
	ErrEmployeeNotFound = errors.New("employee not found")
	ErrAreaNotFound     = errors.New("area not found")
	ErrActivityNotFound = errors.New("activity not found")
	ErrUserNotFound     = errors.New("user not found")
	ErrInactiveUser     = errors.New("user is inactive")
	ErrForbidden        = errors.New("employee is outside of the caller's scope")
	ErrReadOnly         = errors.New("caller is not allowed to change distributions")
	ErrAdminOnly        = errors.New("operation requires admin permission")
	ErrEmptyEmployeeID  = errors.New("employee id is required")
	ErrNoValidRows      = errors.New("no complete rows to save: fill in hours, occurrences and frequency")
)
