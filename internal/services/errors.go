package services

import "errors"

var (
	ErrForbidden          = errors.New("no permission to access this order")
	ErrOrderNotPending    = errors.New("this order is not pending")
	ErrEmailTaken         = errors.New("the email has already been registered")
	ErrUsernameTaken      = errors.New("the username has already been registered")
	ErrInvalidCredentials = errors.New("incorrect username or password")
	ErrIncorrectPassword  = errors.New("current password is incorrect")
	ErrInactiveUser       = errors.New("user account is disabled")
	ErrWeakPassword       = errors.New("password must be at least 8 characters")
	ErrValidation         = errors.New("invalid input")
)

var (
	ErrFileTooLarge    = errors.New("file exceeds the maximum upload size")
	ErrInvalidFilename = errors.New("invalid filename")
)
