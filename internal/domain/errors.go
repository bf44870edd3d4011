package domain

import (
	"errors"
	"fmt"
)

var (
	ErrAccountNotFound = errors.New("account not found")
	ErrAccountExists   = errors.New("account already exists")
	ErrPublicCodeTaken = errors.New("public code already taken")

	ErrUnauthorized    = errors.New("not authorized")
	ErrValidation      = errors.New("validation failed")
	ErrExternalService = errors.New("external service failure")
	ErrPersistence     = errors.New("persistence failure")

	ErrInvalidTransition = errors.New("invalid session transition")

	ErrSecretNotFound = errors.New("secret not found")
)

var (
	ErrInvalidCity   = fmt.Errorf("%w: invalid city", ErrValidation)
	ErrUnknownCity   = fmt.Errorf("%w: unknown city", ErrValidation)
	ErrInvalidAmount = fmt.Errorf("%w: invalid amount", ErrValidation)
	ErrUsage         = fmt.Errorf("%w: wrong command usage", ErrValidation)
	ErrCityRequired  = fmt.Errorf("%w: city not selected", ErrValidation)

	ErrChatInProgress = fmt.Errorf("%w: chat in progress", ErrInvalidTransition)
)
