package models

import "errors"

var (
	ErrNotFound            = errors.New("not found")
	ErrAlreadyExists       = errors.New("already exists")
	ErrInvalidInput        = errors.New("invalid input")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrForbidden           = errors.New("forbidden")
	ErrConflict            = errors.New("conflict")
	ErrLocationUnavailable = errors.New("location unavailable")
	ErrCooldown            = errors.New("please wait before requesting a new code")
	ErrCodeExpired         = errors.New("verification code expired or not found")
	ErrTooManyAttempts     = errors.New("too many attempts")
)

// LocationUnavailableMessage текст для клиента, когда ни один источник не дал координат
const LocationUnavailableMessage = "Unable to detect your location. Please enter your address manually or enable location permissions."
