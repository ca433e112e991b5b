package otp

import "errors"

var (
	ErrInvalidPhone    = errors.New("invalid phone number")
	ErrAlreadyUsed     = errors.New("otp already used")
	ErrNotFound        = errors.New("otp not found")
	ErrExpired         = errors.New("otp expired")
	ErrIncorrect       = errors.New("otp incorrect")
	ErrTooManyAttempts = errors.New("too many otp attempts")
	ErrSendFailed      = errors.New("sms delivery failed")
	ErrNotVerified     = errors.New("phone number not verified")
)
