package domain

import "errors"

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrNotFound           = errors.New("user not found")
	ErrCodeSpaceExhausted = errors.New("referral code space exhausted")
)
