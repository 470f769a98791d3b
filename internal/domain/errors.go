package domain

import "errors"

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrUserInactive    = errors.New("user is not active")
	ErrEmailTaken      = errors.New("email already registered")
	ErrInvalidEmail    = errors.New("invalid email")
	ErrInvalidPassword = errors.New("invalid credentials")

	ErrRoomNotFound = errors.New("room not found")

	ErrCompanyNotFound  = errors.New("company not found")
	ErrCompanyNameTaken = errors.New("company with this name already exists")

	ErrSubscriptionNotFound = errors.New("subscription not found")
	ErrAlreadySubscribed    = errors.New("user already has an active subscription")
	ErrPaymentPending       = errors.New("payment not completed")
)
