package service

import "errors"

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrProductNotFound = errors.New("product not found")
	ErrOrderNotFound   = errors.New("order not found")
	ErrReviewNotFound  = errors.New("review not found")

	ErrValidation         = errors.New("validation error")
	ErrInvalidOrderStatus = errors.New("invalid order status")
	ErrInvalidResetToken  = errors.New("password reset token is invalid or has expired")
	ErrPasswordMismatch   = errors.New("password does not match")
	ErrWrongPassword      = errors.New("old password is incorrect")

	ErrEmailTaken              = errors.New("email already registered")
	ErrOrderAlreadyDelivered   = errors.New("you have already delivered this order")
	ErrInvalidStatusTransition = errors.New("order status can only move forward")

	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrTokenBlacklisted   = errors.New("token is blacklisted")
	ErrForbidden          = errors.New("access forbidden")

	ErrExternalService = errors.New("external service error")
)
