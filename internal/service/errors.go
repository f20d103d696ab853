package service

import "errors"

var (
	ErrInvalidDataProvided = errors.New("invalid data provided")
	ErrWrongCredentials    = errors.New("incorrect school ID or password")
	ErrAccountArchived     = errors.New("account is archived")

	ErrCaptchaFailed = errors.New("captcha verification failed")

	ErrOTPNotRequested     = errors.New("no active code for this account")
	ErrOTPInvalid          = errors.New("incorrect code")
	ErrOTPAttemptsExceeded = errors.New("too many incorrect codes")
	ErrOTPCooldown         = errors.New("please wait before requesting another code")

	ErrPasswordSameAsCurrent = errors.New("new password must differ from the current one")

	ErrUnknownResourceKind = errors.New("unknown resource type")
	ErrMissingAttributes   = errors.New("required fields are missing")
	ErrUnknownRoleLabel    = errors.New("unknown role label")

	ErrTokenCreationFailed     = errors.New("token creation failed")
	ErrTokenIsExpiredOrInvalid = errors.New("token is expired or invalid")
)
