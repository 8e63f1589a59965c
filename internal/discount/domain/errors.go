package domain

import "errors"

var (
	ErrInvalidCode   = errors.New("invalid_discount_code")
	ErrCodeNotFound  = errors.New("discount_code_not_found")
	ErrDuplicateCode = errors.New("discount_code_already_exists")
)
