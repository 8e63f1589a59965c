package domain

import "errors"

var (
	ErrInvalidName      = errors.New("invalid_name")
	ErrInvalidFee       = errors.New("invalid_fee")
	ErrInvalidAgeRange  = errors.New("invalid_age_range")
	ErrInvalidFrequency = errors.New("invalid_frequency")
	ErrInvalidID        = errors.New("invalid_id")
	ErrNotFound         = errors.New("not_found")
)

// FrequencyError carries the specific schedule-vs-cadence mismatch message.
type FrequencyError struct {
	Reason string
}

func (e *FrequencyError) Error() string { return e.Reason }

func (e *FrequencyError) Is(target error) bool { return target == ErrInvalidFrequency }
