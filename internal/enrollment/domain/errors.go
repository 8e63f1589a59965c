package domain

import "errors"

var (
	ErrInvalidEnrollmentID = errors.New("invalid_enrollment_id")
	ErrEnrollmentNotFound  = errors.New("enrollment_not_found")
	ErrStudentNotFound     = errors.New("student_not_found")
	ErrClassNotFound       = errors.New("class_not_found")
	ErrProgramNotFound     = errors.New("program_not_found")
	ErrAlreadyEnrolled     = errors.New("student_already_enrolled")
	ErrNotEligible         = errors.New("student_not_eligible")
	ErrEnrollmentNotOpen   = errors.New("enrollment_not_open")
)
