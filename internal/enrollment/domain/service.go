package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/snusnumrick/dojoflow/internal/enrollment/eligibility"
)

type EnrollRequest struct {
	StudentID string `json:"student_id"`
	ClassID   string `json:"class_id"`
}

// EnrollResult reports the created enrollment and whether the student landed
// on the waitlist because the class was full.
type EnrollResult struct {
	Enrollment Enrollment `json:"enrollment"`
	Waitlisted bool       `json:"waitlisted"`
}

type Repository interface {
	FindByID(ctx context.Context, id snowflake.ID) (*Enrollment, error)
	ListByStudent(ctx context.Context, studentID snowflake.ID) ([]Enrollment, error)
	ListByClass(ctx context.Context, classID snowflake.ID) ([]Enrollment, error)
}

type Service interface {
	// CheckEligibility runs the program's rules against a student without
	// touching the class roster.
	CheckEligibility(ctx context.Context, studentID, programID string) (eligibility.Result, error)
	Enroll(ctx context.Context, req EnrollRequest) (EnrollResult, error)
	Drop(ctx context.Context, enrollmentID string) error
	Complete(ctx context.Context, enrollmentID string) error
	ListByStudent(ctx context.Context, studentID string) ([]Enrollment, error)
	ListByClass(ctx context.Context, classID string) ([]Enrollment, error)
}
