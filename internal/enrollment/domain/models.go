// Package domain contains persistence models for enrollments.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// EnrollmentStatus is the lifecycle of a student's membership in a class.
type EnrollmentStatus string

const (
	StatusActive     EnrollmentStatus = "active"
	StatusWaitlisted EnrollmentStatus = "waitlisted"
	StatusDropped    EnrollmentStatus = "dropped"
	StatusCompleted  EnrollmentStatus = "completed"
)

// Enrollment ties a student to a class. ProgramID is denormalized from the
// class so prerequisite checks don't need a join.
type Enrollment struct {
	ID        snowflake.ID     `gorm:"primaryKey" json:"id"`
	StudentID snowflake.ID     `gorm:"not null;index" json:"student_id"`
	ClassID   snowflake.ID     `gorm:"not null;index" json:"class_id"`
	ProgramID snowflake.ID     `gorm:"not null;index" json:"program_id"`
	Status    EnrollmentStatus `gorm:"type:text;not null" json:"status"`
	StartedAt time.Time        `gorm:"not null" json:"started_at"`
	EndedAt   *time.Time       `gorm:"" json:"ended_at,omitempty"`
	CreatedAt time.Time        `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time        `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Enrollment) TableName() string { return "enrollments" }
