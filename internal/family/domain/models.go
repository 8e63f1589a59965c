// Package domain contains persistence models for families and students.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// Family is the billing unit: invoices and payments hang off a family, not an
// individual student.
type Family struct {
	ID        snowflake.ID      `gorm:"primaryKey" json:"id"`
	Name      string            `gorm:"type:text;not null" json:"name"`
	Email     string            `gorm:"type:text;not null" json:"email"`
	Phone     *string           `gorm:"type:text" json:"phone,omitempty"`
	Metadata  datatypes.JSONMap `gorm:"type:jsonb" json:"metadata,omitempty"`
	CreatedAt time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Family) TableName() string { return "families" }

// Gender values recorded on students and used by program restrictions.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

// Student belongs to a family and accumulates belt awards and enrollments.
type Student struct {
	ID           snowflake.ID `gorm:"primaryKey" json:"id"`
	FamilyID     snowflake.ID `gorm:"not null;index" json:"family_id"`
	FirstName    string       `gorm:"type:text;not null" json:"first_name"`
	LastName     string       `gorm:"type:text;not null" json:"last_name"`
	BirthDate    time.Time    `gorm:"type:date;not null" json:"birth_date"`
	Gender       Gender       `gorm:"type:text;not null;default:'other'" json:"gender"`
	SpecialNeeds bool         `gorm:"not null;default:false" json:"special_needs"`
	CreatedAt    time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt    time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Student) TableName() string { return "students" }

// BeltAward records a promotion. The student's current rank is the most
// recent award by date.
type BeltAward struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	StudentID snowflake.ID `gorm:"not null;index" json:"student_id"`
	Rank      string       `gorm:"type:text;not null" json:"rank"`
	AwardedAt time.Time    `gorm:"not null" json:"awarded_at"`
	Notes     *string      `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (BeltAward) TableName() string { return "belt_awards" }
