// Package domain contains persistence models for programs and classes.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// GenderRestriction limits who may enroll in a program.
type GenderRestriction string

const (
	GenderRestrictionNone   GenderRestriction = "none"
	GenderRestrictionMale   GenderRestriction = "male"
	GenderRestrictionFemale GenderRestriction = "female"
)

// Program defines a curriculum with fees and enrollment constraints.
//
// Fee columns are integer cents. The pre-migration float-dollar columns on
// this table are resolved through the money package's legacy unit resolver.
type Program struct {
	ID          snowflake.ID `gorm:"primaryKey" json:"id"`
	Name        string       `gorm:"type:text;not null" json:"name"`
	Description *string      `gorm:"type:text" json:"description,omitempty"`

	MonthlyFeeCents      int64 `gorm:"not null;default:0" json:"monthly_fee_cents"`
	SessionFeeCents      int64 `gorm:"not null;default:0" json:"session_fee_cents"`
	RegistrationFeeCents int64 `gorm:"not null;default:0" json:"registration_fee_cents"`

	MinAge *int `gorm:"type:smallint" json:"min_age,omitempty"`
	MaxAge *int `gorm:"type:smallint" json:"max_age,omitempty"`

	MinBeltRank     *string `gorm:"type:text" json:"min_belt_rank,omitempty"`
	MaxBeltRank     *string `gorm:"type:text" json:"max_belt_rank,omitempty"`
	EnforceBeltRank bool    `gorm:"not null;default:false" json:"enforce_belt_rank"`

	PrerequisiteProgramIDs datatypes.JSONSlice[string] `gorm:"type:jsonb" json:"prerequisite_program_ids,omitempty"`

	GenderRestriction    GenderRestriction `gorm:"type:text;not null;default:'none'" json:"gender_restriction"`
	SupportsSpecialNeeds bool              `gorm:"not null;default:false" json:"supports_special_needs"`

	MaxCapacity *int `gorm:"type:smallint" json:"max_capacity,omitempty"`

	// Session cadence: either an exact weekly count, a min/max range, or
	// unconstrained (all nil). A program with a zero monthly fee and a
	// positive session fee is a drop-in program and exempt from frequency
	// checks entirely.
	SessionsPerWeek    *int `gorm:"type:smallint" json:"sessions_per_week,omitempty"`
	MinSessionsPerWeek *int `gorm:"type:smallint" json:"min_sessions_per_week,omitempty"`
	MaxSessionsPerWeek *int `gorm:"type:smallint" json:"max_sessions_per_week,omitempty"`

	Active    bool      `gorm:"not null;default:true" json:"active"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Program) TableName() string { return "programs" }

// IsDropIn reports whether the program bills per session only.
func (p Program) IsDropIn() bool {
	return p.MonthlyFeeCents == 0 && p.SessionFeeCents > 0
}

// Class is a concrete scheduled offering of a program with its own capacity.
type Class struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	ProgramID snowflake.ID `gorm:"not null;index" json:"program_id"`
	Name      string       `gorm:"type:text;not null" json:"name"`
	Capacity  int          `gorm:"not null;default:0" json:"capacity"`
	Active    bool         `gorm:"not null;default:true" json:"active"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Class) TableName() string { return "classes" }

// ClassSession is one weekly scheduled slot of a class.
type ClassSession struct {
	ID          snowflake.ID `gorm:"primaryKey" json:"id"`
	ClassID     snowflake.ID `gorm:"not null;index" json:"class_id"`
	Weekday     time.Weekday `gorm:"type:smallint;not null" json:"weekday"`
	StartTime   string       `gorm:"type:text;not null" json:"start_time"` // "18:30"
	DurationMin int          `gorm:"not null;default:60" json:"duration_min"`
	CreatedAt   time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (ClassSession) TableName() string { return "class_sessions" }
