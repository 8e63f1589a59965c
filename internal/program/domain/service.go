package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
)

// Repository provides access to programs, classes and their schedules.
type Repository interface {
	CreateProgram(ctx context.Context, program *Program) error
	FindProgramByID(ctx context.Context, id snowflake.ID) (*Program, error)
	FindProgramsByIDs(ctx context.Context, ids []snowflake.ID) ([]Program, error)
	ListPrograms(ctx context.Context, activeOnly bool) ([]Program, error)

	CreateClass(ctx context.Context, class *Class, sessions []ClassSession) error
	FindClassByID(ctx context.Context, id snowflake.ID) (*Class, error)
	ListClassesByProgram(ctx context.Context, programID snowflake.ID) ([]Class, error)
	ListClassSessions(ctx context.Context, classID snowflake.ID) ([]ClassSession, error)
}

type Service interface {
	CreateProgram(ctx context.Context, req CreateProgramRequest) (*Program, error)
	GetProgram(ctx context.Context, id string) (*Program, error)
	ListPrograms(ctx context.Context, activeOnly bool) ([]Program, error)

	CreateClass(ctx context.Context, req CreateClassRequest) (*Class, error)
	GetClass(ctx context.Context, id string) (*Class, error)
	ListClasses(ctx context.Context, programID string) ([]Class, error)
	ClassSchedule(ctx context.Context, classID string) ([]ClassSession, error)
}

type CreateProgramRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`

	MonthlyFeeCents      int64 `json:"monthly_fee_cents"`
	SessionFeeCents      int64 `json:"session_fee_cents"`
	RegistrationFeeCents int64 `json:"registration_fee_cents"`

	MinAge *int `json:"min_age"`
	MaxAge *int `json:"max_age"`

	MinBeltRank     *string `json:"min_belt_rank"`
	MaxBeltRank     *string `json:"max_belt_rank"`
	EnforceBeltRank bool    `json:"enforce_belt_rank"`

	PrerequisiteProgramIDs []string `json:"prerequisite_program_ids"`

	GenderRestriction    GenderRestriction `json:"gender_restriction"`
	SupportsSpecialNeeds bool              `json:"supports_special_needs"`

	MaxCapacity *int `json:"max_capacity"`

	SessionsPerWeek    *int `json:"sessions_per_week"`
	MinSessionsPerWeek *int `json:"min_sessions_per_week"`
	MaxSessionsPerWeek *int `json:"max_sessions_per_week"`
}

type SessionSlot struct {
	Weekday     time.Weekday `json:"weekday"`
	StartTime   string       `json:"start_time"`
	DurationMin int          `json:"duration_min"`
}

type CreateClassRequest struct {
	ProgramID string        `json:"program_id"`
	Name      string        `json:"name"`
	Capacity  int           `json:"capacity"`
	Sessions  []SessionSlot `json:"sessions"`
}
