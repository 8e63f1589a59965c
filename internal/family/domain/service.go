package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
)

// Repository provides access to families, students and belt awards.
type Repository interface {
	CreateFamily(ctx context.Context, family *Family) error
	FindFamilyByID(ctx context.Context, id snowflake.ID) (*Family, error)
	ListFamilies(ctx context.Context) ([]Family, error)

	CreateStudent(ctx context.Context, student *Student) error
	FindStudentByID(ctx context.Context, id snowflake.ID) (*Student, error)
	ListStudentsByFamily(ctx context.Context, familyID snowflake.ID) ([]Student, error)

	CreateBeltAward(ctx context.Context, award *BeltAward) error
	ListBeltAwards(ctx context.Context, studentID snowflake.ID) ([]BeltAward, error)
}

type Service interface {
	CreateFamily(ctx context.Context, req CreateFamilyRequest) (*Family, error)
	GetFamily(ctx context.Context, id string) (*Family, error)
	ListFamilies(ctx context.Context) ([]Family, error)

	AddStudent(ctx context.Context, req AddStudentRequest) (*Student, error)
	GetStudent(ctx context.Context, id string) (*Student, error)
	ListStudents(ctx context.Context, familyID string) ([]Student, error)

	AwardBelt(ctx context.Context, req AwardBeltRequest) (*BeltAward, error)
	BeltHistory(ctx context.Context, studentID string) ([]BeltAward, error)
}

type CreateFamilyRequest struct {
	Name  string  `json:"name"`
	Email string  `json:"email"`
	Phone *string `json:"phone"`
}

type AddStudentRequest struct {
	FamilyID     string    `json:"family_id"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	BirthDate    time.Time `json:"birth_date"`
	Gender       Gender    `json:"gender"`
	SpecialNeeds bool      `json:"special_needs"`
}

type AwardBeltRequest struct {
	StudentID string     `json:"student_id"`
	Rank      string     `json:"rank"`
	AwardedAt *time.Time `json:"awarded_at"`
	Notes     *string    `json:"notes"`
}
