package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	familydomain "github.com/snusnumrick/dojoflow/internal/family/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type ServiceParam struct {
	fx.In

	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  familydomain.Repository
}

type Service struct {
	log   *zap.Logger
	genID *snowflake.Node
	repo  familydomain.Repository
}

func NewService(p ServiceParam) familydomain.Service {
	return &Service{
		log:   p.Log.Named("family.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *Service) CreateFamily(ctx context.Context, req familydomain.CreateFamilyRequest) (*familydomain.Family, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, familydomain.ErrInvalidName
	}
	email := strings.TrimSpace(req.Email)
	if email == "" || !strings.Contains(email, "@") {
		return nil, familydomain.ErrInvalidEmail
	}

	now := time.Now().UTC()
	family := &familydomain.Family{
		ID:        s.genID.Generate(),
		Name:      name,
		Email:     email,
		Phone:     req.Phone,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.CreateFamily(ctx, family); err != nil {
		return nil, err
	}
	return family, nil
}

func (s *Service) GetFamily(ctx context.Context, id string) (*familydomain.Family, error) {
	familyID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return nil, familydomain.ErrInvalidID
	}
	family, err := s.repo.FindFamilyByID(ctx, familyID)
	if err != nil {
		return nil, err
	}
	if family == nil {
		return nil, familydomain.ErrNotFound
	}
	return family, nil
}

func (s *Service) ListFamilies(ctx context.Context) ([]familydomain.Family, error) {
	return s.repo.ListFamilies(ctx)
}

func (s *Service) AddStudent(ctx context.Context, req familydomain.AddStudentRequest) (*familydomain.Student, error) {
	familyID, err := snowflake.ParseString(strings.TrimSpace(req.FamilyID))
	if err != nil {
		return nil, familydomain.ErrInvalidID
	}
	family, err := s.repo.FindFamilyByID(ctx, familyID)
	if err != nil {
		return nil, err
	}
	if family == nil {
		return nil, familydomain.ErrNotFound
	}

	if strings.TrimSpace(req.FirstName) == "" || strings.TrimSpace(req.LastName) == "" {
		return nil, familydomain.ErrInvalidName
	}
	if req.BirthDate.IsZero() || req.BirthDate.After(time.Now()) {
		return nil, familydomain.ErrInvalidBirthDate
	}

	gender := req.Gender
	switch gender {
	case familydomain.GenderMale, familydomain.GenderFemale, familydomain.GenderOther:
	default:
		gender = familydomain.GenderOther
	}

	now := time.Now().UTC()
	student := &familydomain.Student{
		ID:           s.genID.Generate(),
		FamilyID:     familyID,
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		BirthDate:    req.BirthDate,
		Gender:       gender,
		SpecialNeeds: req.SpecialNeeds,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.CreateStudent(ctx, student); err != nil {
		return nil, err
	}
	s.log.Info("student added",
		zap.String("student_id", student.ID.String()),
		zap.String("family_id", familyID.String()),
	)
	return student, nil
}

func (s *Service) GetStudent(ctx context.Context, id string) (*familydomain.Student, error) {
	studentID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return nil, familydomain.ErrInvalidID
	}
	student, err := s.repo.FindStudentByID(ctx, studentID)
	if err != nil {
		return nil, err
	}
	if student == nil {
		return nil, familydomain.ErrNotFound
	}
	return student, nil
}

func (s *Service) ListStudents(ctx context.Context, familyID string) ([]familydomain.Student, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(familyID))
	if err != nil {
		return nil, familydomain.ErrInvalidID
	}
	return s.repo.ListStudentsByFamily(ctx, id)
}

func (s *Service) AwardBelt(ctx context.Context, req familydomain.AwardBeltRequest) (*familydomain.BeltAward, error) {
	studentID, err := snowflake.ParseString(strings.TrimSpace(req.StudentID))
	if err != nil {
		return nil, familydomain.ErrInvalidID
	}
	student, err := s.repo.FindStudentByID(ctx, studentID)
	if err != nil {
		return nil, err
	}
	if student == nil {
		return nil, familydomain.ErrNotFound
	}

	awardedAt := time.Now().UTC()
	if req.AwardedAt != nil {
		awardedAt = req.AwardedAt.UTC()
	}
	award := &familydomain.BeltAward{
		ID:        s.genID.Generate(),
		StudentID: studentID,
		Rank:      strings.TrimSpace(req.Rank),
		AwardedAt: awardedAt,
		Notes:     req.Notes,
		CreatedAt: time.Now().UTC(),
	}
	if award.Rank == "" {
		return nil, familydomain.ErrInvalidName
	}
	if err := s.repo.CreateBeltAward(ctx, award); err != nil {
		return nil, err
	}
	return award, nil
}

func (s *Service) BeltHistory(ctx context.Context, studentID string) ([]familydomain.BeltAward, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(studentID))
	if err != nil {
		return nil, familydomain.ErrInvalidID
	}
	return s.repo.ListBeltAwards(ctx, id)
}
