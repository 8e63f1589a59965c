package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/snusnumrick/dojoflow/internal/enrollment/eligibility"
	programdomain "github.com/snusnumrick/dojoflow/internal/program/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

type ServiceParam struct {
	fx.In

	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  programdomain.Repository
}

type Service struct {
	log   *zap.Logger
	genID *snowflake.Node
	repo  programdomain.Repository
}

func NewService(p ServiceParam) programdomain.Service {
	return &Service{
		log:   p.Log.Named("program.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *Service) CreateProgram(ctx context.Context, req programdomain.CreateProgramRequest) (*programdomain.Program, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, programdomain.ErrInvalidName
	}
	if req.MonthlyFeeCents < 0 || req.SessionFeeCents < 0 || req.RegistrationFeeCents < 0 {
		return nil, programdomain.ErrInvalidFee
	}
	if req.MinAge != nil && req.MaxAge != nil && *req.MinAge > *req.MaxAge {
		return nil, programdomain.ErrInvalidAgeRange
	}
	if req.MinSessionsPerWeek != nil && req.MaxSessionsPerWeek != nil &&
		*req.MinSessionsPerWeek > *req.MaxSessionsPerWeek {
		return nil, programdomain.ErrInvalidFrequency
	}

	restriction := req.GenderRestriction
	switch restriction {
	case programdomain.GenderRestrictionMale, programdomain.GenderRestrictionFemale:
	default:
		restriction = programdomain.GenderRestrictionNone
	}

	now := time.Now().UTC()
	program := &programdomain.Program{
		ID:                     s.genID.Generate(),
		Name:                   name,
		Description:            req.Description,
		MonthlyFeeCents:        req.MonthlyFeeCents,
		SessionFeeCents:        req.SessionFeeCents,
		RegistrationFeeCents:   req.RegistrationFeeCents,
		MinAge:                 req.MinAge,
		MaxAge:                 req.MaxAge,
		MinBeltRank:            req.MinBeltRank,
		MaxBeltRank:            req.MaxBeltRank,
		EnforceBeltRank:        req.EnforceBeltRank,
		PrerequisiteProgramIDs: datatypes.JSONSlice[string](req.PrerequisiteProgramIDs),
		GenderRestriction:      restriction,
		SupportsSpecialNeeds:   req.SupportsSpecialNeeds,
		MaxCapacity:            req.MaxCapacity,
		SessionsPerWeek:        req.SessionsPerWeek,
		MinSessionsPerWeek:     req.MinSessionsPerWeek,
		MaxSessionsPerWeek:     req.MaxSessionsPerWeek,
		Active:                 true,
		CreatedAt:              now,
		UpdatedAt:              now,
	}
	if err := s.repo.CreateProgram(ctx, program); err != nil {
		return nil, err
	}
	s.log.Info("program created", zap.String("id", program.ID.String()), zap.String("name", program.Name))
	return program, nil
}

func (s *Service) GetProgram(ctx context.Context, id string) (*programdomain.Program, error) {
	programID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return nil, programdomain.ErrInvalidID
	}
	program, err := s.repo.FindProgramByID(ctx, programID)
	if err != nil {
		return nil, err
	}
	if program == nil {
		return nil, programdomain.ErrNotFound
	}
	return program, nil
}

func (s *Service) ListPrograms(ctx context.Context, activeOnly bool) ([]programdomain.Program, error) {
	return s.repo.ListPrograms(ctx, activeOnly)
}

// CreateClass validates the proposed weekly schedule against the program's
// session-frequency policy before persisting the class and its sessions.
func (s *Service) CreateClass(ctx context.Context, req programdomain.CreateClassRequest) (*programdomain.Class, error) {
	programID, err := snowflake.ParseString(strings.TrimSpace(req.ProgramID))
	if err != nil {
		return nil, programdomain.ErrInvalidID
	}
	program, err := s.repo.FindProgramByID(ctx, programID)
	if err != nil {
		return nil, err
	}
	if program == nil {
		return nil, programdomain.ErrNotFound
	}
	if strings.TrimSpace(req.Name) == "" {
		return nil, programdomain.ErrInvalidName
	}

	ok, reason := eligibility.ValidateClassFrequency(FrequencyPolicy(*program), len(req.Sessions))
	if !ok {
		s.log.Warn("class schedule rejected",
			zap.String("program_id", programID.String()),
			zap.String("reason", reason),
		)
		return nil, &programdomain.FrequencyError{Reason: reason}
	}

	now := time.Now().UTC()
	class := &programdomain.Class{
		ID:        s.genID.Generate(),
		ProgramID: programID,
		Name:      strings.TrimSpace(req.Name),
		Capacity:  req.Capacity,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	sessions := make([]programdomain.ClassSession, 0, len(req.Sessions))
	for _, slot := range req.Sessions {
		duration := slot.DurationMin
		if duration <= 0 {
			duration = 60
		}
		sessions = append(sessions, programdomain.ClassSession{
			ID:          s.genID.Generate(),
			ClassID:     class.ID,
			Weekday:     slot.Weekday,
			StartTime:   slot.StartTime,
			DurationMin: duration,
			CreatedAt:   now,
		})
	}
	if err := s.repo.CreateClass(ctx, class, sessions); err != nil {
		return nil, err
	}
	return class, nil
}

// FrequencyPolicy maps a program definition onto the pure frequency check.
func FrequencyPolicy(program programdomain.Program) eligibility.FrequencyPolicy {
	return eligibility.FrequencyPolicy{
		Exact:  program.SessionsPerWeek,
		Min:    program.MinSessionsPerWeek,
		Max:    program.MaxSessionsPerWeek,
		DropIn: program.IsDropIn(),
	}
}

func (s *Service) GetClass(ctx context.Context, id string) (*programdomain.Class, error) {
	classID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return nil, programdomain.ErrInvalidID
	}
	class, err := s.repo.FindClassByID(ctx, classID)
	if err != nil {
		return nil, err
	}
	if class == nil {
		return nil, programdomain.ErrNotFound
	}
	return class, nil
}

func (s *Service) ListClasses(ctx context.Context, programID string) ([]programdomain.Class, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(programID))
	if err != nil {
		return nil, programdomain.ErrInvalidID
	}
	return s.repo.ListClassesByProgram(ctx, id)
}

func (s *Service) ClassSchedule(ctx context.Context, classID string) ([]programdomain.ClassSession, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(classID))
	if err != nil {
		return nil, programdomain.ErrInvalidID
	}
	return s.repo.ListClassSessions(ctx, id)
}
