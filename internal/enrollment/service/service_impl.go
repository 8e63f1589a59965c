package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	enrollmentdomain "github.com/snusnumrick/dojoflow/internal/enrollment/domain"
	"github.com/snusnumrick/dojoflow/internal/enrollment/eligibility"
	familydomain "github.com/snusnumrick/dojoflow/internal/family/domain"
	programdomain "github.com/snusnumrick/dojoflow/internal/program/domain"
	pkgdb "github.com/snusnumrick/dojoflow/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ServiceParam struct {
	fx.In

	DB          *gorm.DB
	Log         *zap.Logger
	GenID       *snowflake.Node
	Repo        enrollmentdomain.Repository
	FamilyRepo  familydomain.Repository
	ProgramRepo programdomain.Repository
}

type Service struct {
	db          *gorm.DB
	log         *zap.Logger
	genID       *snowflake.Node
	repo        enrollmentdomain.Repository
	familyRepo  familydomain.Repository
	programRepo programdomain.Repository
}

func NewService(p ServiceParam) enrollmentdomain.Service {
	return &Service{
		db:          p.DB,
		log:         p.Log.Named("enrollment.service"),
		genID:       p.GenID,
		repo:        p.Repo,
		familyRepo:  p.FamilyRepo,
		programRepo: p.ProgramRepo,
	}
}

func (s *Service) CheckEligibility(ctx context.Context, studentID, programID string) (eligibility.Result, error) {
	sid, err := snowflake.ParseString(strings.TrimSpace(studentID))
	if err != nil {
		return eligibility.Result{}, enrollmentdomain.ErrStudentNotFound
	}
	pid, err := snowflake.ParseString(strings.TrimSpace(programID))
	if err != nil {
		return eligibility.Result{}, enrollmentdomain.ErrProgramNotFound
	}

	program, err := s.programRepo.FindProgramByID(ctx, pid)
	if err != nil {
		return eligibility.Result{}, err
	}
	if program == nil {
		return eligibility.Result{}, enrollmentdomain.ErrProgramNotFound
	}

	snapshot, err := s.studentSnapshot(ctx, sid)
	if err != nil {
		return eligibility.Result{}, err
	}
	rules, err := s.programRules(ctx, *program)
	if err != nil {
		return eligibility.Result{}, err
	}

	return eligibility.Check(snapshot, rules, time.Now().UTC()), nil
}

// Enroll places a student in a class. Eligibility runs first; the roster is
// then counted under a class row lock so two concurrent enrollments cannot
// both take the last spot. A full class waitlists instead of rejecting.
func (s *Service) Enroll(ctx context.Context, req enrollmentdomain.EnrollRequest) (enrollmentdomain.EnrollResult, error) {
	sid, err := snowflake.ParseString(strings.TrimSpace(req.StudentID))
	if err != nil {
		return enrollmentdomain.EnrollResult{}, enrollmentdomain.ErrStudentNotFound
	}
	cid, err := snowflake.ParseString(strings.TrimSpace(req.ClassID))
	if err != nil {
		return enrollmentdomain.EnrollResult{}, enrollmentdomain.ErrClassNotFound
	}

	var result enrollmentdomain.EnrollResult
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var class programdomain.Class
		err := pkgdb.ForUpdate(tx).First(&class, "id = ?", cid).Error
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return enrollmentdomain.ErrClassNotFound
			}
			return err
		}

		program, err := s.programRepo.FindProgramByID(ctx, class.ProgramID)
		if err != nil {
			return err
		}
		if program == nil {
			return enrollmentdomain.ErrProgramNotFound
		}

		snapshot, err := s.studentSnapshot(ctx, sid)
		if err != nil {
			return err
		}
		rules, err := s.programRules(ctx, *program)
		if err != nil {
			return err
		}
		check := eligibility.Check(snapshot, rules, time.Now().UTC())
		if !check.Eligible {
			return enrollmentdomain.ErrNotEligible
		}

		var existing int64
		err = tx.Model(&enrollmentdomain.Enrollment{}).
			Where("student_id = ? AND class_id = ? AND status IN ?",
				sid, cid, []enrollmentdomain.EnrollmentStatus{enrollmentdomain.StatusActive, enrollmentdomain.StatusWaitlisted}).
			Count(&existing).Error
		if err != nil {
			return err
		}
		if existing > 0 {
			return enrollmentdomain.ErrAlreadyEnrolled
		}

		status := enrollmentdomain.StatusActive
		if class.Capacity > 0 {
			var active int64
			err = tx.Model(&enrollmentdomain.Enrollment{}).
				Where("class_id = ? AND status = ?", cid, enrollmentdomain.StatusActive).
				Count(&active).Error
			if err != nil {
				return err
			}
			if active >= int64(class.Capacity) {
				status = enrollmentdomain.StatusWaitlisted
			}
		}

		now := time.Now().UTC()
		enrollment := enrollmentdomain.Enrollment{
			ID:        s.genID.Generate(),
			StudentID: sid,
			ClassID:   cid,
			ProgramID: class.ProgramID,
			Status:    status,
			StartedAt: now,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := tx.Create(&enrollment).Error; err != nil {
			return err
		}

		result = enrollmentdomain.EnrollResult{
			Enrollment: enrollment,
			Waitlisted: status == enrollmentdomain.StatusWaitlisted,
		}
		return nil
	})
	if err != nil {
		return enrollmentdomain.EnrollResult{}, err
	}

	s.log.Info("student enrolled",
		zap.String("enrollment_id", result.Enrollment.ID.String()),
		zap.String("student_id", sid.String()),
		zap.String("class_id", cid.String()),
		zap.Bool("waitlisted", result.Waitlisted))
	return result, nil
}

// Drop ends an enrollment. Dropping an active student promotes the oldest
// waitlisted student in the same class.
func (s *Service) Drop(ctx context.Context, enrollmentID string) error {
	id, err := snowflake.ParseString(strings.TrimSpace(enrollmentID))
	if err != nil {
		return enrollmentdomain.ErrInvalidEnrollmentID
	}

	var promoted *snowflake.ID
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		enrollment, err := s.loadForUpdate(tx, id)
		if err != nil {
			return err
		}
		switch enrollment.Status {
		case enrollmentdomain.StatusActive, enrollmentdomain.StatusWaitlisted:
		default:
			return enrollmentdomain.ErrEnrollmentNotOpen
		}
		wasActive := enrollment.Status == enrollmentdomain.StatusActive

		now := time.Now().UTC()
		err = tx.Model(&enrollmentdomain.Enrollment{}).
			Where("id = ?", id).
			Updates(map[string]any{
				"status":     enrollmentdomain.StatusDropped,
				"ended_at":   now,
				"updated_at": now,
			}).Error
		if err != nil {
			return err
		}

		if !wasActive {
			return nil
		}

		var next enrollmentdomain.Enrollment
		err = pkgdb.ForUpdate(tx).
			Where("class_id = ? AND status = ?", enrollment.ClassID, enrollmentdomain.StatusWaitlisted).
			Order("created_at ASC").
			First(&next).Error
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return nil
			}
			return err
		}

		err = tx.Model(&enrollmentdomain.Enrollment{}).
			Where("id = ?", next.ID).
			Updates(map[string]any{
				"status":     enrollmentdomain.StatusActive,
				"updated_at": now,
			}).Error
		if err != nil {
			return err
		}
		promoted = &next.ID
		return nil
	})
	if err != nil {
		return err
	}

	if promoted != nil {
		s.log.Info("waitlisted student promoted",
			zap.String("enrollment_id", promoted.String()))
	}
	s.log.Info("enrollment dropped", zap.String("enrollment_id", id.String()))
	return nil
}

// Complete marks an active enrollment finished, which makes the program count
// toward prerequisites.
func (s *Service) Complete(ctx context.Context, enrollmentID string) error {
	id, err := snowflake.ParseString(strings.TrimSpace(enrollmentID))
	if err != nil {
		return enrollmentdomain.ErrInvalidEnrollmentID
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		enrollment, err := s.loadForUpdate(tx, id)
		if err != nil {
			return err
		}
		if enrollment.Status != enrollmentdomain.StatusActive {
			return enrollmentdomain.ErrEnrollmentNotOpen
		}

		now := time.Now().UTC()
		return tx.Model(&enrollmentdomain.Enrollment{}).
			Where("id = ?", id).
			Updates(map[string]any{
				"status":     enrollmentdomain.StatusCompleted,
				"ended_at":   now,
				"updated_at": now,
			}).Error
	})
}

func (s *Service) ListByStudent(ctx context.Context, studentID string) ([]enrollmentdomain.Enrollment, error) {
	sid, err := snowflake.ParseString(strings.TrimSpace(studentID))
	if err != nil {
		return nil, enrollmentdomain.ErrStudentNotFound
	}
	return s.repo.ListByStudent(ctx, sid)
}

func (s *Service) ListByClass(ctx context.Context, classID string) ([]enrollmentdomain.Enrollment, error) {
	cid, err := snowflake.ParseString(strings.TrimSpace(classID))
	if err != nil {
		return nil, enrollmentdomain.ErrClassNotFound
	}
	return s.repo.ListByClass(ctx, cid)
}

func (s *Service) studentSnapshot(ctx context.Context, studentID snowflake.ID) (eligibility.StudentSnapshot, error) {
	student, err := s.familyRepo.FindStudentByID(ctx, studentID)
	if err != nil {
		return eligibility.StudentSnapshot{}, err
	}
	if student == nil {
		return eligibility.StudentSnapshot{}, enrollmentdomain.ErrStudentNotFound
	}

	awards, err := s.familyRepo.ListBeltAwards(ctx, studentID)
	if err != nil {
		return eligibility.StudentSnapshot{}, err
	}
	records := make([]eligibility.BeltAwardRecord, 0, len(awards))
	for _, award := range awards {
		records = append(records, eligibility.BeltAwardRecord{
			Rank:      award.Rank,
			AwardedAt: award.AwardedAt,
		})
	}

	enrollments, err := s.repo.ListByStudent(ctx, studentID)
	if err != nil {
		return eligibility.StudentSnapshot{}, err
	}
	var completed []string
	for _, enrollment := range enrollments {
		if enrollment.Status == enrollmentdomain.StatusCompleted {
			completed = append(completed, enrollment.ProgramID.String())
		}
	}

	return eligibility.StudentSnapshot{
		BirthDate:           student.BirthDate,
		Gender:              string(student.Gender),
		SpecialNeeds:        student.SpecialNeeds,
		CompletedProgramIDs: completed,
		BeltAwards:          records,
	}, nil
}

func (s *Service) programRules(ctx context.Context, program programdomain.Program) (eligibility.ProgramRules, error) {
	rules := eligibility.ProgramRules{
		Name:                   program.Name,
		MinAge:                 program.MinAge,
		MaxAge:                 program.MaxAge,
		MinBeltRank:            program.MinBeltRank,
		MaxBeltRank:            program.MaxBeltRank,
		EnforceBeltRank:        program.EnforceBeltRank,
		PrerequisiteProgramIDs: program.PrerequisiteProgramIDs,
		GenderRestriction:      string(program.GenderRestriction),
		SupportsSpecialNeeds:   program.SupportsSpecialNeeds,
	}

	if len(program.PrerequisiteProgramIDs) == 0 {
		return rules, nil
	}

	ids := make([]snowflake.ID, 0, len(program.PrerequisiteProgramIDs))
	for _, raw := range program.PrerequisiteProgramIDs {
		id, err := snowflake.ParseString(raw)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	prereqs, err := s.programRepo.FindProgramsByIDs(ctx, ids)
	if err != nil {
		return eligibility.ProgramRules{}, err
	}
	names := make(map[string]string, len(prereqs))
	for _, prereq := range prereqs {
		names[prereq.ID.String()] = prereq.Name
	}
	rules.PrerequisiteNames = names
	return rules, nil
}

func (s *Service) loadForUpdate(tx *gorm.DB, id snowflake.ID) (*enrollmentdomain.Enrollment, error) {
	var enrollment enrollmentdomain.Enrollment
	err := pkgdb.ForUpdate(tx).First(&enrollment, "id = ?", id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, enrollmentdomain.ErrEnrollmentNotFound
		}
		return nil, err
	}
	return &enrollment, nil
}
