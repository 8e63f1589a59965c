package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	programdomain "github.com/snusnumrick/dojoflow/internal/program/domain"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) programdomain.Repository {
	return &repository{db: db}
}

func (r *repository) CreateProgram(ctx context.Context, program *programdomain.Program) error {
	return r.db.WithContext(ctx).Create(program).Error
}

func (r *repository) FindProgramByID(ctx context.Context, id snowflake.ID) (*programdomain.Program, error) {
	var program programdomain.Program
	err := r.db.WithContext(ctx).First(&program, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &program, nil
}

func (r *repository) FindProgramsByIDs(ctx context.Context, ids []snowflake.ID) ([]programdomain.Program, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var programs []programdomain.Program
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&programs).Error
	return programs, err
}

func (r *repository) ListPrograms(ctx context.Context, activeOnly bool) ([]programdomain.Program, error) {
	stmt := r.db.WithContext(ctx).Model(&programdomain.Program{})
	if activeOnly {
		stmt = stmt.Where("active = ?", true)
	}
	var programs []programdomain.Program
	err := stmt.Order("name ASC").Find(&programs).Error
	return programs, err
}

func (r *repository) CreateClass(ctx context.Context, class *programdomain.Class, sessions []programdomain.ClassSession) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(class).Error; err != nil {
			return err
		}
		if len(sessions) > 0 {
			if err := tx.Create(&sessions).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *repository) FindClassByID(ctx context.Context, id snowflake.ID) (*programdomain.Class, error) {
	var class programdomain.Class
	err := r.db.WithContext(ctx).First(&class, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &class, nil
}

func (r *repository) ListClassesByProgram(ctx context.Context, programID snowflake.ID) ([]programdomain.Class, error) {
	var classes []programdomain.Class
	err := r.db.WithContext(ctx).
		Where("program_id = ?", programID).
		Order("name ASC").
		Find(&classes).Error
	return classes, err
}

func (r *repository) ListClassSessions(ctx context.Context, classID snowflake.ID) ([]programdomain.ClassSession, error) {
	var sessions []programdomain.ClassSession
	err := r.db.WithContext(ctx).
		Where("class_id = ?", classID).
		Order("weekday ASC, start_time ASC").
		Find(&sessions).Error
	return sessions, err
}
