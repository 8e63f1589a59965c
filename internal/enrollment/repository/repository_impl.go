package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	enrollmentdomain "github.com/snusnumrick/dojoflow/internal/enrollment/domain"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) enrollmentdomain.Repository {
	return &repository{db: db}
}

func (r *repository) FindByID(ctx context.Context, id snowflake.ID) (*enrollmentdomain.Enrollment, error) {
	var enrollment enrollmentdomain.Enrollment
	err := r.db.WithContext(ctx).First(&enrollment, "id = ?", id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &enrollment, nil
}

func (r *repository) ListByStudent(ctx context.Context, studentID snowflake.ID) ([]enrollmentdomain.Enrollment, error) {
	var enrollments []enrollmentdomain.Enrollment
	err := r.db.WithContext(ctx).
		Where("student_id = ?", studentID).
		Order("created_at ASC").
		Find(&enrollments).Error
	if err != nil {
		return nil, err
	}
	return enrollments, nil
}

func (r *repository) ListByClass(ctx context.Context, classID snowflake.ID) ([]enrollmentdomain.Enrollment, error) {
	var enrollments []enrollmentdomain.Enrollment
	err := r.db.WithContext(ctx).
		Where("class_id = ?", classID).
		Order("created_at ASC").
		Find(&enrollments).Error
	if err != nil {
		return nil, err
	}
	return enrollments, nil
}
