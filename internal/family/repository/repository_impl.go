package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	familydomain "github.com/snusnumrick/dojoflow/internal/family/domain"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) familydomain.Repository {
	return &repository{db: db}
}

func (r *repository) CreateFamily(ctx context.Context, family *familydomain.Family) error {
	return r.db.WithContext(ctx).Create(family).Error
}

func (r *repository) FindFamilyByID(ctx context.Context, id snowflake.ID) (*familydomain.Family, error) {
	var family familydomain.Family
	err := r.db.WithContext(ctx).First(&family, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &family, nil
}

func (r *repository) ListFamilies(ctx context.Context) ([]familydomain.Family, error) {
	var families []familydomain.Family
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&families).Error
	return families, err
}

func (r *repository) CreateStudent(ctx context.Context, student *familydomain.Student) error {
	return r.db.WithContext(ctx).Create(student).Error
}

func (r *repository) FindStudentByID(ctx context.Context, id snowflake.ID) (*familydomain.Student, error) {
	var student familydomain.Student
	err := r.db.WithContext(ctx).First(&student, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &student, nil
}

func (r *repository) ListStudentsByFamily(ctx context.Context, familyID snowflake.ID) ([]familydomain.Student, error) {
	var students []familydomain.Student
	err := r.db.WithContext(ctx).
		Where("family_id = ?", familyID).
		Order("created_at ASC").
		Find(&students).Error
	return students, err
}

func (r *repository) CreateBeltAward(ctx context.Context, award *familydomain.BeltAward) error {
	return r.db.WithContext(ctx).Create(award).Error
}

func (r *repository) ListBeltAwards(ctx context.Context, studentID snowflake.ID) ([]familydomain.BeltAward, error) {
	var awards []familydomain.BeltAward
	err := r.db.WithContext(ctx).
		Where("student_id = ?", studentID).
		Order("awarded_at ASC").
		Find(&awards).Error
	return awards, err
}
