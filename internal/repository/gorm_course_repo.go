package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/akinstitute/liveclass/internal/domain"
	"github.com/akinstitute/liveclass/pkg/log"
)

// GormCourseRepository implements CourseRepository using GORM.
type GormCourseRepository struct {
	db *gorm.DB
}

func NewGormCourseRepository(db *gorm.DB) *GormCourseRepository {
	return &GormCourseRepository{db: db}
}

// Create inserts a new course. The ID is assigned here.
func (r *GormCourseRepository) Create(ctx context.Context, course *domain.Course) error {
	l := log.Ctx(ctx)

	course.ID = uuid.New().String()
	if course.Status == "" {
		course.Status = domain.CourseStatusActive
	}

	model := domain.CourseToModel(course)
	if result := r.db.WithContext(ctx).Create(model); result.Error != nil {
		l.Error().Err(result.Error).Msg("failed to create course in db")
		return result.Error
	}

	course.CreatedAt = model.CreatedAt
	course.UpdatedAt = model.UpdatedAt
	l.Debug().Str(log.FieldCourseID, course.ID).Msg("course created in db")
	return nil
}

func (r *GormCourseRepository) GetByID(ctx context.Context, id string) (*domain.Course, error) {
	l := log.Ctx(ctx)

	var model domain.CourseModel
	result := r.db.WithContext(ctx).First(&model, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		l.Error().Err(result.Error).Str(log.FieldCourseID, id).Msg("failed to get course by id")
		return nil, result.Error
	}
	return model.ToDomain(), nil
}

// List retrieves courses, optionally filtered by category and status.
func (r *GormCourseRepository) List(ctx context.Context, category, status string) ([]domain.Course, error) {
	l := log.Ctx(ctx)

	query := r.db.WithContext(ctx).Model(&domain.CourseModel{})
	if category != "" {
		query = query.Where("category = ?", category)
	}
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var models []domain.CourseModel
	if result := query.Order("created_at ASC").Find(&models); result.Error != nil {
		l.Error().Err(result.Error).Msg("failed to list courses")
		return nil, result.Error
	}

	courses := make([]domain.Course, 0, len(models))
	for i := range models {
		courses = append(courses, *models[i].ToDomain())
	}
	return courses, nil
}

func (r *GormCourseRepository) Update(ctx context.Context, course *domain.Course) error {
	l := log.Ctx(ctx)

	model := domain.CourseToModel(course)
	result := r.db.WithContext(ctx).Model(&domain.CourseModel{}).
		Where("id = ?", course.ID).
		Select("Title", "Description", "Category", "Duration", "Image", "Status", "NextClassTime", "Contents").
		Updates(model)
	if result.Error != nil {
		l.Error().Err(result.Error).Str(log.FieldCourseID, course.ID).Msg("failed to update course")
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrCourseNotFound
	}
	return nil
}

func (r *GormCourseRepository) Delete(ctx context.Context, id string) error {
	l := log.Ctx(ctx)

	result := r.db.WithContext(ctx).Delete(&domain.CourseModel{}, "id = ?", id)
	if result.Error != nil {
		l.Error().Err(result.Error).Str(log.FieldCourseID, id).Msg("failed to delete course")
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrCourseNotFound
	}
	l.Debug().Str(log.FieldCourseID, id).Msg("course deleted")
	return nil
}
