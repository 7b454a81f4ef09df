package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/akinstitute/liveclass/internal/domain"
	"github.com/akinstitute/liveclass/pkg/log"
)

// GormApplicationRepository implements ApplicationRepository using GORM.
type GormApplicationRepository struct {
	db *gorm.DB
}

func NewGormApplicationRepository(db *gorm.DB) *GormApplicationRepository {
	return &GormApplicationRepository{db: db}
}

// Create inserts a new admission application in pending state.
func (r *GormApplicationRepository) Create(ctx context.Context, app *domain.Application) error {
	l := log.Ctx(ctx)

	app.ID = uuid.New().String()
	app.AdmissionStatus = domain.AdmissionPending

	model := domain.ApplicationToModel(app)
	if result := r.db.WithContext(ctx).Create(model); result.Error != nil {
		l.Error().Err(result.Error).Msg("failed to create application in db")
		return result.Error
	}

	app.AppliedAt = model.AppliedAt
	l.Debug().Str("application_id", app.ID).Msg("application created in db")
	return nil
}

func (r *GormApplicationRepository) GetByID(ctx context.Context, id string) (*domain.Application, error) {
	l := log.Ctx(ctx)

	var model domain.ApplicationModel
	result := r.db.WithContext(ctx).First(&model, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrApplicationNotFound
		}
		l.Error().Err(result.Error).Str("application_id", id).Msg("failed to get application by id")
		return nil, result.Error
	}
	return model.ToDomain(), nil
}

// ListPending returns applications awaiting a decision, newest first.
func (r *GormApplicationRepository) ListPending(ctx context.Context) ([]domain.Application, error) {
	l := log.Ctx(ctx)

	var models []domain.ApplicationModel
	result := r.db.WithContext(ctx).
		Where("admission_status = ?", string(domain.AdmissionPending)).
		Order("applied_at DESC").
		Find(&models)
	if result.Error != nil {
		l.Error().Err(result.Error).Msg("failed to list pending applications")
		return nil, result.Error
	}

	apps := make([]domain.Application, 0, len(models))
	for i := range models {
		apps = append(apps, *models[i].ToDomain())
	}
	return apps, nil
}

func (r *GormApplicationRepository) Update(ctx context.Context, app *domain.Application) error {
	l := log.Ctx(ctx)

	model := domain.ApplicationToModel(app)
	result := r.db.WithContext(ctx).Model(&domain.ApplicationModel{}).
		Where("id = ?", app.ID).
		Select("AdmissionStatus", "RegistrationNumber", "DecidedAt").
		Updates(model)
	if result.Error != nil {
		l.Error().Err(result.Error).Str("application_id", app.ID).Msg("failed to update application")
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrApplicationNotFound
	}
	return nil
}

// CountApproved reports how many applications have been approved. Used to
// derive the next registration number.
func (r *GormApplicationRepository) CountApproved(ctx context.Context) (int64, error) {
	var count int64
	result := r.db.WithContext(ctx).Model(&domain.ApplicationModel{}).
		Where("admission_status = ?", string(domain.AdmissionApproved)).
		Count(&count)
	if result.Error != nil {
		return 0, result.Error
	}
	return count, nil
}
