package repository

import (
	"context"
	"errors"

	"github.com/akinstitute/liveclass/internal/domain"
)

var (
	ErrCourseNotFound      = errors.New("course not found")
	ErrApplicationNotFound = errors.New("application not found")
)

// CourseRepository defines the interface for catalog persistence.
type CourseRepository interface {
	Create(ctx context.Context, course *domain.Course) error
	GetByID(ctx context.Context, id string) (*domain.Course, error)
	List(ctx context.Context, category, status string) ([]domain.Course, error)
	Update(ctx context.Context, course *domain.Course) error
	Delete(ctx context.Context, id string) error
}

// ApplicationRepository defines the interface for admission persistence.
type ApplicationRepository interface {
	Create(ctx context.Context, app *domain.Application) error
	GetByID(ctx context.Context, id string) (*domain.Application, error)
	ListPending(ctx context.Context) ([]domain.Application, error)
	Update(ctx context.Context, app *domain.Application) error
	CountApproved(ctx context.Context) (int64, error)
}
