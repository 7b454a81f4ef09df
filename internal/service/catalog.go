package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/akinstitute/liveclass/internal/audit"
	"github.com/akinstitute/liveclass/internal/cache"
	"github.com/akinstitute/liveclass/internal/domain"
	"github.com/akinstitute/liveclass/internal/repository"
	"github.com/akinstitute/liveclass/pkg/log"
	"github.com/akinstitute/liveclass/pkg/token"
)

// CatalogService manages the course catalog with a cache-aside read path.
type CatalogService struct {
	repo  repository.CourseRepository
	cache cache.CatalogCache
	ttl   time.Duration
	group singleflight.Group
}

func NewCatalogService(repo repository.CourseRepository, c cache.CatalogCache, ttl time.Duration) *CatalogService {
	return &CatalogService{repo: repo, cache: c, ttl: ttl}
}

func (s *CatalogService) Create(ctx context.Context, identity token.Identity, req *domain.CreateCourseRequest) (*domain.Course, error) {
	if identity.Role != "admin" {
		return nil, ErrNotInstructor
	}

	status := req.Status
	if status == "" {
		status = string(domain.CourseStatusActive)
	}
	course := &domain.Course{
		Title:         req.Title,
		Description:   req.Description,
		Category:      domain.CourseCategory(req.Category),
		Duration:      req.Duration,
		Image:         req.Image,
		Status:        domain.CourseStatus(status),
		NextClassTime: req.NextClassTime,
		Contents:      req.Contents,
	}
	if err := s.repo.Create(ctx, course); err != nil {
		return nil, err
	}

	s.invalidate(ctx, course.ID)
	audit.LogWithDetail(ctx, audit.ActionCreateCourse, identity.UserID, course.ID, "course created")
	return course, nil
}

func (s *CatalogService) Get(ctx context.Context, id string) (*domain.Course, error) {
	if s.cache != nil {
		if course, err := s.cache.GetCourse(ctx, id); err == nil {
			return course, nil
		} else if !errors.Is(err, cache.ErrCacheMiss) {
			log.Ctx(ctx).Warn().Err(err).Str(log.FieldCourseID, id).Msg("catalog cache read failed")
		}
	}

	// Concurrent misses for the same course collapse into one DB read.
	v, err, _ := s.group.Do("course:"+id, func() (interface{}, error) {
		course, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if s.cache != nil {
			if err := s.cache.SetCourse(ctx, course, s.ttl); err != nil {
				log.Ctx(ctx).Warn().Err(err).Str(log.FieldCourseID, id).Msg("catalog cache write failed")
			}
		}
		return course, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*domain.Course), nil
}

func (s *CatalogService) List(ctx context.Context, req *domain.ListCoursesRequest) ([]domain.Course, error) {
	key := fmt.Sprintf("%s:%s", req.Category, req.Status)

	if s.cache != nil {
		if courses, err := s.cache.GetList(ctx, key); err == nil {
			return courses, nil
		} else if !errors.Is(err, cache.ErrCacheMiss) {
			log.Ctx(ctx).Warn().Err(err).Msg("catalog cache read failed")
		}
	}

	v, err, _ := s.group.Do("list:"+key, func() (interface{}, error) {
		courses, err := s.repo.List(ctx, req.Category, req.Status)
		if err != nil {
			return nil, err
		}
		if s.cache != nil {
			if err := s.cache.SetList(ctx, key, courses, s.ttl); err != nil {
				log.Ctx(ctx).Warn().Err(err).Msg("catalog cache write failed")
			}
		}
		return courses, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]domain.Course), nil
}

func (s *CatalogService) Update(ctx context.Context, identity token.Identity, id string, req *domain.UpdateCourseRequest) (*domain.Course, error) {
	if identity.Role != "admin" {
		return nil, ErrNotInstructor
	}

	course, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		course.Title = *req.Title
	}
	if req.Description != nil {
		course.Description = *req.Description
	}
	if req.Category != nil {
		course.Category = domain.CourseCategory(*req.Category)
	}
	if req.Duration != nil {
		course.Duration = *req.Duration
	}
	if req.Image != nil {
		course.Image = *req.Image
	}
	if req.Status != nil {
		course.Status = domain.CourseStatus(*req.Status)
	}
	if req.NextClassTime != nil {
		course.NextClassTime = *req.NextClassTime
	}
	if req.Contents != nil {
		course.Contents = req.Contents
	}

	if err := s.repo.Update(ctx, course); err != nil {
		return nil, err
	}

	s.invalidate(ctx, id)
	audit.LogWithDetail(ctx, audit.ActionUpdateCourse, identity.UserID, id, "course updated")
	return course, nil
}

func (s *CatalogService) Delete(ctx context.Context, identity token.Identity, id string) error {
	if identity.Role != "admin" {
		return ErrNotInstructor
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, id)
	audit.LogWithDetail(ctx, audit.ActionDeleteCourse, identity.UserID, id, "course deleted")
	return nil
}

func (s *CatalogService) invalidate(ctx context.Context, courseID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, courseID); err != nil {
		log.Ctx(ctx).Warn().Err(err).Str(log.FieldCourseID, courseID).Msg("catalog cache invalidation failed")
	}
}
