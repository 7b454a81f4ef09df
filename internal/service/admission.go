package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/akinstitute/liveclass/internal/audit"
	"github.com/akinstitute/liveclass/internal/domain"
	"github.com/akinstitute/liveclass/internal/repository"
	"github.com/akinstitute/liveclass/pkg/token"
)

// ErrAlreadyDecided is returned when approving or rejecting an application
// that is no longer pending.
var ErrAlreadyDecided = errors.New("application already decided")

// AdmissionService runs the admission registry workflow: applications come
// in pending, an admin approves or rejects, approval assigns a
// registration number.
type AdmissionService struct {
	repo    repository.ApplicationRepository
	courses repository.CourseRepository
}

func NewAdmissionService(repo repository.ApplicationRepository, courses repository.CourseRepository) *AdmissionService {
	return &AdmissionService{repo: repo, courses: courses}
}

// Submit records a new application against an existing course.
func (s *AdmissionService) Submit(ctx context.Context, req *domain.SubmitApplicationRequest) (*domain.Application, error) {
	if _, err := s.courses.GetByID(ctx, req.CourseID); err != nil {
		return nil, err
	}

	app := &domain.Application{
		FirstName:        req.FirstName,
		LastName:         req.LastName,
		Email:            req.Email,
		MobileNumber:     req.MobileNumber,
		DateOfBirth:      req.DateOfBirth,
		Gender:           req.Gender,
		GuardianName:     req.GuardianName,
		GuardianRelation: req.GuardianRelation,
		GuardianContact:  req.GuardianContact,
		Address:          req.Address,
		NICNumber:        req.NICNumber,
		Qualification:    req.Qualification,
		MajorSubject:     req.MajorSubject,
		CourseID:         req.CourseID,
	}
	if err := s.repo.Create(ctx, app); err != nil {
		return nil, err
	}
	return app, nil
}

// ListPending returns applications awaiting a decision (admin only).
func (s *AdmissionService) ListPending(ctx context.Context, identity token.Identity) ([]domain.Application, error) {
	if identity.Role != "admin" {
		return nil, ErrNotInstructor
	}
	return s.repo.ListPending(ctx)
}

// Approve enrolls the applicant and assigns the next registration number.
func (s *AdmissionService) Approve(ctx context.Context, identity token.Identity, applicationID string) (*domain.Application, error) {
	if identity.Role != "admin" {
		return nil, ErrNotInstructor
	}

	app, err := s.repo.GetByID(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if app.AdmissionStatus != domain.AdmissionPending {
		return nil, ErrAlreadyDecided
	}

	approved, err := s.repo.CountApproved(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	app.AdmissionStatus = domain.AdmissionApproved
	app.RegistrationNumber = fmt.Sprintf("AKI-%d-%04d", now.Year(), approved+1)
	app.DecidedAt = &now

	if err := s.repo.Update(ctx, app); err != nil {
		return nil, err
	}

	audit.LogWithDetail(ctx, audit.ActionApprove, identity.UserID, app.RegistrationNumber, "application approved")
	return app, nil
}

// Reject marks the application rejected without assigning a number.
func (s *AdmissionService) Reject(ctx context.Context, identity token.Identity, applicationID string) (*domain.Application, error) {
	if identity.Role != "admin" {
		return nil, ErrNotInstructor
	}

	app, err := s.repo.GetByID(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if app.AdmissionStatus != domain.AdmissionPending {
		return nil, ErrAlreadyDecided
	}

	now := time.Now()
	app.AdmissionStatus = domain.AdmissionRejected
	app.DecidedAt = &now

	if err := s.repo.Update(ctx, app); err != nil {
		return nil, err
	}

	audit.LogWithDetail(ctx, audit.ActionReject, identity.UserID, app.ID, "application rejected")
	return app, nil
}
