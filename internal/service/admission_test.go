package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/akinstitute/liveclass/internal/audit"
	"github.com/akinstitute/liveclass/internal/domain"
	"github.com/akinstitute/liveclass/internal/repository"
	"github.com/akinstitute/liveclass/pkg/log"
	"github.com/akinstitute/liveclass/pkg/token"
)

var admin = token.Identity{UserID: "admin-01", FirstName: "Imran", LastName: "Shah", Role: "admin"}

type memCourseRepo struct {
	courses map[string]*domain.Course
	nextID  int
}

func newMemCourseRepo() *memCourseRepo {
	return &memCourseRepo{courses: make(map[string]*domain.Course)}
}

func (r *memCourseRepo) Create(ctx context.Context, c *domain.Course) error {
	r.nextID++
	c.ID = fmt.Sprintf("course-%d", r.nextID)
	if c.Status == "" {
		c.Status = domain.CourseStatusActive
	}
	c.CreatedAt = time.Now()
	cp := *c
	r.courses[c.ID] = &cp
	return nil
}

func (r *memCourseRepo) GetByID(ctx context.Context, id string) (*domain.Course, error) {
	c, ok := r.courses[id]
	if !ok {
		return nil, repository.ErrCourseNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *memCourseRepo) List(ctx context.Context, category, status string) ([]domain.Course, error) {
	var out []domain.Course
	for _, c := range r.courses {
		if category != "" && string(c.Category) != category {
			continue
		}
		if status != "" && string(c.Status) != status {
			continue
		}
		out = append(out, *c)
	}
	return out, nil
}

func (r *memCourseRepo) Update(ctx context.Context, c *domain.Course) error {
	if _, ok := r.courses[c.ID]; !ok {
		return repository.ErrCourseNotFound
	}
	cp := *c
	r.courses[c.ID] = &cp
	return nil
}

func (r *memCourseRepo) Delete(ctx context.Context, id string) error {
	if _, ok := r.courses[id]; !ok {
		return repository.ErrCourseNotFound
	}
	delete(r.courses, id)
	return nil
}

type memApplicationRepo struct {
	apps   map[string]*domain.Application
	nextID int
}

func newMemApplicationRepo() *memApplicationRepo {
	return &memApplicationRepo{apps: make(map[string]*domain.Application)}
}

func (r *memApplicationRepo) Create(ctx context.Context, a *domain.Application) error {
	r.nextID++
	a.ID = fmt.Sprintf("app-%d", r.nextID)
	a.AdmissionStatus = domain.AdmissionPending
	a.AppliedAt = time.Now()
	cp := *a
	r.apps[a.ID] = &cp
	return nil
}

func (r *memApplicationRepo) GetByID(ctx context.Context, id string) (*domain.Application, error) {
	a, ok := r.apps[id]
	if !ok {
		return nil, repository.ErrApplicationNotFound
	}
	cp := *a
	return &cp, nil
}

func (r *memApplicationRepo) ListPending(ctx context.Context) ([]domain.Application, error) {
	var out []domain.Application
	for _, a := range r.apps {
		if a.AdmissionStatus == domain.AdmissionPending {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (r *memApplicationRepo) Update(ctx context.Context, a *domain.Application) error {
	if _, ok := r.apps[a.ID]; !ok {
		return repository.ErrApplicationNotFound
	}
	cp := *a
	r.apps[a.ID] = &cp
	return nil
}

func (r *memApplicationRepo) CountApproved(ctx context.Context) (int64, error) {
	var n int64
	for _, a := range r.apps {
		if a.AdmissionStatus == domain.AdmissionApproved {
			n++
		}
	}
	return n, nil
}

func newAdmissionFixture(t *testing.T) (*AdmissionService, string) {
	t.Helper()
	courses := newMemCourseRepo()
	course := &domain.Course{Title: "Industrial Stitching", Category: domain.CategoryVocational}
	if err := courses.Create(context.Background(), course); err != nil {
		t.Fatalf("seed course: %v", err)
	}
	return NewAdmissionService(newMemApplicationRepo(), courses), course.ID
}

func submit(t *testing.T, svc *AdmissionService, courseID, email string) *domain.Application {
	t.Helper()
	app, err := svc.Submit(context.Background(), &domain.SubmitApplicationRequest{
		FirstName: "Sana",
		LastName:  "Fatima",
		Email:     email,
		NICNumber: "17301-0000000-1",
		CourseID:  courseID,
	})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	return app
}

func TestSubmitRequiresExistingCourse(t *testing.T) {
	svc, _ := newAdmissionFixture(t)

	_, err := svc.Submit(context.Background(), &domain.SubmitApplicationRequest{
		FirstName: "Sana",
		LastName:  "Fatima",
		Email:     "sana@example.com",
		NICNumber: "17301-0000000-1",
		CourseID:  "missing",
	})
	if !errors.Is(err, repository.ErrCourseNotFound) {
		t.Fatalf("err = %v, want ErrCourseNotFound", err)
	}
}

func TestApproveAssignsRegistrationNumber(t *testing.T) {
	svc, courseID := newAdmissionFixture(t)
	ctx := context.Background()

	first := submit(t, svc, courseID, "sana@example.com")
	second := submit(t, svc, courseID, "zoya@example.com")

	approved, err := svc.Approve(ctx, admin, first.ID)
	if err != nil {
		t.Fatalf("Approve: %v", err)
	}
	if approved.AdmissionStatus != domain.AdmissionApproved {
		t.Fatalf("status = %q, want approved", approved.AdmissionStatus)
	}
	prefix := fmt.Sprintf("AKI-%d-", time.Now().Year())
	if !strings.HasPrefix(approved.RegistrationNumber, prefix) {
		t.Fatalf("registration number = %q, want prefix %q", approved.RegistrationNumber, prefix)
	}

	next, err := svc.Approve(ctx, admin, second.ID)
	if err != nil {
		t.Fatalf("Approve: %v", err)
	}
	if next.RegistrationNumber == approved.RegistrationNumber {
		t.Fatal("registration numbers must be unique")
	}
}

func TestApproveIsAdminOnly(t *testing.T) {
	svc, courseID := newAdmissionFixture(t)
	app := submit(t, svc, courseID, "sana@example.com")

	if _, err := svc.Approve(context.Background(), instructor, app.ID); !errors.Is(err, ErrNotInstructor) {
		t.Fatalf("Approve as instructor err = %v, want ErrNotInstructor", err)
	}
	if _, err := svc.ListPending(context.Background(), student); !errors.Is(err, ErrNotInstructor) {
		t.Fatalf("ListPending as student err = %v, want ErrNotInstructor", err)
	}
}

func TestApproveTwiceFails(t *testing.T) {
	svc, courseID := newAdmissionFixture(t)
	ctx := context.Background()
	app := submit(t, svc, courseID, "sana@example.com")

	if _, err := svc.Approve(ctx, admin, app.ID); err != nil {
		t.Fatalf("Approve: %v", err)
	}
	if _, err := svc.Approve(ctx, admin, app.ID); !errors.Is(err, ErrAlreadyDecided) {
		t.Fatalf("second Approve err = %v, want ErrAlreadyDecided", err)
	}
}

func TestRejectLeavesNoRegistrationNumber(t *testing.T) {
	svc, courseID := newAdmissionFixture(t)
	ctx := context.Background()
	app := submit(t, svc, courseID, "sana@example.com")

	rejected, err := svc.Reject(ctx, admin, app.ID)
	if err != nil {
		t.Fatalf("Reject: %v", err)
	}
	if rejected.AdmissionStatus != domain.AdmissionRejected {
		t.Fatalf("status = %q, want rejected", rejected.AdmissionStatus)
	}
	if rejected.RegistrationNumber != "" {
		t.Fatalf("rejected application has registration number %q", rejected.RegistrationNumber)
	}

	pending, err := svc.ListPending(ctx, admin)
	if err != nil {
		t.Fatalf("ListPending: %v", err)
	}
	if len(pending) != 0 {
		t.Fatalf("pending list = %d entries, want 0", len(pending))
	}
}

func TestRejectEmitsAuditEntry(t *testing.T) {
	svc, courseID := newAdmissionFixture(t)
	app := submit(t, svc, courseID, "sana@example.com")

	var buf bytes.Buffer
	logger := zerolog.New(&buf)
	ctx := log.WithLogger(context.Background(), logger)

	if _, err := svc.Reject(ctx, admin, app.ID); err != nil {
		t.Fatalf("Reject: %v", err)
	}

	out := buf.String()
	for _, want := range []string{audit.ActionReject, admin.UserID, log.LogTypeAudit} {
		if !strings.Contains(out, want) {
			t.Errorf("audit entry missing %q: %s", want, out)
		}
	}
}

func TestCatalogUpdateAppliesPartialFields(t *testing.T) {
	courses := newMemCourseRepo()
	svc := NewCatalogService(courses, nil, time.Minute)
	ctx := context.Background()

	created, err := svc.Create(ctx, admin, &domain.CreateCourseRequest{
		Title:    "Fashion Design",
		Category: "Creative",
		Duration: "6 Months",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	frozen := "frozen"
	updated, err := svc.Update(ctx, admin, created.ID, &domain.UpdateCourseRequest{Status: &frozen})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Status != domain.CourseStatusFrozen {
		t.Fatalf("status = %q, want frozen", updated.Status)
	}
	if updated.Title != "Fashion Design" || updated.Duration != "6 Months" {
		t.Fatalf("untouched fields changed: %+v", updated)
	}
}

func TestCatalogWritesAreAdminOnly(t *testing.T) {
	courses := newMemCourseRepo()
	svc := NewCatalogService(courses, nil, time.Minute)
	ctx := context.Background()

	if _, err := svc.Create(ctx, instructor, &domain.CreateCourseRequest{Title: "X", Category: "Technical"}); !errors.Is(err, ErrNotInstructor) {
		t.Fatalf("Create as instructor err = %v, want ErrNotInstructor", err)
	}
	if err := svc.Delete(ctx, student, "any"); !errors.Is(err, ErrNotInstructor) {
		t.Fatalf("Delete as student err = %v, want ErrNotInstructor", err)
	}
}
