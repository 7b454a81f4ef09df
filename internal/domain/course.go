package domain

import (
	"time"
)

// CourseStatus represents course availability.
type CourseStatus string

const (
	CourseStatusActive    CourseStatus = "active"
	CourseStatusScheduled CourseStatus = "scheduled"
	CourseStatusFrozen    CourseStatus = "frozen"
)

// CourseCategory classifies a course in the catalog.
type CourseCategory string

const (
	CategoryTechnical    CourseCategory = "Technical"
	CategoryCreative     CourseCategory = "Creative"
	CategoryProfessional CourseCategory = "Professional"
	CategoryVocational   CourseCategory = "Vocational"
)

// Course is one catalog entry. Each active course backs one live classroom.
type Course struct {
	ID            string         `json:"id"`
	Title         string         `json:"title"`
	Description   string         `json:"description,omitempty"`
	Category      CourseCategory `json:"category"`
	Duration      string         `json:"duration,omitempty"`
	Image         string         `json:"image,omitempty"`
	Status        CourseStatus   `json:"status"`
	NextClassTime string         `json:"next_class_time,omitempty"`
	Contents      []string       `json:"contents,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

// CreateCourseRequest represents a create course request.
type CreateCourseRequest struct {
	Title         string   `json:"title" binding:"required,min=1,max=200"`
	Description   string   `json:"description"`
	Category      string   `json:"category" binding:"required,oneof=Technical Creative Professional Vocational"`
	Duration      string   `json:"duration"`
	Image         string   `json:"image"`
	Status        string   `json:"status" binding:"omitempty,oneof=active scheduled frozen"`
	NextClassTime string   `json:"next_class_time"`
	Contents      []string `json:"contents"`
}

// UpdateCourseRequest represents a partial course update.
type UpdateCourseRequest struct {
	Title         *string  `json:"title"`
	Description   *string  `json:"description"`
	Category      *string  `json:"category" binding:"omitempty,oneof=Technical Creative Professional Vocational"`
	Duration      *string  `json:"duration"`
	Image         *string  `json:"image"`
	Status        *string  `json:"status" binding:"omitempty,oneof=active scheduled frozen"`
	NextClassTime *string  `json:"next_class_time"`
	Contents      []string `json:"contents"`
}

// ListCoursesRequest represents a list courses request.
type ListCoursesRequest struct {
	Category string `form:"category"`
	Status   string `form:"status"`
}
