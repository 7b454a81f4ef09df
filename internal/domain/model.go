package domain

import (
	"time"

	"gorm.io/gorm"

	"github.com/akinstitute/liveclass/pkg/database"
)

// CourseModel is the GORM model for the courses table.
type CourseModel struct {
	ID            string               `gorm:"type:varchar(36);primaryKey"`
	Title         string               `gorm:"type:varchar(200);not null"`
	Description   string               `gorm:"type:text"`
	Category      string               `gorm:"type:varchar(30);index;not null"`
	Duration      string               `gorm:"type:varchar(50)"`
	Image         string               `gorm:"type:text"`
	Status        string               `gorm:"type:varchar(20);index;not null;default:'active'"`
	NextClassTime string               `gorm:"type:varchar(100)"`
	Contents      database.StringArray `gorm:"type:text"`
	CreatedAt     time.Time            `gorm:"autoCreateTime"`
	UpdatedAt     time.Time            `gorm:"autoUpdateTime"`
	DeletedAt     gorm.DeletedAt       `gorm:"index"`
}

func (CourseModel) TableName() string {
	return "courses"
}

func (m *CourseModel) ToDomain() *Course {
	return &Course{
		ID:            m.ID,
		Title:         m.Title,
		Description:   m.Description,
		Category:      CourseCategory(m.Category),
		Duration:      m.Duration,
		Image:         m.Image,
		Status:        CourseStatus(m.Status),
		NextClassTime: m.NextClassTime,
		Contents:      []string(m.Contents),
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

func CourseToModel(c *Course) *CourseModel {
	return &CourseModel{
		ID:            c.ID,
		Title:         c.Title,
		Description:   c.Description,
		Category:      string(c.Category),
		Duration:      c.Duration,
		Image:         c.Image,
		Status:        string(c.Status),
		NextClassTime: c.NextClassTime,
		Contents:      database.StringArray(c.Contents),
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
	}
}

// ApplicationModel is the GORM model for the applications table.
type ApplicationModel struct {
	ID                 string         `gorm:"type:varchar(36);primaryKey"`
	FirstName          string         `gorm:"type:varchar(100);not null"`
	LastName           string         `gorm:"type:varchar(100);not null"`
	Email              string         `gorm:"type:varchar(200);index;not null"`
	MobileNumber       string         `gorm:"type:varchar(30)"`
	DateOfBirth        string         `gorm:"type:varchar(20)"`
	Gender             string         `gorm:"type:varchar(20)"`
	GuardianName       string         `gorm:"type:varchar(100)"`
	GuardianRelation   string         `gorm:"type:varchar(50)"`
	GuardianContact    string         `gorm:"type:varchar(30)"`
	Address            string         `gorm:"type:text"`
	NICNumber          string         `gorm:"type:varchar(30);index;not null"`
	Qualification      string         `gorm:"type:varchar(100)"`
	MajorSubject       string         `gorm:"type:varchar(100)"`
	CourseID           string         `gorm:"type:varchar(36);index;not null"`
	AdmissionStatus    string         `gorm:"type:varchar(20);index;not null;default:'pending'"`
	RegistrationNumber string         `gorm:"type:varchar(30);uniqueIndex"`
	AppliedAt          time.Time      `gorm:"autoCreateTime"`
	DecidedAt          *time.Time
	DeletedAt          gorm.DeletedAt `gorm:"index"`
}

func (ApplicationModel) TableName() string {
	return "applications"
}

func (m *ApplicationModel) ToDomain() *Application {
	return &Application{
		ID:                 m.ID,
		FirstName:          m.FirstName,
		LastName:           m.LastName,
		Email:              m.Email,
		MobileNumber:       m.MobileNumber,
		DateOfBirth:        m.DateOfBirth,
		Gender:             m.Gender,
		GuardianName:       m.GuardianName,
		GuardianRelation:   m.GuardianRelation,
		GuardianContact:    m.GuardianContact,
		Address:            m.Address,
		NICNumber:          m.NICNumber,
		Qualification:      m.Qualification,
		MajorSubject:       m.MajorSubject,
		CourseID:           m.CourseID,
		AdmissionStatus:    AdmissionStatus(m.AdmissionStatus),
		RegistrationNumber: m.RegistrationNumber,
		AppliedAt:          m.AppliedAt,
		DecidedAt:          m.DecidedAt,
	}
}

func ApplicationToModel(a *Application) *ApplicationModel {
	return &ApplicationModel{
		ID:                 a.ID,
		FirstName:          a.FirstName,
		LastName:           a.LastName,
		Email:              a.Email,
		MobileNumber:       a.MobileNumber,
		DateOfBirth:        a.DateOfBirth,
		Gender:             a.Gender,
		GuardianName:       a.GuardianName,
		GuardianRelation:   a.GuardianRelation,
		GuardianContact:    a.GuardianContact,
		Address:            a.Address,
		NICNumber:          a.NICNumber,
		Qualification:      a.Qualification,
		MajorSubject:       a.MajorSubject,
		CourseID:           a.CourseID,
		AdmissionStatus:    string(a.AdmissionStatus),
		RegistrationNumber: a.RegistrationNumber,
		AppliedAt:          a.AppliedAt,
		DecidedAt:          a.DecidedAt,
	}
}
