package domain

import (
	"time"
)

// AdmissionStatus tracks an application through the registry workflow.
type AdmissionStatus string

const (
	AdmissionPending  AdmissionStatus = "pending"
	AdmissionApproved AdmissionStatus = "approved"
	AdmissionRejected AdmissionStatus = "rejected"
)

// Application is one admission application. Approval enrolls the applicant
// and assigns a registration number.
type Application struct {
	ID                 string          `json:"id"`
	FirstName          string          `json:"first_name"`
	LastName           string          `json:"last_name"`
	Email              string          `json:"email"`
	MobileNumber       string          `json:"mobile_number,omitempty"`
	DateOfBirth        string          `json:"date_of_birth,omitempty"`
	Gender             string          `json:"gender,omitempty"`
	GuardianName       string          `json:"guardian_name,omitempty"`
	GuardianRelation   string          `json:"guardian_relation,omitempty"`
	GuardianContact    string          `json:"guardian_contact,omitempty"`
	Address            string          `json:"address,omitempty"`
	NICNumber          string          `json:"nic_number"`
	Qualification      string          `json:"qualification,omitempty"`
	MajorSubject       string          `json:"major_subject,omitempty"`
	CourseID           string          `json:"course_id"`
	AdmissionStatus    AdmissionStatus `json:"admission_status"`
	RegistrationNumber string          `json:"registration_number,omitempty"`
	AppliedAt          time.Time       `json:"applied_at"`
	DecidedAt          *time.Time      `json:"decided_at,omitempty"`
}

// SubmitApplicationRequest represents a new admission application.
type SubmitApplicationRequest struct {
	FirstName        string `json:"first_name" binding:"required,min=1,max=100"`
	LastName         string `json:"last_name" binding:"required,min=1,max=100"`
	Email            string `json:"email" binding:"required,email"`
	MobileNumber     string `json:"mobile_number"`
	DateOfBirth      string `json:"date_of_birth"`
	Gender           string `json:"gender"`
	GuardianName     string `json:"guardian_name"`
	GuardianRelation string `json:"guardian_relation"`
	GuardianContact  string `json:"guardian_contact"`
	Address          string `json:"address"`
	NICNumber        string `json:"nic_number" binding:"required"`
	Qualification    string `json:"qualification"`
	MajorSubject     string `json:"major_subject"`
	CourseID         string `json:"course_id" binding:"required"`
}
