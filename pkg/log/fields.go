package log

const (
	// Request
	FieldRequestID = "request_id"
	FieldMethod    = "method"
	FieldPath      = "path"
	FieldStatus    = "status"
	FieldLatency   = "latency_ms"
	FieldClientIP  = "client_ip"

	// Actor (matches pkg/token identity keys)
	FieldUserID   = "user_id"
	FieldUserName = "user_name"
	FieldRole     = "role"

	// Classroom
	FieldClassroomID   = "classroom_id"
	FieldCourseID      = "course_id"
	FieldParticipantID = "participant_id"
	FieldSessionMode   = "session_mode"
	FieldDeviceID      = "device_id"
	FieldMessageID     = "message_id"

	// Service
	FieldService = "service"

	// Log type (for audit log)
	FieldLogType = "log_type"
	LogTypeAudit = "audit"
)
