package audit

import (
	"context"

	"github.com/akinstitute/liveclass/pkg/log"
)

// Audit actions.
const (
	ActionStartCamera  = "session.start_camera"
	ActionCycleCamera  = "session.cycle_camera"
	ActionToggleTorch  = "session.toggle_torch"
	ActionScreenShare  = "session.screen_share"
	ActionPlayMedia    = "session.play_media"
	ActionTerminate    = "session.terminate"
	ActionSpotlight    = "stage.spotlight"
	ActionSwapStage    = "stage.swap"
	ActionRosterMute   = "roster.toggle_mute"
	ActionRosterCamera = "roster.toggle_camera"
	ActionApprove      = "admission.approve"
	ActionReject       = "admission.reject"
	ActionCreateCourse = "catalog.create"
	ActionUpdateCourse = "catalog.update"
	ActionDeleteCourse = "catalog.delete"
	ActionSetNotice    = "notice.set"
	ActionClearNotice  = "notice.clear"
)

// Field constants for audit entries.
const (
	FieldAction = "action"
	FieldDetail = "detail"
)

// Log emits a structured audit log entry via the context logger.
func Log(ctx context.Context, action string, userID string, msg string) {
	l := log.Ctx(ctx)
	l.Info().
		Str(log.FieldLogType, log.LogTypeAudit).
		Str(FieldAction, action).
		Str(log.FieldUserID, userID).
		Msg(msg)
}

// LogWithDetail emits an audit log with an extra detail field.
func LogWithDetail(ctx context.Context, action string, userID string, detail string, msg string) {
	l := log.Ctx(ctx)
	l.Info().
		Str(log.FieldLogType, log.LogTypeAudit).
		Str(FieldAction, action).
		Str(log.FieldUserID, userID).
		Str(FieldDetail, detail).
		Msg(msg)
}
