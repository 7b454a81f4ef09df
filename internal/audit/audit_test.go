package audit

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"

	"github.com/akinstitute/liveclass/pkg/log"
)

func auditContext() (context.Context, *bytes.Buffer) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)
	return log.WithLogger(context.Background(), logger), &buf
}

func decodeEntry(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("decode audit entry: %v", err)
	}
	return entry
}

func TestLogEmitsAuditFields(t *testing.T) {
	ctx, buf := auditContext()

	Log(ctx, ActionClearNotice, "admin-01", "notice cleared")

	entry := decodeEntry(t, buf)
	if got := entry[log.FieldLogType]; got != log.LogTypeAudit {
		t.Errorf("log_type = %v, want %q", got, log.LogTypeAudit)
	}
	if got := entry[FieldAction]; got != ActionClearNotice {
		t.Errorf("action = %v, want %q", got, ActionClearNotice)
	}
	if got := entry[log.FieldUserID]; got != "admin-01" {
		t.Errorf("user_id = %v, want admin-01", got)
	}
}

func TestLogWithDetailEmitsDetail(t *testing.T) {
	tests := []struct {
		name   string
		action string
		detail string
	}{
		{"reject", ActionReject, "app-42"},
		{"set notice", ActionSetNotice, "enrollment closes Friday"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, buf := auditContext()

			LogWithDetail(ctx, tt.action, "admin-01", tt.detail, "decision recorded")

			entry := decodeEntry(t, buf)
			if got := entry[FieldAction]; got != tt.action {
				t.Errorf("action = %v, want %q", got, tt.action)
			}
			if got := entry[FieldDetail]; got != tt.detail {
				t.Errorf("detail = %v, want %q", got, tt.detail)
			}
			if got := entry[log.FieldLogType]; got != log.LogTypeAudit {
				t.Errorf("log_type = %v, want %q", got, log.LogTypeAudit)
			}
		})
	}
}
