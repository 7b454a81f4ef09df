package chat

import (
	"errors"
	"testing"
	"time"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestAppendAssignsSequenceAndTimestamp(t *testing.T) {
	l := NewLog()
	l.now = fixedClock(time.Date(2026, 3, 9, 9, 5, 42, 0, time.UTC))

	first, err := l.Append(RoleInstructor, "instr-01", "Instructor", "Welcome to class")
	if err != nil {
		t.Fatalf("Append: %v", err)
	}
	second, err := l.Append(RoleStudent, "std-2", "Zoya Ahmed", "Good morning")
	if err != nil {
		t.Fatalf("Append: %v", err)
	}

	if first.Seq != 1 || second.Seq != 2 {
		t.Fatalf("sequences = %d, %d, want 1, 2", first.Seq, second.Seq)
	}
	if first.Timestamp != "09:05" {
		t.Fatalf("timestamp = %q, want %q", first.Timestamp, "09:05")
	}
	if first.ID == "" || first.ID == second.ID {
		t.Fatalf("message IDs not unique: %q, %q", first.ID, second.ID)
	}
}

func TestAppendRejectsWhitespaceOnly(t *testing.T) {
	l := NewLog()

	for _, text := range []string{"", "   ", "\t\n"} {
		if _, err := l.Append(RoleStudent, "std-1", "Sana Fatima", text); !errors.Is(err, ErrEmptyMessage) {
			t.Fatalf("Append(%q) err = %v, want ErrEmptyMessage", text, err)
		}
	}
	if l.Len() != 0 {
		t.Fatalf("rejected messages were stored, len = %d", l.Len())
	}
}

func TestAppendTrimsText(t *testing.T) {
	l := NewLog()

	msg, err := l.Append(RoleStudent, "std-1", "Sana Fatima", "  hello  ")
	if err != nil {
		t.Fatalf("Append: %v", err)
	}
	if msg.Text != "hello" {
		t.Fatalf("text = %q, want %q", msg.Text, "hello")
	}
}

func TestSameMinuteOrderedBySequence(t *testing.T) {
	l := NewLog()
	l.now = fixedClock(time.Date(2026, 3, 9, 9, 5, 0, 0, time.UTC))

	a, _ := l.Append(RoleStudent, "std-1", "Sana Fatima", "first")
	b, _ := l.Append(RoleStudent, "std-2", "Zoya Ahmed", "second")

	if a.Timestamp != b.Timestamp {
		t.Fatalf("timestamps differ within a fixed clock: %q vs %q", a.Timestamp, b.Timestamp)
	}
	if a.Seq >= b.Seq {
		t.Fatalf("sequence does not order same-minute messages: %d then %d", a.Seq, b.Seq)
	}
}

func TestTail(t *testing.T) {
	l := NewLog()
	for _, text := range []string{"one", "two", "three"} {
		if _, err := l.Append(RoleStudent, "std-1", "Sana Fatima", text); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}

	tail := l.Tail(2)
	if len(tail) != 2 || tail[0].Text != "two" || tail[1].Text != "three" {
		t.Fatalf("Tail(2) = %+v", tail)
	}
	if got := l.Tail(10); len(got) != 3 {
		t.Fatalf("Tail(10) returned %d messages, want 3", len(got))
	}
	if got := l.Tail(0); got != nil {
		t.Fatalf("Tail(0) = %+v, want nil", got)
	}
}
