package repository

import (
	"testing"
	"time"
)

func TestCommentCursorRoundTrip(t *testing.T) {
	// Sub-second precision must survive the round trip, or rows created in
	// the same second slip between pages.
	created := time.Date(2025, 6, 1, 12, 30, 0, 123456789, time.UTC)
	cursor := formatCommentCursor(created, 42)

	ts, id, err := parseCommentCursor(cursor)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if id != 42 {
		t.Errorf("id = %d, want 42", id)
	}
	if !ts.Equal(created) {
		t.Errorf("timestamp = %v, want %v", ts, created)
	}
	if ts.Nanosecond() != 123456789 {
		t.Errorf("nanoseconds = %d, want 123456789", ts.Nanosecond())
	}
}

func TestParseCommentCursor_Invalid(t *testing.T) {
	for _, cursor := range []string{"", "justone", "a:b", "1:2:3"} {
		if _, _, err := parseCommentCursor(cursor); err == nil {
			t.Errorf("parseCommentCursor(%q) should fail", cursor)
		}
	}
}
