package alerts

import (
	"testing"
	"time"
)

func TestNormalizeDefaults(t *testing.T) {
	alert := Normalize(map[string]any{})

	if alert.ID != "" {
		t.Errorf("expected empty id, got %q", alert.ID)
	}
	if alert.Priority != "UNKNOWN" {
		t.Errorf("expected UNKNOWN priority, got %q", alert.Priority)
	}
	if alert.Status != "unknown" {
		t.Errorf("expected unknown status, got %q", alert.Status)
	}
	if alert.Message != "(no message)" {
		t.Errorf("expected placeholder message, got %q", alert.Message)
	}
	if alert.Description != "(no message)" {
		t.Errorf("expected description to fall back to message, got %q", alert.Description)
	}
	if alert.CreatedAt != nil {
		t.Errorf("expected nil created_at, got %v", alert.CreatedAt)
	}
	if alert.AckedBy != "-" {
		t.Errorf("expected \"-\" acked_by, got %q", alert.AckedBy)
	}
	if len(alert.Tags) != 0 {
		t.Errorf("expected no tags, got %v", alert.Tags)
	}
}

func TestNormalizeFieldFallbacks(t *testing.T) {
	alert := Normalize(map[string]any{
		"tinyId":   "42",
		"alias":    "disk-full",
		"details":  "root volume at 98%",
		"priority": "p1",
		"status":   "OPEN",
	})

	if alert.ID != "42" {
		t.Errorf("expected tinyId fallback, got %q", alert.ID)
	}
	if alert.Message != "disk-full" {
		t.Errorf("expected alias fallback, got %q", alert.Message)
	}
	if alert.Description != "root volume at 98%" {
		t.Errorf("expected details fallback, got %q", alert.Description)
	}
	if alert.Priority != "P1" {
		t.Errorf("expected uppercased priority, got %q", alert.Priority)
	}
	if alert.Status != "open" {
		t.Errorf("expected lowercased status, got %q", alert.Status)
	}
}

func TestNormalizePrefersPrimaryKeys(t *testing.T) {
	alert := Normalize(map[string]any{
		"id":      "abc",
		"tinyId":  "42",
		"message": "primary",
		"alias":   "secondary",
	})

	if alert.ID != "abc" {
		t.Errorf("expected primary id key to win, got %q", alert.ID)
	}
	if alert.Message != "primary" {
		t.Errorf("expected primary message key to win, got %q", alert.Message)
	}
}

func TestNormalizeCreatedAt(t *testing.T) {
	alert := Normalize(map[string]any{"createdAt": "2026-08-20T10:30:00Z"})
	if alert.CreatedAt == nil {
		t.Fatal("expected created_at to parse")
	}
	want := time.Date(2026, 8, 20, 10, 30, 0, 0, time.UTC)
	if !alert.CreatedAt.Equal(want) {
		t.Errorf("expected %v, got %v", want, alert.CreatedAt)
	}

	alert = Normalize(map[string]any{"lastOccurredAt": "2026-08-20T10:30:00+02:00"})
	if alert.CreatedAt == nil {
		t.Fatal("expected lastOccurredAt fallback to parse")
	}

	alert = Normalize(map[string]any{"createdAt": "not a timestamp"})
	if alert.CreatedAt != nil {
		t.Errorf("expected unparsable timestamp to yield nil, got %v", alert.CreatedAt)
	}

	alert = Normalize(map[string]any{"createdAt": 12345})
	if alert.CreatedAt != nil {
		t.Errorf("expected non-string timestamp to yield nil, got %v", alert.CreatedAt)
	}
}

func TestTagExtraction(t *testing.T) {
	alert := Normalize(map[string]any{
		"tags": []any{
			map[string]any{"name": "payments"},
			map[string]any{"label": "p1"},
			map[string]any{"value": "payments"},
			map[string]any{"key": "backend"},
			map[string]any{"ignored": "x"},
		},
	})

	want := []string{"payments", "p1", "backend"}
	if len(alert.Tags) != len(want) {
		t.Fatalf("expected tags %v, got %v", want, alert.Tags)
	}
	for i, tag := range want {
		if alert.Tags[i] != tag {
			t.Errorf("tag %d: expected %q, got %q", i, tag, alert.Tags[i])
		}
	}
}

func TestTagExtractionDedupAndOrder(t *testing.T) {
	alert := Normalize(map[string]any{
		"tags": []any{"db", " web ", "db", "", map[string]any{"name": "web"}},
	})

	want := []string{"db", "web"}
	if len(alert.Tags) != len(want) {
		t.Fatalf("expected tags %v, got %v", want, alert.Tags)
	}
	for i, tag := range want {
		if alert.Tags[i] != tag {
			t.Errorf("tag %d: expected %q, got %q", i, tag, alert.Tags[i])
		}
	}
}

func TestTagExtractionKeyFallback(t *testing.T) {
	// alertTags is only consulted when tags yields nothing.
	alert := Normalize(map[string]any{
		"tags":      []any{map[string]any{"other": "x"}},
		"alertTags": []any{"infra"},
	})

	if len(alert.Tags) != 1 || alert.Tags[0] != "infra" {
		t.Errorf("expected alertTags fallback, got %v", alert.Tags)
	}
}

func TestAckedByResolution(t *testing.T) {
	alert := Normalize(map[string]any{
		"acknowledgedBy": []any{
			map[string]any{"fullName": "Jane Oncall"},
			map[string]any{"email": "sre@example.com"},
		},
	})

	if alert.AckedBy != "Jane Oncall, sre" {
		t.Errorf("expected \"Jane Oncall, sre\", got %q", alert.AckedBy)
	}
}

func TestAckedBySourceKeyOrder(t *testing.T) {
	// The first source key producing a non-empty result wins; keys are
	// never merged.
	alert := Normalize(map[string]any{
		"acknowledged_by": "First Responder",
		"owner":           "Second Responder",
	})
	if alert.AckedBy != "First Responder" {
		t.Errorf("expected first source key to win, got %q", alert.AckedBy)
	}

	alert = Normalize(map[string]any{
		"acknowledgedBy": []any{},
		"owner":          map[string]any{"username": "oncall"},
	})
	if alert.AckedBy != "oncall" {
		t.Errorf("expected empty key to be skipped, got %q", alert.AckedBy)
	}
}

func TestAckedByEmailLocalPart(t *testing.T) {
	alert := Normalize(map[string]any{
		"acknowledgedBy": "jane.doe@example.com",
	})
	if alert.AckedBy != "jane.doe" {
		t.Errorf("expected local part, got %q", alert.AckedBy)
	}
}

func TestAckedByDedup(t *testing.T) {
	alert := Normalize(map[string]any{
		"acknowledgers": []any{"oncall", map[string]any{"name": "oncall"}, "backup"},
	})
	if alert.AckedBy != "oncall, backup" {
		t.Errorf("expected deduplicated names, got %q", alert.AckedBy)
	}
}

func TestIsOpen(t *testing.T) {
	cases := []struct {
		status string
		open   bool
	}{
		{"open", true},
		{"acknowledged", true},
		{"unknown", true},
		{"closed", false},
		{"resolved", false},
	}
	for _, tc := range cases {
		alert := Alert{Status: tc.status}
		if alert.IsOpen() != tc.open {
			t.Errorf("status %q: expected IsOpen=%v", tc.status, tc.open)
		}
	}
}

func TestAge(t *testing.T) {
	now := time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		name    string
		created time.Time
		want    string
	}{
		{"days", now.Add(-48 * time.Hour), "2d"},
		{"hours", now.Add(-3 * time.Hour), "3h"},
		{"minutes", now.Add(-15 * time.Minute), "15m"},
		{"future clamps to zero", now.Add(time.Hour), "0m"},
		{"mixed uses largest unit", now.Add(-26 * time.Hour), "1d"},
	}
	for _, tc := range cases {
		created := tc.created
		alert := Alert{CreatedAt: &created}
		if got := alert.Age(now); got != tc.want {
			t.Errorf("%s: expected %q, got %q", tc.name, tc.want, got)
		}
	}

	if got := (Alert{}).Age(now); got != "-" {
		t.Errorf("expected \"-\" for unknown created_at, got %q", got)
	}
}

func TestTagsDisplay(t *testing.T) {
	if got := (Alert{}).TagsDisplay(); got != "-" {
		t.Errorf("expected \"-\" for no tags, got %q", got)
	}
	alert := Alert{Tags: []string{"db", "web"}}
	if got := alert.TagsDisplay(); got != "db, web" {
		t.Errorf("expected joined tags, got %q", got)
	}
}

func TestSortForDisplay(t *testing.T) {
	older := time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC)
	newer := time.Date(2026, 8, 23, 0, 0, 0, 0, time.UTC)

	alerts := []Alert{
		{ID: "no-time"},
		{ID: "older", CreatedAt: &older},
		{ID: "newer", CreatedAt: &newer},
	}
	SortForDisplay(alerts)

	want := []string{"newer", "older", "no-time"}
	for i, id := range want {
		if alerts[i].ID != id {
			t.Errorf("position %d: expected %q, got %q", i, id, alerts[i].ID)
		}
	}
}
