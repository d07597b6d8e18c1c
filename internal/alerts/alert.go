// Package alerts implements the canonical alert model, payload
// normalization, and the in-memory alert store with optimistic
// acknowledge/close reconciliation.
package alerts

import (
	"fmt"
	"strings"
	"time"
)

// Alert is the canonical alert record, independent of the shape of the
// source payload it was normalized from.
type Alert struct {
	// ID is the alert identity. An empty ID disqualifies the record
	// from store admission.
	ID string

	// Priority is the uppercased priority label ("UNKNOWN" when absent).
	Priority string

	// Status is the lowercased status ("unknown" when absent).
	Status string

	// Message is the display title.
	Message string

	// Description is the long-form body.
	Description string

	// CreatedAt is when the alert was created, nil when missing or
	// unparsable.
	CreatedAt *time.Time

	// AckedBy is the resolved acknowledger display string, "-" when no
	// acknowledger information exists. Never empty.
	AckedBy string

	// Tags is an ordered, duplicate-free tag list. May be empty.
	Tags []string
}

// Clone returns a structural copy of the alert. Rollback snapshots must
// never alias the live store entry.
func (a Alert) Clone() Alert {
	c := a
	if a.CreatedAt != nil {
		t := *a.CreatedAt
		c.CreatedAt = &t
	}
	if a.Tags != nil {
		c.Tags = append([]string(nil), a.Tags...)
	}
	return c
}

// IsOpen reports whether the alert is still open. Closed and resolved
// alerts are excluded from the list view.
func (a Alert) IsOpen() bool {
	return a.Status != "closed" && a.Status != "resolved"
}

// Age returns a human age string using the largest nonzero unit:
// "3d", "5h", or "12m". Returns "-" when the creation time is unknown.
func (a Alert) Age(now time.Time) string {
	if a.CreatedAt == nil {
		return "-"
	}

	elapsed := now.Sub(*a.CreatedAt)
	if elapsed < 0 {
		elapsed = 0
	}

	days := int(elapsed.Hours()) / 24
	hours := int(elapsed.Hours()) % 24
	minutes := int(elapsed.Minutes()) % 60

	if days > 0 {
		return fmt.Sprintf("%dd", days)
	}
	if hours > 0 {
		return fmt.Sprintf("%dh", hours)
	}
	return fmt.Sprintf("%dm", minutes)
}

// TagsDisplay returns the tags joined with ", ", or "-" when there are
// none.
func (a Alert) TagsDisplay() string {
	if len(a.Tags) == 0 {
		return "-"
	}
	return strings.Join(a.Tags, ", ")
}
