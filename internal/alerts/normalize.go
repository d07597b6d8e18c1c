package alerts

import (
	"strings"
	"time"
)

// Source key priority lists for fallback resolution. The API returns a
// mix of field spellings depending on endpoint and alert origin; the
// first present, non-empty key wins.
var (
	createdAtKeys = []string{"createdAt", "created_at", "insertedAt", "lastOccurredAt"}
	ackedByKeys   = []string{"acknowledgedBy", "acknowledged_by", "acknowledgers", "acknowledgedByUser", "owner"}
	personSubKeys = []string{"fullName", "displayName", "name", "username", "email", "emailAddress"}
	tagKeys       = []string{"tags", "alertTags", "labels"}
	tagSubKeys    = []string{"name", "label", "value", "key"}
)

// Normalize converts a raw API payload into a canonical Alert. Missing
// optional fields never produce an error; an absent id yields an Alert
// with an empty ID, which the caller excludes from the store.
func Normalize(raw map[string]any) Alert {
	message := firstString(raw, "message", "alias")
	if message == "" {
		message = "(no message)"
	}

	description := firstString(raw, "description", "details")
	if description == "" {
		description = message
	}

	priority := strings.ToUpper(firstString(raw, "priority"))
	if priority == "" {
		priority = "UNKNOWN"
	}

	status := strings.ToLower(firstString(raw, "status"))
	if status == "" {
		status = "unknown"
	}

	return Alert{
		ID:          firstString(raw, "id", "tinyId"),
		Priority:    priority,
		Status:      status,
		Message:     message,
		Description: description,
		CreatedAt:   parseCreatedAt(raw),
		AckedBy:     resolveAckedBy(raw),
		Tags:        extractTags(raw),
	}
}

// firstString probes keys in order and returns the first present,
// non-empty string value.
func firstString(raw map[string]any, keys ...string) string {
	for _, key := range keys {
		if s, ok := raw[key].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

// parseCreatedAt resolves the creation timestamp through the ordered
// source keys. Parse failures degrade to nil, never to an error.
func parseCreatedAt(raw map[string]any) *time.Time {
	value := firstString(raw, createdAtKeys...)
	if value == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return nil
	}
	return &t
}

// resolveAckedBy resolves acknowledger information through the ordered
// source keys. The first key producing a non-empty resolved name wins;
// results from different keys are never merged.
func resolveAckedBy(raw map[string]any) string {
	name := "-"
	for _, key := range ackedByKeys {
		value, ok := raw[key]
		if !ok {
			continue
		}
		if resolved := personName(value); resolved != "" {
			name = resolved
			break
		}
	}
	return formatAckedBy(name)
}

// personName resolves a person value to a display name. Strings are
// trimmed as-is, mappings fall back through personSubKeys, and lists
// resolve each element recursively, deduplicated and joined with ", ".
func personName(value any) string {
	switch v := value.(type) {
	case string:
		return strings.TrimSpace(v)
	case map[string]any:
		return firstString(v, personSubKeys...)
	case []any:
		var names []string
		for _, item := range v {
			name := strings.TrimSpace(personName(item))
			if name == "" || name == "-" {
				continue
			}
			if !contains(names, name) {
				names = append(names, name)
			}
		}
		return strings.Join(names, ", ")
	}
	return ""
}

// formatAckedBy reduces email-address segments to their local part. The
// API reports acknowledgers by email in some payloads and by display
// name in others; the table column only has room for the short form.
func formatAckedBy(value string) string {
	var normalized []string
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if at := strings.Index(part, "@"); at >= 0 {
			local := strings.TrimSpace(part[:at])
			if local == "" {
				local = part
			}
			normalized = append(normalized, local)
			continue
		}
		normalized = append(normalized, part)
	}
	if len(normalized) == 0 {
		return "-"
	}
	return strings.Join(normalized, ", ")
}

// extractTags resolves tags from the first source key holding a
// non-empty list, deduplicated in first-seen order. Unresolvable
// elements are dropped.
func extractTags(raw map[string]any) []string {
	var tags []string
	for _, key := range tagKeys {
		list, ok := raw[key].([]any)
		if !ok {
			continue
		}
		for _, item := range list {
			tag := tagName(item)
			if tag != "" && !contains(tags, tag) {
				tags = append(tags, tag)
			}
		}
		if len(tags) > 0 {
			break
		}
	}
	return tags
}

func tagName(value any) string {
	switch v := value.(type) {
	case string:
		return strings.TrimSpace(v)
	case map[string]any:
		for _, key := range tagSubKeys {
			if s, ok := v[key].(string); ok {
				if trimmed := strings.TrimSpace(s); trimmed != "" {
					return trimmed
				}
			}
		}
	}
	return ""
}

func contains(values []string, target string) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}
