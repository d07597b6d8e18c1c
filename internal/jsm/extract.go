package jsm

// Envelope key priority lists. The list and detail endpoints wrap their
// payloads differently across API versions.
var (
	listKeys   = []string{"data", "values", "alerts"}
	singleKeys = []string{"data", "value", "alert"}
	markerKeys = []string{"id", "tinyId", "message", "status"}
)

// ExtractList returns the candidate alert objects from a list response
// envelope, filtered to map-shaped elements. An unrecognized envelope
// yields an empty slice, not an error; an empty refresh is valid.
func ExtractList(envelope map[string]any) []map[string]any {
	for _, key := range listKeys {
		list, ok := envelope[key].([]any)
		if !ok {
			continue
		}
		items := make([]map[string]any, 0, len(list))
		for _, item := range list {
			if m, ok := item.(map[string]any); ok {
				items = append(items, m)
			}
		}
		return items
	}
	return []map[string]any{}
}

// ExtractSingle returns the alert object from a detail response
// envelope, or nil when the envelope shape is unrecognizable. A bare
// alert object at the top level is accepted when it carries any of the
// usual alert fields.
func ExtractSingle(envelope map[string]any) map[string]any {
	for _, key := range singleKeys {
		if m, ok := envelope[key].(map[string]any); ok {
			return m
		}
	}

	if looksLikeAlert(envelope) {
		return envelope
	}
	return nil
}

func looksLikeAlert(payload map[string]any) bool {
	for _, key := range markerKeys {
		if _, ok := payload[key]; ok {
			return true
		}
	}
	return false
}
