package app

import (
	"regexp"
	"strings"
)

// Alert descriptions often carry a runbook link in one of three forms:
// a markdown link whose text mentions "runbook", a plain
// "runbook: <url>" label, or just a bare URL somewhere in the text.
var (
	urlPattern             = regexp.MustCompile(`https?://[^\s<>)]+`)
	runbookMarkdownPattern = regexp.MustCompile(`(?i)\[[^\]]*runbook[^\]]*\]\((https?://[^)\s]+)\)`)
	runbookPlainPattern    = regexp.MustCompile(`(?i)runbook\s*[:=-]?\s*(https?://[^\s<>)]+)`)
)

// extractRunbookURL finds the most likely runbook URL in a description,
// preferring an explicit runbook markdown link, then a labeled plain
// URL, then the first URL in the text. Returns "" when there is none.
func extractRunbookURL(text string) string {
	if m := runbookMarkdownPattern.FindStringSubmatch(text); m != nil {
		return cleanURL(m[1])
	}
	if m := runbookPlainPattern.FindStringSubmatch(text); m != nil {
		return cleanURL(m[1])
	}
	if m := urlPattern.FindString(text); m != "" {
		return cleanURL(m)
	}
	return ""
}

// cleanURL strips trailing sentence punctuation that regex matching
// drags along.
func cleanURL(url string) string {
	return strings.TrimRight(url, ".,;:")
}
