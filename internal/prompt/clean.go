package prompt

import (
	"regexp"
	"strings"
)

// Assistant responses backed by a vector store carry citation markers of the
// form 【12:3†source.pdf】 (two colon-separated integers, a connector glyph and
// the source title, bracket-delimited). They must never reach the image model
// or the user.
var referencePattern = regexp.MustCompile(`[\[【]\d+:\d+†[^\]】]*[\]】]`)

// CleanReferences strips every citation marker from text and trims the result.
// Removal runs to a fixed point: stripping a nested marker can splice its
// surroundings into a new marker, so a single pass is not enough to make the
// function idempotent.
func CleanReferences(text string) string {
	if text == "" {
		return ""
	}

	cleaned := text
	for {
		next := referencePattern.ReplaceAllString(cleaned, "")
		if next == cleaned {
			break
		}
		cleaned = next
	}

	return strings.TrimSpace(cleaned)
}
