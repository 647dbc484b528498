package prompt

import (
	"strings"

	"adstudio-backend/internal/models"
)

// TriggerPrompt builds the natural-language trigger for one CSV row. Fields
// are emitted as "Label: value" fragments in a fixed priority order and blank
// fields are skipped entirely. Skipping matters: an empty "Product: " fragment
// degrades the downstream assistant output.
func TriggerPrompt(row models.CSVRow) string {
	fields := []struct {
		label string
		value string
	}{
		{"Product", row.Product},
		{"Variant", row.Variant},
		{"Size", row.Size},
		{"Region", row.Region},
		{"Theme", row.Theme},
		{"Additional Comments", row.AdditionalComments},
	}

	fragments := make([]string, 0, len(fields))
	for _, f := range fields {
		value := strings.TrimSpace(f.value)
		if value == "" {
			continue
		}
		fragments = append(fragments, f.label+": "+value)
	}

	return strings.Join(fragments, ", ")
}
