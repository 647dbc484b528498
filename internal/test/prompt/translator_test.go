package prompt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"adstudio-backend/internal/models"
	"adstudio-backend/internal/prompt"
)

func TestTriggerPrompt_AllFields(t *testing.T) {
	row := models.CSVRow{
		Product:            "Citrus Soda",
		Variant:            "Zero Sugar",
		Size:               "330ml",
		Region:             "LATAM",
		Theme:              "Summer",
		AdditionalComments: "beach setting",
	}

	assert.Equal(t,
		"Product: Citrus Soda, Variant: Zero Sugar, Size: 330ml, Region: LATAM, Theme: Summer, Additional Comments: beach setting",
		prompt.TriggerPrompt(row))
}

func TestTriggerPrompt_SkipsBlankFields(t *testing.T) {
	row := models.CSVRow{
		Product: "Citrus Soda",
		Variant: "   ",
		Region:  "EMEA",
	}

	assert.Equal(t, "Product: Citrus Soda, Region: EMEA", prompt.TriggerPrompt(row))
}

func TestTriggerPrompt_EmptyRow(t *testing.T) {
	assert.Equal(t, "", prompt.TriggerPrompt(models.CSVRow{}))
}
