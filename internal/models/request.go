package models

// CSVRow is one validated row from a bulk upload. Blank fields are allowed;
// the translator skips them when building the trigger prompt.
type CSVRow struct {
	Product            string `json:"Product"`
	Variant            string `json:"Variant"`
	Size               string `json:"Size"`
	Region             string `json:"Region"`
	Theme              string `json:"Theme"`
	AdditionalComments string `json:"Additional Comments,omitempty"`
}

// BulkCSVRequest carries the parsed CSV as raw column maps. The handler
// checks the header schema before anything is persisted and converts the maps
// into CSVRow values.
type BulkCSVRequest struct {
	CSVData     []map[string]string `json:"csvData"`
	Filename    string              `json:"filename,omitempty"`
	Department  string              `json:"department"`
	AspectRatio string              `json:"aspectRatio,omitempty" example:"1:1"`
	BatchSize   int                 `json:"batchSize,omitempty" example:"3"`
}

type GenerateRequest struct {
	Prompt      string `json:"prompt"`
	AspectRatio string `json:"aspectRatio,omitempty" example:"1:1"`
	Source      string `json:"source,omitempty" example:"manual"`
}

type EditImageRequest struct {
	Instruction string `json:"instruction"`
}

type JiraConnectRequest struct {
	OrgID    string `json:"orgId"`
	BaseURL  string `json:"baseUrl"`
	Username string `json:"username"`
	APIToken string `json:"apiToken"`
}

type JiraSyncRequest struct {
	OrgID string `json:"orgId"`
	JQL   string `json:"jql,omitempty"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
