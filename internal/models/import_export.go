package models

type ImportStatus string

const (
	ImportCompleted        ImportStatus = "completed"
	ImportValidationFailed ImportStatus = "validation_failed"
)

// ImportValidationError points at the spreadsheet cell that could not be read.
type ImportValidationError struct {
	Sheet   string `json:"sheet"`
	Row     int    `json:"row"`
	Column  string `json:"column"`
	Message string `json:"message"`
	Value   string `json:"value"`
}

// ImportSummary is returned after a workbook has been turned into a draft.
type ImportSummary struct {
	Status        ImportStatus            `json:"status"`
	ModuleCount   int                     `json:"module_count"`
	QuestionCount int                     `json:"question_count"`
	Errors        []ImportValidationError `json:"errors"`
	Draft         *CourseForm             `json:"draft,omitempty"`
}
