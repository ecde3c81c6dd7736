package websocket

import "github.com/FileLanderScaner/ANALYZER/internal/models"

// Event types sent while a submission is analyzed
const (
	EventAnalysisStarted   = "analysis_started"
	EventCategoryCompleted = "category_completed"
	EventCategoryFailed    = "category_failed"
	EventReportReady       = "report_ready"
	EventAnalysisCompleted = "analysis_completed"
)

// AnalysisStartedDTO is sent once the categories to run are known
type AnalysisStartedDTO struct {
	AnalysisID string          `json:"analysis_id"`
	Categories []models.Source `json:"categories"`
}

// CategoryDTO reports one finished category; Error is set only for failures
type CategoryDTO struct {
	AnalysisID string          `json:"analysis_id"`
	Category   models.Source   `json:"category"`
	Findings   int             `json:"findings"`
	Risk       models.Severity `json:"risk,omitempty"`
	Error      string          `json:"error,omitempty"`
}

type ReportReadyDTO struct {
	AnalysisID string `json:"analysis_id"`
}

// AnalysisCompletedDTO closes the event stream of one analysis
type AnalysisCompletedDTO struct {
	AnalysisID string `json:"analysis_id"`
	Findings   int    `json:"findings"`
	Vulnerable int    `json:"vulnerable"`
	Error      string `json:"error,omitempty"`
}
