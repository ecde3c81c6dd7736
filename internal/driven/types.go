package driven

import (
	"time"
)

// Constants for the analysis pipeline
const (
	// Record truncation limits (runes)
	maxTargetDescriptionLength = 250
	maxReportSummaryLength     = 500

	// Timeouts
	defaultCategoryTimeout = 90 * time.Second
	defaultPersistTimeout  = 10 * time.Second

	// Minimum trimmed length of an assistant message
	minAssistantMessageLength = 1
)

// Caller identifies who submitted the analysis. UserID is empty for anonymous
// callers; Entitled comes from the entitlement collaborator.
type Caller struct {
	UserID   string
	Entitled bool
}

// Authenticated reports whether the caller has an identity records can be stored under.
func (c Caller) Authenticated() bool {
	return c.UserID != ""
}
