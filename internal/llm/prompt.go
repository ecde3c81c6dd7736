package llm

import (
	"encoding/json"
	"fmt"

	"github.com/FileLanderScaner/ANALYZER/internal/models"
)

// ReportFinding is a Finding with every optional field present. Absent values
// serialize as null so the report model always sees the same shape.
type ReportFinding struct {
	Source        string `json:"source"`
	Vulnerability string `json:"vulnerability"`
	Description   string `json:"description"`
	IsVulnerable  bool   `json:"isVulnerable"`
	Severity      string `json:"severity"`
	Remediation   string `json:"remediation"`

	CVSSScore                  *float64 `json:"cvssScore"`
	CVSSVector                 *string  `json:"cvssVector"`
	BusinessImpact             *string  `json:"businessImpact"`
	TechnicalDetails           *string  `json:"technicalDetails"`
	Evidence                   *string  `json:"evidence"`
	PotentialForAccountLockout *bool    `json:"potentialForAccountLockout"`
	FilePath                   *string  `json:"filePath"`
	LineNumber                 *int     `json:"lineNumber"`
	CodeSnippetContext         *string  `json:"codeSnippetContext"`
	SuggestedFix               *string  `json:"suggestedFix"`
	AffectedParameter          *string  `json:"affectedParameter"`
	RequestExample             *string  `json:"requestExample"`
	ResponseExample            *string  `json:"responseExample"`
	CloudProvider              *string  `json:"cloudProvider"`
	AffectedResource           *string  `json:"affectedResource"`
	ImageName                  *string  `json:"imageName"`
	DependencyName             *string  `json:"dependencyName"`
	DependencyVersion          *string  `json:"dependencyVersion"`
	AffectedPort               *string  `json:"affectedPort"`
	AffectedProtocol           *string  `json:"affectedProtocol"`
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// NewReportFinding normalizes f into the complete field set.
func NewReportFinding(f models.Finding) ReportFinding {
	return ReportFinding{
		Source:                     string(f.Source),
		Vulnerability:              f.Vulnerability,
		Description:                f.Description,
		IsVulnerable:               f.IsVulnerable,
		Severity:                   string(f.Severity),
		Remediation:                f.Remediation,
		CVSSScore:                  f.CVSSScore,
		CVSSVector:                 optional(f.CVSSVector),
		BusinessImpact:             optional(f.BusinessImpact),
		TechnicalDetails:           optional(f.TechnicalDetails),
		Evidence:                   optional(f.Evidence),
		PotentialForAccountLockout: f.PotentialForAccountLockout,
		FilePath:                   optional(f.FilePath),
		LineNumber:                 f.LineNumber,
		CodeSnippetContext:         optional(f.CodeSnippetContext),
		SuggestedFix:               optional(f.SuggestedFix),
		AffectedParameter:          optional(f.AffectedParameter),
		RequestExample:             optional(f.RequestExample),
		ResponseExample:            optional(f.ResponseExample),
		CloudProvider:              optional(f.CloudProvider),
		AffectedResource:           optional(f.AffectedResource),
		ImageName:                  optional(f.ImageName),
		DependencyName:             optional(f.DependencyName),
		DependencyVersion:          optional(f.DependencyVersion),
		AffectedPort:               optional(f.AffectedPort),
		AffectedProtocol:           optional(f.AffectedProtocol),
	}
}

// formatJSON форматирует данные в читаемый JSON для промпта
func formatJSON(data interface{}) string {
	b, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Sprintf("%+v", data)
	}
	return string(b)
}

// TruncateString cuts s to maxLen runes, appending "..." when it had to cut.
func TruncateString(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}
