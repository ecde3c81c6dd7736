package models

import "strings"

// Source - категория анализа, из которой пришла находка
type Source string

const (
	SourceURL        Source = "URL"
	SourceServer     Source = "Server"
	SourceDatabase   Source = "Database"
	SourceSAST       Source = "SAST"
	SourceDAST       Source = "DAST"
	SourceCloud      Source = "Cloud"
	SourceContainer  Source = "Container"
	SourceDependency Source = "Dependency"
	SourceNetwork    Source = "Network"
	SourceUnknown    Source = "Unknown"
)

// CategoryOrder is the fixed dispatch and merge order of the nine categories.
var CategoryOrder = []Source{
	SourceURL,
	SourceServer,
	SourceDatabase,
	SourceSAST,
	SourceDAST,
	SourceCloud,
	SourceContainer,
	SourceDependency,
	SourceNetwork,
}

// Valid reports whether s is one of the nine category tags or Unknown.
func (s Source) Valid() bool {
	if s == SourceUnknown {
		return true
	}
	for _, c := range CategoryOrder {
		if s == c {
			return true
		}
	}
	return false
}

// Severity - единая пятиуровневая шкала риска
type Severity string

const (
	SeverityInformational Severity = "Informational"
	SeverityLow           Severity = "Low"
	SeverityMedium        Severity = "Medium"
	SeverityHigh          Severity = "High"
	SeverityCritical      Severity = "Critical"
)

var severityRank = map[Severity]int{
	SeverityInformational: 0,
	SeverityLow:           1,
	SeverityMedium:        2,
	SeverityHigh:          3,
	SeverityCritical:      4,
}

// Rank orders severities from Informational (0) to Critical (4). Unknown values rank -1.
func (s Severity) Rank() int {
	if r, ok := severityRank[s]; ok {
		return r
	}
	return -1
}

func (s Severity) Valid() bool {
	return s.Rank() >= 0
}

// ParseSeverity matches raw case-insensitively; ok is false for anything off the scale.
func ParseSeverity(raw string) (Severity, bool) {
	trimmed := strings.TrimSpace(raw)
	for s := range severityRank {
		if strings.EqualFold(string(s), trimmed) {
			return s, true
		}
	}
	return "", false
}

// Finding - единая запись находки для всех категорий.
// Поля конкретных категорий заполняются только своей категорией.
type Finding struct {
	Source        Source   `json:"source"`
	Vulnerability string   `json:"vulnerability"`
	Description   string   `json:"description"`
	IsVulnerable  bool     `json:"isVulnerable"`
	Severity      Severity `json:"severity"`

	CVSSScore        *float64 `json:"cvssScore,omitempty"`
	CVSSVector       string   `json:"cvssVector,omitempty"`
	BusinessImpact   string   `json:"businessImpact,omitempty"`
	TechnicalDetails string   `json:"technicalDetails,omitempty"`
	Evidence         string   `json:"evidence,omitempty"`
	Remediation      string   `json:"remediation"`

	// URL
	PotentialForAccountLockout *bool `json:"potentialForAccountLockout,omitempty"`

	// SAST
	FilePath           string `json:"filePath,omitempty"`
	LineNumber         *int   `json:"lineNumber,omitempty"`
	CodeSnippetContext string `json:"codeSnippetContext,omitempty"`
	SuggestedFix       string `json:"suggestedFix,omitempty"`

	// DAST
	AffectedParameter string `json:"affectedParameter,omitempty"`
	RequestExample    string `json:"requestExample,omitempty"`
	ResponseExample   string `json:"responseExample,omitempty"`

	// Cloud
	CloudProvider    string `json:"cloudProvider,omitempty"`
	AffectedResource string `json:"affectedResource,omitempty"`

	// Container
	ImageName string `json:"imageName,omitempty"`

	// Dependency
	DependencyName    string `json:"dependencyName,omitempty"`
	DependencyVersion string `json:"dependencyVersion,omitempty"`

	// Network
	AffectedPort     string `json:"affectedPort,omitempty"`
	AffectedProtocol string `json:"affectedProtocol,omitempty"`
}

// VulnerableFindings keeps only findings with IsVulnerable set, preserving order.
func VulnerableFindings(findings []Finding) []Finding {
	out := make([]Finding, 0, len(findings))
	for _, f := range findings {
		if f.IsVulnerable {
			out = append(out, f)
		}
	}
	return out
}
