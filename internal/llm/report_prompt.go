package llm

import (
	"fmt"

	"github.com/FileLanderScaner/ANALYZER/internal/models"
)

// ═══════════════════════════════════════════════════════════════════════════════
// Security Report Prompt
// ═══════════════════════════════════════════════════════════════════════════════

// ReportCategory is one performed category as the report model sees it.
type ReportCategory struct {
	Source                models.Source   `json:"source"`
	OverallRiskAssessment models.Severity `json:"overallRiskAssessment"`
	ExecutiveSummary      string          `json:"executiveSummary"`
	Findings              []ReportFinding `json:"findings"`
	*models.RiskCounters
}

type ReportRequest struct {
	AnalyzedTargetDescription string           `json:"analyzedTargetDescription,omitempty" jsonschema:"description=What was targeted for analysis"`
	Categories                []ReportCategory `json:"categories" jsonschema:"description=Results of every performed category"`
	OverallVulnerableFindings []ReportFinding  `json:"overallVulnerableFindings" jsonschema:"description=Combined list of all vulnerable findings"`
	Locale                    models.Locale    `json:"locale,omitempty"`
}

type ReportResponse struct {
	Report string `json:"report" jsonschema:"description=Comprehensive Markdown security report"`
}

// BuildSecurityReportPrompt creates the consolidated report prompt.
func BuildSecurityReportPrompt(req *ReportRequest) string {
	prompt := "You are a senior security consultant writing a consolidated security report in Markdown.\n\n"

	if req.AnalyzedTargetDescription != "" {
		prompt += fmt.Sprintf("Analyzed target: %s\n\n", req.AnalyzedTargetDescription)
	}

	prompt += "## Category results\n\n"
	for _, c := range req.Categories {
		prompt += fmt.Sprintf("### %s (overall risk: %s)\n", c.Source, c.OverallRiskAssessment)
		prompt += fmt.Sprintf("Summary: %s\n", c.ExecutiveSummary)
		prompt += fmt.Sprintf("Findings: %d\n\n", len(c.Findings))
	}

	prompt += "## Vulnerable findings\n\n"
	if len(req.OverallVulnerableFindings) == 0 {
		prompt += "None. State clearly that no vulnerabilities were identified and give hardening advice.\n\n"
	} else {
		prompt += formatJSON(req.OverallVulnerableFindings) + "\n\n"
	}

	prompt += `## Task
1. Start with an executive summary of the overall posture.
2. Detail each vulnerable finding grouped by source, with impact and remediation.
3. Add compliance considerations (OWASP Top 10, CIS, PCI DSS, GDPR where relevant).
4. Finish with prioritized recommendations.

Return a JSON object with a single "report" field containing the Markdown.
`
	prompt += languageInstruction(req.Locale)
	return prompt
}
