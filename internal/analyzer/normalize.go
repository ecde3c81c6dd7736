package analyzer

import (
	"github.com/FileLanderScaner/ANALYZER/internal/llm"
	"github.com/FileLanderScaner/ANALYZER/internal/models"
)

// findingSeverity maps the model's severity onto the scale. Anything off the scale
// becomes Medium for vulnerable findings and Informational otherwise.
func findingSeverity(raw string, isVulnerable bool) models.Severity {
	if s, ok := models.ParseSeverity(raw); ok {
		return s
	}
	if isVulnerable {
		return models.SeverityMedium
	}
	return models.SeverityInformational
}

func toFinding(p llm.PromptFinding, source models.Source) models.Finding {
	return models.Finding{
		Source:             source,
		Vulnerability:      p.Vulnerability,
		Description:        p.Description,
		IsVulnerable:       p.IsVulnerable,
		Severity:           findingSeverity(p.Severity, p.IsVulnerable),
		CVSSScore:          p.CVSSScore,
		CVSSVector:         p.CVSSVector,
		BusinessImpact:     p.BusinessImpact,
		TechnicalDetails:   p.TechnicalDetails,
		Evidence:           p.Evidence,
		Remediation:        p.Remediation,
		FilePath:           p.FilePath,
		LineNumber:         p.LineNumber,
		CodeSnippetContext: p.CodeSnippetContext,
		SuggestedFix:       p.SuggestedFix,
		AffectedParameter:  p.AffectedParameter,
		RequestExample:     p.RequestExample,
		ResponseExample:    p.ResponseExample,
		CloudProvider:      p.CloudProvider,
		AffectedResource:   p.AffectedResource,
		ImageName:          p.ImageName,
		DependencyName:     p.DependencyName,
		DependencyVersion:  p.DependencyVersion,
		AffectedPort:       p.AffectedPort,
		AffectedProtocol:   p.AffectedProtocol,
	}
}

// CountRisk computes the URL counters over the vulnerable findings only.
// High includes Critical.
func CountRisk(findings []models.Finding) *models.RiskCounters {
	c := &models.RiskCounters{}
	for _, f := range findings {
		if !f.IsVulnerable {
			continue
		}
		c.VulnerableFindingsCount++
		switch f.Severity {
		case models.SeverityHigh, models.SeverityCritical:
			c.HighSeverityCount++
		case models.SeverityMedium:
			c.MediumSeverityCount++
		case models.SeverityLow:
			c.LowSeverityCount++
		}
	}
	return c
}

// normalize turns raw model output into a result for d.source.
func (d definition) normalize(out *llm.CategoryPromptOutput, sub *models.Submission, locale models.Locale) *models.CategoryAnalysisResult {
	findings := make([]models.Finding, 0, len(out.Findings))
	for _, p := range out.Findings {
		f := toFinding(p, d.source)
		if d.carryForward != nil {
			d.carryForward(&f, sub)
		}
		if d.counters {
			lockout := IsLockoutRisk(f.Vulnerability, f.IsVulnerable)
			f.PotentialForAccountLockout = &lockout
		}
		findings = append(findings, f)
	}

	risk, ok := models.ParseSeverity(out.OverallRiskAssessment)
	if !ok {
		risk = models.SeverityInformational
	}

	summary := out.ExecutiveSummary
	if summary == "" {
		summary = Message(locale, MessageComplete, d.source)
	}

	res := &models.CategoryAnalysisResult{
		Findings:              findings,
		OverallRiskAssessment: risk,
		ExecutiveSummary:      summary,
	}
	if d.counters {
		res.RiskCounters = CountRisk(findings)
	}
	return res
}
