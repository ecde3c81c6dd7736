package driven

import (
	"context"
	"strings"

	"github.com/FileLanderScaner/ANALYZER/internal/llm"
	"github.com/FileLanderScaner/ANALYZER/internal/models"
)

// ReconcileSources fills a missing source on each finding by looking for a
// finding with the same description and vulnerability in the category results,
// in dispatch order. Findings with no match are tagged Unknown.
func ReconcileSources(findings []models.Finding, res *models.AggregateResult) []models.Finding {
	out := make([]models.Finding, len(findings))
	copy(out, findings)

	for i := range out {
		if out[i].Source != "" {
			continue
		}
		out[i].Source = lookupSource(out[i], res)
	}
	return out
}

func lookupSource(f models.Finding, res *models.AggregateResult) models.Source {
	for _, source := range models.CategoryOrder {
		cat := res.Category(source)
		if cat == nil {
			continue
		}
		for _, candidate := range cat.Findings {
			if candidate.Description == f.Description && candidate.Vulnerability == f.Vulnerability {
				return source
			}
		}
	}
	return models.SourceUnknown
}

// BuildReportRequest prepares the report input: performed categories in
// dispatch order and the reconciled vulnerable findings, all in complete shape.
func BuildReportRequest(res *models.AggregateResult, target string, locale models.Locale) *llm.ReportRequest {
	req := &llm.ReportRequest{
		AnalyzedTargetDescription: target,
		Categories:                []llm.ReportCategory{},
		OverallVulnerableFindings: []llm.ReportFinding{},
		Locale:                    locale,
	}

	for _, source := range res.PerformedCategories() {
		cat := res.Category(source)
		rc := llm.ReportCategory{
			Source:                source,
			OverallRiskAssessment: cat.OverallRiskAssessment,
			ExecutiveSummary:      cat.ExecutiveSummary,
			Findings:              make([]llm.ReportFinding, 0, len(cat.Findings)),
			RiskCounters:          cat.RiskCounters,
		}
		for _, f := range cat.Findings {
			if f.Source == "" {
				f.Source = source
			}
			rc.Findings = append(rc.Findings, llm.NewReportFinding(f))
		}
		req.Categories = append(req.Categories, rc)
	}

	vulnerable := ReconcileSources(models.VulnerableFindings(res.AllFindings), res)
	for _, f := range vulnerable {
		req.OverallVulnerableFindings = append(req.OverallVulnerableFindings, llm.NewReportFinding(f))
	}
	return req
}

// synthesizeReport always returns report text. The error is the generation
// failure, if any, for the accumulated error string.
func (p *Pipeline) synthesizeReport(ctx context.Context, res *models.AggregateResult, target string, locale models.Locale) (string, error) {
	req := BuildReportRequest(res, target, locale)

	fallback := message(locale, msgReportFallbackClean)
	if len(req.OverallVulnerableFindings) > 0 {
		fallback = message(locale, msgReportFallbackVulnerable)
	}

	out, err := p.reportFlow(ctx, req)
	if err != nil {
		p.log.WithError(err).Warn("⚠️ Report generation failed, using fallback text")
		return fallback, err
	}
	if out == nil || strings.TrimSpace(out.Report) == "" {
		p.log.Warn("⚠️ Report generation returned no text, using fallback")
		return fallback, nil
	}
	return out.Report, nil
}
