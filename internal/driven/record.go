package driven

import (
	"fmt"
	"strings"
	"time"

	"github.com/FileLanderScaner/ANALYZER/internal/llm"
	"github.com/FileLanderScaner/ANALYZER/internal/models"
)

// OverallRisk derives the record's risk level on the five-level scale: the
// highest severity among vulnerable findings, never below Low; without
// vulnerable findings, Informational if any Informational finding exists,
// otherwise Low.
func OverallRisk(findings []models.Finding) models.Severity {
	best := models.Severity("")
	hasVulnerable := false
	hasInformational := false

	for _, f := range findings {
		if f.Severity == models.SeverityInformational {
			hasInformational = true
		}
		if !f.IsVulnerable {
			continue
		}
		hasVulnerable = true
		if f.Severity.Rank() > best.Rank() {
			best = f.Severity
		}
	}

	switch {
	case best.Rank() > models.SeverityLow.Rank():
		return best
	case !hasVulnerable && hasInformational:
		return models.SeverityInformational
	default:
		return models.SeverityLow
	}
}

var targetLabels = map[models.Locale]map[models.Source]string{
	models.LocaleEN: {
		models.SourceServer:     "Server (description)",
		models.SourceDatabase:   "Database (description)",
		models.SourceSAST:       "Code (%s)",
		models.SourceCloud:      "Cloud (%s)",
		models.SourceContainer:  "Container (%s)",
		models.SourceDependency: "Dependencies (%s)",
		models.SourceNetwork:    "Network",
	},
	models.LocaleES: {
		models.SourceServer:     "Servidor (descripción)",
		models.SourceDatabase:   "Base de Datos (descripción)",
		models.SourceSAST:       "Código (%s)",
		models.SourceCloud:      "Nube (%s)",
		models.SourceContainer:  "Contenedor (%s)",
		models.SourceDependency: "Dependencias (%s)",
		models.SourceNetwork:    "Red",
	},
}

// TargetDescription summarizes what was submitted, e.g. "URL: https://x, Code (python)".
func TargetDescription(sub *models.Submission, locale models.Locale) string {
	labels, ok := targetLabels[locale]
	if !ok {
		labels = targetLabels[models.LocaleEN]
	}

	var parts []string
	for _, source := range sub.Requested() {
		switch source {
		case models.SourceURL:
			parts = append(parts, "URL: "+strings.TrimSpace(sub.URL))
		case models.SourceDAST:
			parts = append(parts, "DAST: "+strings.TrimSpace(sub.DASTTargetURL))
		case models.SourceSAST:
			parts = append(parts, fmt.Sprintf(labels[source], valueOr(sub.SASTLanguage, "?")))
		case models.SourceCloud:
			parts = append(parts, fmt.Sprintf(labels[source], sub.CloudProvider))
		case models.SourceContainer:
			parts = append(parts, fmt.Sprintf(labels[source], valueOr(sub.ContainerImageName, "Dockerfile/K8s")))
		case models.SourceDependency:
			parts = append(parts, fmt.Sprintf(labels[source], sub.DependencyFileType))
		default:
			parts = append(parts, labels[source])
		}
	}
	return strings.Join(parts, ", ")
}

func valueOr(v, def string) string {
	if v = strings.TrimSpace(v); v == "" {
		return def
	}
	return v
}

// BuildRecord derives the historical record of a finished analysis.
func BuildRecord(res *models.AggregateResult, target, userID string, now time.Time) *models.AnalysisRecord {
	performed := res.PerformedCategories()
	analysisType := models.SourceUnknown
	if len(performed) > 0 {
		analysisType = performed[0]
	}

	summary := ""
	if res.ReportText != nil {
		summary = llm.TruncateString(*res.ReportText, maxReportSummaryLength)
	}

	return &models.AnalysisRecord{
		UserID:                  userID,
		CreatedAt:               now.UTC(),
		AnalysisType:            analysisType,
		TargetDescription:       llm.TruncateString(target, maxTargetDescriptionLength),
		OverallRiskAssessment:   OverallRisk(res.AllFindings),
		VulnerableFindingsCount: len(models.VulnerableFindings(res.AllFindings)),
		ReportSummary:           summary,
		FullReportData: &models.ReportData{
			AllFindings:          res.AllFindings,
			ReportText:           res.ReportText,
			AttackVectors:        res.AttackVectors,
			RemediationPlaybooks: res.RemediationPlaybooks,
		},
	}
}
