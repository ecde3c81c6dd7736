package analyzer

import (
	"fmt"

	"github.com/FileLanderScaner/ANALYZER/internal/models"
)

// MessageKind selects one of the fixed executive summaries.
type MessageKind int

const (
	// MessageTooShort - вход не прошёл порог минимальной длины
	MessageTooShort MessageKind = iota
	// MessageIncomplete - генерация не вернула пригодных данных
	MessageIncomplete
	// MessageComplete - модель не прислала собственное резюме
	MessageComplete
)

var labels = map[models.Locale]map[models.Source]string{
	models.LocaleEN: {
		models.SourceURL:        "URL",
		models.SourceServer:     "server description",
		models.SourceDatabase:   "database description",
		models.SourceSAST:       "code snippet (SAST)",
		models.SourceDAST:       "simulated DAST",
		models.SourceCloud:      "cloud configuration",
		models.SourceContainer:  "container",
		models.SourceDependency: "dependency file",
		models.SourceNetwork:    "network",
	},
	models.LocaleES: {
		models.SourceURL:        "URL",
		models.SourceServer:     "descripción del servidor",
		models.SourceDatabase:   "descripción de la base de datos",
		models.SourceSAST:       "fragmento de código (SAST)",
		models.SourceDAST:       "DAST simulado",
		models.SourceCloud:      "configuración de la nube",
		models.SourceContainer:  "contenedor",
		models.SourceDependency: "archivo de dependencias",
		models.SourceNetwork:    "red",
	},
}

var templates = map[models.Locale]map[MessageKind]string{
	models.LocaleEN: {
		MessageTooShort:   "The %s input is too short or missing. A meaningful security analysis cannot be performed.",
		MessageIncomplete: "The %s analysis could not be completed or returned no valid data.",
		MessageComplete:   "The %s analysis is complete. Review the findings for details.",
	},
	models.LocaleES: {
		MessageTooShort:   "La entrada de %s es demasiado breve o está ausente. No se puede realizar un análisis de seguridad significativo.",
		MessageIncomplete: "El análisis de %s no pudo completarse o no devolvió datos válidos.",
		MessageComplete:   "El análisis de %s está completo. Revise los hallazgos para obtener más detalles.",
	},
}

// Message returns the fixed summary of the given kind for source in locale.
// Unknown locales use English.
func Message(locale models.Locale, kind MessageKind, source models.Source) string {
	tpl, ok := templates[locale]
	if !ok {
		locale = models.LocaleEN
		tpl = templates[locale]
	}
	label, ok := labels[locale][source]
	if !ok {
		label = string(source)
	}
	return fmt.Sprintf(tpl[kind], label)
}

// Fallback is the deterministic empty result used for gated, empty and timed out analyses.
func Fallback(source models.Source, locale models.Locale, kind MessageKind) *models.CategoryAnalysisResult {
	res := &models.CategoryAnalysisResult{
		Findings:              []models.Finding{},
		OverallRiskAssessment: models.SeverityInformational,
		ExecutiveSummary:      Message(locale, kind, source),
	}
	if source == models.SourceURL {
		res.RiskCounters = &models.RiskCounters{}
	}
	return res
}
