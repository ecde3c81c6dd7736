package driven

import "github.com/FileLanderScaner/ANALYZER/internal/models"

type messageKey int

const (
	msgNoInput messageKey = iota
	msgAllFailed
	msgReportFallbackVulnerable
	msgReportFallbackClean
	msgAttackVectorUnavailable
	msgPlaybookTitle
	msgPlaybookBody
	msgAssistantFallback
	msgNothingToExport
	msgInvalidAPIKey
	msgQuota
	msgNetwork
	msgMalformed
	msgUnexpected
	msgNotAvailable
	msgPersistFailed
)

var catalog = map[models.Locale]map[messageKey]string{
	models.LocaleEN: {
		msgNoInput:                  "Please provide at least one input (URL, descriptions, code, configuration, manifests, dependency file or network data) to analyze.",
		msgAllFailed:                "All requested analyses failed and no findings could be produced.",
		msgReportFallbackVulnerable: "Security analysis was performed, but the AI could not generate a formatted report. Review the individual findings below for details on the detected vulnerabilities.",
		msgReportFallbackClean:      "No vulnerabilities were detected in this scan, or the analysis could not generate a report. No report is needed.",
		msgAttackVectorUnavailable:  "The attack vector illustration could not be generated for this finding.",
		msgPlaybookTitle:            "Playbook not generated for: %s",
		msgPlaybookBody:             "The remediation playbook could not be generated for this vulnerability. Follow the remediation advice included in the finding and consult the official documentation of the affected component.",
		msgAssistantFallback:        "Sorry, I could not process your question right now. Please try again in a moment.",
		msgNothingToExport:          "No findings to export.",
		msgInvalidAPIKey:            "The AI service API key is missing, a placeholder or invalid. Check the server configuration.",
		msgQuota:                    "The AI service quota has been exceeded. Please try again later.",
		msgNetwork:                  "Could not reach the AI service. Check the network connection and try again.",
		msgMalformed:                "The AI service returned a malformed response. Please try again.",
		msgUnexpected:               "An unexpected error occurred.",
		msgNotAvailable:             "N/A",
		msgPersistFailed:            "The analysis could not be saved to your history. The results below are complete.",
	},
	models.LocaleES: {
		msgNoInput:                  "Proporcione al menos una entrada (URL, descripciones, código, configuración, manifiestos, archivo de dependencias o datos de red) para analizar.",
		msgAllFailed:                "Todos los análisis solicitados fallaron y no se obtuvieron hallazgos.",
		msgReportFallbackVulnerable: "Se realizó el análisis de seguridad, pero la IA no pudo generar un informe formateado. Revise los hallazgos individuales para conocer los detalles de las vulnerabilidades detectadas.",
		msgReportFallbackClean:      "No se detectaron vulnerabilidades en este análisis, o el análisis no pudo generar un informe. No se requiere informe.",
		msgAttackVectorUnavailable:  "No se pudo generar la ilustración del vector de ataque para este hallazgo.",
		msgPlaybookTitle:            "Playbook no generado para: %s",
		msgPlaybookBody:             "No se pudo generar el playbook de remediación para esta vulnerabilidad. Siga las recomendaciones de remediación del hallazgo y consulte la documentación oficial del componente afectado.",
		msgAssistantFallback:        "Lo siento, no pude procesar tu consulta en este momento. Inténtalo de nuevo en unos instantes.",
		msgNothingToExport:          "No hay hallazgos para exportar.",
		msgInvalidAPIKey:            "La clave API del servicio de IA falta, es un marcador de posición o no es válida. Revise la configuración del servidor.",
		msgQuota:                    "Se ha excedido la cuota del servicio de IA. Inténtelo más tarde.",
		msgNetwork:                  "No se pudo contactar con el servicio de IA. Compruebe la conexión de red e inténtelo de nuevo.",
		msgMalformed:                "El servicio de IA devolvió una respuesta con formato incorrecto. Inténtelo de nuevo.",
		msgUnexpected:               "Ocurrió un error inesperado.",
		msgNotAvailable:             "N/D",
		msgPersistFailed:            "No se pudo guardar el análisis en su historial. Los resultados mostrados están completos.",
	},
}

func message(locale models.Locale, key messageKey) string {
	if m, ok := catalog[locale]; ok {
		return m[key]
	}
	return catalog[models.LocaleEN][key]
}
