package driven

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/FileLanderScaner/ANALYZER/internal/config"
	"github.com/FileLanderScaner/ANALYZER/internal/llm"
	"github.com/FileLanderScaner/ANALYZER/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOverallRisk(t *testing.T) {
	tests := []struct {
		name     string
		findings []models.Finding
		expected models.Severity
	}{
		{"no findings", nil, models.SeverityLow},
		{"only clean low", []models.Finding{{Severity: models.SeverityLow}}, models.SeverityLow},
		{"clean informational", []models.Finding{{Severity: models.SeverityInformational}}, models.SeverityInformational},
		{"critical wins", []models.Finding{
			{Severity: models.SeverityMedium, IsVulnerable: true},
			{Severity: models.SeverityCritical, IsVulnerable: true},
			{Severity: models.SeverityHigh, IsVulnerable: true},
		}, models.SeverityCritical},
		{"non-vulnerable critical ignored", []models.Finding{
			{Severity: models.SeverityCritical},
			{Severity: models.SeverityMedium, IsVulnerable: true},
		}, models.SeverityMedium},
		{"vulnerable informational floors at low", []models.Finding{{Severity: models.SeverityInformational, IsVulnerable: true}}, models.SeverityLow},
		{"vulnerable informational beside clean informational", []models.Finding{
			{Severity: models.SeverityInformational},
			{Severity: models.SeverityInformational, IsVulnerable: true},
		}, models.SeverityLow},
		{"vulnerable low", []models.Finding{{Severity: models.SeverityLow, IsVulnerable: true}}, models.SeverityLow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, OverallRisk(tt.findings))
		})
	}
}

func TestTargetDescription(t *testing.T) {
	sub := &models.Submission{
		URL:                    " https://shop.test ",
		CodeSnippet:            "print(1)",
		CloudProvider:          "Azure",
		CloudConfigDescription: "storage account public",
		DockerfileContent:      "FROM alpine",
		DependencyFileContent:  "requests==2.0",
		DependencyFileType:     "pip",
		NetworkScanResults:     "80/tcp open",
	}

	assert.Equal(t,
		"URL: https://shop.test, Code (?), Cloud (Azure), Container (Dockerfile/K8s), Dependencies (pip), Network",
		TargetDescription(sub, models.LocaleEN))
	assert.Equal(t,
		"URL: https://shop.test, Código (?), Nube (Azure), Contenedor (Dockerfile/K8s), Dependencias (pip), Red",
		TargetDescription(sub, models.LocaleES))
}

func TestBuildRecordTruncates(t *testing.T) {
	report := strings.Repeat("á", 700)
	res := &models.AggregateResult{
		AnalysisID:  "id-1",
		URLAnalysis: &models.CategoryAnalysisResult{},
		AllFindings: []models.Finding{
			{Vulnerability: "XSS", Severity: models.SeverityHigh, IsVulnerable: true, Source: models.SourceURL},
		},
		ReportText: &report,
	}
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.FixedZone("X", 3600))

	rec := BuildRecord(res, strings.Repeat("t", 400), "user-1", now)

	assert.Equal(t, "user-1", rec.UserID)
	assert.Equal(t, now.UTC(), rec.CreatedAt)
	assert.Equal(t, models.SourceURL, rec.AnalysisType)
	assert.Len(t, []rune(rec.TargetDescription), maxTargetDescriptionLength)
	assert.Len(t, []rune(rec.ReportSummary), maxReportSummaryLength)
	assert.True(t, strings.HasSuffix(rec.ReportSummary, "..."))
	assert.Equal(t, 1, rec.VulnerableFindingsCount)
	assert.Equal(t, models.SeverityHigh, rec.OverallRiskAssessment)
	require.NotNil(t, rec.FullReportData)
	assert.Equal(t, &report, rec.FullReportData.ReportText)
}

func TestUserFacingError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		locale   models.Locale
		expected string
	}{
		{"nil", nil, models.LocaleEN, ""},
		{"missing key sentinel", fmt.Errorf("init: %w", config.ErrMissingAPIKey), models.LocaleEN, message(models.LocaleEN, msgInvalidAPIKey)},
		{"placeholder key sentinel", config.ErrPlaceholderAPIKey, models.LocaleES, message(models.LocaleES, msgInvalidAPIKey)},
		{"provider invalid key", errors.New("googleapi: Error 400: API_KEY_INVALID"), models.LocaleEN, message(models.LocaleEN, msgInvalidAPIKey)},
		{"quota", errors.New("Error 429: Resource has been exhausted (e.g. check quota)"), models.LocaleEN, message(models.LocaleEN, msgQuota)},
		{"network", errors.New("Post \"https://api.openai.com\": dial tcp: connection refused"), models.LocaleES, message(models.LocaleES, msgNetwork)},
		{"malformed", errors.New("invalid character '<' looking for beginning of value"), models.LocaleEN, message(models.LocaleEN, msgMalformed)},
		{"no input", ErrNoInput, models.LocaleEN, message(models.LocaleEN, msgNoInput)},
		{"passthrough", errors.New("model refused the request"), models.LocaleEN, "model refused the request"},
		{"status code is word-bounded", errors.New("request 14290 rejected by model"), models.LocaleEN, "request 14290 rejected by model"},
		{"lowercase json is not a provider failure", errors.New("field payload must be json"), models.LocaleEN, "field payload must be json"},
		{"go json decode", errors.New("json: cannot unmarshal string into Go value of type int"), models.LocaleEN, message(models.LocaleEN, msgMalformed)},
		{"quota any case", errors.New("Quota exceeded for metric generate_content"), models.LocaleEN, message(models.LocaleEN, msgQuota)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, UserFacingError(tt.err, tt.locale))
		})
	}
}

func TestErrorLog(t *testing.T) {
	l := &errorLog{locale: models.LocaleEN}
	assert.Nil(t, l.result())

	l.add("SAST", errors.New("model refused the request"))
	l.addText("Report", "fallback used.")

	require.NotNil(t, l.result())
	assert.Equal(t, "SAST: model refused the request. Report: fallback used.", *l.result())
}

func TestExportFindings(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		raw, err := ExportFindings(nil, models.LocaleES)
		require.NoError(t, err)

		var body map[string]string
		require.NoError(t, json.Unmarshal(raw, &body))
		assert.Equal(t, "No hay hallazgos para exportar.", body["message"])
	})

	t.Run("findings", func(t *testing.T) {
		findings := []models.Finding{{Vulnerability: "SQLi", Source: models.SourceSAST, IsVulnerable: true, Severity: models.SeverityCritical}}
		raw, err := ExportFindings(findings, models.LocaleEN)
		require.NoError(t, err)

		var back []models.Finding
		require.NoError(t, json.Unmarshal(raw, &back))
		assert.Equal(t, findings, back)
		assert.Contains(t, string(raw), "\n  ")
	})
}

func TestAskAssistant(t *testing.T) {
	ai := newFakeAI()
	p := newTestPipeline(t, ai, Options{})

	t.Run("empty message", func(t *testing.T) {
		_, err := p.AskAssistant(context.Background(), &llm.AssistantRequest{UserMessage: "  "})
		assert.ErrorIs(t, err, ErrEmptyMessage)
	})

	t.Run("answer", func(t *testing.T) {
		out, err := p.AskAssistant(context.Background(), &llm.AssistantRequest{UserMessage: "what is CSRF?"})
		require.NoError(t, err)
		assert.Equal(t, "answer to what is CSRF?", out.AIResponse)
	})

	t.Run("empty answer falls back", func(t *testing.T) {
		p.assistantFlow = func(context.Context, *llm.AssistantRequest) (*llm.AssistantResponse, error) {
			return &llm.AssistantResponse{}, nil
		}
		out, err := p.AskAssistant(context.Background(), &llm.AssistantRequest{UserMessage: "hola", Locale: models.LocaleES})
		require.NoError(t, err)
		assert.Equal(t, message(models.LocaleES, msgAssistantFallback), out.AIResponse)
	})

	t.Run("generation error", func(t *testing.T) {
		boom := errors.New("boom")
		p.assistantFlow = func(context.Context, *llm.AssistantRequest) (*llm.AssistantResponse, error) {
			return nil, boom
		}
		_, err := p.AskAssistant(context.Background(), &llm.AssistantRequest{UserMessage: "hi"})
		assert.ErrorIs(t, err, boom)
	})
}
