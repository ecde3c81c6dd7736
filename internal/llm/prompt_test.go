package llm

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/FileLanderScaner/ANALYZER/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildCategoryPrompt(t *testing.T) {
	tests := []struct {
		name     string
		req      *CategoryRequest
		contains []string
	}{
		{
			name:     "url",
			req:      &CategoryRequest{Category: models.SourceURL, URL: "http://example.com/register"},
			contains: []string{"http://example.com/register", "CAPTCHA", "in English"},
		},
		{
			name:     "sast language and code",
			req:      &CategoryRequest{Category: models.SourceSAST, Language: "python", Description: "eval(input())"},
			contains: []string{"Language: python", "eval(input())", "suggestedFix"},
		},
		{
			name:     "sast without language",
			req:      &CategoryRequest{Category: models.SourceSAST, Description: "x = 1"},
			contains: []string{"Language: unknown"},
		},
		{
			name:     "dast default profile",
			req:      &CategoryRequest{Category: models.SourceDAST, TargetURL: "https://app.test"},
			contains: []string{"https://app.test", "Scan profile: Quick"},
		},
		{
			name:     "cloud with region",
			req:      &CategoryRequest{Category: models.SourceCloud, CloudProvider: "AWS", Region: "eu-west-1", Description: "public S3 bucket"},
			contains: []string{"Provider: AWS", "Region: eu-west-1", "public S3 bucket"},
		},
		{
			name:     "container parts",
			req:      &CategoryRequest{Category: models.SourceContainer, ImageName: "nginx:1.19", Dockerfile: "FROM nginx"},
			contains: []string{"Image: nginx:1.19", "FROM nginx"},
		},
		{
			name:     "network scan only",
			req:      &CategoryRequest{Category: models.SourceNetwork, ScanResults: "22/tcp open ssh"},
			contains: []string{"22/tcp open ssh", "affectedPort"},
		},
		{
			name:     "spanish locale",
			req:      &CategoryRequest{Category: models.SourceServer, Description: "Ubuntu 16.04", Locale: models.LocaleES},
			contains: []string{"Ubuntu 16.04", "in Spanish"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prompt := BuildCategoryPrompt(tt.req)
			for _, s := range tt.contains {
				assert.Contains(t, prompt, s)
			}
			assert.Contains(t, prompt, `"executiveSummary"`)
		})
	}
}

func TestBuildCategoryPromptOmitsEmptyNetworkParts(t *testing.T) {
	prompt := BuildCategoryPrompt(&CategoryRequest{Category: models.SourceNetwork, Description: "flat office LAN"})

	assert.NotContains(t, prompt, "Firewall rules:")
	assert.NotContains(t, prompt, "Scan results")
}

func TestNewReportFindingHasCompleteShape(t *testing.T) {
	f := models.Finding{
		Source:        models.SourceSAST,
		Vulnerability: "SQL Injection",
		Description:   "string concatenation in query",
		IsVulnerable:  true,
		Severity:      models.SeverityHigh,
		Remediation:   "use parameterized queries",
		FilePath:      "snippet.go",
	}

	raw, err := json.Marshal(NewReportFinding(f))
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(raw, &fields))

	// every optional field is present, absent ones as null
	for _, key := range []string{"cvssScore", "imageName", "affectedPort", "potentialForAccountLockout", "dependencyVersion"} {
		v, ok := fields[key]
		assert.True(t, ok, "missing %s", key)
		assert.Nil(t, v)
	}
	assert.Equal(t, "snippet.go", fields["filePath"])
	assert.Equal(t, "SAST", fields["source"])
}

func TestBuildSecurityReportPrompt(t *testing.T) {
	req := &ReportRequest{
		AnalyzedTargetDescription: "URL: http://example.com",
		Categories: []ReportCategory{
			{Source: models.SourceURL, OverallRiskAssessment: models.SeverityMedium, ExecutiveSummary: "one issue"},
		},
	}

	prompt := BuildSecurityReportPrompt(req)
	assert.Contains(t, prompt, "URL: http://example.com")
	assert.Contains(t, prompt, "### URL (overall risk: Medium)")
	assert.Contains(t, prompt, "no vulnerabilities were identified")
}

func TestBuildAssistantPromptKeepsRecentHistory(t *testing.T) {
	var history []ChatTurn
	for i := 0; i < maxHistoryTurns+5; i++ {
		history = append(history, ChatTurn{Sender: "user", Message: "msg-" + strings.Repeat("x", i)})
	}

	prompt := BuildAssistantPrompt(&AssistantRequest{UserMessage: "what is XSS?", ConversationHistory: history})

	assert.Contains(t, prompt, "User: what is XSS?")
	assert.NotContains(t, prompt, "user: msg-\n", "oldest turns are dropped")
	assert.Contains(t, prompt, "user: msg-"+strings.Repeat("x", maxHistoryTurns+4)+"\n")
}

func TestCategoryFlowName(t *testing.T) {
	assert.Equal(t, "analyzeUrlFlow", CategoryFlowName(models.SourceURL))
	assert.Equal(t, "analyzeSastFlow", CategoryFlowName(models.SourceSAST))
	assert.Equal(t, "analyzeDependencyFlow", CategoryFlowName(models.SourceDependency))
}

func TestTruncateString(t *testing.T) {
	assert.Equal(t, "abc", TruncateString("abc", 5))
	assert.Equal(t, "ab...", TruncateString("abcdefgh", 5))
	assert.Equal(t, "añ", TruncateString("añb", 2))
}
