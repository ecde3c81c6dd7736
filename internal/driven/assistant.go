package driven

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/FileLanderScaner/ANALYZER/internal/llm"
	"github.com/FileLanderScaner/ANALYZER/internal/models"
)

// AskAssistant answers a free-form security question. An empty model answer
// becomes a localized fallback; generation failures are returned as errors.
func (p *Pipeline) AskAssistant(ctx context.Context, req *llm.AssistantRequest) (*llm.AssistantResponse, error) {
	if p.assistantFlow == nil {
		return nil, errors.New("assistant flow is not configured")
	}
	if len([]rune(strings.TrimSpace(req.UserMessage))) < minAssistantMessageLength {
		return nil, ErrEmptyMessage
	}

	in := *req
	in.Locale = models.ParseLocale(string(req.Locale), p.locale)

	out, err := p.assistantFlow(ctx, &in)
	if err != nil {
		p.log.WithError(err).Warn("⚠️ Assistant generation failed")
		return nil, fmt.Errorf("assistant: %w", err)
	}
	if out == nil || strings.TrimSpace(out.AIResponse) == "" {
		return &llm.AssistantResponse{AIResponse: message(in.Locale, msgAssistantFallback)}, nil
	}
	return out, nil
}

// ExportFindings renders findings as indented JSON. With nothing to export it
// returns a JSON object carrying a localized message instead.
func ExportFindings(findings []models.Finding, locale models.Locale) ([]byte, error) {
	if len(findings) == 0 {
		return json.MarshalIndent(map[string]string{"message": message(locale, msgNothingToExport)}, "", "  ")
	}
	return json.MarshalIndent(findings, "", "  ")
}
