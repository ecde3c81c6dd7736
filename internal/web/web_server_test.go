package web

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/FileLanderScaner/ANALYZER/internal/config"
	"github.com/FileLanderScaner/ANALYZER/internal/driven"
	"github.com/FileLanderScaner/ANALYZER/internal/llm"
	"github.com/FileLanderScaner/ANALYZER/internal/logger"
	"github.com/FileLanderScaner/ANALYZER/internal/models"
	"github.com/FileLanderScaner/ANALYZER/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePipeline struct {
	lastSub    *models.Submission
	lastCaller driven.Caller
	result     *models.AggregateResult

	assistantResp *llm.AssistantResponse
	assistantErr  error
}

func (f *fakePipeline) RunAll(_ context.Context, sub *models.Submission, caller driven.Caller) *models.AggregateResult {
	f.lastSub = sub
	f.lastCaller = caller
	return f.result
}

func (f *fakePipeline) AskAssistant(_ context.Context, _ *llm.AssistantRequest) (*llm.AssistantResponse, error) {
	return f.assistantResp, f.assistantErr
}

func newTestServer(t *testing.T, p *fakePipeline, store *storage.MemoryStorage) http.Handler {
	t.Helper()
	cfg := &config.Config{Pipeline: config.PipelineConfig{Locale: "en"}}
	return NewServer(cfg, p, store, nil, logger.Discard()).Handler()
}

func do(h http.Handler, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHandleAnalyzeResolvesCaller(t *testing.T) {
	store := storage.NewMemoryStorage([]string{"vip"})
	p := &fakePipeline{result: &models.AggregateResult{AllFindings: []models.Finding{}}}
	h := newTestServer(t, p, store)

	tests := []struct {
		name     string
		headers  map[string]string
		expected driven.Caller
	}{
		{"anonymous", nil, driven.Caller{}},
		{"authenticated", map[string]string{userIDHeader: "alice"}, driven.Caller{UserID: "alice"}},
		{"entitled", map[string]string{userIDHeader: " vip "}, driven.Caller{UserID: "vip", Entitled: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(h, http.MethodPost, "/api/analyze", `{"url":"https://example.com","locale":"es"}`, tt.headers)

			require.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, tt.expected, p.lastCaller)
			assert.Equal(t, "https://example.com", p.lastSub.URL)
			assert.Equal(t, models.LocaleES, p.lastSub.Locale)
			assert.Contains(t, rec.Body.String(), `"attackVectors":null`)
		})
	}
}

func TestHandleAnalyzeRejectsBadJSON(t *testing.T) {
	h := newTestServer(t, &fakePipeline{}, storage.NewMemoryStorage(nil))

	rec := do(h, http.MethodPost, "/api/analyze", `{"url":`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(h, http.MethodGet, "/api/analyze", "", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestHandleAssistant(t *testing.T) {
	p := &fakePipeline{assistantResp: &llm.AssistantResponse{AIResponse: "Use parameterized queries."}}
	h := newTestServer(t, p, storage.NewMemoryStorage(nil))

	rec := do(h, http.MethodPost, "/api/assistant", `{"userMessage":"how to fix SQLi?"}`, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"aiResponse":"Use parameterized queries."}`, rec.Body.String())

	p.assistantErr = driven.ErrEmptyMessage
	rec = do(h, http.MethodPost, "/api/assistant", `{"userMessage":""}`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	p.assistantErr = errors.New("assistant: quota exceeded")
	rec = do(h, http.MethodPost, "/api/assistant", `{"userMessage":"hi"}`, nil)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), "quota has been exceeded")
}

func TestHandleExport(t *testing.T) {
	h := newTestServer(t, &fakePipeline{}, storage.NewMemoryStorage(nil))

	rec := do(h, http.MethodPost, "/api/export", `{"findings":[],"locale":"es"}`, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"No hay hallazgos para exportar."}`, rec.Body.String())
	assert.Empty(t, rec.Header().Get("Content-Disposition"))

	rec = do(h, http.MethodPost, "/api/export", `{"findings":[{"vulnerability":"XSS","source":"DAST","isVulnerable":true,"severity":"High"}]}`, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "findings.json")

	var findings []models.Finding
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &findings))
	require.Len(t, findings, 1)
	assert.Equal(t, models.SourceDAST, findings[0].Source)
}

func TestHandleAnalyses(t *testing.T) {
	store := storage.NewMemoryStorage(nil)
	report := "report"
	require.NoError(t, store.InsertRecord(context.Background(), &models.AnalysisRecord{
		ID:                    "rec-1",
		UserID:                "alice",
		CreatedAt:             time.Now(),
		AnalysisType:          models.SourceSAST,
		TargetDescription:     "Code (go)",
		OverallRiskAssessment: models.SeverityHigh,
		FullReportData:        &models.ReportData{AllFindings: []models.Finding{}, ReportText: &report},
	}))
	h := newTestServer(t, &fakePipeline{}, store)

	rec := do(h, http.MethodGet, "/api/analyses", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(h, http.MethodGet, "/api/analyses", "", map[string]string{userIDHeader: "alice"})
	require.Equal(t, http.StatusOK, rec.Code)
	var list []models.AnalysisRecord
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Nil(t, list[0].FullReportData)

	rec = do(h, http.MethodGet, "/api/analyses/rec-1", "", map[string]string{userIDHeader: "alice"})
	require.Equal(t, http.StatusOK, rec.Code)
	var got models.AnalysisRecord
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.NotNil(t, got.FullReportData)
	assert.Equal(t, "report", *got.FullReportData.ReportText)

	rec = do(h, http.MethodGet, "/api/analyses/rec-1", "", map[string]string{userIDHeader: "bob"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCORSAndHealth(t *testing.T) {
	h := newTestServer(t, &fakePipeline{}, storage.NewMemoryStorage(nil))

	rec := do(h, http.MethodOptions, "/api/analyze", "", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Headers"), userIDHeader)

	rec = do(h, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}
