package storage

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/FileLanderScaner/ANALYZER/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func record(id, user string, created time.Time) *models.AnalysisRecord {
	report := "report " + id
	return &models.AnalysisRecord{
		ID:                    id,
		UserID:                user,
		CreatedAt:             created,
		AnalysisType:          models.SourceURL,
		TargetDescription:     "URL: https://example.com",
		OverallRiskAssessment: models.SeverityMedium,
		FullReportData:        &models.ReportData{AllFindings: []models.Finding{}, ReportText: &report},
	}
}

func TestMemoryStorageRecords(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStorage(nil)
	base := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		require.NoError(t, s.InsertRecord(ctx, record(fmt.Sprintf("r%d", i), "alice", base.Add(time.Duration(i)*time.Minute))))
	}
	require.NoError(t, s.InsertRecord(ctx, record("other", "bob", base)))

	list, err := s.ListRecords(ctx, "alice", 0)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "r2", list[0].ID, "newest first")
	assert.Equal(t, "r0", list[2].ID)
	for _, rec := range list {
		assert.Nil(t, rec.FullReportData, "list carries summaries only")
	}

	limited, err := s.ListRecords(ctx, "alice", 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)

	got, err := s.GetRecord(ctx, "alice", "r1")
	require.NoError(t, err)
	require.NotNil(t, got.FullReportData)
	assert.Equal(t, "report r1", *got.FullReportData.ReportText)

	_, err = s.GetRecord(ctx, "bob", "r1")
	assert.ErrorIs(t, err, ErrNotFound, "records are scoped to their owner")

	empty, err := s.ListRecords(ctx, "carol", 10)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestMemoryStorageRejectsInvalidRecords(t *testing.T) {
	s := NewMemoryStorage(nil)

	tests := []*models.AnalysisRecord{
		nil,
		{UserID: "u"},
		{ID: "x"},
	}
	for _, rec := range tests {
		assert.ErrorIs(t, s.InsertRecord(context.Background(), rec), ErrInvalidInput)
	}
}

func TestMemoryStorageEntitlement(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStorage([]string{"vip"})

	tests := []struct {
		name   string
		userID string
		setup  func()
		want   bool
	}{
		{"anonymous", "", nil, false},
		{"allow-listed", "vip", nil, true},
		{"no profile", "alice", nil, false},
		{"premium profile", "bob", func() { _ = s.SetSubscription(ctx, "bob", models.SubscriptionActivePremium) }, true},
		{"lapsed profile", "carol", func() { _ = s.SetSubscription(ctx, "carol", "cancelled") }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.setup != nil {
				tt.setup()
			}
			got, err := s.IsEntitled(ctx, tt.userID)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReportKey(t *testing.T) {
	assert.Equal(t, "analyses/user-1/abc.json", ReportKey("user-1", "abc"))
}
