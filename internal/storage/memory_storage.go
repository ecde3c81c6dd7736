package storage

import (
	"context"
	"sort"
	"sync"

	"github.com/FileLanderScaner/ANALYZER/internal/models"
)

// MemoryStorage is the Store used when no database is configured.
// Records live only as long as the process.
type MemoryStorage struct {
	records  map[string]*models.AnalysisRecord
	profiles map[string]string
	premium  allowList
	mu       sync.RWMutex
}

func NewMemoryStorage(premiumUsers []string) *MemoryStorage {
	return &MemoryStorage{
		records:  make(map[string]*models.AnalysisRecord),
		profiles: make(map[string]string),
		premium:  newAllowList(premiumUsers),
	}
}

func (s *MemoryStorage) InsertRecord(_ context.Context, rec *models.AnalysisRecord) error {
	if err := validateRecord(rec); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	stored := *rec
	s.records[rec.ID] = &stored
	return nil
}

func (s *MemoryStorage) ListRecords(_ context.Context, userID string, limit int) ([]models.AnalysisRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records := []models.AnalysisRecord{}
	for _, rec := range s.records {
		if rec.UserID != userID {
			continue
		}
		summary := *rec
		summary.FullReportData = nil
		records = append(records, summary)
	}

	sort.Slice(records, func(i, j int) bool {
		if records[i].CreatedAt.Equal(records[j].CreatedAt) {
			return records[i].ID > records[j].ID
		}
		return records[i].CreatedAt.After(records[j].CreatedAt)
	})

	if n := listLimit(limit); len(records) > n {
		records = records[:n]
	}
	return records, nil
}

func (s *MemoryStorage) GetRecord(_ context.Context, userID, id string) (*models.AnalysisRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[id]
	if !ok || rec.UserID != userID {
		return nil, ErrNotFound
	}
	out := *rec
	return &out, nil
}

func (s *MemoryStorage) IsEntitled(_ context.Context, userID string) (bool, error) {
	if userID == "" {
		return false, nil
	}
	if s.premium.contains(userID) {
		return true, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.profiles[userID] == models.SubscriptionActivePremium, nil
}

func (s *MemoryStorage) SetSubscription(_ context.Context, userID, status string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[userID] = status
	return nil
}

func (s *MemoryStorage) Close() {}
