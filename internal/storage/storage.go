package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/FileLanderScaner/ANALYZER/internal/models"
)

var (
	ErrNotFound     = errors.New("analysis record not found")
	ErrInvalidInput = errors.New("invalid record")
)

// Store persists analysis records and answers entitlement questions.
type Store interface {
	InsertRecord(ctx context.Context, rec *models.AnalysisRecord) error
	// ListRecords returns the user's records newest first, without full report data.
	ListRecords(ctx context.Context, userID string, limit int) ([]models.AnalysisRecord, error)
	GetRecord(ctx context.Context, userID, id string) (*models.AnalysisRecord, error)
	IsEntitled(ctx context.Context, userID string) (bool, error)
	SetSubscription(ctx context.Context, userID, status string) error
	Close()
}

const defaultListLimit = 50

func listLimit(limit int) int {
	if limit <= 0 || limit > 500 {
		return defaultListLimit
	}
	return limit
}

func validateRecord(rec *models.AnalysisRecord) error {
	switch {
	case rec == nil:
		return fmt.Errorf("%w: nil record", ErrInvalidInput)
	case rec.ID == "":
		return fmt.Errorf("%w: empty id", ErrInvalidInput)
	case rec.UserID == "":
		return fmt.Errorf("%w: empty user id", ErrInvalidInput)
	}
	return nil
}

// allowList grants entitlement statically, on top of stored subscriptions.
type allowList map[string]struct{}

func newAllowList(userIDs []string) allowList {
	l := make(allowList, len(userIDs))
	for _, id := range userIDs {
		if id != "" {
			l[id] = struct{}{}
		}
	}
	return l
}

func (l allowList) contains(userID string) bool {
	_, ok := l[userID]
	return ok
}
