package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/FileLanderScaner/ANALYZER/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
)

const schema = `
CREATE TABLE IF NOT EXISTS user_profiles (
	id                  TEXT PRIMARY KEY,
	email               TEXT NOT NULL DEFAULT '',
	subscription_status TEXT NOT NULL DEFAULT 'free',
	updated_at          TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS analysis_records (
	id                        UUID PRIMARY KEY,
	user_id                   TEXT NOT NULL,
	created_at                TIMESTAMPTZ NOT NULL DEFAULT now(),
	analysis_type             TEXT NOT NULL,
	target_description        TEXT NOT NULL,
	overall_risk_assessment   TEXT NOT NULL,
	vulnerable_findings_count INT NOT NULL DEFAULT 0,
	report_summary            TEXT NOT NULL DEFAULT '',
	full_report_data          JSONB,
	blob_key                  TEXT
);

CREATE INDEX IF NOT EXISTS analysis_records_user_created_idx
	ON analysis_records (user_id, created_at DESC);
`

const blobCleanupTimeout = 10 * time.Second

// dbtx is the part of pgxpool.Pool the store uses.
type dbtx interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// reportBlobs is the part of BlobStore the store uses.
type reportBlobs interface {
	PutReport(ctx context.Context, key string, data *models.ReportData) error
	GetReport(ctx context.Context, key string) (*models.ReportData, error)
	RemoveReport(ctx context.Context, key string) error
}

// PostgresStore keeps records in Postgres. With a BlobStore attached the full
// report data goes to object storage and only its key is kept in the row.
type PostgresStore struct {
	db      dbtx
	close   func()
	blobs   reportBlobs
	premium allowList
	log     logrus.FieldLogger
}

func newPostgresStore(db dbtx, blobs reportBlobs, premiumUsers []string, log logrus.FieldLogger) *PostgresStore {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &PostgresStore{
		db:      db,
		close:   func() {},
		blobs:   blobs,
		premium: newAllowList(premiumUsers),
		log:     log.WithField("component", "postgres"),
	}
}

func OpenPostgres(ctx context.Context, url string, blobs *BlobStore, premiumUsers []string, log logrus.FieldLogger) (*PostgresStore, error) {
	p, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("open postgres pool: %w", err)
	}
	if err := p.Ping(ctx); err != nil {
		p.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	var rb reportBlobs
	if blobs != nil {
		rb = blobs
	}
	s := newPostgresStore(p, rb, premiumUsers, log)
	s.close = p.Close
	return s, nil
}

// EnsureSchema creates the tables the store needs.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

func (s *PostgresStore) InsertRecord(ctx context.Context, rec *models.AnalysisRecord) error {
	if err := validateRecord(rec); err != nil {
		return err
	}

	var inline *string
	var blobKey *string
	if rec.FullReportData != nil {
		if s.blobs != nil {
			key := ReportKey(rec.UserID, rec.ID)
			if err := s.blobs.PutReport(ctx, key, rec.FullReportData); err != nil {
				return err
			}
			blobKey = &key
			rec.BlobKey = key
		} else {
			raw, err := json.Marshal(rec.FullReportData)
			if err != nil {
				return fmt.Errorf("marshal report data: %w", err)
			}
			text := string(raw)
			inline = &text
		}
	}

	_, err := s.db.Exec(ctx, `
		INSERT INTO analysis_records (
			id, user_id, created_at, analysis_type, target_description,
			overall_risk_assessment, vulnerable_findings_count, report_summary,
			full_report_data, blob_key
		)
		VALUES ($1::uuid, $2, $3, $4, $5, $6, $7, $8, $9::jsonb, $10)
	`, rec.ID, rec.UserID, rec.CreatedAt, string(rec.AnalysisType), rec.TargetDescription,
		string(rec.OverallRiskAssessment), rec.VulnerableFindingsCount, rec.ReportSummary,
		inline, blobKey)
	if err != nil {
		if blobKey != nil {
			s.removeOrphan(ctx, *blobKey)
			rec.BlobKey = ""
		}
		return fmt.Errorf("insert analysis record %s: %w", rec.ID, err)
	}
	return nil
}

// removeOrphan deletes a report object whose row was never written. It runs
// even when ctx is already done, since that is the usual reason the insert failed.
func (s *PostgresStore) removeOrphan(ctx context.Context, key string) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), blobCleanupTimeout)
	defer cancel()

	if err := s.blobs.RemoveReport(ctx, key); err != nil {
		s.log.WithError(err).WithField("key", key).Warn("⚠️ Failed to remove orphaned report object")
	}
}

func (s *PostgresStore) ListRecords(ctx context.Context, userID string, limit int) ([]models.AnalysisRecord, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id::text, user_id, created_at, analysis_type, target_description,
		       overall_risk_assessment, vulnerable_findings_count, report_summary,
		       COALESCE(blob_key, '')
		FROM analysis_records
		WHERE user_id=$1
		ORDER BY created_at DESC
		LIMIT $2
	`, userID, listLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("list analysis records: %w", err)
	}
	defer rows.Close()

	records := []models.AnalysisRecord{}
	for rows.Next() {
		var rec models.AnalysisRecord
		var analysisType, risk string
		if err := rows.Scan(&rec.ID, &rec.UserID, &rec.CreatedAt, &analysisType, &rec.TargetDescription,
			&risk, &rec.VulnerableFindingsCount, &rec.ReportSummary, &rec.BlobKey); err != nil {
			return nil, err
		}
		rec.AnalysisType = models.Source(analysisType)
		rec.OverallRiskAssessment = models.Severity(risk)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

func (s *PostgresStore) GetRecord(ctx context.Context, userID, id string) (*models.AnalysisRecord, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrNotFound
	}

	row := s.db.QueryRow(ctx, `
		SELECT id::text, user_id, created_at, analysis_type, target_description,
		       overall_risk_assessment, vulnerable_findings_count, report_summary,
		       full_report_data, COALESCE(blob_key, '')
		FROM analysis_records
		WHERE id=$1::uuid AND user_id=$2
	`, id, userID)

	var rec models.AnalysisRecord
	var analysisType, risk string
	var inline []byte
	if err := row.Scan(&rec.ID, &rec.UserID, &rec.CreatedAt, &analysisType, &rec.TargetDescription,
		&risk, &rec.VulnerableFindingsCount, &rec.ReportSummary, &inline, &rec.BlobKey); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get analysis record %s: %w", id, err)
	}
	rec.AnalysisType = models.Source(analysisType)
	rec.OverallRiskAssessment = models.Severity(risk)

	switch {
	case len(inline) > 0:
		var data models.ReportData
		if err := json.Unmarshal(inline, &data); err != nil {
			return nil, fmt.Errorf("decode report data of %s: %w", id, err)
		}
		rec.FullReportData = &data
	case rec.BlobKey != "" && s.blobs != nil:
		data, err := s.blobs.GetReport(ctx, rec.BlobKey)
		if err != nil {
			// запись без тела лучше, чем 500
			s.log.WithError(err).WithField("key", rec.BlobKey).Warn("⚠️ Failed to load report data from blob storage")
			break
		}
		rec.FullReportData = data
	}
	return &rec, nil
}

func (s *PostgresStore) IsEntitled(ctx context.Context, userID string) (bool, error) {
	if userID == "" {
		return false, nil
	}
	if s.premium.contains(userID) {
		return true, nil
	}

	var status string
	err := s.db.QueryRow(ctx, `SELECT subscription_status FROM user_profiles WHERE id=$1`, userID).Scan(&status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("load profile %s: %w", userID, err)
	}
	return status == models.SubscriptionActivePremium, nil
}

func (s *PostgresStore) SetSubscription(ctx context.Context, userID, status string) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO user_profiles (id, subscription_status, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (id) DO UPDATE
		SET subscription_status=EXCLUDED.subscription_status, updated_at=now()
	`, userID, status)
	if err != nil {
		return fmt.Errorf("set subscription of %s: %w", userID, err)
	}
	return nil
}

func (s *PostgresStore) Close() {
	s.close()
}
