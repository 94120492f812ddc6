// Package analytics records one impression row per served ad request.
// Recording is best-effort: a storage failure is logged and counted, never
// surfaced to the caller.
package analytics

import (
	"context"
	"database/sql"
	"time"

	commonerrors "adserve-core/internal/common/errors"
	"adserve-core/internal/common/logger"
	"adserve-core/internal/common/metrics"
	"adserve-core/internal/models"

	"github.com/google/uuid"
)

const insertImpressionQuery = `
	INSERT INTO impressions (
		id, request_id, publisher_id, url, slot_id,
		device_type, viewport_width, viewport_height,
		match_count, enriched, created_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

// ImpressionStore writes impressions to Postgres.
type ImpressionStore struct {
	db     *sql.DB
	logger logger.Logger
}

func NewImpressionStore(db *sql.DB, log logger.Logger) *ImpressionStore {
	return &ImpressionStore{db: db, logger: log}
}

// Record inserts one impression row.
func (s *ImpressionStore) Record(ctx context.Context, imp *models.Impression) error {
	if imp.ID == "" {
		imp.ID = uuid.NewString()
	}
	if imp.CreatedAt.IsZero() {
		imp.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, insertImpressionQuery,
		imp.ID, imp.RequestID, imp.PublisherID, imp.URL, imp.SlotID,
		imp.DeviceType, imp.ViewportWidth, imp.ViewportHeight,
		imp.MatchCount, imp.Enriched, imp.CreatedAt,
	)
	if err != nil {
		s.logger.Error("Impression insert failed", map[string]interface{}{
			"requestId":   imp.RequestID,
			"publisherId": imp.PublisherID,
			"error":       err.Error(),
		})
		return commonerrors.NewImpressionInsertFailedError(err)
	}

	metrics.ImpressionsRecorded.Inc()
	return nil
}
