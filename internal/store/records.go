// internal/store/records.go

// Package store loads the service-record snapshot the engine filters.
// Postgres is the source of truth; a short-lived Redis cache absorbs
// the dashboard's polling rate.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"carwash-assistant/internal/common/database"
	qerrors "carwash-assistant/internal/common/errors"
	"carwash-assistant/internal/common/logger"
	"carwash-assistant/internal/common/metrics"
	"carwash-assistant/internal/models"
)

const snapshotKey = "assistant:snapshot"

const selectRecords = `
	SELECT id, license_plate, service_type, staff, date, total_price,
	       price_adjustment, vehicle_brand, vehicle_model, vehicle_color,
	       phone, notes, time_started, time_finished, is_active
	FROM service_records
	ORDER BY date DESC, time_started DESC NULLS LAST`

type RecordStore struct {
	pg    *database.PostgresClient
	redis *database.RedisClient
	ttl   time.Duration
	log   logger.Logger
}

// New builds a record store. redis may be nil, which disables caching.
func New(pg *database.PostgresClient, redis *database.RedisClient, ttl time.Duration, log logger.Logger) *RecordStore {
	return &RecordStore{pg: pg, redis: redis, ttl: ttl, log: log}
}

// Snapshot returns the current record set. Cache problems are silent
// fallthroughs to Postgres; rows with unparseable dates are dropped and
// reported as warnings rather than failing the whole load.
func (s *RecordStore) Snapshot(ctx context.Context) ([]models.ServiceRecord, []qerrors.QueryWarning, error) {
	if cached, ok := s.fromCache(ctx); ok {
		return cached, nil, nil
	}

	records, warnings, err := s.queryAll(ctx)
	if err != nil {
		return nil, warnings, err
	}

	metrics.SnapshotRecords.Set(float64(len(records)))
	s.toCache(ctx, records)
	return records, warnings, nil
}

func (s *RecordStore) queryAll(ctx context.Context) ([]models.ServiceRecord, []qerrors.QueryWarning, error) {
	rows, err := s.pg.Query(ctx, selectRecords)
	if err != nil {
		return nil, nil, fmt.Errorf("querying service records: %w", err)
	}
	defer rows.Close()

	var (
		records  []models.ServiceRecord
		warnings []qerrors.QueryWarning
	)
	for rows.Next() {
		r, rawDate, err := scanRecord(rows)
		if err != nil {
			return nil, warnings, fmt.Errorf("scanning service record: %w", err)
		}
		day, err := models.ParseDay(rawDate)
		if err != nil {
			warnings = append(warnings, qerrors.NewRecordDateWarning(r.ID, rawDate))
			continue
		}
		r.Date = day
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, warnings, fmt.Errorf("iterating service records: %w", err)
	}
	return records, warnings, nil
}

func scanRecord(rows *sql.Rows) (models.ServiceRecord, string, error) {
	var (
		r            models.ServiceRecord
		staff        sql.NullString
		rawDate      string
		brand        sql.NullString
		model        sql.NullString
		color        sql.NullString
		phone        sql.NullString
		notes        sql.NullString
		timeStarted  sql.NullTime
		timeFinished sql.NullTime
	)
	err := rows.Scan(
		&r.ID, &r.LicensePlate, &r.ServiceType, &staff, &rawDate,
		&r.TotalPrice, &r.PriceAdjustment, &brand, &model, &color,
		&phone, &notes, &timeStarted, &timeFinished, &r.IsActive,
	)
	if err != nil {
		return r, "", err
	}

	if staff.Valid && staff.String != "" {
		for _, id := range strings.Split(staff.String, ",") {
			if id = strings.TrimSpace(id); id != "" {
				r.Staff = append(r.Staff, id)
			}
		}
	}
	r.VehicleBrand = brand.String
	r.VehicleModel = model.String
	r.VehicleColor = color.String
	r.Phone = phone.String
	r.Notes = notes.String
	if timeStarted.Valid {
		t := timeStarted.Time
		r.TimeStarted = &t
	}
	if timeFinished.Valid {
		t := timeFinished.Time
		r.TimeFinished = &t
	}
	return r, rawDate, nil
}

func (s *RecordStore) fromCache(ctx context.Context) ([]models.ServiceRecord, bool) {
	if s.redis == nil {
		return nil, false
	}
	raw, err := s.redis.Get(ctx, snapshotKey)
	if err != nil {
		return nil, false
	}
	var records []models.ServiceRecord
	if err := json.Unmarshal([]byte(raw), &records); err != nil {
		s.log.Warn("discarding unreadable snapshot cache", map[string]interface{}{"error": err.Error()})
		return nil, false
	}
	return records, true
}

func (s *RecordStore) toCache(ctx context.Context, records []models.ServiceRecord) {
	if s.redis == nil {
		return
	}
	raw, err := json.Marshal(records)
	if err != nil {
		return
	}
	if err := s.redis.Set(ctx, snapshotKey, raw, s.ttl); err != nil {
		s.log.Warn("could not cache snapshot", map[string]interface{}{"error": err.Error()})
	}
}
