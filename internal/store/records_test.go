// internal/store/records_test.go
package store

import (
	"context"
	"testing"
	"time"

	"carwash-assistant/internal/common/database"
	qerrors "carwash-assistant/internal/common/errors"
	"carwash-assistant/internal/common/logger"
	"carwash-assistant/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

var recordColumns = []string{
	"id", "license_plate", "service_type", "staff", "date", "total_price",
	"price_adjustment", "vehicle_brand", "vehicle_model", "vehicle_color",
	"phone", "notes", "time_started", "time_finished", "is_active",
}

func newTestStore(t *testing.T, withCache bool) (*RecordStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	var rc *database.RedisClient
	if withCache {
		mr := miniredis.RunT(t)
		rc = &database.RedisClient{Client: redis.NewClient(&redis.Options{Addr: mr.Addr()})}
	}

	pg := &database.PostgresClient{DB: db}
	return New(pg, rc, 5*time.Second, logger.NewTestLogger(t)), mock
}

func fullRow(mock sqlmock.Sqlmock) *sqlmock.Rows {
	started := time.Date(2025, time.March, 13, 14, 0, 0, 0, time.UTC)
	return mock.NewRows(recordColumns).AddRow(
		"rec-1", "142TUN789", "lavage-ville", "bilal, ayoub", "2025-03-13",
		40.0, 0.0, "Jeep", "Wrangler", "gris", "21612345678", "rappel client",
		started, nil, true,
	)
}

// ==========================
// Snapshot Tests
// ==========================

func TestSnapshot_ScansAllFields(t *testing.T) {
	store, mock := newTestStore(t, false)
	mock.ExpectQuery("SELECT id, license_plate").WillReturnRows(fullRow(mock))

	records, warnings, err := store.Snapshot(context.Background())

	require.NoError(t, err)
	assert.Empty(t, warnings)
	require.Len(t, records, 1)

	r := records[0]
	assert.Equal(t, "rec-1", r.ID)
	assert.Equal(t, "142TUN789", r.LicensePlate)
	assert.Equal(t, models.ServiceLavageVille, r.ServiceType)
	assert.Equal(t, []string{"bilal", "ayoub"}, r.Staff)
	assert.True(t, r.Date.Equal(models.NewDay(2025, time.March, 13)))
	assert.Equal(t, 40.0, r.TotalPrice)
	assert.Equal(t, "Jeep", r.VehicleBrand)
	assert.Equal(t, "rappel client", r.Notes)
	require.NotNil(t, r.TimeStarted)
	assert.Nil(t, r.TimeFinished)
	assert.True(t, r.IsActive)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSnapshot_DropsRowsWithInvalidDates(t *testing.T) {
	store, mock := newTestStore(t, false)
	rows := fullRow(mock).AddRow(
		"rec-bad", "555ABC111", "interieur", "mehdi", "13/03/2025",
		15.0, 0.0, nil, nil, nil, nil, nil, nil, nil, false,
	)
	mock.ExpectQuery("SELECT id, license_plate").WillReturnRows(rows)

	records, warnings, err := store.Snapshot(context.Background())

	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "rec-1", records[0].ID)

	require.Len(t, warnings, 1)
	assert.Equal(t, qerrors.ErrCodeRecordDateInvalid, warnings[0].Code)
	assert.Contains(t, warnings[0].Message, "rec-bad")
}

func TestSnapshot_QueryErrorPropagates(t *testing.T) {
	store, mock := newTestStore(t, false)
	mock.ExpectQuery("SELECT id, license_plate").WillReturnError(assert.AnError)

	records, _, err := store.Snapshot(context.Background())

	assert.Error(t, err)
	assert.Nil(t, records)
}

// ==========================
// Cache Tests
// ==========================

func TestSnapshot_SecondCallServedFromCache(t *testing.T) {
	store, mock := newTestStore(t, true)
	// Only one database round-trip is expected.
	mock.ExpectQuery("SELECT id, license_plate").WillReturnRows(fullRow(mock))

	ctx := context.Background()
	first, _, err := store.Snapshot(ctx)
	require.NoError(t, err)

	second, warnings, err := store.Snapshot(ctx)
	require.NoError(t, err)
	assert.Empty(t, warnings)
	assert.Equal(t, len(first), len(second))
	assert.Equal(t, first[0].ID, second[0].ID)
	assert.Equal(t, first[0].Staff, second[0].Staff)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSnapshot_CacheMissFallsThroughToPostgres(t *testing.T) {
	store, mock := newTestStore(t, true)
	mock.ExpectQuery("SELECT id, license_plate").WillReturnRows(fullRow(mock))

	records, _, err := store.Snapshot(context.Background())

	require.NoError(t, err)
	assert.Len(t, records, 1)
	require.NoError(t, mock.ExpectationsWereMet())
}
