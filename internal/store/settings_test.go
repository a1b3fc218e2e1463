package store

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func createTestDB(t *testing.T) *sql.DB {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := sql.Open("sqlite", dbPath+"?_journal_mode=WAL&_synchronous=NORMAL")
	require.NoError(t, err, "open database")
	t.Cleanup(func() { db.Close() })

	store := NewSQLiteSettingsStore(db)
	require.NoError(t, store.InitSchema(context.Background()), "init schema")

	return db
}

func TestSettingsSetAndGet(t *testing.T) {
	db := createTestDB(t)
	s := NewSQLiteSettingsStore(db)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "window", "minimize_to_tray", "true"))

	record, err := s.Get(ctx, "window", "minimize_to_tray")
	require.NoError(t, err)
	require.NotNil(t, record)
	require.Equal(t, "true", record.Value)
	require.Equal(t, "window", record.Category)
}

func TestSettingsGetMissing(t *testing.T) {
	db := createTestDB(t)
	s := NewSQLiteSettingsStore(db)

	record, err := s.Get(context.Background(), "window", "nope")
	require.NoError(t, err)
	require.Nil(t, record, "missing setting should yield nil, not an error")
}

func TestSettingsSetUpserts(t *testing.T) {
	db := createTestDB(t)
	s := NewSQLiteSettingsStore(db)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "notifications", "enabled", "true"))
	require.NoError(t, s.Set(ctx, "notifications", "enabled", "false"))

	record, err := s.Get(ctx, "notifications", "enabled")
	require.NoError(t, err)
	require.NotNil(t, record)
	require.Equal(t, "false", record.Value)

	count, err := s.Count(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, count, "upsert must not duplicate rows")
}

func TestSettingsSyncMetadataPreservesValues(t *testing.T) {
	db := createTestDB(t)
	s := NewSQLiteSettingsStore(db)
	ctx := context.Background()

	defaults := []*SettingRecord{
		{Category: "tray", Key: "tooltip", Value: "HiroTrack - Time Tracker", ValueType: "string", Label: "Tooltip", DisplayOrder: 1},
		{Category: "tray", Key: "left_click_toggles", Value: "true", ValueType: "bool", Label: "Left click toggles window", DisplayOrder: 2},
	}
	require.NoError(t, s.SyncMetadata(ctx, defaults))

	// User changes a value.
	require.NoError(t, s.Set(ctx, "tray", "tooltip", "Tracking: ACME"))

	// An upgrade re-syncs metadata with a new label.
	defaults[0].Label = "Tray tooltip"
	require.NoError(t, s.SyncMetadata(ctx, defaults))

	record, err := s.Get(ctx, "tray", "tooltip")
	require.NoError(t, err)
	require.NotNil(t, record)
	require.Equal(t, "Tracking: ACME", record.Value, "user value must survive metadata sync")
	require.Equal(t, "Tray tooltip", record.Label, "label must be refreshed")
}

func TestSettingsGetByCategoryOrdering(t *testing.T) {
	db := createTestDB(t)
	s := NewSQLiteSettingsStore(db)
	ctx := context.Background()

	defaults := []*SettingRecord{
		{Category: "window", Key: "b_second", Value: "1", ValueType: "string", DisplayOrder: 2},
		{Category: "window", Key: "a_first", Value: "1", ValueType: "string", DisplayOrder: 1},
		{Category: "other", Key: "ignored", Value: "1", ValueType: "string", DisplayOrder: 0},
	}
	require.NoError(t, s.SyncMetadata(ctx, defaults))

	records, err := s.GetByCategory(ctx, "window")
	require.NoError(t, err)
	require.Len(t, records, 2)
	require.Equal(t, "a_first", records[0].Key)
	require.Equal(t, "b_second", records[1].Key)
}

func TestSettingsDeleteByCategory(t *testing.T) {
	db := createTestDB(t)
	s := NewSQLiteSettingsStore(db)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "window", "minimize_to_tray", "true"))
	require.NoError(t, s.Set(ctx, "notifications", "enabled", "true"))

	require.NoError(t, s.DeleteByCategory(ctx, "window"))

	records, err := s.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Equal(t, "notifications", records[0].Category)
}

func TestParseSQLiteDateTime(t *testing.T) {
	tests := []struct {
		value string
		zero  bool
	}{
		{value: "2026-08-26 10:30:00", zero: false},
		{value: "2026-08-26 10:30:00.123456", zero: false},
		{value: "2026-08-26T10:30:00Z", zero: false},
		{value: "", zero: true},
		{value: "garbage", zero: true},
	}

	for _, tt := range tests {
		got := parseSQLiteDateTime(tt.value)
		if got.IsZero() != tt.zero {
			t.Errorf("parseSQLiteDateTime(%q).IsZero() = %v, want %v", tt.value, got.IsZero(), tt.zero)
		}
	}
}
