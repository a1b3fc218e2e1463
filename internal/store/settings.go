package store

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"
)

// SettingRecord is one row of the settings table.
type SettingRecord struct {
	ID int64 `json:"id"`

	Category string `json:"category"`
	Key      string `json:"key"`

	Value     string `json:"value"`
	ValueType string `json:"value_type"` // string, int, bool, duration

	// Display metadata for the settings page.
	Label        string `json:"label"`
	Description  string `json:"description"`
	DisplayOrder int    `json:"display_order"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SettingsStore persists user preferences.
type SettingsStore interface {
	InitSchema(ctx context.Context) error

	Get(ctx context.Context, category, key string) (*SettingRecord, error)
	Set(ctx context.Context, category, key, value string) error

	GetByCategory(ctx context.Context, category string) ([]*SettingRecord, error)
	GetAll(ctx context.Context) ([]*SettingRecord, error)
	DeleteByCategory(ctx context.Context, category string) error

	// SyncMetadata upserts defaults, refreshing labels/descriptions/
	// ordering while preserving values the user already changed.
	SyncMetadata(ctx context.Context, defaults []*SettingRecord) error

	Count(ctx context.Context) (int, error)
}

// SQLiteSettingsStore implements SettingsStore on a shared *sql.DB.
type SQLiteSettingsStore struct {
	db *sql.DB
	mu sync.RWMutex
}

func NewSQLiteSettingsStore(db *sql.DB) *SQLiteSettingsStore {
	return &SQLiteSettingsStore{db: db}
}

// InitSchema creates the settings table if it does not exist.
func (s *SQLiteSettingsStore) InitSchema(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	schema := `
		CREATE TABLE IF NOT EXISTS settings (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			category TEXT NOT NULL,
			key TEXT NOT NULL,
			value TEXT NOT NULL DEFAULT '',
			value_type TEXT NOT NULL DEFAULT 'string',
			label TEXT,
			description TEXT,
			display_order INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			UNIQUE(category, key)
		);
		CREATE INDEX IF NOT EXISTS idx_settings_category ON settings(category);
	`
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create settings schema: %w", err)
	}
	return nil
}

func (s *SQLiteSettingsStore) Get(ctx context.Context, category, key string) (*SettingRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT id, category, key, value, value_type,
			COALESCE(label, '') AS label,
			COALESCE(description, '') AS description,
			display_order, created_at, updated_at
		FROM settings
		WHERE category = ? AND key = ?
	`

	var record SettingRecord
	var createdAt, updatedAt string

	err := s.db.QueryRowContext(ctx, query, category, key).Scan(
		&record.ID, &record.Category, &record.Key, &record.Value, &record.ValueType,
		&record.Label, &record.Description, &record.DisplayOrder,
		&createdAt, &updatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get setting %s.%s: %w", category, key, err)
	}

	record.CreatedAt = parseSQLiteDateTime(createdAt)
	record.UpdatedAt = parseSQLiteDateTime(updatedAt)
	return &record, nil
}

func (s *SQLiteSettingsStore) Set(ctx context.Context, category, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO settings (category, key, value)
		VALUES (?, ?, ?)
		ON CONFLICT(category, key) DO UPDATE SET
			value = excluded.value,
			updated_at = CURRENT_TIMESTAMP
	`
	if _, err := s.db.ExecContext(ctx, query, category, key, value); err != nil {
		return fmt.Errorf("set setting %s.%s: %w", category, key, err)
	}
	return nil
}

func (s *SQLiteSettingsStore) GetByCategory(ctx context.Context, category string) ([]*SettingRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT id, category, key, value, value_type,
			COALESCE(label, '') AS label,
			COALESCE(description, '') AS description,
			display_order, created_at, updated_at
		FROM settings
		WHERE category = ?
		ORDER BY display_order ASC, key ASC
	`
	return s.scanSettings(ctx, query, category)
}

func (s *SQLiteSettingsStore) GetAll(ctx context.Context) ([]*SettingRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT id, category, key, value, value_type,
			COALESCE(label, '') AS label,
			COALESCE(description, '') AS description,
			display_order, created_at, updated_at
		FROM settings
		ORDER BY category ASC, display_order ASC, key ASC
	`
	return s.scanSettings(ctx, query)
}

func (s *SQLiteSettingsStore) DeleteByCategory(ctx context.Context, category string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.ExecContext(ctx, `DELETE FROM settings WHERE category = ?`, category); err != nil {
		return fmt.Errorf("delete settings for category %s: %w", category, err)
	}
	return nil
}

func (s *SQLiteSettingsStore) SyncMetadata(ctx context.Context, defaults []*SettingRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(defaults) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin settings transaction: %w", err)
	}
	defer tx.Rollback()

	// Metadata only on conflict: the user's value survives upgrades.
	query := `
		INSERT INTO settings (category, key, value, value_type, label, description, display_order)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(category, key) DO UPDATE SET
			value_type = excluded.value_type,
			label = excluded.label,
			description = excluded.description,
			display_order = excluded.display_order
	`

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("prepare settings statement: %w", err)
	}
	defer stmt.Close()

	for _, record := range defaults {
		_, err = stmt.ExecContext(ctx,
			record.Category, record.Key, record.Value, record.ValueType,
			record.Label, record.Description, record.DisplayOrder,
		)
		if err != nil {
			return fmt.Errorf("sync setting %s.%s: %w", record.Category, record.Key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit settings transaction: %w", err)
	}
	return nil
}

func (s *SQLiteSettingsStore) Count(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM settings`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count settings: %w", err)
	}
	return count, nil
}

func (s *SQLiteSettingsStore) scanSettings(ctx context.Context, query string, args ...any) ([]*SettingRecord, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query settings: %w", err)
	}
	defer rows.Close()

	var records []*SettingRecord
	for rows.Next() {
		var record SettingRecord
		var createdAt, updatedAt string

		err := rows.Scan(
			&record.ID, &record.Category, &record.Key, &record.Value, &record.ValueType,
			&record.Label, &record.Description, &record.DisplayOrder,
			&createdAt, &updatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan setting record: %w", err)
		}

		record.CreatedAt = parseSQLiteDateTime(createdAt)
		record.UpdatedAt = parseSQLiteDateTime(updatedAt)
		records = append(records, &record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate setting records: %w", err)
	}
	return records, nil
}
