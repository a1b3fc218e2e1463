package service

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/hirocomco/Kimai-App/internal/store"
)

// Setting categories.
const (
	CategoryWindow        = "window"
	CategoryNotifications = "notifications"
	CategoryTray          = "tray"
	CategoryKimai         = "kimai"
)

// SettingsService sits between the bound API and the settings store.
// It owns the default catalog and notifies the app when values change.
type SettingsService struct {
	store    store.SettingsStore
	logger   *slog.Logger
	onChange func(category, key, value string)
}

func NewSettingsService(s store.SettingsStore, logger *slog.Logger) *SettingsService {
	return &SettingsService{
		store:  s,
		logger: logger,
	}
}

// SetOnChangeCallback registers a callback invoked after a setting is
// persisted. Must be set before the service is handed to the API layer.
func (s *SettingsService) SetOnChangeCallback(fn func(category, key, value string)) {
	s.onChange = fn
}

// InitDefaults syncs the default catalog into the store. Existing user
// values are preserved; labels and descriptions are refreshed.
func (s *SettingsService) InitDefaults(ctx context.Context) error {
	if err := s.store.SyncMetadata(ctx, s.GetAllDefaults()); err != nil {
		return fmt.Errorf("sync settings defaults: %w", err)
	}

	count, err := s.store.Count(ctx)
	if err != nil {
		return fmt.Errorf("count settings: %w", err)
	}
	s.logger.Info("settings initialized", "count", count)
	return nil
}

// GetValue returns the stored value, falling back to the default when the
// row is missing.
func (s *SettingsService) GetValue(ctx context.Context, category, key string) (string, error) {
	record, err := s.store.Get(ctx, category, key)
	if err != nil {
		return "", err
	}
	if record != nil {
		return record.Value, nil
	}
	for _, def := range s.getDefaultsForCategory(category) {
		if def.Key == key {
			return def.Value, nil
		}
	}
	return "", fmt.Errorf("unknown setting %s.%s", category, key)
}

// GetBool reads a setting as bool, returning fallback on any failure.
func (s *SettingsService) GetBool(ctx context.Context, category, key string, fallback bool) bool {
	value, err := s.GetValue(ctx, category, key)
	if err != nil {
		return fallback
	}
	parsed, err := strconv.ParseBool(strings.TrimSpace(value))
	if err != nil {
		s.logger.Warn("invalid bool setting", "category", category, "key", key, "value", value)
		return fallback
	}
	return parsed
}

// GetInt reads a setting as int, returning fallback on any failure.
func (s *SettingsService) GetInt(ctx context.Context, category, key string, fallback int) int {
	value, err := s.GetValue(ctx, category, key)
	if err != nil {
		return fallback
	}
	parsed, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		s.logger.Warn("invalid int setting", "category", category, "key", key, "value", value)
		return fallback
	}
	return parsed
}

// GetDuration reads a setting as a duration in seconds.
func (s *SettingsService) GetDuration(ctx context.Context, category, key string, fallback time.Duration) time.Duration {
	seconds := s.GetInt(ctx, category, key, -1)
	if seconds < 0 {
		return fallback
	}
	return time.Duration(seconds) * time.Second
}

// GetString reads a setting as string, returning fallback when missing.
func (s *SettingsService) GetString(ctx context.Context, category, key, fallback string) string {
	value, err := s.GetValue(ctx, category, key)
	if err != nil {
		return fallback
	}
	return value
}

// Update validates and persists a single setting, then fires the change
// callback.
func (s *SettingsService) Update(ctx context.Context, category, key, value string) error {
	def := s.findDefault(category, key)
	if def == nil {
		return fmt.Errorf("unknown setting %s.%s", category, key)
	}
	if err := validateValue(def.ValueType, value); err != nil {
		return fmt.Errorf("invalid value for %s.%s: %w", category, key, err)
	}

	if err := s.store.Set(ctx, category, key, value); err != nil {
		return fmt.Errorf("save setting %s.%s: %w", category, key, err)
	}
	s.logger.Info("setting updated", "category", category, "key", key, "value", value)

	if s.onChange != nil {
		s.onChange(category, key, value)
	}
	return nil
}

// ResetCategory deletes all stored values for a category and restores the
// defaults.
func (s *SettingsService) ResetCategory(ctx context.Context, category string) error {
	defaults := s.getDefaultsForCategory(category)
	if len(defaults) == 0 {
		return fmt.Errorf("unknown settings category %q", category)
	}

	if err := s.store.DeleteByCategory(ctx, category); err != nil {
		return fmt.Errorf("reset category %s: %w", category, err)
	}
	if err := s.store.SyncMetadata(ctx, defaults); err != nil {
		return fmt.Errorf("restore defaults for %s: %w", category, err)
	}
	s.logger.Info("settings category reset", "category", category)

	if s.onChange != nil {
		for _, def := range defaults {
			s.onChange(category, def.Key, def.Value)
		}
	}
	return nil
}

// GetByCategory returns the stored records for one category.
func (s *SettingsService) GetByCategory(ctx context.Context, category string) ([]*store.SettingRecord, error) {
	return s.store.GetByCategory(ctx, category)
}

// GetAll returns every stored record.
func (s *SettingsService) GetAll(ctx context.Context) ([]*store.SettingRecord, error) {
	return s.store.GetAll(ctx)
}

func (s *SettingsService) findDefault(category, key string) *store.SettingRecord {
	for _, def := range s.getDefaultsForCategory(category) {
		if def.Key == key {
			return def
		}
	}
	return nil
}

func validateValue(valueType, value string) error {
	switch valueType {
	case "bool":
		if _, err := strconv.ParseBool(strings.TrimSpace(value)); err != nil {
			return fmt.Errorf("expected bool, got %q", value)
		}
	case "int":
		if _, err := strconv.Atoi(strings.TrimSpace(value)); err != nil {
			return fmt.Errorf("expected int, got %q", value)
		}
	}
	return nil
}

// GetAllDefaults returns the full default catalog.
func (s *SettingsService) GetAllDefaults() []*store.SettingRecord {
	var all []*store.SettingRecord
	for _, category := range []string{CategoryWindow, CategoryNotifications, CategoryTray, CategoryKimai} {
		all = append(all, s.getDefaultsForCategory(category)...)
	}
	return all
}

func (s *SettingsService) getDefaultsForCategory(category string) []*store.SettingRecord {
	switch category {
	case CategoryWindow:
		return []*store.SettingRecord{
			{Category: category, Key: "minimize_to_tray", Value: "true", ValueType: "bool",
				Label: "Minimize to tray", Description: "Hide to the tray instead of closing the window", DisplayOrder: 1},
			{Category: category, Key: "restore_focus", Value: "true", ValueType: "bool",
				Label: "Restore focus", Description: "Bring the window to the foreground when shown", DisplayOrder: 2},
		}
	case CategoryNotifications:
		return []*store.SettingRecord{
			{Category: category, Key: "enabled", Value: "true", ValueType: "bool",
				Label: "Enable notifications", Description: "Show operating system notifications", DisplayOrder: 1},
		}
	case CategoryTray:
		return []*store.SettingRecord{
			{Category: category, Key: "tooltip", Value: "HiroTrack - Time Tracker", ValueType: "string",
				Label: "Tray tooltip", Description: "Default tooltip shown on the tray icon", DisplayOrder: 1},
			{Category: category, Key: "left_click_toggles", Value: "true", ValueType: "bool",
				Label: "Left click toggles window", Description: "Toggle the main window when the tray icon is clicked", DisplayOrder: 2},
		}
	case CategoryKimai:
		return []*store.SettingRecord{
			{Category: category, Key: "request_timeout", Value: "10", ValueType: "int",
				Label: "Request timeout", Description: "Kimai API request timeout in seconds", DisplayOrder: 1},
			{Category: category, Key: "verify_tls", Value: "true", ValueType: "bool",
				Label: "Verify TLS", Description: "Verify the Kimai server certificate", DisplayOrder: 2},
		}
	default:
		return nil
	}
}
