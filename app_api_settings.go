// app_api_settings.go - user settings API (SQLite)

package main

import (
	"fmt"

	"github.com/hirocomco/Kimai-App/internal/store"
)

// GetAllSettings returns every stored setting.
func (a *App) GetAllSettings() ([]*store.SettingRecord, error) {
	if a.settingsService == nil {
		return nil, fmt.Errorf("storage error: settings service not available")
	}

	ctx, cancel := a.apiContext()
	defer cancel()

	records, err := a.settingsService.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("storage error: %w", err)
	}
	return records, nil
}

// GetSettingsByCategory returns the settings of one category, ordered
// for display.
func (a *App) GetSettingsByCategory(category string) ([]*store.SettingRecord, error) {
	if a.settingsService == nil {
		return nil, fmt.Errorf("storage error: settings service not available")
	}

	ctx, cancel := a.apiContext()
	defer cancel()

	records, err := a.settingsService.GetByCategory(ctx, category)
	if err != nil {
		return nil, fmt.Errorf("storage error: %w", err)
	}
	return records, nil
}

// UpdateSetting validates and persists a single setting value.
func (a *App) UpdateSetting(category, key, value string) error {
	if a.settingsService == nil {
		return fmt.Errorf("storage error: settings service not available")
	}

	ctx, cancel := a.apiContext()
	defer cancel()

	if err := a.settingsService.Update(ctx, category, key, value); err != nil {
		return fmt.Errorf("storage error: %w", err)
	}
	return nil
}

// ResetCategorySettings restores one category to its defaults.
func (a *App) ResetCategorySettings(category string) error {
	if a.settingsService == nil {
		return fmt.Errorf("storage error: settings service not available")
	}

	ctx, cancel := a.apiContext()
	defer cancel()

	if err := a.settingsService.ResetCategory(ctx, category); err != nil {
		return fmt.Errorf("storage error: %w", err)
	}

	a.logger.Info("settings reset", "category", category)
	return nil
}

// SettingsStorageStatus reports whether the settings database is
// usable.
type SettingsStorageStatus struct {
	Enabled bool   `json:"enabled"`
	Count   int    `json:"count"`
	Message string `json:"message,omitempty"`
}

// GetSettingsStorageStatus returns the state of the settings store.
func (a *App) GetSettingsStorageStatus() SettingsStorageStatus {
	a.mu.RLock()
	settingsStore := a.settingsStore
	a.mu.RUnlock()

	if settingsStore == nil {
		return SettingsStorageStatus{Message: "settings database unavailable"}
	}

	ctx, cancel := a.apiContext()
	defer cancel()

	count, err := settingsStore.Count(ctx)
	if err != nil {
		return SettingsStorageStatus{Message: err.Error()}
	}
	return SettingsStorageStatus{Enabled: true, Count: count}
}
