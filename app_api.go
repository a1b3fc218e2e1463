// app_api.go - API methods exposed to the frontend (Wails bindings)
// These methods are generated into JavaScript bindings.
//
// API files are split by concern:
// - app_api.go             - system status, greet, log stream (this file)
// - app_api_credentials.go - Kimai credential persistence
// - app_api_window.go      - window, tray and notification commands
// - app_api_settings.go    - user settings (SQLite)

package main

import (
	"fmt"
	"time"

	"github.com/hirocomco/Kimai-App/internal/logging"
	"github.com/hirocomco/Kimai-App/internal/utils"
)

// Greet returns a greeting, used by the frontend as a liveness probe.
func (a *App) Greet(name string) string {
	return fmt.Sprintf("Hello, %s! You've been greeted from Go!", name)
}

// ============================================================
// System status API
// ============================================================

// SystemStatus describes the running backend.
type SystemStatus struct {
	Version         string `json:"version"`
	InstanceID      string `json:"instance_id"`
	Uptime          string `json:"uptime"`
	UptimeSeconds   int64  `json:"uptime_seconds"`
	StartTime       string `json:"start_time"` // ISO8601
	ConfigPath      string `json:"config_path"`
	WindowVisible   bool   `json:"window_visible"`
	SettingsEnabled bool   `json:"settings_enabled"`
	CredentialsPath string `json:"credentials_path"`
	LogFileEnabled  bool   `json:"log_file_enabled"`
}

// GetSystemStatus returns the current system status.
func (a *App) GetSystemStatus() SystemStatus {
	a.mu.RLock()
	defer a.mu.RUnlock()

	uptime := time.Since(a.startTime)

	status := SystemStatus{
		Version:         Version,
		InstanceID:      a.instanceID,
		Uptime:          utils.FormatDuration(uptime),
		UptimeSeconds:   int64(uptime.Seconds()),
		StartTime:       a.startTime.Format(time.RFC3339),
		ConfigPath:      a.configPath,
		SettingsEnabled: a.settingsService != nil,
	}

	if a.window != nil {
		status.WindowVisible = a.window.Visible()
	}
	if fs, ok := a.credStore.(interface{ Path() string }); ok {
		status.CredentialsPath = fs.Path()
	}
	if a.config != nil {
		status.LogFileEnabled = a.config.Logging.FileEnabled
	}

	return status
}

// ============================================================
// Log stream API
// ============================================================

// GetRecentLogs returns up to limit recent log entries, oldest first.
func (a *App) GetRecentLogs(limit int) []logging.LogEntry {
	a.mu.RLock()
	handler := a.logHandler
	a.mu.RUnlock()

	if handler == nil {
		return nil
	}
	return handler.Recent(limit)
}

// StartLogStream begins pushing log batches to the frontend. The
// frontend calls this after subscribing to the log:batch event.
func (a *App) StartLogStream() {
	a.mu.RLock()
	emitter := a.logEmitter
	a.mu.RUnlock()

	if emitter != nil {
		emitter.Start(a.ctx)
	}
}

// StopLogStream stops pushing log batches.
func (a *App) StopLogStream() {
	a.mu.RLock()
	emitter := a.logEmitter
	a.mu.RUnlock()

	if emitter != nil {
		emitter.Stop()
	}
}
