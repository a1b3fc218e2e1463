// app_events.go - Wails event emission
// Pushes backend state changes to the frontend.

package main

import (
	"github.com/wailsapp/wails/v2/pkg/runtime"
)

// Event names
const (
	EventSystemStatus   = "system:status"
	EventWindowState    = "window:state"
	EventSettingChanged = "setting:changed"
	EventConfigReloaded = "config:reloaded"
	EventError          = "error"
	EventNotification   = "notification"
	EventLogBatch       = "log:batch"
)

// emitSystemStatus pushes the current system status to the frontend.
func (a *App) emitSystemStatus() {
	if a.ctx == nil {
		return
	}

	status := a.GetSystemStatus()
	runtime.EventsEmit(a.ctx, EventSystemStatus, status)
}

// emitWindowState pushes a window visibility change to the frontend.
func (a *App) emitWindowState(visible bool) {
	if a.ctx == nil {
		return
	}

	runtime.EventsEmit(a.ctx, EventWindowState, map[string]bool{
		"visible": visible,
	})
}

// emitSettingChanged pushes a persisted setting change to the frontend.
func (a *App) emitSettingChanged(category, key, value string) {
	if a.ctx == nil {
		return
	}

	runtime.EventsEmit(a.ctx, EventSettingChanged, map[string]string{
		"category": category,
		"key":      key,
		"value":    value,
	})
}

// emitConfigReloaded tells the frontend the YAML config was reloaded.
func (a *App) emitConfigReloaded() {
	if a.ctx == nil {
		return
	}

	runtime.EventsEmit(a.ctx, EventConfigReloaded, nil)
}

// emitError pushes an error notification to the frontend.
func (a *App) emitError(title, message string) {
	if a.ctx == nil {
		return
	}

	runtime.EventsEmit(a.ctx, EventError, map[string]string{
		"title":   title,
		"message": message,
	})
}

// emitNotification pushes an in-app notification to the frontend.
func (a *App) emitNotification(level, title, message string) {
	if a.ctx == nil {
		return
	}

	runtime.EventsEmit(a.ctx, EventNotification, map[string]string{
		"level":   level, // "info", "warning", "error", "success"
		"title":   title,
		"message": message,
	})
}
