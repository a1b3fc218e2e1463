// app_api_window.go - window, tray and notification API

package main

import (
	"fmt"

	"github.com/hirocomco/Kimai-App/internal/service"
)

// ShowMainWindow makes the main window visible and raises it.
func (a *App) ShowMainWindow() error {
	if err := a.window.Show(); err != nil {
		a.logger.Error("show window failed", "error", err)
		return fmt.Errorf("window error: %w", err)
	}
	return nil
}

// HideMainWindow hides the main window to the tray. The app keeps
// running; the tray or ShowMainWindow brings it back.
func (a *App) HideMainWindow() error {
	if err := a.window.Hide(); err != nil {
		a.logger.Error("hide window failed", "error", err)
		return fmt.Errorf("window error: %w", err)
	}
	return nil
}

// ToggleMainWindow flips window visibility.
func (a *App) ToggleMainWindow() error {
	if err := a.window.Toggle(); err != nil {
		a.logger.Error("toggle window failed", "error", err)
		return fmt.Errorf("window error: %w", err)
	}
	return nil
}

// IsWindowVisible reports the tracked window visibility.
func (a *App) IsWindowVisible() bool {
	return a.window.Visible()
}

// ShowNotification displays an OS notification. Honors the
// notifications.enabled setting; a disabled notifier is not an error.
func (a *App) ShowNotification(title, body string) error {
	ctx, cancel := a.apiContext()
	defer cancel()

	if a.settingsService != nil && !a.settingsService.GetBool(ctx, service.CategoryNotifications, "enabled", true) {
		a.logger.Debug("notification suppressed by setting", "title", title)
		return nil
	}

	if err := a.notifier.Show(title, body); err != nil {
		return fmt.Errorf("notification error: %w", err)
	}
	a.emitNotification("info", title, body)
	return nil
}

// UpdateTrayTooltip replaces the tray icon tooltip and persists it so
// the next start restores it. A tray that failed to start is skipped,
// not an error.
func (a *App) UpdateTrayTooltip(tooltip string) error {
	a.mu.RLock()
	trayCtrl := a.trayCtrl
	a.mu.RUnlock()

	if trayCtrl != nil {
		trayCtrl.SetTooltip(tooltip)
	}

	if a.settingsService != nil {
		ctx, cancel := a.apiContext()
		defer cancel()
		if err := a.settingsService.Update(ctx, service.CategoryTray, "tooltip", tooltip); err != nil {
			a.logger.Warn("tooltip persist failed", "error", err)
		}
	}

	a.logger.Debug("tray tooltip updated", "tooltip", tooltip)
	return nil
}
