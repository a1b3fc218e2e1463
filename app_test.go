package main

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hirocomco/Kimai-App/internal/notify"
	"github.com/hirocomco/Kimai-App/internal/service"
	"github.com/hirocomco/Kimai-App/internal/store"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestSettingsService(t *testing.T) *service.SettingsService {
	t.Helper()

	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "settings.db"))
	if err != nil {
		t.Fatalf("open settings db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	ctx := context.Background()
	st := store.NewSQLiteSettingsStore(db)
	if err := st.InitSchema(ctx); err != nil {
		t.Fatalf("init schema: %v", err)
	}

	svc := service.NewSettingsService(st, discardLogger())
	if err := svc.InitDefaults(ctx); err != nil {
		t.Fatalf("init defaults: %v", err)
	}
	return svc
}

func TestGreet(t *testing.T) {
	app := NewApp()

	got := app.Greet("World")
	want := "Hello, World! You've been greeted from Go!"
	if got != want {
		t.Errorf("Greet = %q, want %q", got, want)
	}

	// The name is echoed verbatim, including unicode.
	if got := app.Greet("日本語"); !strings.Contains(got, "日本語") {
		t.Errorf("Greet dropped the name: %q", got)
	}
}

func TestGetSystemStatusBeforeStartup(t *testing.T) {
	app := NewApp()

	status := app.GetSystemStatus()
	if status.Version != Version {
		t.Errorf("version = %q, want %q", status.Version, Version)
	}
	if status.InstanceID == "" {
		t.Error("instance id must be set at construction")
	}
	if status.WindowVisible {
		t.Error("window must report hidden before startup")
	}
	if status.SettingsEnabled {
		t.Error("settings must report disabled before startup")
	}
	if status.UptimeSeconds < 0 {
		t.Errorf("uptime seconds = %d", status.UptimeSeconds)
	}
}

func TestGetSystemStatusCredentialsPath(t *testing.T) {
	app := NewApp()
	app.credStore = store.NewFileCredentialStore("/tmp/hirotrack-test/credentials.json")

	status := app.GetSystemStatus()
	if status.CredentialsPath != "/tmp/hirotrack-test/credentials.json" {
		t.Errorf("credentials path = %q", status.CredentialsPath)
	}
}

func TestTrayClickHonorsToggleSetting(t *testing.T) {
	app := NewApp()
	if !app.trayToggleAllowed() {
		t.Error("tray clicks must toggle without a settings service")
	}

	app.settingsService = newTestSettingsService(t)
	if !app.trayToggleAllowed() {
		t.Error("left_click_toggles defaults to true")
	}

	ctx := context.Background()
	if err := app.settingsService.Update(ctx, service.CategoryTray, "left_click_toggles", "false"); err != nil {
		t.Fatal(err)
	}
	if app.trayToggleAllowed() {
		t.Error("disabling left_click_toggles must stop tray clicks from toggling")
	}
}

func TestShowHonorsRestoreFocusSetting(t *testing.T) {
	app := NewApp()
	if !app.restoreFocusEnabled() {
		t.Error("shows must raise without a settings service")
	}

	app.settingsService = newTestSettingsService(t)
	if !app.restoreFocusEnabled() {
		t.Error("restore_focus defaults to true")
	}

	ctx := context.Background()
	if err := app.settingsService.Update(ctx, service.CategoryWindow, "restore_focus", "false"); err != nil {
		t.Fatal(err)
	}
	if app.restoreFocusEnabled() {
		t.Error("disabling restore_focus must stop shows from raising the window")
	}
}

func TestUpdateTrayTooltipWithoutTray(t *testing.T) {
	app := NewApp()
	app.logger = discardLogger()
	app.settingsService = newTestSettingsService(t)

	// A tray that failed to start is skipped, not an error; the tooltip
	// is still persisted for the next start.
	if err := app.UpdateTrayTooltip("Tracking ACME"); err != nil {
		t.Fatalf("UpdateTrayTooltip without a tray: %v", err)
	}

	ctx := context.Background()
	if got := app.settingsService.GetString(ctx, service.CategoryTray, "tooltip", ""); got != "Tracking ACME" {
		t.Errorf("persisted tooltip = %q, want %q", got, "Tracking ACME")
	}
}

func TestShowNotificationBeforeStartup(t *testing.T) {
	delivered := 0
	app := NewApp()
	app.logger = discardLogger()
	app.notifier = notify.NewWithSender(discardLogger(), func(title, body string) error {
		delivered++
		return nil
	})

	// No Wails context yet: the frontend mirror event is skipped and
	// delivery still succeeds.
	if err := app.ShowNotification("Timer started", "Tracking ACME"); err != nil {
		t.Fatalf("ShowNotification: %v", err)
	}
	if delivered != 1 {
		t.Errorf("delivered = %d, want 1", delivered)
	}
}

func TestInstanceIDsAreUnique(t *testing.T) {
	a := NewApp()
	b := NewApp()
	if a.instanceID == b.instanceID {
		t.Error("two instances share an id")
	}
}
