// app.go - Wails application core
// Owns every backend component and their lifecycle.

package main

import (
	"context"
	"database/sql"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hirocomco/Kimai-App/config"
	"github.com/hirocomco/Kimai-App/internal/logging"
	"github.com/hirocomco/Kimai-App/internal/notify"
	"github.com/hirocomco/Kimai-App/internal/service"
	"github.com/hirocomco/Kimai-App/internal/store"
	"github.com/hirocomco/Kimai-App/internal/tray"
	"github.com/hirocomco/Kimai-App/internal/utils"
	"github.com/hirocomco/Kimai-App/internal/window"

	"github.com/google/uuid"
	"github.com/wailsapp/wails/v2/pkg/runtime"
	_ "modernc.org/sqlite"
)

// App exposes the backend to the frontend via Wails bindings and owns
// every component's lifecycle.
type App struct {
	ctx context.Context

	config        *config.Config
	configWatcher *config.ConfigWatcher
	logger        *slog.Logger

	credStore store.CredentialStore
	notifier  *notify.Notifier
	window    *window.Adapter

	trayCtrl tray.Controller

	// Settings persistence (SQLite)
	storeDB         *sql.DB
	settingsStore   store.SettingsStore
	settingsService *service.SettingsService

	startTime  time.Time
	instanceID string
	configPath string

	mu        sync.RWMutex
	isRunning bool
	quitting  int32

	logHandler *logging.BroadcastHandler
	logEmitter *logging.EventEmitter
}

// NewApp creates a new application instance
func NewApp() *App {
	return &App{
		startTime:  time.Now(),
		instanceID: uuid.NewString(),
	}
}

// startup runs when the Wails runtime is ready, before the first frame.
func (a *App) startup(ctx context.Context) {
	a.ctx = ctx

	// 1. Configuration
	a.loadConfig()

	// 2. Logging
	a.setupLogger()

	a.logger.Info("HiroTrack starting",
		"version", Version,
		"instance", a.instanceID,
		"config_file", a.configPath)

	// 3. Credential store
	a.credStore = store.NewFileCredentialStore(
		filepath.Join(utils.GetAppDataDir(), "credentials.json"))

	// 4. Settings database
	a.setupStoreDB()
	a.setupSettingsStore()

	// 5. Notifications
	a.notifier = notify.New(a.logger)

	// 6. Window adapter
	a.window = window.New(a.logger)
	a.window.SetOnChange(func(visible bool) {
		a.emitWindowState(visible)
	})
	a.window.SetRaisePolicy(a.restoreFocusEnabled)
	a.window.Attach(ctx, !a.config.Window.StartHidden)

	// 7. System tray
	a.setupTray()

	// 8. Config hot reload
	a.setupConfigReload()

	a.mu.Lock()
	a.isRunning = true
	a.mu.Unlock()

	a.logger.Info("HiroTrack started")
}

// domReady runs once the frontend DOM is loaded.
func (a *App) domReady(ctx context.Context) {
	// The frontend can receive events now; send the initial state.
	a.emitSystemStatus()
	a.emitWindowState(a.window.Visible())
}

// beforeClose runs when the user closes the window. Returning true
// prevents the default close.
func (a *App) beforeClose(ctx context.Context) bool {
	if atomic.LoadInt32(&a.quitting) == 1 {
		return false
	}

	// Closing the window hides to the tray unless the user disabled it.
	reqCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if a.settingsService != nil && a.settingsService.GetBool(reqCtx, service.CategoryWindow, "minimize_to_tray", true) {
		if err := a.window.Hide(); err != nil {
			a.logger.Warn("hide on close failed", "error", err)
			return false
		}
		return true
	}

	a.Quit()
	return true
}

// Quit exits the application regardless of window state.
func (a *App) Quit() {
	if !atomic.CompareAndSwapInt32(&a.quitting, 0, 1) {
		return
	}
	a.logger.Info("quit requested")

	// Quit may fire synchronous callbacks; never block the UI thread.
	go runtime.Quit(a.ctx)
}

// shutdown runs when the Wails runtime tears down.
func (a *App) shutdown(ctx context.Context) {
	a.mu.Lock()
	logger := a.logger
	trayCtrl := a.trayCtrl
	storeDB := a.storeDB
	configWatcher := a.configWatcher
	logEmitter := a.logEmitter
	a.isRunning = false
	a.mu.Unlock()

	if logger != nil {
		logger.Info("HiroTrack shutting down")
	}

	if trayCtrl != nil {
		trayCtrl.Stop()
	}

	if storeDB != nil {
		if err := storeDB.Close(); err != nil && logger != nil {
			logger.Error("settings database close failed", "error", err)
		}
	}

	if configWatcher != nil {
		_ = configWatcher.Close()
	}

	if logEmitter != nil {
		logEmitter.Stop()
	}

	if currentLogHandler != nil {
		_ = currentLogHandler.Close()
	}

	a.mu.Lock()
	a.trayCtrl = nil
	a.storeDB = nil
	a.mu.Unlock()

	if logger != nil {
		logger.Info("HiroTrack stopped")
	}
}

// loadConfig loads the YAML config and starts the file watcher.
func (a *App) loadConfig() {
	tempLogger := slog.Default()

	if err := utils.EnsureAppDirs(); err != nil {
		tempLogger.Warn("cannot create app directories", "error", err)
	}

	configWatcher, err := config.NewConfigWatcher(a.configPath, tempLogger)
	if err != nil {
		tempLogger.Error("config load failed, using defaults", "error", err)
		cfg := &config.Config{}
		a.config = cfg
		return
	}

	a.configWatcher = configWatcher
	cfg := configWatcher.GetConfig()

	// Override the log path to the user log directory before any
	// component opens it.
	if cfg.Logging.FileEnabled && !filepath.IsAbs(cfg.Logging.FilePath) {
		cfg.Logging.FilePath = filepath.Join(utils.GetLogDir(), filepath.Base(cfg.Logging.FilePath))
	}

	a.config = cfg
}

// setupLogger installs the structured logger and its broadcast wrapper.
func (a *App) setupLogger() {
	logger, broadcastHandler := setupLogger(a.config.Logging)
	a.logger = logger
	slog.SetDefault(logger)

	a.logHandler = broadcastHandler
	a.logEmitter = logging.NewEventEmitter()
	broadcastHandler.SetEmitter(a.logEmitter)

	a.logger.Info("logging initialized",
		"level", a.config.Logging.Level,
		"file_enabled", a.config.Logging.FileEnabled)
}

// setupStoreDB opens the settings SQLite database.
func (a *App) setupStoreDB() {
	dbPath := filepath.Join(utils.GetDataDir(), "hirotrack.db")
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		a.logger.Warn("cannot create data directory", "error", err)
		return
	}

	dsn := dbPath + "?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=10000"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		a.logger.Warn("settings database open failed", "error", err)
		return
	}
	// Single-writer: SQLite allows one writer and this app has no
	// other connection, so a pool of one avoids SQLITE_BUSY entirely.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		a.logger.Warn("settings database unavailable", "error", err)
		return
	}

	a.storeDB = db
	a.logger.Info("settings database ready", "db", dbPath)
}

// setupSettingsStore creates the settings store and service on top of
// the settings database.
func (a *App) setupSettingsStore() {
	if a.storeDB == nil {
		a.logger.Warn("settings service disabled (no database)")
		return
	}

	a.settingsStore = store.NewSQLiteSettingsStore(a.storeDB)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.settingsStore.InitSchema(ctx); err != nil {
		a.logger.Error("settings schema init failed", "error", err)
		return
	}

	a.settingsService = service.NewSettingsService(a.settingsStore, a.logger)
	a.settingsService.SetOnChangeCallback(func(category, key, value string) {
		a.applySettingChange(category, key, value)
	})

	if err := a.settingsService.InitDefaults(ctx); err != nil {
		a.logger.Error("settings defaults init failed", "error", err)
		return
	}

	a.logger.Info("settings service ready")
}

// applySettingChange reacts to a persisted setting change.
func (a *App) applySettingChange(category, key, value string) {
	switch {
	case category == service.CategoryTray && key == "tooltip":
		a.mu.RLock()
		trayCtrl := a.trayCtrl
		a.mu.RUnlock()
		if trayCtrl != nil {
			trayCtrl.SetTooltip(value)
		}
	}

	a.emitSettingChanged(category, key, value)
}

// setupTray starts the system tray icon with its menu.
func (a *App) setupTray() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	tooltip := tray.DefaultTooltip
	if a.settingsService != nil {
		tooltip = a.settingsService.GetString(ctx, service.CategoryTray, "tooltip", tray.DefaultTooltip)
	}

	opts := tray.Options{
		Icon:    icon,
		Tooltip: tooltip,
		OnShow: func() {
			if err := a.window.Show(); err != nil {
				a.logger.Warn("tray show failed", "error", err)
			}
		},
		OnHide: func() {
			if err := a.window.Hide(); err != nil {
				a.logger.Warn("tray hide failed", "error", err)
			}
		},
		OnToggle: func() {
			if !a.trayToggleAllowed() {
				if err := a.window.Show(); err != nil {
					a.logger.Warn("tray show failed", "error", err)
				}
				return
			}
			if err := a.window.Toggle(); err != nil {
				a.logger.Warn("tray toggle failed", "error", err)
			}
		},
		OnQuit: func() {
			a.Quit()
		},
	}

	trayCtrl, err := tray.Start(a.ctx, opts)
	if err != nil {
		a.logger.Error("tray start failed", "error", err)
		a.emitError("Tray unavailable", err.Error())
		return
	}

	a.mu.Lock()
	a.trayCtrl = trayCtrl
	a.mu.Unlock()

	a.logger.Info("tray ready", "tooltip", tooltip)
}

// trayToggleAllowed reports whether a tray icon click toggles the window
// or only shows it. Controlled by the tray.left_click_toggles setting.
func (a *App) trayToggleAllowed() bool {
	if a.settingsService == nil {
		return true
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return a.settingsService.GetBool(ctx, service.CategoryTray, "left_click_toggles", true)
}

// restoreFocusEnabled reports whether showing the window should also
// raise it. Controlled by the window.restore_focus setting.
func (a *App) restoreFocusEnabled() bool {
	if a.settingsService == nil {
		return true
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return a.settingsService.GetBool(ctx, service.CategoryWindow, "restore_focus", true)
}

// setupConfigReload wires config hot reload.
func (a *App) setupConfigReload() {
	if a.configWatcher == nil {
		return
	}

	a.configWatcher.AddReloadCallback(func(newCfg *config.Config) {
		a.mu.Lock()
		a.config = newCfg

		// Stop the old emitter so two emitters never broadcast at once.
		if a.logEmitter != nil {
			a.logEmitter.Stop()
		}

		newLogger, newBroadcastHandler := setupLogger(newCfg.Logging)
		slog.SetDefault(newLogger)
		a.logger = newLogger
		a.logHandler = newBroadcastHandler
		a.logEmitter = logging.NewEventEmitter()
		newBroadcastHandler.SetEmitter(a.logEmitter)
		a.logEmitter.Start(a.ctx)
		a.mu.Unlock()

		a.logger.Info("configuration reloaded")
		a.emitConfigReloaded()
	})

	a.logger.Info("config hot reload enabled")
}
