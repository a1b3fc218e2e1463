// main.go - HiroTrack Wails application entry point

package main

import (
	"context"
	"embed"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/hirocomco/Kimai-App/config"
	"github.com/hirocomco/Kimai-App/internal/logging"
	"github.com/hirocomco/Kimai-App/internal/utils"

	"github.com/wailsapp/wails/v2"
	"github.com/wailsapp/wails/v2/pkg/options"
	"github.com/wailsapp/wails/v2/pkg/options/assetserver"
	"github.com/wailsapp/wails/v2/pkg/options/mac"
	"github.com/wailsapp/wails/v2/pkg/options/windows"
)

// Version information
var (
	Version   = "1.2.0"
	Commit    = "unknown"
	BuildTime = "unknown"
)

var (
	configPath  = flag.String("config", "", "config file path (default: user config dir)")
	showVersion = flag.Bool("version", false, "print version information")
)

//go:embed all:frontend/dist
var assets embed.FS

//go:embed build/appicon.png
var icon []byte

var currentLogHandler *SimpleHandler

func main() {
	flag.Parse()

	if *showVersion {
		fmt.Printf("HiroTrack\n")
		fmt.Printf("Version: %s\n", Version)
		fmt.Printf("Commit: %s\n", Commit)
		fmt.Printf("Built: %s\n", BuildTime)
		os.Exit(0)
	}

	app := NewApp()
	app.configPath = *configPath
	if app.configPath == "" {
		app.configPath = filepath.Join(utils.GetAppDataDir(), "config.yaml")
	}

	// The window geometry comes from the YAML config; load it before
	// wails.Run so the first frame already has the right size.
	windowCfg := loadWindowConfig(app.configPath)

	err := wails.Run(&options.App{
		Title:     "HiroTrack",
		Width:     windowCfg.Width,
		Height:    windowCfg.Height,
		MinWidth:  windowCfg.MinWidth,
		MinHeight: windowCfg.MinHeight,

		StartHidden: windowCfg.StartHidden,

		AssetServer: &assetserver.Options{
			Assets: assets,
		},

		BackgroundColour: &options.RGBA{R: 24, G: 26, B: 32, A: 1},

		OnStartup:     app.startup,
		OnDomReady:    app.domReady,
		OnBeforeClose: app.beforeClose,
		OnShutdown:    app.shutdown,

		Bind: []interface{}{
			app,
		},

		Mac: &mac.Options{
			TitleBar: &mac.TitleBar{
				TitlebarAppearsTransparent: true,
				HideTitle:                  true,
			},
			About: &mac.AboutInfo{
				Title:   "HiroTrack",
				Message: fmt.Sprintf("HiroTrack - Kimai time tracking\nVersion %s", Version),
				Icon:    icon,
			},
		},

		Windows: &windows.Options{
			WebviewIsTransparent: false,
			WindowIsTranslucent:  false,
			DisableWindowIcon:    false,
		},
	})

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadWindowConfig reads just enough configuration before the Wails
// runtime starts. Errors fall back to defaults; startup reloads the
// full config with proper logging.
func loadWindowConfig(path string) config.WindowConfig {
	cfg, err := config.LoadConfig(path)
	if err != nil {
		fallback := &config.Config{}
		fallback.Logging.Level = "info"
		cfg = fallback
		fmt.Fprintf(os.Stderr, "config load failed, using defaults: %v\n", err)
	}
	windowCfg := cfg.Window
	if windowCfg.Width == 0 {
		windowCfg = config.WindowConfig{Width: 480, Height: 640, MinWidth: 360, MinHeight: 480}
	}
	return windowCfg
}

// ============================================================
// Logging setup
// ============================================================

// setupLogger wires the structured logger: console plus optional
// rotated file output, wrapped for broadcast to the frontend.
func setupLogger(cfg config.LoggingConfig) (*slog.Logger, *logging.BroadcastHandler) {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	var fileRotator *logging.FileRotator
	if cfg.FileEnabled {
		maxSize, err := logging.ParseSize(cfg.MaxFileSize)
		if err != nil {
			fmt.Printf("warning: cannot parse log size %q, using 10MB: %v\n", cfg.MaxFileSize, err)
			maxSize = 10 * 1024 * 1024
		}

		fileRotator, err = logging.NewFileRotator(cfg.FilePath, maxSize, cfg.MaxFiles, cfg.CompressRotated)
		if err != nil {
			fmt.Printf("warning: cannot create log rotator: %v\n", err)
			fileRotator = nil
		}
	}

	simpleHandler := &SimpleHandler{
		level:       level,
		fileRotator: fileRotator,
	}
	currentLogHandler = simpleHandler

	broadcastHandler := logging.NewBroadcastHandler(simpleHandler, 1000)

	return slog.New(broadcastHandler), broadcastHandler
}

// SimpleHandler writes plain formatted lines to the console and the
// rotated log file.
type SimpleHandler struct {
	level       slog.Level
	fileRotator *logging.FileRotator
}

func (h *SimpleHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *SimpleHandler) Handle(_ context.Context, r slog.Record) error {
	message := r.Message

	var attrs []string
	r.Attrs(func(a slog.Attr) bool {
		attrs = append(attrs, fmt.Sprintf("%s=%v", a.Key, a.Value))
		return true
	})

	if len(attrs) > 0 {
		message = message + " " + strings.Join(attrs, " ")
	}

	timestamp := time.Now().Format("2006-01-02 15:04:05.000")
	pid := os.Getpid()
	gid := getGoroutineID()
	level := "INFO"
	switch r.Level {
	case slog.LevelDebug:
		level = "DEBUG"
	case slog.LevelWarn:
		level = "WARN"
	case slog.LevelError:
		level = "ERROR"
	}

	line := fmt.Sprintf("[%s] [PID:%d] [GID:%d] [%s] %s", timestamp, pid, gid, level, message)

	if h.fileRotator != nil {
		h.fileRotator.Write([]byte(line + "\n"))
	}

	fmt.Println(line)

	return nil
}

func (h *SimpleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return h
}

func (h *SimpleHandler) WithGroup(name string) slog.Handler {
	return h
}

func (h *SimpleHandler) Close() error {
	if h.fileRotator != nil {
		h.fileRotator.Sync()
		return h.fileRotator.Close()
	}
	return nil
}

func getGoroutineID() int {
	buf := make([]byte, 64)
	buf = buf[:runtime.Stack(buf, false)]
	idField := strings.Fields(string(buf))[1]
	id, err := strconv.Atoi(idField)
	if err != nil {
		return 0
	}
	return id
}
