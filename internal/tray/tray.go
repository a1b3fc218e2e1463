// Package tray hosts the system tray icon and its menu.
package tray

import "context"

// Menu labels and the default tooltip shown on the tray icon.
const (
	LabelShow      = "Show HiroTrack"
	LabelHide      = "Hide to Tray"
	LabelQuit      = "Quit"
	DefaultTooltip = "HiroTrack - Time Tracker"
)

// Event identifies a user interaction with the tray.
type Event int

const (
	EventShow Event = iota
	EventHide
	EventQuit
	// EventToggle is a left click on the icon itself.
	EventToggle
)

// Controller drives a running tray.
type Controller interface {
	// SetTooltip replaces the tray icon tooltip. Safe before and after
	// the tray becomes ready.
	SetTooltip(text string)
	Stop()
}

// Options carries the tray start parameters.
type Options struct {
	// Icon is the tray icon content (.ico bytes on Windows, PNG elsewhere).
	Icon []byte

	// Tooltip is the initial hover text; DefaultTooltip when empty.
	Tooltip string

	// OnShow fires when the user asks to show the main window.
	OnShow func()

	// OnHide fires when the user asks to hide the main window.
	OnHide func()

	// OnToggle fires on a left click on the tray icon.
	OnToggle func()

	// OnQuit fires when the user chooses Quit. The handler must exit
	// the application regardless of window state.
	OnQuit func()
}

// Dispatch routes one event to its handler. Unknown events and nil
// handlers are ignored.
func (o Options) Dispatch(ev Event) {
	switch ev {
	case EventShow:
		if o.OnShow != nil {
			o.OnShow()
		}
	case EventHide:
		if o.OnHide != nil {
			o.OnHide()
		}
	case EventToggle:
		if o.OnToggle != nil {
			o.OnToggle()
		}
	case EventQuit:
		if o.OnQuit != nil {
			o.OnQuit()
		}
	}
}

// Start launches the platform tray implementation.
func Start(ctx context.Context, opts Options) (Controller, error) {
	return start(ctx, opts)
}
