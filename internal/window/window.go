// Package window controls the main window through the Wails runtime and
// tracks its visibility, since the runtime offers no visibility query.
package window

import (
	"context"
	"log/slog"
	"sync"

	"github.com/wailsapp/wails/v2/pkg/runtime"
)

// Adapter wraps the Wails window runtime calls behind a visibility-aware
// surface. Visibility is tracked locally: when the adapter has no context
// the window is treated as hidden.
type Adapter struct {
	mu sync.Mutex

	ctx     context.Context
	visible bool
	logger  *slog.Logger

	onChange    func(visible bool)
	raisePolicy func() bool

	showFn func(ctx context.Context, raise bool)
	hideFn func(ctx context.Context)
}

func New(logger *slog.Logger) *Adapter {
	return &Adapter{
		logger: logger,
		showFn: func(ctx context.Context, raise bool) {
			if raise {
				runtime.WindowUnminimise(ctx)
			}
			runtime.WindowShow(ctx)
		},
		hideFn: runtime.WindowHide,
	}
}

// SetOnChange registers a callback fired after every visibility change.
// Must be set before Attach.
func (a *Adapter) SetOnChange(fn func(visible bool)) {
	a.mu.Lock()
	a.onChange = fn
	a.mu.Unlock()
}

// SetRaisePolicy registers a callback consulted on every Show; when it
// returns false the window becomes visible without being raised to the
// foreground. A nil policy always raises.
func (a *Adapter) SetRaisePolicy(fn func() bool) {
	a.mu.Lock()
	a.raisePolicy = fn
	a.mu.Unlock()
}

// Attach binds the adapter to the Wails context and seeds the initial
// visibility state.
func (a *Adapter) Attach(ctx context.Context, visible bool) {
	a.mu.Lock()
	a.ctx = ctx
	a.visible = visible
	a.mu.Unlock()
}

// Visible reports the tracked visibility. False when not attached.
func (a *Adapter) Visible() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.ctx != nil && a.visible
}

// Show makes the window visible and raises it.
func (a *Adapter) Show() error {
	return a.setVisible(true)
}

// Hide removes the window from view without closing the app.
func (a *Adapter) Hide() error {
	return a.setVisible(false)
}

// Toggle hides a visible window and shows a hidden one.
func (a *Adapter) Toggle() error {
	if a.Visible() {
		return a.Hide()
	}
	return a.Show()
}

func (a *Adapter) setVisible(visible bool) error {
	a.mu.Lock()
	ctx := a.ctx
	if ctx == nil {
		// No window attached: succeed without doing anything.
		a.mu.Unlock()
		a.logger.Debug("window call ignored, not attached")
		return nil
	}
	a.visible = visible
	onChange := a.onChange
	raisePolicy := a.raisePolicy
	show := a.showFn
	hide := a.hideFn
	a.mu.Unlock()

	if visible {
		raise := raisePolicy == nil || raisePolicy()
		show(ctx, raise)
		a.logger.Debug("window shown", "raised", raise)
	} else {
		hide(ctx)
		a.logger.Debug("window hidden")
	}

	if onChange != nil {
		onChange(visible)
	}
	return nil
}
