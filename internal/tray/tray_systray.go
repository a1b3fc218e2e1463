//go:build !stub

package tray

import (
	"context"
	"sync"

	"github.com/getlantern/systray"
)

type systrayController struct {
	opts   Options
	ctx    context.Context
	quitCh chan struct{}
	once   sync.Once

	mu      sync.Mutex
	running bool
	ready   bool
	tooltip string
}

func (c *systrayController) SetTooltip(text string) {
	c.mu.Lock()
	c.tooltip = text
	apply := c.ready && c.running
	c.mu.Unlock()

	if apply {
		systray.SetTooltip(text)
	}
}

func (c *systrayController) Stop() {
	c.once.Do(func() {
		c.mu.Lock()
		if c.running {
			systray.Quit()
			c.running = false
		}
		c.mu.Unlock()
		close(c.quitCh)
	})
}

func start(ctx context.Context, opts Options) (Controller, error) {
	ctrl := &systrayController{
		opts:    opts,
		ctx:     ctx,
		quitCh:  make(chan struct{}),
		tooltip: opts.Tooltip,
	}
	if ctrl.tooltip == "" {
		ctrl.tooltip = DefaultTooltip
	}

	// systray.Run blocks, so it gets its own goroutine.
	go func() {
		ctrl.mu.Lock()
		ctrl.running = true
		ctrl.mu.Unlock()

		systray.Run(
			func() { ctrl.onReady() },
			func() { ctrl.onExit() },
		)
	}()

	return ctrl, nil
}

func (c *systrayController) onReady() {
	if len(c.opts.Icon) > 0 {
		systray.SetIcon(c.opts.Icon)
	}

	c.mu.Lock()
	c.ready = true
	tooltip := c.tooltip
	c.mu.Unlock()
	systray.SetTooltip(tooltip)

	mShow := systray.AddMenuItem(LabelShow, "Show the main window")
	mHide := systray.AddMenuItem(LabelHide, "Hide the main window to the tray")
	systray.AddSeparator()
	mQuit := systray.AddMenuItem(LabelQuit, "Quit the application")

	go func() {
		for {
			select {
			case <-c.quitCh:
				return
			case <-mShow.ClickedCh:
				c.opts.Dispatch(EventShow)
			case <-mHide.ClickedCh:
				c.opts.Dispatch(EventHide)
			case <-mQuit.ClickedCh:
				c.opts.Dispatch(EventQuit)
			}
		}
	}()
}

func (c *systrayController) onExit() {
	c.mu.Lock()
	c.ready = false
	c.mu.Unlock()
}
