// Package notify delivers operating system notifications.
package notify

import (
	"fmt"
	"log/slog"

	"github.com/gen2brain/beeep"
)

// Notifier sends desktop notifications through the platform's native
// notification service.
type Notifier struct {
	logger *slog.Logger

	// send is swappable for tests.
	send func(title, body string) error
}

func New(logger *slog.Logger) *Notifier {
	return NewWithSender(logger, func(title, body string) error {
		return beeep.Notify(title, body, "")
	})
}

// NewWithSender creates a Notifier with a custom delivery function.
func NewWithSender(logger *slog.Logger, send func(title, body string) error) *Notifier {
	return &Notifier{
		logger: logger,
		send:   send,
	}
}

// Show displays a notification with the given title and body. The title
// must not be empty; the body may be.
func (n *Notifier) Show(title, body string) error {
	if title == "" {
		return fmt.Errorf("notification title must not be empty")
	}

	if err := n.send(title, body); err != nil {
		n.logger.Warn("notification delivery failed", "title", title, "error", err)
		return fmt.Errorf("show notification: %w", err)
	}
	n.logger.Debug("notification shown", "title", title)
	return nil
}
