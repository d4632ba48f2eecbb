// Package notify pushes an optional phone notification when the playing
// item changes. Entirely inert when no Pushover credentials are configured.
package notify

import (
	"fmt"
	"log/slog"

	"github.com/gregdel/pushover"

	"github.com/avleth/kodiscreen/config"
)

type Notifier struct {
	app       *pushover.Pushover
	recipient *pushover.Recipient
}

// New returns nil when credentials are missing; a nil *Notifier is safe to
// call.
func New(cfg config.PushoverConfig) *Notifier {
	if cfg.Token == "" || cfg.Recipient == "" {
		return nil
	}
	return &Notifier{
		app:       pushover.New(cfg.Token),
		recipient: pushover.NewRecipient(cfg.Recipient),
	}
}

func (n *Notifier) ItemChanged(title, subtitle string) {
	if n == nil {
		return
	}
	body := title
	if subtitle != "" {
		body = fmt.Sprintf("%s - %s", subtitle, title)
	}
	message := &pushover.Message{
		Message: body,
		Title:   "Now playing",
	}
	if _, err := n.app.SendMessage(message, n.recipient); err != nil {
		slog.Error("Failed to send notification",
			slog.String("stack", err.Error()))
	}
}
