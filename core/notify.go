package core

import (
	"context"

	"github.com/aquanorma/credentials/notify"
)

func (a *App) notify(ctx context.Context, n notify.Notification) {
	if err := a.Notifier().Send(ctx, n); err != nil {
		a.Logger().Error("failed to send notification", "source", n.Source, "error", err)
	}
}

// alarm reports a failed dependency to the operators.
func (a *App) alarm(ctx context.Context, source, message string, err error) {
	a.notify(ctx, notify.Notification{
		Type:    notify.Alarm,
		Source:  source,
		Message: message,
		Fields:  map[string]any{"error": err.Error()},
	})
}
