package notify

import (
	"context"
	"log/slog"
)

// LogNotifier writes notifications to the service log. Always installed so
// outcomes are observable even without a broker.
type LogNotifier struct {
	Logger *slog.Logger
}

func (n *LogNotifier) Success(_ context.Context, username, message string) {
	n.Logger.Info("notification", "level", "success", "username", username, "message", message)
}

func (n *LogNotifier) Error(_ context.Context, username, message string) {
	n.Logger.Warn("notification", "level", "error", "username", username, "message", message)
}
