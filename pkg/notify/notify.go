// Package notify delivers user-facing outcome notifications for dispatched
// commands. Delivery is fire-and-forget: sinks must never block or fail the
// command that emitted the notification.
package notify

import "context"

// Notifier receives success/error notifications for a user.
type Notifier interface {
	Success(ctx context.Context, username, message string)
	Error(ctx context.Context, username, message string)
}

// Multi fans a notification out to every sink.
type Multi []Notifier

func (m Multi) Success(ctx context.Context, username, message string) {
	for _, n := range m {
		n.Success(ctx, username, message)
	}
}

func (m Multi) Error(ctx context.Context, username, message string) {
	for _, n := range m {
		n.Error(ctx, username, message)
	}
}
