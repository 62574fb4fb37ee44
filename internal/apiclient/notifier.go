// File: internal/apiclient/notifier.go
package apiclient

import (
	"context"
	"net/http"

	"go.uber.org/zap"
)

// Notification is a user-facing message about a failed request.
type Notification struct {
	StatusCode int
	Message    string
}

// Notifier shows notifications to the user.
type Notifier interface {
	Notify(ctx context.Context, n Notification)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ctx context.Context, n Notification)

func (f NotifierFunc) Notify(ctx context.Context, n Notification) { f(ctx, n) }

// LogNotifier writes notifications to a zap logger.
type LogNotifier struct {
	Logger *zap.Logger
}

func (l LogNotifier) Notify(_ context.Context, n Notification) {
	if l.Logger == nil {
		return
	}
	l.Logger.Warn(n.Message, zap.Int("status_code", n.StatusCode))
}

// notificationFor classifies a failed status. ok is false for statuses that are not announced.
func notificationFor(status int) (Notification, bool) {
	switch {
	case status >= http.StatusInternalServerError:
		return Notification{StatusCode: status, Message: "Server error. Please try again later."}, true
	case status == http.StatusNotFound:
		return Notification{StatusCode: status, Message: "Resource not found."}, true
	case status == http.StatusForbidden:
		return Notification{StatusCode: status, Message: "Access denied."}, true
	}
	return Notification{}, false
}
