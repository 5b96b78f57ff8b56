package form

import (
	"context"

	"go.uber.org/zap"
)

// Level classifies a notification.
type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

// Notification is a toast-style message emitted by the submit lifecycle.
type Notification struct {
	Level   Level
	Message string
}

// Notifier receives submit notifications.
type Notifier interface {
	Notify(ctx context.Context, n Notification)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ctx context.Context, n Notification)

// Notify implements Notifier.
func (fn NotifierFunc) Notify(ctx context.Context, n Notification) {
	if fn != nil {
		fn(ctx, n)
	}
}

// ZapNotifier writes notifications to a zap logger.
type ZapNotifier struct {
	logger *zap.Logger
}

// NewZapNotifier returns a notifier logging through logger.
func NewZapNotifier(logger *zap.Logger) *ZapNotifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ZapNotifier{logger: logger}
}

// Notify implements Notifier.
func (z *ZapNotifier) Notify(_ context.Context, n Notification) {
	if n.Level == LevelError {
		z.logger.Warn(n.Message, zap.String("level", string(n.Level)))
		return
	}
	z.logger.Info(n.Message, zap.String("level", string(n.Level)))
}
