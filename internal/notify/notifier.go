package notify

import (
	"context"
	"time"

	"go.uber.org/zap"
)

type Notification struct {
	Type           string
	TaskID         int64
	RecipientID    int64
	RecipientEmail string
	Message        string
	CreatedAt      time.Time
}

// Notifier delivers a notification.
type Notifier interface {
	Send(ctx context.Context, n Notification) error
}

type logNotifier struct {
	log *zap.Logger
}

// NewLogNotifier writes notifications to the log. Stands in until a mail or
// chat channel is configured.
func NewLogNotifier(log *zap.Logger) Notifier {
	return &logNotifier{log: log}
}

func (n *logNotifier) Send(_ context.Context, notification Notification) error {
	n.log.Info("notification",
		zap.String("type", notification.Type),
		zap.Int64("taskId", notification.TaskID),
		zap.Int64("recipientId", notification.RecipientID),
		zap.String("recipient", notification.RecipientEmail),
		zap.String("message", notification.Message),
		zap.Time("at", notification.CreatedAt),
	)
	return nil
}
