package notify

import (
	"context"
	"log/slog"
)

// Log writes messages to the logger instead of delivering them. Development only:
// OTP codes end up in the log.
type Log struct {
	Channel string
	Logger  *slog.Logger
}

func NewLog(channel string, logger *slog.Logger) *Log {
	if logger == nil {
		logger = slog.Default()
	}
	return &Log{Channel: channel, Logger: logger}
}

func (l *Log) Send(ctx context.Context, destination, subject, body string) error {
	l.Logger.InfoContext(ctx, "notification (not delivered)",
		"channel", l.Channel,
		"destination", destination,
		"subject", subject,
		"body", body,
	)
	return nil
}
