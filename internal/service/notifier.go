package service

import "context"

// Notifier delivers a message to an email address or phone number.
type Notifier interface {
	Send(ctx context.Context, destination, subject, body string) error
}
