package notification

import (
	"context"
	"log/slog"
)

// LogMailer stands in for a mail provider in local setups.
type LogMailer struct{}

func NewLogMailer() *LogMailer {
	return &LogMailer{}
}

func (LogMailer) Send(_ context.Context, to, subject, html string) error {
	slog.Info("notice (not delivered, no mail provider configured)",
		"to", to,
		"subject", subject,
		"bytes", len(html))
	return nil
}
