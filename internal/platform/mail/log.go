// Copyright (c) 2026 Priotama. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package mail

import (
	"context"
	"log/slog"
)

// LogSender writes messages to the structured log instead of sending them.
// It is meant for local development only; codes end up in the log.
type LogSender struct {
	logger *slog.Logger
}

// NewLogSender creates a sender that logs at INFO level.
func NewLogSender(logger *slog.Logger) *LogSender {
	return &LogSender{logger: logger}
}

// Send implements [Sender].
func (sender *LogSender) Send(context context.Context, message Message) error {
	if message.To == "" {
		return ErrNoRecipient
	}

	sender.logger.InfoContext(context, "mail_logged",
		slog.String("to", message.To),
		slog.String("subject", message.Subject),
		slog.String("body", message.TextBody),
	)
	return nil
}
