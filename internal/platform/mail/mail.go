// Copyright (c) 2026 Priotama. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package mail delivers transactional email (one-time codes) to members.

Architecture:

  - Contract: [Sender] sends one [Message]. Implementations do not retry; a
    failure is returned to the caller, which decides how to roll back.
  - Providers: SMTP ([SMTPSender], gomail), Resend ([ResendSender]) and a
    logging sender ([LogSender]) for local development.
  - Selection: [New] picks a provider from [config.MailConfig].
*/
package mail

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/taibuivan/priotama/internal/platform/config"
)

// ErrNoRecipient is returned when a message has no destination.
var ErrNoRecipient = errors.New("mail: no recipient specified")

// Message is a single outgoing email.
type Message struct {
	To       string
	Subject  string
	TextBody string
	HTMLBody string
}

// Sender delivers a [Message].
type Sender interface {
	Send(context context.Context, message Message) error
}

// New builds the sender configured by cfg.
func New(cfg config.MailConfig, logger *slog.Logger) (Sender, error) {
	switch cfg.Provider {
	case config.MailProviderSMTP:
		return NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.From), nil
	case config.MailProviderResend:
		return NewResendSender(cfg.ResendAPIKey, cfg.From), nil
	case config.MailProviderLog:
		return NewLogSender(logger), nil
	default:
		return nil, fmt.Errorf("mail: unknown provider %q", cfg.Provider)
	}
}
