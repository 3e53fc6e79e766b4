// Copyright (c) 2026 Priotama. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package mail

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"
)

// SMTPSender sends mail through an SMTP relay.
type SMTPSender struct {
	dialer *gomail.Dialer
	from   string
}

// NewSMTPSender creates a sender for the given relay. Port 465 implies implicit TLS.
func NewSMTPSender(host string, port int, username, password, from string) *SMTPSender {
	return &SMTPSender{
		dialer: gomail.NewDialer(host, port, username, password),
		from:   from,
	}
}

// Send implements [Sender]. gomail has no context support, so cancellation is
// only observed before dialing.
func (sender *SMTPSender) Send(context context.Context, message Message) error {
	if message.To == "" {
		return ErrNoRecipient
	}
	if err := context.Err(); err != nil {
		return err
	}

	if err := sender.dialer.DialAndSend(sender.compose(message)); err != nil {
		return fmt.Errorf("mail_smtp_send_failed: %w", err)
	}
	return nil
}

func (sender *SMTPSender) compose(message Message) *gomail.Message {
	msg := gomail.NewMessage()
	msg.SetHeader("From", sender.from)
	msg.SetHeader("To", message.To)
	msg.SetHeader("Subject", message.Subject)

	if message.HTMLBody != "" {
		msg.SetBody("text/html", message.HTMLBody)
		if message.TextBody != "" {
			msg.AddAlternative("text/plain", message.TextBody)
		}
	} else {
		msg.SetBody("text/plain", message.TextBody)
	}

	return msg
}
