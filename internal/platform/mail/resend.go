// Copyright (c) 2026 Priotama. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package mail

import (
	"context"
	"fmt"

	"github.com/resend/resend-go/v2"
)

// ResendSender sends mail through the Resend HTTP API.
type ResendSender struct {
	client *resend.Client
	from   string
}

// NewResendSender creates a sender authenticated with apiKey.
func NewResendSender(apiKey, from string) *ResendSender {
	return &ResendSender{
		client: resend.NewClient(apiKey),
		from:   from,
	}
}

// Send implements [Sender].
func (sender *ResendSender) Send(context context.Context, message Message) error {
	if message.To == "" {
		return ErrNoRecipient
	}

	request := &resend.SendEmailRequest{
		From:    sender.from,
		To:      []string{message.To},
		Subject: message.Subject,
		Html:    message.HTMLBody,
		Text:    message.TextBody,
	}

	if _, err := sender.client.Emails.SendWithContext(context, request); err != nil {
		return fmt.Errorf("mail_resend_send_failed: %w", err)
	}
	return nil
}
