// Copyright (c) 2026 Priotama. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package otp issues and checks the six-digit one-time codes that prove control
of an email address during registration and password reset.

Architecture:

  - Generation: Uniform over 000000-999999, drawn from crypto/rand.
  - Delivery: One attempt through a [mail.Sender]. A failure is returned as
    [apperr.Delivery]; the caller rolls back whatever it staged.
  - Comparison: Exact string match in constant time. No normalization, so
    " 123456" never matches "123456".
*/
package otp

import (
	"bytes"
	"context"
	"crypto/rand"
	"crypto/subtle"
	"embed"
	"fmt"
	htmltemplate "html/template"
	"math/big"
	"text/template"
	"time"

	"github.com/taibuivan/priotama/internal/platform/apperr"
	"github.com/taibuivan/priotama/internal/platform/mail"
)

// Length is the number of digits in a code.
const Length = 6

// Purpose names the flow a code belongs to. It appears in the message.
type Purpose string

const (
	PurposeRegistration  Purpose = "verification"
	PurposePasswordReset Purpose = "password reset"
)

var upperBound = big.NewInt(1_000_000)

//go:embed templates/*
var templateFS embed.FS

var (
	textTemplate = template.Must(template.ParseFS(templateFS, "templates/code.txt"))
	htmlTemplate = htmltemplate.Must(htmltemplate.ParseFS(templateFS, "templates/code.html"))
)

// # Codes

// Generate returns a code drawn uniformly from 000000-999999.
func Generate() (string, error) {
	n, err := rand.Int(rand.Reader, upperBound)
	if err != nil {
		return "", fmt.Errorf("otp_generate_failed: %w", err)
	}
	return fmt.Sprintf("%0*d", Length, n.Int64()), nil
}

// WellFormed reports whether code is exactly [Length] ASCII digits.
func WellFormed(code string) bool {
	if len(code) != Length {
		return false
	}
	for i := 0; i < len(code); i++ {
		if code[i] < '0' || code[i] > '9' {
			return false
		}
	}
	return true
}

// Match reports whether presented equals stored exactly.
func Match(stored, presented string) bool {
	return subtle.ConstantTimeCompare([]byte(stored), []byte(presented)) == 1
}

// # Delivery

// Issuer delivers codes through a mail sender.
type Issuer struct {
	sender mail.Sender
}

// NewIssuer creates an Issuer.
func NewIssuer(sender mail.Sender) *Issuer {
	return &Issuer{sender: sender}
}

type messageData struct {
	Code     string
	Purpose  Purpose
	ValidFor string
}

/*
Deliver sends code to destination. It does not retry.

Parameters:
  - context: context.Context
  - destination: string (email address)
  - code: string
  - purpose: Purpose (wording of the message)
  - validFor: time.Duration (lifetime shown to the recipient)

Returns:
  - error: apperr.Delivery when the channel fails
*/
func (issuer *Issuer) Deliver(context context.Context, destination, code string, purpose Purpose, validFor time.Duration) error {
	data := messageData{Code: code, Purpose: purpose, ValidFor: validFor.Round(time.Minute).String()}

	var text, html bytes.Buffer
	if err := textTemplate.Execute(&text, data); err != nil {
		return apperr.Internal(fmt.Errorf("otp_render_text_failed: %w", err))
	}
	if err := htmlTemplate.Execute(&html, data); err != nil {
		return apperr.Internal(fmt.Errorf("otp_render_html_failed: %w", err))
	}

	err := issuer.sender.Send(context, mail.Message{
		To:       destination,
		Subject:  fmt.Sprintf("Your Priotama %s code", purpose),
		TextBody: text.String(),
		HTMLBody: html.String(),
	})
	if err != nil {
		return apperr.Delivery(fmt.Errorf("otp_deliver_failed: %w", err))
	}
	return nil
}
