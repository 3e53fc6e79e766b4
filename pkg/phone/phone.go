// Copyright (c) 2026 Priotama. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package phone normalizes phone numbers and email addresses for identity checks.

Members have been stored under several textual encodings of the same number
over time ("+91 9876543210", "+919876543210", "91 9876543210", "919876543210").
This package owns the single canonical form written today and the full set of
encodings a lookup must match against.

Architecture:

  - Pure: No I/O, no state. Every function is deterministic.
  - Canonical: [Normalize] yields "+CC NATIONAL", or "NATIONAL" when no
    country code can be inferred.
  - Variants: [Variants] yields every stored encoding of one number.
*/
package phone

import (
	"errors"
	"sort"
	"strings"
)

// Length limits, in digits.
const (
	// NationalDigits is the national number length assumed when digits run together.
	NationalDigits = 10

	minDigits      = 7
	maxDigits      = 15
	maxCountryCode = 3
)

// ErrInvalid is returned for input that cannot be read as a phone number.
var ErrInvalid = errors.New("phone: invalid number")

// Number is a parsed phone number.
type Number struct {
	// CountryCode holds the calling code digits without the plus sign. Empty when unknown.
	CountryCode string
	// National holds the national significant number digits.
	National string
}

// # Parsing

// Parse reads raw input into a [Number].
//
// Digits may be separated by spaces, dashes, dots or parentheses. The country
// code is taken from the first digit group when the input starts with a plus
// sign or carries more than [NationalDigits] digits. Without separators, the
// last [NationalDigits] digits are the national number.
func Parse(raw string) (Number, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Number{}, ErrInvalid
	}

	hasPlus := strings.HasPrefix(trimmed, "+")
	if hasPlus {
		trimmed = trimmed[1:]
	}

	groups, err := digitGroups(trimmed)
	if err != nil {
		return Number{}, err
	}

	digits := strings.Join(groups, "")
	if len(digits) < minDigits || len(digits) > maxDigits {
		return Number{}, ErrInvalid
	}

	var number Number
	switch {
	case len(groups) > 1 && (hasPlus || len(digits) > NationalDigits) && len(groups[0]) <= maxCountryCode:
		number = Number{CountryCode: groups[0], National: strings.Join(groups[1:], "")}
	case len(digits) > NationalDigits:
		split := len(digits) - NationalDigits
		number = Number{CountryCode: digits[:split], National: digits[split:]}
	default:
		number = Number{National: digits}
	}

	// A leading zero is a trunk prefix, never a calling code.
	if strings.HasPrefix(number.CountryCode, "0") {
		number = Number{National: digits[len(digits)-min(len(digits), NationalDigits):]}
	}

	if len(number.CountryCode) > maxCountryCode || len(number.National) < minDigits-maxCountryCode {
		return Number{}, ErrInvalid
	}

	return number, nil
}

// digitGroups splits s on separators, rejecting any other character.
func digitGroups(s string) ([]string, error) {
	var (
		groups  []string
		current strings.Builder
	)

	flush := func() {
		if current.Len() > 0 {
			groups = append(groups, current.String())
			current.Reset()
		}
	}

	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			current.WriteRune(r)
		case r == ' ' || r == '-' || r == '.' || r == '(' || r == ')':
			flush()
		default:
			return nil, ErrInvalid
		}
	}
	flush()

	if len(groups) == 0 {
		return nil, ErrInvalid
	}
	return groups, nil
}

// # Formatting

// Canonical renders the number as stored today: "+CC NATIONAL" or "NATIONAL".
func (n Number) Canonical() string {
	if n.CountryCode == "" {
		return n.National
	}
	return "+" + n.CountryCode + " " + n.National
}

// Variants lists every encoding the number may have been stored under.
func (n Number) Variants() []string {
	if n.CountryCode == "" {
		return []string{n.National}
	}

	return unique([]string{
		"+" + n.CountryCode + " " + n.National,
		"+" + n.CountryCode + n.National,
		n.CountryCode + " " + n.National,
		n.CountryCode + n.National,
	})
}

// Normalize parses raw and returns its canonical form.
func Normalize(raw string) (string, error) {
	number, err := Parse(raw)
	if err != nil {
		return "", err
	}
	return number.Canonical(), nil
}

// Variants returns the sorted, de-duplicated set of stored encodings of raw.
//
// Unparseable input yields only its trimmed literal, so lookups still match a
// record written verbatim.
func Variants(raw string) []string {
	number, err := Parse(raw)
	if err != nil {
		trimmed := strings.TrimSpace(raw)
		if trimmed == "" {
			return nil
		}
		return []string{trimmed}
	}
	return number.Variants()
}

// # Email

// NormalizeEmail lowercases and trims an email address.
func NormalizeEmail(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

func unique(values []string) []string {
	sort.Strings(values)
	out := values[:0]
	for i, value := range values {
		if i == 0 || value != values[i-1] {
			out = append(out, value)
		}
	}
	return out
}
