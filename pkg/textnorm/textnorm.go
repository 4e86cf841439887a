// Copyright (c) 2026 Web Enterprise 24. All rights reserved.

// Package textnorm canonicalises user-supplied identifiers before storage or lookup.
//
// # Usage
//
// Emails are the login identifier, so "Élan@Example.com" and "élan@example.com"
// must resolve to the same account. Display names are only tidied, never folded.
package textnorm

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Email returns the NFKC-normalised, case-folded, trimmed form of address.
func Email(address string) string {
	trimmed := strings.TrimSpace(address)
	if trimmed == "" {
		return ""
	}

	// A Caser is stateful and must not be shared between goroutines.
	return norm.NFKC.String(cases.Fold().String(norm.NFKC.String(trimmed)))
}

// Name collapses internal whitespace runs and trims the result.
func Name(value string) string {
	return strings.Join(strings.Fields(norm.NFC.String(value)), " ")
}
