// Copyright (c) 2026 Web Enterprise 24. All rights reserved.

// Package query parses optional filter values from URL query strings.
package query

import (
	"strconv"
	"strings"
)

// OptionalBool parses raw as a boolean filter. An empty value means "no filter"
// and returns nil; anything strconv cannot parse reports ok=false.
func OptionalBool(raw string) (value *bool, ok bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, true
	}
	parsed, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, false
	}
	return &parsed, true
}
