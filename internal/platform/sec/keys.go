// Copyright (c) 2026 Web Enterprise 24. All rights reserved.

package sec

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// GenerateSecureToken returns length bytes from the OS CSPRNG, hex encoded.
//
// Session primary and secondary keys are produced here; two calls never share state.
func GenerateSecureToken(length int) (string, error) {
	if length <= 0 {
		return "", fmt.Errorf("sec: invalid token length %d", length)
	}

	buffer := make([]byte, length)
	if _, err := rand.Read(buffer); err != nil {
		return "", fmt.Errorf("sec: failed to read random bytes: %w", err)
	}

	return hex.EncodeToString(buffer), nil
}
