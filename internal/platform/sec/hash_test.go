// Copyright (c) 2026 Web Enterprise 24. All rights reserved.

package sec_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/web-enterprise-24/backend/internal/platform/constants"
	"github.com/web-enterprise-24/backend/internal/platform/sec"
)

/*
TestHashPassword verifies hashing and comparison in both directions.
*/
func TestHashPassword(t *testing.T) {
	hash, err := sec.HashPassword("correct horse")
	require.NoError(t, err)

	assert.NotEqual(t, "correct horse", hash)
	assert.True(t, sec.CheckPasswordHash("correct horse", hash))
	assert.False(t, sec.CheckPasswordHash("wrong horse", hash))
}

/*
TestGenerateSecureToken checks length, encoding and uniqueness of session keys.
*/
func TestGenerateSecureToken(t *testing.T) {
	first, err := sec.GenerateSecureToken(constants.SessionKeyLength)
	require.NoError(t, err)
	second, err := sec.GenerateSecureToken(constants.SessionKeyLength)
	require.NoError(t, err)

	assert.Len(t, first, constants.SessionKeyLength*2)
	assert.Regexp(t, "^[0-9a-f]+$", first)
	assert.NotEqual(t, first, second)

	_, err = sec.GenerateSecureToken(0)
	assert.Error(t, err)
}
