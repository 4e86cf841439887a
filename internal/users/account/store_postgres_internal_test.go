// Copyright (c) 2026 Web Enterprise 24. All rights reserved.

package account

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

/*
TestBuildWhere verifies only the set filters become conditions and LIKE input is escaped.
*/
func TestBuildWhere(t *testing.T) {
	where, args := buildWhere(ListFilter{})
	assert.Empty(t, where)
	assert.Empty(t, args)

	active := true
	where, args = buildWhere(ListFilter{RoleCode: "TUTOR", Status: &active, Search: "50%_off"})

	assert.Contains(t, where, "r.code = $1")
	assert.Contains(t, where, "a.status = $2")
	assert.Contains(t, where, "a.name ILIKE $3 OR a.email ILIKE $3")
	assert.Equal(t, []any{"TUTOR", true, `%50\%\_off%`}, args)
}
