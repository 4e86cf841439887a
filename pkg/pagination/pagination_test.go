// Copyright (c) 2026 Web Enterprise 24. All rights reserved.

package pagination_test

import (
	"math"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/web-enterprise-24/backend/pkg/pagination"
)

/*
TestFromRequest verifies defaults, clamping and sort parsing.
*/
func TestFromRequest(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  pagination.Params
	}{
		{"defaults", "", pagination.Params{Page: 1, Limit: 20, SortField: "createdAt", Direction: pagination.Ascending}},
		{"explicit window", "?page=3&limit=10", pagination.Params{Page: 3, Limit: 10, SortField: "createdAt", Direction: pagination.Ascending}},
		{"garbage numbers", "?page=x&limit=-4", pagination.Params{Page: 1, Limit: 20, SortField: "createdAt", Direction: pagination.Ascending}},
		{"limit clamped", "?limit=1000", pagination.Params{Page: 1, Limit: 100, SortField: "createdAt", Direction: pagination.Ascending}},
		{"page clamped", "?page=9223372036854775807&limit=100", pagination.Params{Page: pagination.MaxPage, Limit: 100, SortField: "createdAt", Direction: pagination.Ascending}},
		{"descending sort", "?sort=-name", pagination.Params{Page: 1, Limit: 20, SortField: "name", Direction: pagination.Descending}},
		{"unknown sort", "?sort=password", pagination.Params{Page: 1, Limit: 20, SortField: "createdAt", Direction: pagination.Ascending}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request := httptest.NewRequest("GET", "/account"+tt.query, nil)
			assert.Equal(t, tt.want, pagination.FromRequest(request, "createdAt", "createdAt", "name", "email"))
		})
	}
}

/*
TestParams_OffsetAndMeta verifies window arithmetic.
*/
func TestParams_OffsetAndMeta(t *testing.T) {
	params := pagination.Params{Page: 3, Limit: 10}
	assert.Equal(t, 20, params.Offset())
	assert.Equal(t, 0, pagination.Params{Page: 0, Limit: 10}.Offset())

	meta := pagination.NewMeta(params, 21)
	assert.Equal(t, pagination.Meta{Page: 3, Limit: 10, Total: 21, TotalPages: 3}, meta)
}

/*
TestParams_OffsetNeverNegative keeps huge pages from wrapping the SQL offset.
*/
func TestParams_OffsetNeverNegative(t *testing.T) {
	request := httptest.NewRequest("GET", "/account?page=9223372036854775807&limit=100", nil)
	params := pagination.FromRequest(request, "createdAt")
	assert.GreaterOrEqual(t, params.Offset(), 0)

	unclamped := pagination.Params{Page: math.MaxInt, Limit: math.MaxInt}
	assert.GreaterOrEqual(t, unclamped.Offset(), 0)
}
