// Copyright (c) 2026 Web Enterprise 24. All rights reserved.

// Package pagination parses page requests for list endpoints and builds the
// metadata block of paginated responses.
package pagination

import (
	"math"
	"net/http"
	"strconv"
	"strings"
)

const (
	DefaultPage  = 1
	DefaultLimit = 20
	// MaxLimit caps a single page; larger requests are clamped, not rejected.
	MaxLimit = 100
	// MaxPage keeps (page-1)*limit inside int for any clamped limit.
	MaxPage = math.MaxInt / MaxLimit
)

// Direction is the sort order of a list query.
type Direction string

const (
	Ascending  Direction = "ASC"
	Descending Direction = "DESC"
)

// Params holds the parsed page window and sort order of a request.
type Params struct {
	Page      int
	Limit     int
	SortField string
	Direction Direction
}

// Offset returns the SQL OFFSET for the window.
func (params Params) Offset() int {
	if params.Page <= 1 || params.Limit <= 0 {
		return 0
	}
	page, limit := min(params.Page, MaxPage), min(params.Limit, MaxLimit)
	return (page - 1) * limit
}

// Meta is the pagination block of a list response.
type Meta struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// NewMeta derives TotalPages from total and limit.
func NewMeta(params Params, total int) Meta {
	totalPages := 0
	if params.Limit > 0 {
		totalPages = (total + params.Limit - 1) / params.Limit
	}

	return Meta{
		Page:       params.Page,
		Limit:      params.Limit,
		Total:      total,
		TotalPages: totalPages,
	}
}

/*
FromRequest parses "page", "limit" and "sort" from the query string.

Description: sort takes the form "field" or "-field" for descending order.
Fields outside allowedSorts fall back to defaultSort. Invalid numbers fall
back to the defaults; a limit above [MaxLimit] or a page above [MaxPage] is clamped.

Parameters:
  - request: *http.Request
  - defaultSort: string (field used when sort is absent or not allowed)
  - allowedSorts: ...string

Returns:
  - Params: Always usable; never an error
*/
func FromRequest(request *http.Request, defaultSort string, allowedSorts ...string) Params {
	values := request.URL.Query()

	params := Params{
		Page:      parseInt(values.Get("page"), DefaultPage),
		Limit:     parseInt(values.Get("limit"), DefaultLimit),
		SortField: defaultSort,
		Direction: Ascending,
	}

	switch {
	case params.Page < 1:
		params.Page = DefaultPage
	case params.Page > MaxPage:
		params.Page = MaxPage
	}
	switch {
	case params.Limit < 1:
		params.Limit = DefaultLimit
	case params.Limit > MaxLimit:
		params.Limit = MaxLimit
	}

	sort := strings.TrimSpace(values.Get("sort"))
	direction := Ascending
	if field, found := strings.CutPrefix(sort, "-"); found {
		sort, direction = field, Descending
	}
	for _, allowed := range allowedSorts {
		if sort == allowed {
			params.SortField, params.Direction = sort, direction
			break
		}
	}

	return params
}

func parseInt(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}
