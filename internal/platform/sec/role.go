// Copyright (c) 2026 Web Enterprise 24. All rights reserved.

package sec

import "sort"

// # Role Codes

const (
	// Learners booking meetings and uploading documents
	RoleStudent = "STUDENT"

	// Tutors allocated to students
	RoleTutor = "TUTOR"

	// Staff managing accounts, allocations and editorial content
	RoleStaff = "STAFF"
)

// # Role Sets

// RoleSet is an unordered set of role codes.
//
// Route requirements are built once at router construction and only read
// afterwards, so a RoleSet may be shared across requests.
type RoleSet map[string]struct{}

// NewRoleSet builds a set from codes, ignoring empty strings and duplicates.
func NewRoleSet(codes ...string) RoleSet {
	set := make(RoleSet, len(codes))
	for _, code := range codes {
		if code != "" {
			set[code] = struct{}{}
		}
	}
	return set
}

// Has reports whether code is in the set.
func (s RoleSet) Has(code string) bool {
	_, ok := s[code]
	return ok
}

// Intersect returns the codes present in both sets.
func (s RoleSet) Intersect(other RoleSet) RoleSet {
	small, large := s, other
	if len(large) < len(small) {
		small, large = large, small
	}

	result := make(RoleSet)
	for code := range small {
		if large.Has(code) {
			result[code] = struct{}{}
		}
	}
	return result
}

// Intersects reports whether the sets share at least one code.
//
// One match is enough: a caller holding several roles passes when any of them
// is accepted.
func (s RoleSet) Intersects(other RoleSet) bool {
	return len(s.Intersect(other)) > 0
}

// Codes returns the set's members in lexical order.
func (s RoleSet) Codes() []string {
	codes := make([]string, 0, len(s))
	for code := range s {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}
