// Copyright (c) 2026 Web Enterprise 24. All rights reserved.

/*
Package uuid provides time-ordered identifiers for every primary key.

Version 7 values sort by creation time, which keeps B-tree inserts on
users.account and users.keystore append-mostly.
*/
package uuid

import "github.com/google/uuid"

// New generates a new UUIDv7 string.
//
// It panics only if the OS random source fails, which the process cannot recover from.
func New() string {
	id, err := uuid.NewV7()
	if err != nil {
		panic("uuid: failed to generate UUIDv7: " + err.Error())
	}
	return id.String()
}

// Valid reports whether value parses as a UUID of any version.
func Valid(value string) bool {
	return uuid.Validate(value) == nil
}
