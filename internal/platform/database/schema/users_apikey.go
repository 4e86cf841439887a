// Copyright (c) 2026 Web Enterprise 24. All rights reserved.

package schema

// UserAPIKeyTable represents the 'users.apikey' table
type UserAPIKeyTable struct {
	Table       string
	ID          string
	Key         string
	Version     string
	Permissions string
	Comments    string
	Status      string
	CreatedAt   string
	UpdatedAt   string
}

// UserAPIKey is the schema definition for users.apikey
var UserAPIKey = UserAPIKeyTable{
	Table:       "users.apikey",
	ID:          "id",
	Key:         "key",
	Version:     "version",
	Permissions: "permissions",
	Comments:    "comments",
	Status:      "status",
	CreatedAt:   "createdat",
	UpdatedAt:   "updatedat",
}

// Columns returns all standard column names
func (t UserAPIKeyTable) Columns() []string {
	return []string{
		t.ID, t.Key, t.Version, t.Permissions, t.Comments, t.Status, t.CreatedAt, t.UpdatedAt,
	}
}
