// Copyright (c) 2026 Web Enterprise 24. All rights reserved.

package schema

// UserKeystoreTable represents the 'users.keystore' table.
//
// One row per issued token pair; deleting the row revokes both tokens.
type UserKeystoreTable struct {
	Table        string
	ID           string
	ClientID     string
	PrimaryKey   string
	SecondaryKey string
	Status       string
	CreatedAt    string
	UpdatedAt    string
}

// UserKeystore is the schema definition for users.keystore
var UserKeystore = UserKeystoreTable{
	Table:        "users.keystore",
	ID:           "id",
	ClientID:     "clientid",
	PrimaryKey:   "primarykey",
	SecondaryKey: "secondarykey",
	Status:       "status",
	CreatedAt:    "createdat",
	UpdatedAt:    "updatedat",
}

// Columns returns all standard column names
func (t UserKeystoreTable) Columns() []string {
	return []string{
		t.ID, t.ClientID, t.PrimaryKey, t.SecondaryKey, t.Status, t.CreatedAt, t.UpdatedAt,
	}
}
