// Copyright (c) 2026 Web Enterprise 24. All rights reserved.

package schema

// UserAccountTable represents the 'users.account' table
type UserAccountTable struct {
	Table         string
	ID            string
	Name          string
	Email         string
	Password      string
	ProfilePicURL string
	Status        string
	Verified      string
	CreatedAt     string
	UpdatedAt     string
}

// UserAccount is the schema definition for users.account
var UserAccount = UserAccountTable{
	Table:         "users.account",
	ID:            "id",
	Name:          "name",
	Email:         "email",
	Password:      "passwordhash",
	ProfilePicURL: "profilepicurl",
	Status:        "status",
	Verified:      "verified",
	CreatedAt:     "createdat",
	UpdatedAt:     "updatedat",
}

// Columns returns all standard column names
func (t UserAccountTable) Columns() []string {
	return []string{
		t.ID, t.Name, t.Email, t.Password, t.ProfilePicURL,
		t.Status, t.Verified, t.CreatedAt, t.UpdatedAt,
	}
}
