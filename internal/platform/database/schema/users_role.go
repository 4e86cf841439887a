// Copyright (c) 2026 Web Enterprise 24. All rights reserved.

package schema

// UserRoleTable represents the 'users.role' table
type UserRoleTable struct {
	Table     string
	ID        string
	Code      string
	Status    string
	CreatedAt string
	UpdatedAt string
}

// UserRole is the schema definition for users.role
var UserRole = UserRoleTable{
	Table:     "users.role",
	ID:        "id",
	Code:      "code",
	Status:    "status",
	CreatedAt: "createdat",
	UpdatedAt: "updatedat",
}

// Columns returns all standard column names
func (t UserRoleTable) Columns() []string {
	return []string{t.ID, t.Code, t.Status, t.CreatedAt, t.UpdatedAt}
}

// UserRoleLinkTable represents the 'users.userrole' join table
type UserRoleLinkTable struct {
	Table  string
	UserID string
	RoleID string
}

// UserRoleLink is the schema definition for users.userrole
var UserRoleLink = UserRoleLinkTable{
	Table:  "users.userrole",
	UserID: "userid",
	RoleID: "roleid",
}
