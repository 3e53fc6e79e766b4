// Copyright (c) 2026 Priotama. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

import "strings"

// AdminTable represents the 'users.admin' table
type AdminTable struct {
	Table     string
	ID        string
	Email     string
	Name      string
	Password  string
	IsActive  string
	CreatedAt string
	UpdatedAt string
}

// Admin is the schema definition for users.admin
var Admin = AdminTable{
	Table:     "users.admin",
	ID:        "id",
	Email:     "email",
	Name:      "name",
	Password:  "passwordhash",
	IsActive:  "isactive",
	CreatedAt: "createdat",
	UpdatedAt: "updatedat",
}

// Columns returns all standard column names in scan order
func (t AdminTable) Columns() []string {
	return []string{t.ID, t.Email, t.Name, t.Password, t.IsActive, t.CreatedAt, t.UpdatedAt}
}

// SelectList returns [Columns] joined for a SELECT clause
func (t AdminTable) SelectList() string {
	return strings.Join(t.Columns(), ", ")
}
