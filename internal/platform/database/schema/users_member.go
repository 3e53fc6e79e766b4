// Copyright (c) 2026 Priotama. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

import "strings"

// MemberTable represents the 'users.member' table
type MemberTable struct {
	Table         string
	ID            string
	Name          string
	Email         string
	Phone         string
	Gender        string
	Age           string
	Country       string
	State         string
	Profession    string
	Hobby         string
	InstaID       string
	ProfilePicURL string
	ProfilePicKey string
	Password      string
	IsVerified    string
	IsBlocked     string
	CreatedAt     string
	UpdatedAt     string
	EmailKey      string
	PhoneKey      string
}

// Member is the schema definition for users.member
var Member = MemberTable{
	Table:         "users.member",
	ID:            "id",
	Name:          "name",
	Email:         "email",
	Phone:         "phone",
	Gender:        "gender",
	Age:           "age",
	Country:       "country",
	State:         "state",
	Profession:    "profession",
	Hobby:         "hobby",
	InstaID:       "instaid",
	ProfilePicURL: "profilepicurl",
	ProfilePicKey: "profilepickey",
	Password:      "passwordhash",
	IsVerified:    "isverified",
	IsBlocked:     "isblocked",
	CreatedAt:     "createdat",
	UpdatedAt:     "updatedat",
	EmailKey:      "member_email_key",
	PhoneKey:      "member_phone_key",
}

// Columns returns all standard column names in scan order
func (t MemberTable) Columns() []string {
	return []string{
		t.ID, t.Name, t.Email, t.Phone, t.Gender, t.Age, t.Country, t.State,
		t.Profession, t.Hobby, t.InstaID, t.ProfilePicURL, t.ProfilePicKey,
		t.Password, t.IsVerified, t.IsBlocked, t.CreatedAt, t.UpdatedAt,
	}
}

// SelectList returns [Columns] joined for a SELECT clause
func (t MemberTable) SelectList() string {
	return strings.Join(t.Columns(), ", ")
}
