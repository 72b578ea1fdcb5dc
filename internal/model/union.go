package model

import "time"

// Union represents a tenant: an isolated raid group with its own seasons,
// members and battle records.  Every domain row in the system is owned,
// directly or through its season, by exactly one union.  The two password
// hashes implement the shared-secret login model: one secret for admins,
// one for regular members.
//
// Fields:
//  ID            – primary key identifier.
//  Name          – unique union name used at login.
//  UserPassword  – bcrypt hash of the member-level shared secret.
//  AdminPassword – bcrypt hash of the admin-level shared secret.
//  IsActive      – inactive unions cannot log in.
//  CreatedAt     – timestamp when the union was created.
//  SeasonCount   – number of seasons the union owns; filled by the admin
//                  list query only.
//  MemberCount   – live members across all of the union's seasons; filled
//                  by the admin list query only.
type Union struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	UserPassword  string    `json:"-"` // hash, never serialized
	AdminPassword string    `json:"-"` // hash, never serialized
	IsActive      bool      `json:"is_active"`
	CreatedAt     time.Time `json:"created_at"`
	SeasonCount   int64     `json:"seasonCount"`
	MemberCount   int64     `json:"memberCount"`
}
