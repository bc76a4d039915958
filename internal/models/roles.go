package models

// Token roles. Every authenticated request resolves to exactly one of these.
const (
	RoleClient   = "client"
	RoleProvider = "provider"
)
