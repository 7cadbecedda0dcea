package model

import "time"

// Roles recognised by the system.  The role string is embedded in the JWT
// "role" claim at login and checked by the RequireRole middleware as well
// as the workflow layer (transition authority depends on the actor role
// and the job type).
const (
	RoleApplicant = "Applicant"
	RoleAdmin     = "Admin"
	RoleBotMimic  = "Bot Mimic"
)

// User represents an account record as stored in the `users` table.
// Passwords are stored as bcrypt hashes and never serialized in API
// responses.
//
// Fields:
//  ID           – primary key identifier (assigned from the users counter).
//  Email        – unique email address, lower-cased on write.
//  PasswordHash – bcrypt hashed password.
//  Name         – display name.
//  Role         – one of Applicant, Admin or "Bot Mimic".
//  CreatedAt    – timestamp of creation.
type User struct {
	ID           uint64    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Name         string    `json:"name"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
}

// RefreshToken models an entry in the `refresh_tokens` table.  The plain
// token is never stored; only its SHA-256 hash.
type RefreshToken struct {
	ID        uint64
	UserID    uint64
	TokenHash string
	ExpiresAt time.Time
	RevokedAt *time.Time
	CreatedAt time.Time
}
