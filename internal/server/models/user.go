package models

// User is a registered account. PasswordHash holds the hasher's encoding
// (hex SHA-256 by default) and is never returned to clients.
type User struct {
	UserID       string `db:"userid"`
	PasswordHash string `db:"password"`
	Email        string `db:"email"`
}

// Credential pairs a userid with a freshly generated plaintext password. It
// only exists in memory and in the reset artifact.
type Credential struct {
	UserID   string
	Password string
}
