package models

import "time"

// User represents an account entity used for authentication and
// capsule ownership.
type User struct {
	// UserID is a UUIDv7 assigned at registration.
	UserID string `json:"id" bson:"_id"`

	// Login is the unique, lower-cased user login.
	Login string `json:"login" bson:"login"`

	// Name is the display name of the user.
	Name string `json:"name" bson:"name"`

	// PasswordHash is the argon2id encoding of the password. It is never
	// serialised to clients.
	PasswordHash string `json:"-" bson:"password_hash"`

	CreatedAt time.Time `json:"createdAt" bson:"created_at"`
}

// TableName returns the name of the database table
// associated with the User model.
func (u User) TableName() string {
	return "users"
}

// Credentials is the login request body.
type Credentials struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

// RegisterInput is the registration request body.
type RegisterInput struct {
	Login    string `json:"login"`
	Password string `json:"password"`
	Name     string `json:"name"`
}
