package user

import "time"

type User struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type RegisterParams struct {
	Name     string
	Email    string
	Password string
}

// AuthResult is returned by both registration and login.
type AuthResult struct {
	User        *User
	AccessToken string
	ExpiresAt   time.Time
}
