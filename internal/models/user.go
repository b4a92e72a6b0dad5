package models

import (
	"strings"
	"time"
)

// Password is never serialized. IsHashed guards against storing plaintext.
type Password struct {
	Hash     string `json:"-"`
	IsHashed bool   `json:"-"`
}

type User struct {
	ID             string    `json:"_id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	Password       Password  `json:"-"`
	IsActivated    bool      `json:"isActivated"`
	ProfilePicture *string   `json:"profilePicture"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// UserSummary is the public shape returned by the auth endpoints.
type UserSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email"`
}

func (u User) Summary() UserSummary {
	return UserSummary{ID: u.ID, Name: u.Name, Email: u.Email}
}

// Public drops the credential so the value can leave the service layer.
func (u User) Public() User {
	u.Password = Password{}
	return u
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
