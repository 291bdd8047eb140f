// Package models holds the records served by the development API.
package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// User is a registered account.
type User struct {
	ID           string    `json:"_id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Task is a single task owned by a user.
type Task struct {
	ID        string    `json:"_id"`
	UserID    string    `json:"-"`
	Title     string    `json:"title"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Task statuses.
const (
	StatusPending    = "pending"
	StatusInProgress = "in-progress"
	StatusCompleted  = "completed"
)

// ValidTaskStatuses enumerates the accepted status values.
var ValidTaskStatuses = map[string]struct{}{
	StatusPending:    {},
	StatusInProgress: {},
	StatusCompleted:  {},
}

// TaskChanges is a partial task update. Nil fields are left unchanged.
type TaskChanges struct {
	Title  *string
	Status *string
}

// Claims is the JWT payload.
type Claims struct {
	UserID string `json:"userId"`
	jwt.RegisteredClaims
}
