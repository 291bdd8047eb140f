package restapi

import (
	"bytes"
	"encoding/json"
	"time"

	"taskdash/internal/service"
)

// wireID accepts both string and numeric identifiers.
type wireID string

func (id *wireID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = wireID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*id = wireID(n.String())
	return nil
}

// wireTask is a task as the API sends it. The primary key is "_id"; "id" is
// accepted for servers that expose a plain identifier.
type wireTask struct {
	MongoID   wireID         `json:"_id"`
	ID        wireID         `json:"id"`
	Title     string         `json:"title"`
	Status    service.Status `json:"status"`
	CreatedAt *time.Time     `json:"createdAt"`
}

func (w wireTask) toTask() service.Task {
	t := service.Task{
		ID:     string(w.MongoID),
		Title:  w.Title,
		Status: w.Status,
	}
	if t.ID == "" {
		t.ID = string(w.ID)
	}
	if w.CreatedAt != nil {
		t.CreatedAt = *w.CreatedAt
	}
	return t
}

type wireUser struct {
	MongoID wireID `json:"_id"`
	ID      wireID `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
}

func (w *wireUser) toUser() *service.User {
	if w == nil {
		return nil
	}
	u := &service.User{ID: string(w.MongoID), Name: w.Name, Email: w.Email}
	if u.ID == "" {
		u.ID = string(w.ID)
	}
	return u
}

type sessionResponse struct {
	Token string    `json:"token"`
	User  *wireUser `json:"user"`
}

// profileResponse accepts a bare user object or a {"user": {...}} envelope.
type profileResponse struct {
	wireUser
	User *wireUser `json:"user"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type signupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type createTaskRequest struct {
	Title string `json:"title"`
}
