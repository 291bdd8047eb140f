package service

import "context"

// AuthService covers the account endpoints.
type AuthService interface {
	// Login exchanges credentials for a session.
	Login(ctx context.Context, email, password string) (Session, error)

	// Register creates an account and returns its session.
	Register(ctx context.Context, name, email, password string) (Session, error)

	// Profile returns the user the stored token belongs to.
	Profile(ctx context.Context) (User, error)
}

// TaskService covers the task endpoints.
// Every method returns the server's canonical record where one exists.
type TaskService interface {
	// ListTasks returns the user's tasks in server order.
	ListTasks(ctx context.Context) ([]Task, error)

	// CreateTask creates a task with the given title.
	CreateTask(ctx context.Context, title string) (Task, error)

	// UpdateTask applies a partial update and returns the full task.
	UpdateTask(ctx context.Context, id string, patch TaskPatch) (Task, error)

	// DeleteTask removes a task.
	DeleteTask(ctx context.Context, id string) error
}

// Service defines the interface for task backend operations.
// Commands and the dashboard never import a backend directly.
type Service interface {
	AuthService
	TaskService
}
