// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"time"

	"taskdash/internal/service"
)

// FakeService is an in-memory implementation of service.Service for testing.
type FakeService struct {
	mu     sync.Mutex
	tasks  []service.Task
	users  map[string]fakeUser // email -> user
	nextID int
	token  string

	// Now stamps CreatedAt on new tasks. Defaults to time.Now.
	Now func() time.Time

	// Error injection for testing
	ListTasksErr  error
	CreateTaskErr error
	UpdateTaskErr error
	DeleteTaskErr error
	LoginErr      error
	RegisterErr   error
	ProfileErr    error

	// Call counters
	ListCalls   int
	CreateCalls int
	UpdateCalls int
	DeleteCalls int

	// Patches records every UpdateTask patch in call order.
	Patches []service.TaskPatch
}

type fakeUser struct {
	user     service.User
	password string
}

// NewFakeService creates an empty FakeService.
func NewFakeService() *FakeService {
	return &FakeService{
		users: make(map[string]fakeUser),
		token: "fake-token",
		Now:   time.Now,
	}
}

// AddTask seeds a task without going through CreateTask.
func (f *FakeService) AddTask(id, title string, status service.Status) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tasks = append(f.tasks, service.Task{ID: id, Title: title, Status: status, CreatedAt: f.Now()})
}

// AddUser seeds an account.
func (f *FakeService) AddUser(name, email, password string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users[strings.ToLower(email)] = fakeUser{
		user:     service.User{ID: "u-" + email, Name: name, Email: email},
		password: password,
	}
}

// Tasks returns a copy of the stored tasks.
func (f *FakeService) Tasks() []service.Task {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]service.Task(nil), f.tasks...)
}

// ListTasks implements service.Service.
func (f *FakeService) ListTasks(ctx context.Context) ([]service.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ListCalls++
	if f.ListTasksErr != nil {
		return nil, f.ListTasksErr
	}
	return append([]service.Task(nil), f.tasks...), nil
}

// CreateTask implements service.Service.
func (f *FakeService) CreateTask(ctx context.Context, title string) (service.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.CreateCalls++
	if f.CreateTaskErr != nil {
		return service.Task{}, f.CreateTaskErr
	}

	f.nextID++
	t := service.Task{
		ID:        "t" + strconv.Itoa(f.nextID),
		Title:     title,
		Status:    service.StatusPending,
		CreatedAt: f.Now(),
	}
	f.tasks = append(f.tasks, t)
	return t, nil
}

// UpdateTask implements service.Service.
func (f *FakeService) UpdateTask(ctx context.Context, id string, patch service.TaskPatch) (service.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.UpdateCalls++
	f.Patches = append(f.Patches, patch)
	if f.UpdateTaskErr != nil {
		return service.Task{}, f.UpdateTaskErr
	}

	i := f.indexOf(id)
	if i < 0 {
		return service.Task{}, notFound()
	}
	if patch.Title != nil {
		f.tasks[i].Title = *patch.Title
	}
	if patch.Status != nil {
		f.tasks[i].Status = *patch.Status
	}
	return f.tasks[i], nil
}

// DeleteTask implements service.Service.
func (f *FakeService) DeleteTask(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.DeleteCalls++
	if f.DeleteTaskErr != nil {
		return f.DeleteTaskErr
	}

	i := f.indexOf(id)
	if i < 0 {
		return notFound()
	}
	f.tasks = append(f.tasks[:i], f.tasks[i+1:]...)
	return nil
}

// Login implements service.Service.
func (f *FakeService) Login(ctx context.Context, email, password string) (service.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.LoginErr != nil {
		return service.Session{}, f.LoginErr
	}
	u, ok := f.users[strings.ToLower(email)]
	if !ok || u.password != password {
		return service.Session{}, &service.APIError{Kind: service.KindAuth, StatusCode: 400, Message: "Invalid credentials"}
	}
	user := u.user
	return service.Session{Token: f.token, User: &user}, nil
}

// Register implements service.Service.
func (f *FakeService) Register(ctx context.Context, name, email, password string) (service.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.RegisterErr != nil {
		return service.Session{}, f.RegisterErr
	}
	key := strings.ToLower(email)
	if _, ok := f.users[key]; ok {
		return service.Session{}, &service.APIError{Kind: service.KindConflict, StatusCode: 409, Message: "Email already registered"}
	}
	u := fakeUser{user: service.User{ID: "u-" + email, Name: name, Email: email}, password: password}
	f.users[key] = u
	user := u.user
	return service.Session{Token: f.token, User: &user}, nil
}

// Profile implements service.Service. It returns the first seeded user.
func (f *FakeService) Profile(ctx context.Context) (service.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.ProfileErr != nil {
		return service.User{}, f.ProfileErr
	}
	for _, u := range f.users {
		return u.user, nil
	}
	return service.User{}, &service.APIError{Kind: service.KindAuth, StatusCode: 401, Message: "unauthorized"}
}

func (f *FakeService) indexOf(id string) int {
	for i, t := range f.tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

func notFound() error {
	return &service.APIError{Kind: service.KindClient, StatusCode: 404, Message: "Task not found"}
}
