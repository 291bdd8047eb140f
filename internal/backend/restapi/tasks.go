package restapi

import (
	"context"
	"net/http"

	"taskdash/internal/service"
)

// ListTasks implements service.Service.
func (c *Client) ListTasks(ctx context.Context) ([]service.Task, error) {
	var resp []wireTask
	if err := c.do(ctx, http.MethodGet, "/tasks", nil, &resp); err != nil {
		return nil, err
	}
	tasks := make([]service.Task, 0, len(resp))
	for _, w := range resp {
		tasks = append(tasks, w.toTask())
	}
	return tasks, nil
}

// CreateTask implements service.Service.
func (c *Client) CreateTask(ctx context.Context, title string) (service.Task, error) {
	var resp wireTask
	if err := c.do(ctx, http.MethodPost, "/tasks", createTaskRequest{Title: title}, &resp); err != nil {
		return service.Task{}, err
	}
	return resp.toTask(), nil
}

// UpdateTask implements service.Service.
func (c *Client) UpdateTask(ctx context.Context, id string, patch service.TaskPatch) (service.Task, error) {
	var resp wireTask
	if err := c.do(ctx, http.MethodPatch, taskPath(id), patch, &resp); err != nil {
		return service.Task{}, err
	}
	return resp.toTask(), nil
}

// DeleteTask implements service.Service.
func (c *Client) DeleteTask(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, taskPath(id), nil, nil)
}
