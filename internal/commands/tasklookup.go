package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"taskdash/internal/dashboard"
	"taskdash/internal/exitcode"
	"taskdash/internal/service"
)

// connect builds the backend, reporting failures.
func connect(ctx context.Context, env *Env) (service.Service, int) {
	svc, err := env.Connect(ctx)
	if err != nil {
		fmt.Fprintf(env.Err, "error: %s\n", err)
		if service.KindOf(err) == service.KindUnknown {
			return nil, exitcode.AuthError
		}
		return nil, exitcode.FromError(err)
	}
	return svc, exitcode.Success
}

// loadDashboard connects and fetches the task list.
func loadDashboard(ctx context.Context, env *Env) (*dashboard.Controller, int) {
	svc, code := connect(ctx, env)
	if code != exitcode.Success {
		return nil, code
	}
	ctrl := dashboardFor(svc, env)
	if err := ctrl.Fetch(ctx); err != nil {
		return nil, reportFailure(env, ctrl, err)
	}
	return ctrl, exitcode.Success
}

func dashboardFor(svc service.TaskService, env *Env) *dashboard.Controller {
	return dashboard.New(svc, env.Logger)
}

// lookupTask loads the dashboard and resolves a task reference against it.
func lookupTask(ctx context.Context, env *Env, arg string) (*dashboard.Controller, service.Task, int) {
	ref, err := ParseTaskRef(arg)
	if err != nil {
		fmt.Fprintf(env.Err, "error: %v\n", err)
		return nil, service.Task{}, exitcode.UserError
	}

	ctrl, code := loadDashboard(ctx, env)
	if code != exitcode.Success {
		return nil, service.Task{}, code
	}

	task, err := ref.Resolve(ctrl.Snapshot().Tasks)
	if err != nil {
		fmt.Fprintf(env.Err, "error: %v\n", err)
		return nil, service.Task{}, exitcode.UserError
	}
	return ctrl, task, exitcode.Success
}

// reportFailure prints the controller's message for a failed operation.
// Local guard errors are printed as they are.
func reportFailure(env *Env, ctrl *dashboard.Controller, err error) int {
	switch {
	case errors.Is(err, dashboard.ErrEmptyTitle),
		errors.Is(err, dashboard.ErrInvalidStatus),
		errors.Is(err, dashboard.ErrNotEditing):
		fmt.Fprintf(env.Err, "error: %v\n", err)
		return exitcode.UserError
	}

	msg := ctrl.Snapshot().Err
	if msg == "" {
		msg = err.Error()
	}
	env.Logger.Debug("operation failed", slog.String("error", err.Error()))
	fmt.Fprintf(env.Err, "error: %s\n", msg)
	return exitcode.FromError(err)
}

// ok prints the success marker unless quiet.
func ok(env *Env) int {
	if !env.Config.Quiet {
		fmt.Fprintln(env.Out, "ok")
	}
	return exitcode.Success
}
