// Package exitcode defines exit codes for the CLI.
package exitcode

import "taskdash/internal/service"

const (
	// Success indicates successful completion.
	Success = 0

	// UserError indicates a user error (bad args, not found, rejected input).
	UserError = 1

	// AuthError indicates an auth/config error.
	AuthError = 2

	// BackendError indicates a backend/API/network error.
	BackendError = 3
)

// FromError maps a failed operation to an exit code.
func FromError(err error) int {
	if err == nil {
		return Success
	}
	switch service.KindOf(err) {
	case service.KindAuth:
		return AuthError
	case service.KindNetwork, service.KindServer:
		return BackendError
	}
	return UserError
}
