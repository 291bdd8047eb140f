package session

import "sync"

// LoginPath is the login entry point a session-expired navigation targets.
const LoginPath = "/login"

// Navigator moves the user to another view.
type Navigator interface {
	NavigateTo(path string)
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(path string)

// NavigateTo implements Navigator.
func (f NavigatorFunc) NavigateTo(path string) { f(path) }

// Relay forwards navigation to a target that can be swapped while the
// program runs, e.g. when the interactive dashboard takes over the terminal.
type Relay struct {
	mu     sync.Mutex
	target Navigator
}

// NewRelay returns a relay forwarding to target.
func NewRelay(target Navigator) *Relay {
	return &Relay{target: target}
}

// Swap replaces the target and returns the previous one.
func (r *Relay) Swap(target Navigator) Navigator {
	r.mu.Lock()
	defer r.mu.Unlock()
	prev := r.target
	r.target = target
	return prev
}

// NavigateTo implements Navigator. It is a no-op without a target.
func (r *Relay) NavigateTo(path string) {
	r.mu.Lock()
	target := r.target
	r.mu.Unlock()
	if target != nil {
		target.NavigateTo(path)
	}
}
